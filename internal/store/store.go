package store

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/openmint-xyz/openmint/internal/domain"
	"github.com/openmint-xyz/openmint/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetUserByWallet retrieves a user by wallet address (lowercase)
	GetUserByWallet(ctx context.Context, walletAddress string) (*schema.User, error)
	// GetUserByID retrieves a user by internal ID
	GetUserByID(ctx context.Context, id uint64) (*schema.User, error)
	// GetUserByUsername retrieves a user by username
	GetUserByUsername(ctx context.Context, username string) (*schema.User, error)
	// CreateUser creates a new user record
	CreateUser(ctx context.Context, user *schema.User) error
	// UpdateUserLogin rotates the user's nonce and stamps last_login after a
	// successful authentication
	UpdateUserLogin(ctx context.Context, userID uint64, nonce string, loginAt time.Time) error
	// UpdateUserProfile updates the mutable profile fields of a user
	UpdateUserProfile(ctx context.Context, userID uint64, update UserProfileUpdate) (*schema.User, error)

	// GetNFTByID retrieves an NFT by internal ID with its creator preloaded
	GetNFTByID(ctx context.Context, id uint64) (*schema.NFT, error)
	// GetNFTByContractToken retrieves an NFT by (contract_address, token_number)
	GetNFTByContractToken(ctx context.Context, contractAddress, tokenNumber string) (*schema.NFT, error)
	// GetNFTsByTokenNumbers retrieves NFTs of a contract by token numbers,
	// mapped by token number
	GetNFTsByTokenNumbers(ctx context.Context, contractAddress string, tokenNumbers []string) (map[string]*schema.NFT, error)
	// CreateNFTMint creates the NFT record with its seeded ownership history,
	// mint event and confirmed transaction row in a single transaction.
	// Returns domain.ErrNFTAlreadyExists when (contract_address, token_number)
	// is already mirrored.
	CreateNFTMint(ctx context.Context, input CreateNFTMintInput) (*schema.NFT, error)
	// RecordTransfer updates the cached owner and appends the ownership entry,
	// transfer event and transaction row in a single transaction. Returns
	// domain.ErrNotOwner when the cached owner no longer matches
	// input.FromAddress at commit time.
	RecordTransfer(ctx context.Context, input RecordTransferInput) (*schema.NFT, error)
	// UpdateNFT updates the mutable off-chain fields of an NFT record
	UpdateNFT(ctx context.Context, nftID uint64, update NFTUpdate) (*schema.NFT, error)
	// ListNFTs retrieves NFTs matching the filter with the total match count
	ListNFTs(ctx context.Context, filter NFTQueryFilter) ([]*schema.NFT, uint64, error)
	// GetOwnershipEntries retrieves the ownership history of an NFT, oldest first
	GetOwnershipEntries(ctx context.Context, nftID uint64) ([]schema.OwnershipEntry, error)
	// GetNFTEvents retrieves the event history of an NFT, newest first
	GetNFTEvents(ctx context.Context, nftID uint64, limit int, offset uint64) ([]schema.NFTEvent, uint64, error)
	// IncrementViewCount bumps the view counter of an NFT
	IncrementViewCount(ctx context.Context, nftID uint64) error

	// GetTransactionByHash retrieves a transaction by its hash
	GetTransactionByHash(ctx context.Context, txHash string) (*schema.Transaction, error)
	// GetTransactionsByAddress retrieves transactions involving an address,
	// newest first
	GetTransactionsByAddress(ctx context.Context, address string, limit int, offset uint64) ([]schema.Transaction, uint64, error)
	// GetTransactionsByNFT retrieves transactions for an NFT, newest first
	GetTransactionsByNFT(ctx context.Context, nftID uint64, limit int, offset uint64) ([]schema.Transaction, uint64, error)
	// UpdateTransactionStatus moves a transaction along pending -> confirmed/failed
	UpdateTransactionStatus(ctx context.Context, txHash string, status domain.TxStatus, blockNumber *uint64, confirmations uint64) error
}

// UserProfileUpdate holds the updatable fields of a user. Nil fields are
// left untouched.
type UserProfileUpdate struct {
	Username *string
	Email    *string
	Profile  *schema.Profile
}

// NFTUpdate holds the updatable off-chain fields of an NFT. Nil fields are
// left untouched.
type NFTUpdate struct {
	Description *string
	ExternalURL *string
	Category    *domain.Category
	Tags        *datatypes.JSON
}

// CreateNFTMintInput holds the data for creating an NFT with its initial
// history
type CreateNFTMintInput struct {
	NFT         schema.NFT
	MintTxHash  string
	MintedAt    time.Time
	BlockNumber *uint64
}

// RecordTransferInput holds the data for recording an ownership change
type RecordTransferInput struct {
	NFTID       uint64
	FromAddress string
	ToAddress   string
	TxHash      string
	Price       *string
	Currency    *string
	TransferAt  time.Time
}

// NFTSort names a whitelisted sort order for NFT listings
type NFTSort string

const (
	NFTSortNewest     NFTSort = "newest"
	NFTSortOldest     NFTSort = "oldest"
	NFTSortMostViewed NFTSort = "most_viewed"
	NFTSortMostLiked  NFTSort = "most_liked"
)

// NFTQueryFilter holds filters for NFT listings
type NFTQueryFilter struct {
	Owner     string
	CreatorID uint64
	Category  domain.Category
	Search    string
	Featured  *bool
	Verified  *bool
	Sort      NFTSort
	Limit     int
	Offset    uint64
}
