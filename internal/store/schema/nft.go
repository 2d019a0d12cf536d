package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/openmint-xyz/openmint/internal/domain"
)

// NFT represents the nfts table - one row per minted token, mirroring ledger
// state. The ledger is the source of truth; this record is a cache keyed by
// (contract_address, token_number) and is never deleted.
type NFT struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenNumber is the token ID within the contract (string to support very large numbers)
	TokenNumber string `gorm:"column:token_number;not null;type:text;uniqueIndex:uq_nfts_contract_token,priority:2"`
	// ContractAddress is the blockchain address of the minting contract
	ContractAddress string `gorm:"column:contract_address;not null;type:text;uniqueIndex:uq_nfts_contract_token,priority:1"`
	// CreatorID references the user who minted the token
	CreatorID uint64 `gorm:"column:creator_id;not null;index"`
	// CurrentOwner is the cached owner address (lowercase). The ledger wins
	// on disagreement.
	CurrentOwner string `gorm:"column:current_owner;not null;type:text;index"`
	// Name is the token name from its metadata
	Name string `gorm:"column:name;not null;type:text;index"`
	// Description is the token description from its metadata
	Description string `gorm:"column:description;type:text"`
	// Image is the token image reference (usually an ipfs:// URI)
	Image string `gorm:"column:image;not null;type:text"`
	// ExternalURL is an optional external link from the metadata
	ExternalURL string `gorm:"column:external_url;type:text"`
	// Attributes holds the metadata attribute list as JSON
	Attributes datatypes.JSON `gorm:"column:attributes;type:jsonb"`
	// Properties holds the metadata properties object as JSON
	Properties datatypes.JSON `gorm:"column:properties;type:jsonb"`
	// IPFSHash is the content hash of the pinned metadata blob
	IPFSHash string `gorm:"column:ipfs_hash;not null;uniqueIndex;type:text"`
	// ImageIPFSHash is the content hash of the pinned image
	ImageIPFSHash string `gorm:"column:image_ipfs_hash;not null;type:text"`
	// Category classifies the token (art, photography, music, ...)
	Category domain.Category `gorm:"column:category;not null;default:art;type:text;index"`
	// Tags holds free-form tags as a JSON array
	Tags datatypes.JSON `gorm:"column:tags;type:jsonb"`
	// Views counts detail-page reads (fire-and-forget increment)
	Views uint64 `gorm:"column:views;not null;default:0"`
	// Likes counts favorite toggles
	Likes uint64 `gorm:"column:likes;not null;default:0"`
	// Shares counts share actions reported by the client
	Shares uint64 `gorm:"column:shares;not null;default:0"`
	// IsVerified indicates a curated token
	IsVerified bool `gorm:"column:is_verified;not null;default:false"`
	// IsFeatured indicates a token featured on the landing page
	IsFeatured bool `gorm:"column:is_featured;not null;default:false"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz;index"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Creator          *User            `gorm:"foreignKey:CreatorID"`
	OwnershipEntries []OwnershipEntry `gorm:"foreignKey:NFTID;constraint:OnDelete:CASCADE"`
	Events           []NFTEvent       `gorm:"foreignKey:NFTID;constraint:OnDelete:CASCADE"`
	Transactions     []Transaction    `gorm:"foreignKey:NFTID"`
}

// TableName specifies the table name for the NFT model
func (NFT) TableName() string {
	return "nfts"
}

// OwnershipEntry is one append-only row of an NFT's ownership history
type OwnershipEntry struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// NFTID references the NFT this entry belongs to
	NFTID uint64 `gorm:"column:nft_id;not null;index"`
	// Owner is the address that held the token as of this entry (lowercase)
	Owner string `gorm:"column:owner;not null;type:text;index"`
	// TxHash is the ledger transaction that produced this entry
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
	// Price is the optional sale price associated with this entry
	Price *string `gorm:"column:price;type:text"`
	// Timestamp is when the entry was recorded
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
}

// TableName specifies the table name for the OwnershipEntry model
func (OwnershipEntry) TableName() string {
	return "ownership_entries"
}

// NFTEvent is one append-only row of an NFT's transaction history
type NFTEvent struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// NFTID references the NFT this event belongs to
	NFTID uint64 `gorm:"column:nft_id;not null;index"`
	// FromAddress is the sender (zero address for mints)
	FromAddress string `gorm:"column:from_address;not null;type:text"`
	// ToAddress is the recipient
	ToAddress string `gorm:"column:to_address;not null;type:text"`
	// Kind is the event kind (mint, transfer, sale, list, delist)
	Kind domain.EventKind `gorm:"column:kind;not null;type:text"`
	// TxHash is the ledger transaction that produced this event
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
	// Price is the optional price associated with this event
	Price *string `gorm:"column:price;type:text"`
	// Currency is the currency of Price
	Currency *string `gorm:"column:currency;type:text"`
	// Timestamp is when the event was recorded
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
}

// TableName specifies the table name for the NFTEvent model
func (NFTEvent) TableName() string {
	return "nft_events"
}
