package dto

import (
	"encoding/json"
	"time"

	"github.com/openmint-xyz/openmint/internal/domain"
	"github.com/openmint-xyz/openmint/internal/store/schema"
)

// UserResponse is the API view of a user
type UserResponse struct {
	ID            uint64          `json:"id"`
	WalletAddress string          `json:"walletAddress"`
	Username      *string         `json:"username,omitempty"`
	Email         *string         `json:"email,omitempty"`
	Profile       *schema.Profile `json:"profile,omitempty"`
	Role          domain.Role     `json:"role"`
	IsVerified    bool            `json:"isVerified"`
	LastLogin     *time.Time      `json:"lastLogin,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// MapUserToDTO maps a user record to its API view
func MapUserToDTO(user *schema.User) *UserResponse {
	resp := &UserResponse{
		ID:            user.ID,
		WalletAddress: user.WalletAddress,
		Username:      user.Username,
		Email:         user.Email,
		Role:          user.Role,
		IsVerified:    user.IsVerified,
		LastLogin:     user.LastLogin,
		CreatedAt:     user.CreatedAt,
	}

	if len(user.Profile) > 0 {
		var profile schema.Profile
		if err := json.Unmarshal(user.Profile, &profile); err == nil {
			resp.Profile = &profile
		}
	}

	return resp
}

// NonceResponse carries a fresh authentication challenge nonce
type NonceResponse struct {
	Nonce string `json:"nonce"`
}

// AuthResponse carries a session token and the authenticated user
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// NFTStats groups the engagement counters of a token
type NFTStats struct {
	Views  uint64 `json:"views"`
	Likes  uint64 `json:"likes"`
	Shares uint64 `json:"shares"`
}

// NFTResponse is the API view of a mirrored token
type NFTResponse struct {
	ID              uint64          `json:"id"`
	TokenID         string          `json:"tokenId"`
	ContractAddress string          `json:"contractAddress"`
	CurrentOwner    string          `json:"currentOwner"`
	Creator         *UserResponse   `json:"creator,omitempty"`
	Metadata        NFTMetadata     `json:"metadata"`
	IPFSHash        string          `json:"ipfsHash"`
	ImageIPFSHash   string          `json:"imageIpfsHash"`
	Category        domain.Category `json:"category"`
	Tags            []string        `json:"tags"`
	Stats           NFTStats        `json:"stats"`
	IsVerified      bool            `json:"isVerified"`
	IsFeatured      bool            `json:"isFeatured"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// MapNFTToDTO maps an NFT record to its API view
func MapNFTToDTO(nft *schema.NFT) *NFTResponse {
	resp := &NFTResponse{
		ID:              nft.ID,
		TokenID:         nft.TokenNumber,
		ContractAddress: nft.ContractAddress,
		CurrentOwner:    nft.CurrentOwner,
		Metadata: NFTMetadata{
			Name:        nft.Name,
			Description: nft.Description,
			Image:       nft.Image,
			ExternalURL: nft.ExternalURL,
		},
		IPFSHash:      nft.IPFSHash,
		ImageIPFSHash: nft.ImageIPFSHash,
		Category:      nft.Category,
		Tags:          []string{},
		Stats: NFTStats{
			Views:  nft.Views,
			Likes:  nft.Likes,
			Shares: nft.Shares,
		},
		IsVerified: nft.IsVerified,
		IsFeatured: nft.IsFeatured,
		CreatedAt:  nft.CreatedAt,
		UpdatedAt:  nft.UpdatedAt,
	}

	if len(nft.Attributes) > 0 {
		var attributes []NFTAttribute
		if err := json.Unmarshal(nft.Attributes, &attributes); err == nil {
			resp.Metadata.Attributes = attributes
		}
	}
	if len(nft.Properties) > 0 {
		var properties map[string]interface{}
		if err := json.Unmarshal(nft.Properties, &properties); err == nil {
			resp.Metadata.Properties = properties
		}
	}
	if len(nft.Tags) > 0 {
		var tags []string
		if err := json.Unmarshal(nft.Tags, &tags); err == nil {
			resp.Tags = tags
		}
	}

	if nft.Creator != nil {
		resp.Creator = MapUserToDTO(nft.Creator)
	}

	return resp
}

// OwnershipEntryResponse is one row of a token's mirrored ownership history
type OwnershipEntryResponse struct {
	Owner     string    `json:"owner"`
	TxHash    string    `json:"txHash"`
	Price     *string   `json:"price,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// MapOwnershipEntriesToDTO maps ownership history rows to their API view
func MapOwnershipEntriesToDTO(entries []schema.OwnershipEntry) []OwnershipEntryResponse {
	result := make([]OwnershipEntryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, OwnershipEntryResponse{
			Owner:     entry.Owner,
			TxHash:    entry.TxHash,
			Price:     entry.Price,
			Timestamp: entry.Timestamp,
		})
	}
	return result
}

// NFTEventResponse is one row of a token's mirrored event history
type NFTEventResponse struct {
	From      string           `json:"from"`
	To        string           `json:"to"`
	Kind      domain.EventKind `json:"kind"`
	TxHash    string           `json:"txHash"`
	Price     *string          `json:"price,omitempty"`
	Currency  *string          `json:"currency,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// MapNFTEventsToDTO maps event history rows to their API view
func MapNFTEventsToDTO(events []schema.NFTEvent) []NFTEventResponse {
	result := make([]NFTEventResponse, 0, len(events))
	for _, event := range events {
		result = append(result, NFTEventResponse{
			From:      event.FromAddress,
			To:        event.ToAddress,
			Kind:      event.Kind,
			TxHash:    event.TxHash,
			Price:     event.Price,
			Currency:  event.Currency,
			Timestamp: event.Timestamp,
		})
	}
	return result
}

// OnChainData is the live ledger view attached to a token detail read. Fields
// are nil when the corresponding ledger read failed; the mirrored record is
// still served.
type OnChainData struct {
	TokenURI         *string  `json:"tokenURI,omitempty"`
	CurrentOwner     *string  `json:"currentOwner,omitempty"`
	OwnershipHistory []string `json:"ownershipHistory,omitempty"`
}

// NFTDetailResponse is the API view of a single token: the mirrored record
// plus its histories and a live ledger snapshot
type NFTDetailResponse struct {
	*NFTResponse
	OwnershipHistory []OwnershipEntryResponse `json:"ownershipHistory"`
	Events           []NFTEventResponse       `json:"events"`
	OnChainData      *OnChainData             `json:"onChainData,omitempty"`
}

// NFTListResponse is a paginated token listing
type NFTListResponse struct {
	NFTs        []*NFTResponse `json:"nfts"`
	Total       uint64         `json:"total"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
}

// MapNFTListToDTO maps a page of NFT records to a paginated listing
func MapNFTListToDTO(nfts []*schema.NFT, total uint64, page, limit int) *NFTListResponse {
	items := make([]*NFTResponse, 0, len(nfts))
	for _, nft := range nfts {
		items = append(items, MapNFTToDTO(nft))
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int((total + uint64(limit) - 1) / uint64(limit)) //nolint:gosec,G115
	}

	return &NFTListResponse{
		NFTs:        items,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	}
}

// TransactionResponse is the API view of a recorded ledger transaction
type TransactionResponse struct {
	TxHash          string          `json:"txHash"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	TokenID         string          `json:"tokenId"`
	ContractAddress string          `json:"contractAddress"`
	Type            domain.TxType   `json:"type"`
	Value           string          `json:"value"`
	Currency        string          `json:"currency"`
	BlockNumber     *uint64         `json:"blockNumber,omitempty"`
	Status          domain.TxStatus `json:"status"`
	Confirmations   uint64          `json:"confirmations"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// MapTransactionToDTO maps a transaction record to its API view
func MapTransactionToDTO(tx *schema.Transaction) *TransactionResponse {
	return &TransactionResponse{
		TxHash:          tx.TxHash,
		From:            tx.FromAddress,
		To:              tx.ToAddress,
		TokenID:         tx.TokenNumber,
		ContractAddress: tx.ContractAddress,
		Type:            tx.Type,
		Value:           tx.Value,
		Currency:        tx.Currency,
		BlockNumber:     tx.BlockNumber,
		Status:          tx.Status,
		Confirmations:   tx.Confirmations,
		CreatedAt:       tx.CreatedAt,
	}
}

// MapTransactionsToDTO maps transaction records to their API view
func MapTransactionsToDTO(txs []schema.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, 0, len(txs))
	for i := range txs {
		result = append(result, MapTransactionToDTO(&txs[i]))
	}
	return result
}

// TransactionListResponse is a paginated transaction listing
type TransactionListResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        uint64                 `json:"total"`
}

// ContractInfoResponse is the live admin view of the minting contract
type ContractInfoResponse struct {
	ContractAddress string `json:"contractAddress"`
	ChainID         int64  `json:"chainId"`
	MintPrice       string `json:"mintPrice"`
	MintingPaused   bool   `json:"mintingPaused"`
}

// PinResponse is the API view of a successful pin
type PinResponse struct {
	IPFSHash  string `json:"ipfsHash"`
	PinSize   int64  `json:"pinSize"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
}
