package domain

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroAddress is the Ethereum zero address, used as the "from" side of mint events.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Role represents a user's role tag
type Role string

const (
	RoleUser    Role = "user"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

// IsValidRole checks if a role is one of the known role tags
func IsValidRole(role Role) bool {
	return role == RoleUser || role == RoleCreator || role == RoleAdmin
}

// EventKind represents the kind of a recorded NFT event
type EventKind string

const (
	EventKindMint     EventKind = "mint"
	EventKindTransfer EventKind = "transfer"
	EventKindSale     EventKind = "sale"
	EventKindList     EventKind = "list"
	EventKindDelist   EventKind = "delist"
)

// TxType represents the type of a recorded ledger transaction
type TxType string

const (
	TxTypeMint     TxType = "mint"
	TxTypeTransfer TxType = "transfer"
	TxTypeSale     TxType = "sale"
	TxTypeBurn     TxType = "burn"
)

// TxStatus represents the status of a recorded ledger transaction.
// Transitions are one-way: pending -> confirmed | failed.
type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusConfirmed TxStatus = "confirmed"
	TxStatusFailed    TxStatus = "failed"
)

// Category represents an NFT category
type Category string

const (
	CategoryArt         Category = "art"
	CategoryPhotography Category = "photography"
	CategoryMusic       Category = "music"
	CategoryVideo       Category = "video"
	CategoryCollectible Category = "collectible"
	CategoryUtility     Category = "utility"
	CategoryOther       Category = "other"
)

// IsValidCategory checks if a category is one of the known categories
func IsValidCategory(category Category) bool {
	switch category {
	case CategoryArt, CategoryPhotography, CategoryMusic, CategoryVideo,
		CategoryCollectible, CategoryUtility, CategoryOther:
		return true
	}
	return false
}

var (
	tokenNumberRe = regexp.MustCompile(`^[0-9]+$`)
	txHashRe      = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
)

// IsEthereumAddress checks if an address is a valid hex Ethereum address
func IsEthereumAddress(address string) bool {
	return common.IsHexAddress(address)
}

// IsTxHash checks if a string looks like a 32-byte hex transaction hash
func IsTxHash(hash string) bool {
	return txHashRe.MatchString(hash)
}

// ValidTokenNumber checks if a token number is a non-empty digit string
func ValidTokenNumber(tokenNumber string) bool {
	return tokenNumberRe.MatchString(tokenNumber)
}

// NormalizeAddress lowercases an Ethereum address. All addresses are stored
// and compared lowercase; the checksummed form is only for display.
func NormalizeAddress(address string) string {
	return strings.ToLower(address)
}

// SameAddress compares two addresses case-insensitively
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// TransferEventKind derives the event kind from the from/to addresses
func TransferEventKind(from, to string) EventKind {
	if from == "" || SameAddress(from, ZeroAddress) {
		return EventKindMint
	}
	return EventKindTransfer
}
