package schema

import (
	"time"

	"github.com/openmint-xyz/openmint/internal/domain"
)

// Transaction represents the transactions table - one row per ledger
// transaction the API has been told about, keyed by transaction hash.
// Status transitions are one-way toward confirmed or failed.
type Transaction struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TxHash is the ledger transaction hash (unique key)
	TxHash string `gorm:"column:tx_hash;not null;uniqueIndex;type:text"`
	// FromAddress is the sender (lowercase, zero address for mints)
	FromAddress string `gorm:"column:from_address;not null;type:text;index:idx_transactions_from_created,priority:1"`
	// ToAddress is the recipient (lowercase)
	ToAddress string `gorm:"column:to_address;not null;type:text;index:idx_transactions_to_created,priority:1"`
	// TokenNumber is the token involved in the transaction
	TokenNumber string `gorm:"column:token_number;not null;type:text"`
	// ContractAddress is the contract involved in the transaction
	ContractAddress string `gorm:"column:contract_address;not null;type:text"`
	// NFTID references the mirrored NFT record, when one exists
	NFTID *uint64 `gorm:"column:nft_id;index"`
	// Type is the transaction type (mint, transfer, sale, burn)
	Type domain.TxType `gorm:"column:type;not null;type:text"`
	// Value is the transferred amount as a decimal string
	Value string `gorm:"column:value;not null;default:'0';type:text"`
	// Currency is the currency of Value
	Currency string `gorm:"column:currency;not null;default:'ETH';type:text"`
	// GasUsed is the gas consumed, when reported
	GasUsed *string `gorm:"column:gas_used;type:text"`
	// GasPrice is the effective gas price, when reported
	GasPrice *string `gorm:"column:gas_price;type:text"`
	// BlockNumber is the block the transaction was mined in, when reported
	BlockNumber *uint64 `gorm:"column:block_number"`
	// BlockTimestamp is the mined block's timestamp, when reported
	BlockTimestamp *time.Time `gorm:"column:block_timestamp;type:timestamptz"`
	// Status is the transaction status (pending, confirmed, failed)
	Status domain.TxStatus `gorm:"column:status;not null;default:pending;type:text"`
	// Confirmations is the confirmation count reported by the client
	Confirmations uint64 `gorm:"column:confirmations;not null;default:0"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz;index:idx_transactions_from_created,priority:2;index:idx_transactions_to_created,priority:2"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
