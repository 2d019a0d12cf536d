package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openmint-xyz/openmint/internal/domain"
	"github.com/openmint-xyz/openmint/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// AutoMigrate creates or updates the database schema
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.User{},
		&schema.NFT{},
		&schema.OwnershipEntry{},
		&schema.NFTEvent{},
		&schema.Transaction{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	// Set defaults if not provided
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// GetUserByWallet retrieves a user by wallet address (lowercase)
func (s *pgStore) GetUserByWallet(ctx context.Context, walletAddress string) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).Where("wallet_address = ?", walletAddress).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by internal ID
func (s *pgStore) GetUserByID(ctx context.Context, id uint64) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (s *pgStore) GetUserByUsername(ctx context.Context, username string) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// CreateUser creates a new user record
func (s *pgStore) CreateUser(ctx context.Context, user *schema.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUserLogin rotates the user's nonce and stamps last_login after a
// successful authentication
func (s *pgStore) UpdateUserLogin(ctx context.Context, userID uint64, nonce string, loginAt time.Time) error {
	result := s.db.WithContext(ctx).Model(&schema.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"nonce":      nonce,
			"last_login": loginAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update user login: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateUserProfile updates the mutable profile fields of a user
func (s *pgStore) UpdateUserProfile(ctx context.Context, userID uint64, update UserProfileUpdate) (*schema.User, error) {
	updates := map[string]interface{}{}
	if update.Username != nil {
		updates["username"] = *update.Username
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.Profile != nil {
		profileJSON, err := json.Marshal(update.Profile)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profile: %w", err)
		}
		updates["profile"] = profileJSON
	}

	var user schema.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			result := tx.Model(&schema.User{}).Where("id = ?", userID).Updates(updates)
			if result.Error != nil {
				if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
					return classifyUserConflict(result.Error, update)
				}
				return fmt.Errorf("failed to update user profile: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return domain.ErrUserNotFound
			}
		}

		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("failed to reload user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// classifyUserConflict maps a unique violation on the users table to the
// matching domain error based on which fields were being written
func classifyUserConflict(err error, update UserProfileUpdate) error {
	msg := err.Error()
	switch {
	case update.Username != nil && containsFold(msg, "username"):
		return domain.ErrUsernameTaken
	case update.Email != nil && containsFold(msg, "email"):
		return domain.ErrEmailTaken
	case update.Username != nil:
		return domain.ErrUsernameTaken
	case update.Email != nil:
		return domain.ErrEmailTaken
	default:
		return fmt.Errorf("failed to update user profile: %w", err)
	}
}

// GetNFTByID retrieves an NFT by internal ID with its creator preloaded
func (s *pgStore) GetNFTByID(ctx context.Context, id uint64) (*schema.NFT, error) {
	var nft schema.NFT
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Where("id = ?", id).
		First(&nft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get NFT: %w", err)
	}
	return &nft, nil
}

// GetNFTByContractToken retrieves an NFT by (contract_address, token_number)
func (s *pgStore) GetNFTByContractToken(ctx context.Context, contractAddress, tokenNumber string) (*schema.NFT, error) {
	var nft schema.NFT
	err := s.db.WithContext(ctx).
		Where("contract_address = ? AND token_number = ?", contractAddress, tokenNumber).
		First(&nft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get NFT: %w", err)
	}
	return &nft, nil
}

// GetNFTsByTokenNumbers retrieves NFTs of a contract by token numbers
func (s *pgStore) GetNFTsByTokenNumbers(ctx context.Context, contractAddress string, tokenNumbers []string) (map[string]*schema.NFT, error) {
	if len(tokenNumbers) == 0 {
		return make(map[string]*schema.NFT), nil
	}

	var nfts []schema.NFT
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Where("contract_address = ? AND token_number IN ?", contractAddress, tokenNumbers).
		Find(&nfts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get NFTs by token numbers: %w", err)
	}

	result := make(map[string]*schema.NFT, len(nfts))
	for i := range nfts {
		result[nfts[i].TokenNumber] = &nfts[i]
	}
	return result, nil
}

// CreateNFTMint creates the NFT record with its seeded ownership history,
// mint event and confirmed transaction row in a single transaction
func (s *pgStore) CreateNFTMint(ctx context.Context, input CreateNFTMintInput) (*schema.NFT, error) {
	nft := input.NFT

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Use ON CONFLICT DO NOTHING on (contract_address, token_number) so a
		// concurrent mint of the same token loses cleanly instead of erroring
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contract_address"}, {Name: "token_number"}},
			DoNothing: true,
		}).Clauses(clause.Returning{Columns: []clause.Column{}}).
			Create(&nft).Error; err != nil {
			return fmt.Errorf("failed to create NFT: %w", err)
		}

		// ID == 0 means the row already existed
		if nft.ID == 0 {
			return domain.ErrNFTAlreadyExists
		}

		// Seed the ownership history with the minter only; the
		// zero-address transition lives in the event and transaction rows
		entry := schema.OwnershipEntry{
			NFTID:     nft.ID,
			Owner:     nft.CurrentOwner,
			TxHash:    input.MintTxHash,
			Timestamp: input.MintedAt,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to seed ownership history: %w", err)
		}

		event := schema.NFTEvent{
			NFTID:       nft.ID,
			FromAddress: domain.ZeroAddress,
			ToAddress:   nft.CurrentOwner,
			Kind:        domain.EventKindMint,
			TxHash:      input.MintTxHash,
			Timestamp:   input.MintedAt,
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create mint event: %w", err)
		}

		// The mint is only reported after the client saw it mined, so the
		// transaction row starts out confirmed
		transaction := schema.Transaction{
			TxHash:          input.MintTxHash,
			FromAddress:     domain.ZeroAddress,
			ToAddress:       nft.CurrentOwner,
			TokenNumber:     nft.TokenNumber,
			ContractAddress: nft.ContractAddress,
			NFTID:           &nft.ID,
			Type:            domain.TxTypeMint,
			Status:          domain.TxStatusConfirmed,
			BlockNumber:     input.BlockNumber,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_hash"}},
			DoNothing: true,
		}).Create(&transaction).Error; err != nil {
			return fmt.Errorf("failed to create mint transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &nft, nil
}

// RecordTransfer updates the cached owner and appends the ownership entry,
// transfer event and transaction row in a single transaction
func (s *pgStore) RecordTransfer(ctx context.Context, input RecordTransferInput) (*schema.NFT, error) {
	var nft schema.NFT

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the NFT row so concurrent transfers of the same token
		// serialize on the cached owner check
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", input.NFTID).
			First(&nft).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNFTNotFound
			}
			return fmt.Errorf("failed to lock NFT: %w", err)
		}

		if !domain.SameAddress(nft.CurrentOwner, input.FromAddress) {
			return domain.ErrNotOwner
		}

		nft.CurrentOwner = domain.NormalizeAddress(input.ToAddress)
		if err := tx.Save(&nft).Error; err != nil {
			return fmt.Errorf("failed to update NFT owner: %w", err)
		}

		entry := schema.OwnershipEntry{
			NFTID:     nft.ID,
			Owner:     nft.CurrentOwner,
			TxHash:    input.TxHash,
			Price:     input.Price,
			Timestamp: input.TransferAt,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to append ownership entry: %w", err)
		}

		kind := domain.EventKindTransfer
		if input.Price != nil {
			kind = domain.EventKindSale
		}
		event := schema.NFTEvent{
			NFTID:       nft.ID,
			FromAddress: domain.NormalizeAddress(input.FromAddress),
			ToAddress:   nft.CurrentOwner,
			Kind:        kind,
			TxHash:      input.TxHash,
			Price:       input.Price,
			Currency:    input.Currency,
			Timestamp:   input.TransferAt,
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create transfer event: %w", err)
		}

		value := "0"
		if input.Price != nil {
			value = *input.Price
		}
		currency := "ETH"
		if input.Currency != nil {
			currency = *input.Currency
		}
		txType := domain.TxTypeTransfer
		if input.Price != nil {
			txType = domain.TxTypeSale
		}
		transaction := schema.Transaction{
			TxHash:          input.TxHash,
			FromAddress:     domain.NormalizeAddress(input.FromAddress),
			ToAddress:       nft.CurrentOwner,
			TokenNumber:     nft.TokenNumber,
			ContractAddress: nft.ContractAddress,
			NFTID:           &nft.ID,
			Type:            txType,
			Value:           value,
			Currency:        currency,
			Status:          domain.TxStatusConfirmed,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_hash"}},
			DoNothing: true,
		}).Create(&transaction).Error; err != nil {
			return fmt.Errorf("failed to create transfer transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &nft, nil
}

// UpdateNFT updates the mutable off-chain fields of an NFT record
func (s *pgStore) UpdateNFT(ctx context.Context, nftID uint64, update NFTUpdate) (*schema.NFT, error) {
	updates := map[string]interface{}{}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.ExternalURL != nil {
		updates["external_url"] = *update.ExternalURL
	}
	if update.Category != nil {
		updates["category"] = *update.Category
	}
	if update.Tags != nil {
		updates["tags"] = *update.Tags
	}

	var nft schema.NFT
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			result := tx.Model(&schema.NFT{}).Where("id = ?", nftID).Updates(updates)
			if result.Error != nil {
				return fmt.Errorf("failed to update NFT: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return domain.ErrNFTNotFound
			}
		}

		if err := tx.Preload("Creator").Where("id = ?", nftID).First(&nft).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNFTNotFound
			}
			return fmt.Errorf("failed to reload NFT: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &nft, nil
}

// ListNFTs retrieves NFTs matching the filter with the total match count
func (s *pgStore) ListNFTs(ctx context.Context, filter NFTQueryFilter) ([]*schema.NFT, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.NFT{})

	if filter.Owner != "" {
		query = query.Where("current_owner = ?", filter.Owner)
	}
	if filter.CreatorID != 0 {
		query = query.Where("creator_id = ?", filter.CreatorID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if filter.Verified != nil {
		query = query.Where("is_verified = ?", *filter.Verified)
	}

	// Count total before pagination
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count NFTs: %w", err)
	}

	switch filter.Sort {
	case NFTSortOldest:
		query = query.Order("created_at ASC, id ASC")
	case NFTSortMostViewed:
		query = query.Order("views DESC, id DESC")
	case NFTSortMostLiked:
		query = query.Order("likes DESC, id DESC")
	default:
		query = query.Order("created_at DESC, id DESC")
	}

	query = query.Preload("Creator").Limit(filter.Limit).Offset(int(filter.Offset)) //nolint:gosec,G115

	var nfts []*schema.NFT
	if err := query.Find(&nfts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get NFTs: %w", err)
	}

	return nfts, uint64(total), nil //nolint:gosec,G115
}

// GetOwnershipEntries retrieves the ownership history of an NFT, oldest first
func (s *pgStore) GetOwnershipEntries(ctx context.Context, nftID uint64) ([]schema.OwnershipEntry, error) {
	var entries []schema.OwnershipEntry
	err := s.db.WithContext(ctx).
		Where("nft_id = ?", nftID).
		Order("timestamp ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ownership entries: %w", err)
	}
	return entries, nil
}

// GetNFTEvents retrieves the event history of an NFT, newest first
func (s *pgStore) GetNFTEvents(ctx context.Context, nftID uint64, limit int, offset uint64) ([]schema.NFTEvent, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.NFTEvent{}).Where("nft_id = ?", nftID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count NFT events: %w", err)
	}

	query = query.Order("timestamp DESC, id DESC").Limit(limit).Offset(int(offset)) //nolint:gosec,G115

	var events []schema.NFTEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get NFT events: %w", err)
	}

	return events, uint64(total), nil //nolint:gosec,G115
}

// IncrementViewCount bumps the view counter of an NFT
func (s *pgStore) IncrementViewCount(ctx context.Context, nftID uint64) error {
	err := s.db.WithContext(ctx).Model(&schema.NFT{}).
		Where("id = ?", nftID).
		Update("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}

// GetTransactionByHash retrieves a transaction by its hash
func (s *pgStore) GetTransactionByHash(ctx context.Context, txHash string) (*schema.Transaction, error) {
	var transaction schema.Transaction
	err := s.db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// GetTransactionsByAddress retrieves transactions involving an address, newest first
func (s *pgStore) GetTransactionsByAddress(ctx context.Context, address string, limit int, offset uint64) ([]schema.Transaction, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.Transaction{}).
		Where("from_address = ? OR to_address = ?", address, address)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query = query.Order("created_at DESC, id DESC").Limit(limit).Offset(int(offset)) //nolint:gosec,G115

	var transactions []schema.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions: %w", err)
	}

	return transactions, uint64(total), nil //nolint:gosec,G115
}

// GetTransactionsByNFT retrieves transactions for an NFT, newest first
func (s *pgStore) GetTransactionsByNFT(ctx context.Context, nftID uint64, limit int, offset uint64) ([]schema.Transaction, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.Transaction{}).Where("nft_id = ?", nftID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query = query.Order("created_at DESC, id DESC").Limit(limit).Offset(int(offset)) //nolint:gosec,G115

	var transactions []schema.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions: %w", err)
	}

	return transactions, uint64(total), nil //nolint:gosec,G115
}

// UpdateTransactionStatus moves a transaction along pending -> confirmed/failed.
// Status transitions are one-way: a confirmed or failed transaction never
// goes back to pending.
func (s *pgStore) UpdateTransactionStatus(ctx context.Context, txHash string, status domain.TxStatus, blockNumber *uint64, confirmations uint64) error {
	updates := map[string]interface{}{
		"status":        status,
		"confirmations": confirmations,
	}
	if blockNumber != nil {
		updates["block_number"] = *blockNumber
	}

	query := s.db.WithContext(ctx).Model(&schema.Transaction{}).Where("tx_hash = ?", txHash)
	if status == domain.TxStatusPending {
		// Never regress a settled transaction
		query = query.Where("status = ?", domain.TxStatusPending)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
