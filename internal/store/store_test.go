package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmint-xyz/openmint/internal/domain"
	"github.com/openmint-xyz/openmint/internal/store/schema"
)

const testContract = "0x1111111111111111111111111111111111111111"

// =============================================================================
// Test Data Builders
// =============================================================================

func buildTestUser(wallet string) *schema.User {
	return &schema.User{
		WalletAddress: domain.NormalizeAddress(wallet),
		Nonce:         "123456",
		Role:          domain.RoleUser,
	}
}

func buildTestMint(t *testing.T, s Store, wallet, tokenNumber string) CreateNFTMintInput {
	t.Helper()
	ctx := context.Background()

	owner := domain.NormalizeAddress(wallet)
	user, err := s.GetUserByWallet(ctx, owner)
	require.NoError(t, err)
	if user == nil {
		user = buildTestUser(owner)
		require.NoError(t, s.CreateUser(ctx, user))
	}

	return CreateNFTMintInput{
		NFT: schema.NFT{
			TokenNumber:     tokenNumber,
			ContractAddress: testContract,
			CreatorID:       user.ID,
			CurrentOwner:    owner,
			Name:            "Test Piece #" + tokenNumber,
			Image:           "ipfs://QmImage" + tokenNumber,
			IPFSHash:        "QmMeta" + tokenNumber,
			ImageIPFSHash:   "QmImage" + tokenNumber,
			Category:        domain.CategoryArt,
		},
		MintTxHash: fmt.Sprintf("0x%064s", tokenNumber),
		MintedAt:   time.Now().UTC(),
	}
}

// =============================================================================
// Users
// =============================================================================

func testUsers(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("create and get by wallet", func(t *testing.T) {
		user := buildTestUser("0xAbCd000000000000000000000000000000000001")
		require.NoError(t, s.CreateUser(ctx, user))
		require.NotZero(t, user.ID)

		got, err := s.GetUserByWallet(ctx, user.WalletAddress)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "123456", got.Nonce)
		assert.Equal(t, domain.RoleUser, got.Role)
		assert.Nil(t, got.LastLogin)
	})

	t.Run("get unknown wallet returns nil", func(t *testing.T) {
		got, err := s.GetUserByWallet(ctx, "0x0000000000000000000000000000000000000099")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("login rotates nonce and stamps last_login", func(t *testing.T) {
		user := buildTestUser("0x0000000000000000000000000000000000000002")
		require.NoError(t, s.CreateUser(ctx, user))

		loginAt := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.UpdateUserLogin(ctx, user.ID, "654321", loginAt))

		got, err := s.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "654321", got.Nonce)
		require.NotNil(t, got.LastLogin)
		assert.WithinDuration(t, loginAt, *got.LastLogin, time.Second)
	})

	t.Run("login for unknown user returns not found", func(t *testing.T) {
		err := s.UpdateUserLogin(ctx, 999999, "111111", time.Now())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("profile update sets username and email", func(t *testing.T) {
		user := buildTestUser("0x0000000000000000000000000000000000000003")
		require.NoError(t, s.CreateUser(ctx, user))

		username := "alice"
		email := "alice@example.com"
		updated, err := s.UpdateUserProfile(ctx, user.ID, UserProfileUpdate{
			Username: &username,
			Email:    &email,
			Profile:  &schema.Profile{DisplayName: "Alice", Bio: "collector"},
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Username)
		assert.Equal(t, "alice", *updated.Username)
		require.NotNil(t, updated.Email)
		assert.Equal(t, "alice@example.com", *updated.Email)

		byName, err := s.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, user.ID, byName.ID)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		other := buildTestUser("0x0000000000000000000000000000000000000004")
		require.NoError(t, s.CreateUser(ctx, other))

		username := "alice"
		_, err := s.UpdateUserProfile(ctx, other.ID, UserProfileUpdate{Username: &username})
		assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	})
}

// =============================================================================
// CreateNFTMint
// =============================================================================

func testCreateNFTMint(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("mint creates record, seeded history, event and confirmed transaction", func(t *testing.T) {
		input := buildTestMint(t, s, "0x000000000000000000000000000000000000000a", "1")

		nft, err := s.CreateNFTMint(ctx, input)
		require.NoError(t, err)
		require.NotZero(t, nft.ID)
		assert.Equal(t, input.NFT.CurrentOwner, nft.CurrentOwner)

		// History starts with the minter as its only entry; the
		// zero-address side of the mint shows up in the event log only
		entries, err := s.GetOwnershipEntries(ctx, nft.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, nft.CurrentOwner, entries[0].Owner)

		events, total, err := s.GetNFTEvents(ctx, nft.ID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		require.Len(t, events, 1)
		assert.Equal(t, domain.EventKindMint, events[0].Kind)
		assert.Equal(t, domain.ZeroAddress, events[0].FromAddress)

		tx, err := s.GetTransactionByHash(ctx, input.MintTxHash)
		require.NoError(t, err)
		require.NotNil(t, tx)
		assert.Equal(t, domain.TxTypeMint, tx.Type)
		assert.Equal(t, domain.TxStatusConfirmed, tx.Status)
		require.NotNil(t, tx.NFTID)
		assert.Equal(t, nft.ID, *tx.NFTID)
	})

	t.Run("duplicate token is rejected", func(t *testing.T) {
		input := buildTestMint(t, s, "0x000000000000000000000000000000000000000a", "2")

		_, err := s.CreateNFTMint(ctx, input)
		require.NoError(t, err)

		input.MintTxHash = fmt.Sprintf("0x%064s", "dup")
		_, err = s.CreateNFTMint(ctx, input)
		assert.ErrorIs(t, err, domain.ErrNFTAlreadyExists)
	})

	t.Run("lookup by contract and token number", func(t *testing.T) {
		input := buildTestMint(t, s, "0x000000000000000000000000000000000000000a", "3")
		created, err := s.CreateNFTMint(ctx, input)
		require.NoError(t, err)

		got, err := s.GetNFTByContractToken(ctx, testContract, "3")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.ID, got.ID)

		byNumbers, err := s.GetNFTsByTokenNumbers(ctx, testContract, []string{"3", "404"})
		require.NoError(t, err)
		require.Len(t, byNumbers, 1)
		assert.Equal(t, created.ID, byNumbers["3"].ID)
	})
}

// =============================================================================
// RecordTransfer
// =============================================================================

func testRecordTransfer(t *testing.T, s Store) {
	ctx := context.Background()

	seller := "0x000000000000000000000000000000000000000b"
	buyer := "0x000000000000000000000000000000000000000c"

	input := buildTestMint(t, s, seller, "10")
	nft, err := s.CreateNFTMint(ctx, input)
	require.NoError(t, err)

	t.Run("transfer from non-owner is rejected", func(t *testing.T) {
		_, err := s.RecordTransfer(ctx, RecordTransferInput{
			NFTID:       nft.ID,
			FromAddress: buyer,
			ToAddress:   seller,
			TxHash:      fmt.Sprintf("0x%064s", "bad"),
			TransferAt:  time.Now().UTC(),
		})
		assert.ErrorIs(t, err, domain.ErrNotOwner)
	})

	t.Run("transfer updates owner and appends history", func(t *testing.T) {
		price := "1500000000000000000"
		updated, err := s.RecordTransfer(ctx, RecordTransferInput{
			NFTID:       nft.ID,
			FromAddress: seller,
			ToAddress:   buyer,
			TxHash:      fmt.Sprintf("0x%064s", "xfer"),
			Price:       &price,
			TransferAt:  time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.Equal(t, buyer, updated.CurrentOwner)

		// One entry from the mint, one from the transfer
		entries, err := s.GetOwnershipEntries(ctx, nft.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, buyer, entries[1].Owner)

		events, total, err := s.GetNFTEvents(ctx, nft.ID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), total)
		// Newest first, priced transfers are sales
		assert.Equal(t, domain.EventKindSale, events[0].Kind)

		tx, err := s.GetTransactionByHash(ctx, fmt.Sprintf("0x%064s", "xfer"))
		require.NoError(t, err)
		require.NotNil(t, tx)
		assert.Equal(t, domain.TxTypeSale, tx.Type)
		assert.Equal(t, price, tx.Value)
	})

	t.Run("previous owner can no longer transfer", func(t *testing.T) {
		_, err := s.RecordTransfer(ctx, RecordTransferInput{
			NFTID:       nft.ID,
			FromAddress: seller,
			ToAddress:   seller,
			TxHash:      fmt.Sprintf("0x%064s", "back"),
			TransferAt:  time.Now().UTC(),
		})
		assert.ErrorIs(t, err, domain.ErrNotOwner)
	})

	t.Run("transfer of unknown NFT returns not found", func(t *testing.T) {
		_, err := s.RecordTransfer(ctx, RecordTransferInput{
			NFTID:       999999,
			FromAddress: seller,
			ToAddress:   buyer,
			TxHash:      fmt.Sprintf("0x%064s", "none"),
			TransferAt:  time.Now().UTC(),
		})
		assert.ErrorIs(t, err, domain.ErrNFTNotFound)
	})
}

// =============================================================================
// ListNFTs
// =============================================================================

func testListNFTs(t *testing.T, s Store) {
	ctx := context.Background()

	owner := "0x000000000000000000000000000000000000000d"
	for i := 20; i < 25; i++ {
		input := buildTestMint(t, s, owner, fmt.Sprintf("%d", i))
		if i%2 == 0 {
			input.NFT.Category = domain.CategoryMusic
		}
		_, err := s.CreateNFTMint(ctx, input)
		require.NoError(t, err)
	}

	t.Run("filter by owner", func(t *testing.T) {
		nfts, total, err := s.ListNFTs(ctx, NFTQueryFilter{Owner: owner, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, uint64(5), total)
		assert.Len(t, nfts, 5)
		for _, nft := range nfts {
			require.NotNil(t, nft.Creator)
			assert.Equal(t, owner, nft.Creator.WalletAddress)
		}
	})

	t.Run("filter by category", func(t *testing.T) {
		nfts, total, err := s.ListNFTs(ctx, NFTQueryFilter{Owner: owner, Category: domain.CategoryMusic, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), total)
		assert.Len(t, nfts, 3)
	})

	t.Run("search by name", func(t *testing.T) {
		nfts, total, err := s.ListNFTs(ctx, NFTQueryFilter{Search: "Piece #21", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		require.Len(t, nfts, 1)
		assert.Equal(t, "21", nfts[0].TokenNumber)
	})

	t.Run("pagination keeps total", func(t *testing.T) {
		nfts, total, err := s.ListNFTs(ctx, NFTQueryFilter{Owner: owner, Limit: 2, Offset: 4})
		require.NoError(t, err)
		assert.Equal(t, uint64(5), total)
		assert.Len(t, nfts, 1)
	})
}

// =============================================================================
// Views and transactions
// =============================================================================

func testViewsAndTransactions(t *testing.T, s Store) {
	ctx := context.Background()

	owner := "0x000000000000000000000000000000000000000e"
	input := buildTestMint(t, s, owner, "30")
	nft, err := s.CreateNFTMint(ctx, input)
	require.NoError(t, err)

	t.Run("view counter increments", func(t *testing.T) {
		require.NoError(t, s.IncrementViewCount(ctx, nft.ID))
		require.NoError(t, s.IncrementViewCount(ctx, nft.ID))

		got, err := s.GetNFTByID(ctx, nft.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, uint64(2), got.Views)
	})

	t.Run("transactions by address include mint", func(t *testing.T) {
		txs, total, err := s.GetTransactionsByAddress(ctx, domain.NormalizeAddress(owner), 10, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		require.Len(t, txs, 1)
		assert.Equal(t, domain.TxTypeMint, txs[0].Type)
	})

	t.Run("transactions by NFT", func(t *testing.T) {
		txs, total, err := s.GetTransactionsByNFT(ctx, nft.ID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		assert.Len(t, txs, 1)
	})

	t.Run("status update is one-way", func(t *testing.T) {
		block := uint64(12345)
		require.NoError(t, s.UpdateTransactionStatus(ctx, input.MintTxHash, domain.TxStatusConfirmed, &block, 12))

		// Attempting to move a settled transaction back to pending is a no-op
		err := s.UpdateTransactionStatus(ctx, input.MintTxHash, domain.TxStatusPending, nil, 0)
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

		tx, err := s.GetTransactionByHash(ctx, input.MintTxHash)
		require.NoError(t, err)
		require.NotNil(t, tx)
		assert.Equal(t, domain.TxStatusConfirmed, tx.Status)
		assert.Equal(t, uint64(12), tx.Confirmations)
	})

	t.Run("unknown transaction returns not found", func(t *testing.T) {
		err := s.UpdateTransactionStatus(ctx, fmt.Sprintf("0x%064s", "nope"), domain.TxStatusConfirmed, nil, 1)
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})
}
