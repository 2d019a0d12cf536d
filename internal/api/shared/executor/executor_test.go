package executor

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmint-xyz/openmint/internal/api/shared/dto"
	apierrors "github.com/openmint-xyz/openmint/internal/api/shared/errors"
	"github.com/openmint-xyz/openmint/internal/auth"
	"github.com/openmint-xyz/openmint/internal/domain"
	"github.com/openmint-xyz/openmint/internal/logger"
	"github.com/openmint-xyz/openmint/internal/providers/pinata"
	"github.com/openmint-xyz/openmint/internal/store"
	"github.com/openmint-xyz/openmint/internal/store/schema"
)

const (
	testContract = "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
	testWallet   = "0x1111111111111111111111111111111111111111"
	otherWallet  = "0x2222222222222222222222222222222222222222"
	testChainID  = 11155111
	testMaxBytes = 1024
)

var testTxHash = "0x" + strings.Repeat("ab", 32)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeStore is an in-memory Store covering what the executor exercises
type fakeStore struct {
	mu     sync.Mutex
	users  map[uint64]*schema.User
	nfts   map[uint64]*schema.NFT
	nextID uint64

	ownershipEntries map[uint64][]schema.OwnershipEntry
	events           map[uint64][]schema.NFTEvent
	transactions     map[uint64][]schema.Transaction
	views            map[uint64]uint64

	listResult []*schema.NFT
	listTotal  uint64
	lastFilter store.NFTQueryFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:            make(map[uint64]*schema.User),
		nfts:             make(map[uint64]*schema.NFT),
		ownershipEntries: make(map[uint64][]schema.OwnershipEntry),
		events:           make(map[uint64][]schema.NFTEvent),
		transactions:     make(map[uint64][]schema.Transaction),
		views:            make(map[uint64]uint64),
	}
}

func (f *fakeStore) addUser(wallet string) *schema.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user := &schema.User{
		ID:            f.nextID,
		WalletAddress: domain.NormalizeAddress(wallet),
		Nonce:         "123456",
		Role:          domain.RoleUser,
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeStore) addNFT(nft schema.NFT) *schema.NFT {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	nft.ID = f.nextID
	f.nfts[nft.ID] = &nft
	return &nft
}

func (f *fakeStore) GetUserByWallet(_ context.Context, walletAddress string) (*schema.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.WalletAddress == walletAddress {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id uint64) (*schema.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, _ string) (*schema.User, error) {
	return nil, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *schema.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.WalletAddress == user.WalletAddress {
			return domain.ErrUserAlreadyExists
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return nil
}

func (f *fakeStore) UpdateUserLogin(_ context.Context, userID uint64, nonce string, loginAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Nonce = nonce
	user.LastLogin = &loginAt
	return nil
}

func (f *fakeStore) UpdateUserProfile(_ context.Context, userID uint64, update store.UserProfileUpdate) (*schema.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Username != nil {
		for _, other := range f.users {
			if other.ID != userID && other.Username != nil && *other.Username == *update.Username {
				return nil, domain.ErrUsernameTaken
			}
		}
		user.Username = update.Username
	}
	if update.Email != nil {
		user.Email = update.Email
	}
	return user, nil
}

func (f *fakeStore) GetNFTByID(_ context.Context, id uint64) (*schema.NFT, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nfts[id], nil
}

func (f *fakeStore) GetNFTByContractToken(_ context.Context, contractAddress, tokenNumber string) (*schema.NFT, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, nft := range f.nfts {
		if nft.ContractAddress == contractAddress && nft.TokenNumber == tokenNumber {
			return nft, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetNFTsByTokenNumbers(_ context.Context, contractAddress string, tokenNumbers []string) (map[string]*schema.NFT, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make(map[string]*schema.NFT)
	for _, tokenNumber := range tokenNumbers {
		for _, nft := range f.nfts {
			if nft.ContractAddress == contractAddress && nft.TokenNumber == tokenNumber {
				result[tokenNumber] = nft
			}
		}
	}
	return result, nil
}

func (f *fakeStore) CreateNFTMint(_ context.Context, input store.CreateNFTMintInput) (*schema.NFT, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.nfts {
		if existing.ContractAddress == input.NFT.ContractAddress && existing.TokenNumber == input.NFT.TokenNumber {
			return nil, domain.ErrNFTAlreadyExists
		}
	}
	f.nextID++
	nft := input.NFT
	nft.ID = f.nextID
	f.nfts[nft.ID] = &nft
	return &nft, nil
}

func (f *fakeStore) RecordTransfer(_ context.Context, input store.RecordTransferInput) (*schema.NFT, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	nft, ok := f.nfts[input.NFTID]
	if !ok {
		return nil, domain.ErrNFTNotFound
	}
	if !domain.SameAddress(nft.CurrentOwner, input.FromAddress) {
		return nil, domain.ErrNotOwner
	}
	nft.CurrentOwner = input.ToAddress
	return nft, nil
}

func (f *fakeStore) UpdateNFT(_ context.Context, nftID uint64, update store.NFTUpdate) (*schema.NFT, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	nft, ok := f.nfts[nftID]
	if !ok {
		return nil, domain.ErrNFTNotFound
	}
	if update.Description != nil {
		nft.Description = *update.Description
	}
	if update.Category != nil {
		nft.Category = *update.Category
	}
	return nft, nil
}

func (f *fakeStore) ListNFTs(_ context.Context, filter store.NFTQueryFilter) ([]*schema.NFT, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	return f.listResult, f.listTotal, nil
}

func (f *fakeStore) GetOwnershipEntries(_ context.Context, nftID uint64) ([]schema.OwnershipEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ownershipEntries[nftID], nil
}

func (f *fakeStore) GetNFTEvents(_ context.Context, nftID uint64, _ int, _ uint64) ([]schema.NFTEvent, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := f.events[nftID]
	return events, uint64(len(events)), nil
}

func (f *fakeStore) IncrementViewCount(_ context.Context, nftID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[nftID]++
	return nil
}

func (f *fakeStore) viewCount(nftID uint64) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.views[nftID]
}

func (f *fakeStore) GetTransactionByHash(_ context.Context, _ string) (*schema.Transaction, error) {
	return nil, nil
}

func (f *fakeStore) GetTransactionsByAddress(_ context.Context, _ string, _ int, _ uint64) ([]schema.Transaction, uint64, error) {
	return nil, 0, nil
}

func (f *fakeStore) GetTransactionsByNFT(_ context.Context, nftID uint64, _ int, _ uint64) ([]schema.Transaction, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txs := f.transactions[nftID]
	return txs, uint64(len(txs)), nil
}

func (f *fakeStore) UpdateTransactionStatus(_ context.Context, _ string, _ domain.TxStatus, _ *uint64, _ uint64) error {
	return nil
}

// fakeLedger is a canned LedgerClient
type fakeLedger struct {
	owners        map[string]string
	tokenURIs     map[string]string
	history       map[string][]string
	tokensByOwner map[string][]string
	mintPrice     *big.Int
	paused        bool

	ownerErr     error
	uriErr       error
	historyErr   error
	enumerateErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		owners:        make(map[string]string),
		tokenURIs:     make(map[string]string),
		history:       make(map[string][]string),
		tokensByOwner: make(map[string][]string),
		mintPrice:     big.NewInt(10000000000000000),
	}
}

func (f *fakeLedger) OwnerOf(_ context.Context, tokenNumber string) (string, error) {
	if f.ownerErr != nil {
		return "", f.ownerErr
	}
	owner, ok := f.owners[tokenNumber]
	if !ok {
		return "", fmt.Errorf("execution reverted: nonexistent token")
	}
	return owner, nil
}

func (f *fakeLedger) TokenURI(_ context.Context, tokenNumber string) (string, error) {
	if f.uriErr != nil {
		return "", f.uriErr
	}
	return f.tokenURIs[tokenNumber], nil
}

func (f *fakeLedger) BalanceOf(_ context.Context, ownerAddress string) (uint64, error) {
	return uint64(len(f.tokensByOwner[domain.NormalizeAddress(ownerAddress)])), nil
}

func (f *fakeLedger) TokenOfOwnerByIndex(_ context.Context, ownerAddress string, index uint64) (string, error) {
	return f.tokensByOwner[domain.NormalizeAddress(ownerAddress)][index], nil
}

func (f *fakeLedger) TokensOfOwner(_ context.Context, ownerAddress string) ([]string, error) {
	if f.enumerateErr != nil {
		return nil, f.enumerateErr
	}
	return f.tokensByOwner[domain.NormalizeAddress(ownerAddress)], nil
}

func (f *fakeLedger) OwnershipHistory(_ context.Context, tokenNumber string) ([]string, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history[tokenNumber], nil
}

func (f *fakeLedger) MintPrice(_ context.Context) (*big.Int, error) {
	return f.mintPrice, nil
}

func (f *fakeLedger) MintingPaused(_ context.Context) (bool, error) {
	return f.paused, nil
}

func (f *fakeLedger) Close() {}

// capturingPinner is a canned pinning client that records what it was asked to pin
type capturingPinner struct {
	lastFilename string
	lastMeta     pinata.PinMetadata
	lastContent  []byte
	result       *pinata.PinResult
	err          error
}

func (p *capturingPinner) PinFile(_ context.Context, filename string, content io.Reader, meta pinata.PinMetadata) (*pinata.PinResult, error) {
	p.lastFilename = filename
	p.lastMeta = meta
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	p.lastContent = data
	return p.result, p.err
}

func (p *capturingPinner) PinJSON(_ context.Context, _ interface{}, meta pinata.PinMetadata) (*pinata.PinResult, error) {
	p.lastMeta = meta
	return p.result, p.err
}

func (p *capturingPinner) GatewayURL(hash string) string {
	return "https://gateway.pinata.cloud/ipfs/" + hash
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time                  { return f.now }
func (f *fakeClock) Since(t time.Time) time.Duration { return f.now.Sub(t) }

func assertAPIError(t *testing.T, err error, code apierrors.ErrorCode) {
	t.Helper()
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, code, apiErr.Code)
}

type testEnv struct {
	executor Executor
	store    *fakeStore
	ledger   *fakeLedger
	pinner   *capturingPinner
	clock    *fakeClock
}

func newTestEnv() *testEnv {
	st := newFakeStore()
	ledger := newFakeLedger()
	pinner := &capturingPinner{result: &pinata.PinResult{
		IPFSHash: "QmPinned",
		PinSize:  42,
		URL:      "https://gateway.pinata.cloud/ipfs/QmPinned",
	}}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	authService := auth.NewService(st, clock, "test-secret", 30*24*time.Hour)

	return &testEnv{
		executor: NewExecutor(st, authService, ledger, pinner, clock, testContract, testChainID, testMaxBytes),
		store:    st,
		ledger:   ledger,
		pinner:   pinner,
		clock:    clock,
	}
}

func validCreateRequest() *dto.CreateNFTRequest {
	return &dto.CreateNFTRequest{
		TokenID:         "7",
		ContractAddress: testContract,
		Metadata: dto.NFTMetadata{
			Name:  "Sunset Study",
			Image: "ipfs://QmImageHash",
		},
		IPFSHash:        "QmMetaHash",
		ImageIPFSHash:   "QmImageHash",
		TransactionHash: testTxHash,
	}
}

func TestCreateNFT(t *testing.T) {
	ctx := context.Background()

	t.Run("ledger owner mismatch is rejected", func(t *testing.T) {
		env := newTestEnv()
		caller := env.store.addUser(testWallet)
		env.ledger.owners["7"] = otherWallet

		_, err := env.executor.CreateNFT(ctx, caller, validCreateRequest())
		assertAPIError(t, err, apierrors.ErrCodeOwnershipMismatch)
	})

	t.Run("unminted token is rejected", func(t *testing.T) {
		env := newTestEnv()
		caller := env.store.addUser(testWallet)

		_, err := env.executor.CreateNFT(ctx, caller, validCreateRequest())
		assertAPIError(t, err, apierrors.ErrCodeServiceError)
	})

	t.Run("foreign contract is rejected", func(t *testing.T) {
		env := newTestEnv()
		caller := env.store.addUser(testWallet)
		request := validCreateRequest()
		request.ContractAddress = otherWallet

		_, err := env.executor.CreateNFT(ctx, caller, request)
		assertAPIError(t, err, apierrors.ErrCodeValidationFailed)
	})

	t.Run("ledger owner registers the mint", func(t *testing.T) {
		env := newTestEnv()
		caller := env.store.addUser(testWallet)
		env.ledger.owners["7"] = testWallet

		result, err := env.executor.CreateNFT(ctx, caller, validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, "7", result.TokenID)
		assert.Equal(t, testContract, result.ContractAddress)
		assert.Equal(t, domain.NormalizeAddress(testWallet), result.CurrentOwner)
		assert.Equal(t, domain.CategoryArt, result.Category)
		require.NotNil(t, result.Creator)
		assert.Equal(t, caller.ID, result.Creator.ID)
	})

	t.Run("second registration is a duplicate", func(t *testing.T) {
		env := newTestEnv()
		caller := env.store.addUser(testWallet)
		env.ledger.owners["7"] = testWallet

		_, err := env.executor.CreateNFT(ctx, caller, validCreateRequest())
		require.NoError(t, err)

		_, err = env.executor.CreateNFT(ctx, caller, validCreateRequest())
		assertAPIError(t, err, apierrors.ErrCodeDuplicateRecord)
	})
}

func TestTransferNFT(t *testing.T) {
	ctx := context.Background()

	transferRequest := func() *dto.TransferNFTRequest {
		return &dto.TransferNFTRequest{
			TokenID:         "7",
			ToAddress:       otherWallet,
			TransactionHash: testTxHash,
		}
	}

	seed := func(env *testEnv, owner string) *schema.NFT {
		return env.store.addNFT(schema.NFT{
			TokenNumber:     "7",
			ContractAddress: testContract,
			CurrentOwner:    domain.NormalizeAddress(owner),
			Name:            "Sunset Study",
		})
	}

	t.Run("unknown token is not found", func(t *testing.T) {
		env := newTestEnv()
		caller := env.store.addUser(testWallet)

		_, err := env.executor.TransferNFT(ctx, caller, transferRequest())
		assertAPIError(t, err, apierrors.ErrCodeNotFound)
	})

	t.Run("non-owner cannot transfer", func(t *testing.T) {
		env := newTestEnv()
		caller := env.store.addUser(testWallet)
		seed(env, otherWallet)

		_, err := env.executor.TransferNFT(ctx, caller, transferRequest())
		assertAPIError(t, err, apierrors.ErrCodeNotOwner)
	})

	t.Run("owner transfer updates the cached owner", func(t *testing.T) {
		env := newTestEnv()
		caller := env.store.addUser(testWallet)
		seed(env, testWallet)

		result, err := env.executor.TransferNFT(ctx, caller, transferRequest())
		require.NoError(t, err)
		assert.Equal(t, domain.NormalizeAddress(otherWallet), result.CurrentOwner)

		// The previous owner cannot transfer again
		_, err = env.executor.TransferNFT(ctx, caller, transferRequest())
		assertAPIError(t, err, apierrors.ErrCodeNotOwner)
	})
}

func TestGetNFTByID(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id is not found", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.executor.GetNFTByID(ctx, 99)
		assertAPIError(t, err, apierrors.ErrCodeNotFound)
	})

	t.Run("read includes the live ledger snapshot", func(t *testing.T) {
		env := newTestEnv()
		nft := env.store.addNFT(schema.NFT{
			TokenNumber:     "7",
			ContractAddress: testContract,
			CurrentOwner:    domain.NormalizeAddress(testWallet),
			Name:            "Sunset Study",
		})
		env.ledger.owners["7"] = testWallet
		env.ledger.tokenURIs["7"] = "ipfs://QmMetaHash"
		env.ledger.history["7"] = []string{domain.ZeroAddress, testWallet}

		result, err := env.executor.GetNFTByID(ctx, nft.ID)
		require.NoError(t, err)
		require.NotNil(t, result.OnChainData)
		require.NotNil(t, result.OnChainData.TokenURI)
		assert.Equal(t, "ipfs://QmMetaHash", *result.OnChainData.TokenURI)
		require.NotNil(t, result.OnChainData.CurrentOwner)
		assert.Equal(t, testWallet, *result.OnChainData.CurrentOwner)
		assert.Len(t, result.OnChainData.OwnershipHistory, 2)

		// The view bump is fire-and-forget
		assert.Eventually(t, func() bool {
			return env.store.viewCount(nft.ID) == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("ledger failures degrade to the mirrored record", func(t *testing.T) {
		env := newTestEnv()
		nft := env.store.addNFT(schema.NFT{
			TokenNumber:     "7",
			ContractAddress: testContract,
			CurrentOwner:    domain.NormalizeAddress(testWallet),
			Name:            "Sunset Study",
		})
		env.ledger.ownerErr = fmt.Errorf("rpc unavailable")
		env.ledger.uriErr = fmt.Errorf("rpc unavailable")
		env.ledger.historyErr = fmt.Errorf("rpc unavailable")

		result, err := env.executor.GetNFTByID(ctx, nft.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sunset Study", result.Metadata.Name)
		require.NotNil(t, result.OnChainData)
		assert.Nil(t, result.OnChainData.TokenURI)
		assert.Nil(t, result.OnChainData.CurrentOwner)
		assert.Empty(t, result.OnChainData.OwnershipHistory)
	})
}

func TestGetUserNFTs(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps ledger order and omits unmirrored tokens", func(t *testing.T) {
		env := newTestEnv()
		env.store.addNFT(schema.NFT{TokenNumber: "3", ContractAddress: testContract, CurrentOwner: domain.NormalizeAddress(testWallet), Name: "Three"})
		env.store.addNFT(schema.NFT{TokenNumber: "9", ContractAddress: testContract, CurrentOwner: domain.NormalizeAddress(testWallet), Name: "Nine"})
		// Token 5 exists on the ledger but was never registered with the API
		env.ledger.tokensByOwner[domain.NormalizeAddress(testWallet)] = []string{"9", "5", "3"}

		result, err := env.executor.GetUserNFTs(ctx, testWallet)
		require.NoError(t, err)
		require.Len(t, result.NFTs, 2)
		assert.Equal(t, "9", result.NFTs[0].TokenID)
		assert.Equal(t, "3", result.NFTs[1].TokenID)
	})

	t.Run("empty wallet is an empty list", func(t *testing.T) {
		env := newTestEnv()
		result, err := env.executor.GetUserNFTs(ctx, otherWallet)
		require.NoError(t, err)
		assert.Empty(t, result.NFTs)
		assert.Zero(t, result.Total)
	})

	t.Run("malformed address is rejected", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.executor.GetUserNFTs(ctx, "0x123")
		assertAPIError(t, err, apierrors.ErrCodeValidationFailed)
	})
}

func TestListNFTs(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults and clamps pagination", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.executor.ListNFTs(ctx, ListNFTsParams{Page: 0, Limit: 500})
		require.NoError(t, err)
		assert.Equal(t, maxPageLimit, env.store.lastFilter.Limit)
		assert.Zero(t, env.store.lastFilter.Offset)
	})

	t.Run("unknown creator matches nothing", func(t *testing.T) {
		env := newTestEnv()
		result, err := env.executor.ListNFTs(ctx, ListNFTsParams{Creator: otherWallet})
		require.NoError(t, err)
		assert.Empty(t, result.NFTs)
		assert.Zero(t, result.Total)
	})

	t.Run("creator filter resolves the address", func(t *testing.T) {
		env := newTestEnv()
		creator := env.store.addUser(testWallet)
		_, err := env.executor.ListNFTs(ctx, ListNFTsParams{Creator: testWallet, Page: 3, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, creator.ID, env.store.lastFilter.CreatorID)
		assert.Equal(t, uint64(20), env.store.lastFilter.Offset)
	})
}

func TestAuthentication(t *testing.T) {
	ctx := context.Background()

	t.Run("nonce issuance creates the user lazily", func(t *testing.T) {
		env := newTestEnv()
		result, err := env.executor.GetNonce(ctx, testWallet)
		require.NoError(t, err)
		assert.NotEmpty(t, result.Nonce)

		user, err := env.store.GetUserByWallet(ctx, domain.NormalizeAddress(testWallet))
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, result.Nonce, user.Nonce)
	})

	t.Run("bad signature maps to signature mismatch", func(t *testing.T) {
		env := newTestEnv()
		nonce, err := env.executor.GetNonce(ctx, testWallet)
		require.NoError(t, err)

		_, err = env.executor.Authenticate(ctx, &dto.AuthenticateRequest{
			WalletAddress: testWallet,
			Signature:     "0x" + strings.Repeat("ab", 65),
			Message:       "Sign in\nNonce: " + nonce.Nonce,
		})
		assertAPIError(t, err, apierrors.ErrCodeSignatureMismatch)
	})

	t.Run("malformed request fails validation", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.executor.Authenticate(ctx, &dto.AuthenticateRequest{WalletAddress: "nope"})
		assertAPIError(t, err, apierrors.ErrCodeValidationFailed)
	})
}

func TestProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate username maps to duplicate record", func(t *testing.T) {
		env := newTestEnv()
		first := env.store.addUser(testWallet)
		second := env.store.addUser(otherWallet)

		username := "collector"
		_, err := env.executor.UpdateProfile(ctx, first.ID, &dto.UpdateProfileRequest{Username: &username})
		require.NoError(t, err)

		_, err = env.executor.UpdateProfile(ctx, second.ID, &dto.UpdateProfileRequest{Username: &username})
		assertAPIError(t, err, apierrors.ErrCodeDuplicateRecord)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.executor.GetProfile(ctx, 42)
		assertAPIError(t, err, apierrors.ErrCodeNotFound)
	})
}

func TestGetContractInfo(t *testing.T) {
	env := newTestEnv()
	env.ledger.paused = true

	result, err := env.executor.GetContractInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NormalizeAddress(testContract), result.ContractAddress)
	assert.Equal(t, int64(testChainID), result.ChainID)
	assert.Equal(t, "10000000000000000", result.MintPrice)
	assert.True(t, result.MintingPaused)
}

func TestUploadFile(t *testing.T) {
	ctx := context.Background()
	pngHeader := "\x89PNG\r\n\x1a\n"

	t.Run("size at the cap is accepted", func(t *testing.T) {
		env := newTestEnv()
		content := pngHeader + strings.Repeat("a", testMaxBytes-len(pngHeader))

		result, err := env.executor.UploadFile(ctx, testWallet, "art.png", testMaxBytes, strings.NewReader(content))
		require.NoError(t, err)
		assert.Equal(t, "QmPinned", result.IPFSHash)
		assert.Equal(t, "art.png", env.pinner.lastFilename)
		assert.Equal(t, testWallet, env.pinner.lastMeta.UploadedBy)
		// The sniffing prefix is replayed into the pinned content
		assert.Len(t, env.pinner.lastContent, testMaxBytes)
	})

	t.Run("one byte over the cap is rejected", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.executor.UploadFile(ctx, testWallet, "art.png", testMaxBytes+1, strings.NewReader(pngHeader))
		assertAPIError(t, err, apierrors.ErrCodePayloadTooLarge)
	})

	t.Run("disallowed content type is rejected", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.executor.UploadFile(ctx, testWallet, "notes.txt", 10, strings.NewReader("plain text"))
		assertAPIError(t, err, apierrors.ErrCodeValidationFailed)
	})
}

func TestUploadJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("pins with the metadata name", func(t *testing.T) {
		env := newTestEnv()
		result, err := env.executor.UploadJSON(ctx, testWallet, &dto.UploadJSONRequest{
			Metadata: map[string]interface{}{"name": "Piece #1", "image": "ipfs://QmImage"},
		})
		require.NoError(t, err)
		assert.Equal(t, "QmPinned", result.IPFSHash)
		assert.Equal(t, "Piece #1", env.pinner.lastMeta.Name)
	})

	t.Run("empty metadata fails validation", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.executor.UploadJSON(ctx, testWallet, &dto.UploadJSONRequest{})
		assertAPIError(t, err, apierrors.ErrCodeValidationFailed)
	})
}
