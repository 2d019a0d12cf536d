package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/openmint-xyz/openmint/internal/adapter"
)

// contractABI covers the read surface of the minting contract: the ERC721
// views plus the contract's own history and admin getters.
const contractABI = `[
	{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"name":"tokenOfOwnerByIndex","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"getOwnershipHistory","outputs":[{"name":"","type":"address[]"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"mintPrice","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"mintingPaused","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"}
]`

// enumerationWorkers bounds the concurrent tokenOfOwnerByIndex calls when
// enumerating an owner's tokens
const enumerationWorkers = 8

// LedgerClient reads token state from the minting contract. The ledger is the
// source of truth; everything here is a read-only view.
//
//go:generate mockgen -source=client.go -destination=../../mocks/ethereum.go -package=mocks -mock_names=LedgerClient=MockLedgerClient
type LedgerClient interface {
	// OwnerOf fetches the current owner of a token. The contract reverts for
	// unminted tokens, which surfaces here as an error.
	OwnerOf(ctx context.Context, tokenNumber string) (string, error)

	// TokenURI fetches the metadata URI of a token
	TokenURI(ctx context.Context, tokenNumber string) (string, error)

	// BalanceOf fetches the number of tokens held by an address
	BalanceOf(ctx context.Context, ownerAddress string) (uint64, error)

	// TokenOfOwnerByIndex fetches the token number at an index of an owner's
	// enumeration
	TokenOfOwnerByIndex(ctx context.Context, ownerAddress string, index uint64) (string, error)

	// TokensOfOwner enumerates all token numbers held by an address via
	// balanceOf + tokenOfOwnerByIndex
	TokensOfOwner(ctx context.Context, ownerAddress string) ([]string, error)

	// OwnershipHistory fetches the contract-recorded owner chain of a token
	OwnershipHistory(ctx context.Context, tokenNumber string) ([]string, error)

	// MintPrice fetches the current mint price in wei
	MintPrice(ctx context.Context) (*big.Int, error)

	// MintingPaused fetches whether minting is currently paused
	MintingPaused(ctx context.Context) (bool, error)

	// Close closes the connection
	Close()
}

type ledgerClient struct {
	contract common.Address
	parsed   abi.ABI
	client   adapter.EthClient
}

// NewClient creates a ledger client bound to one minting contract
func NewClient(contractAddress string, client adapter.EthClient) (LedgerClient, error) {
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	return &ledgerClient{
		contract: common.HexToAddress(contractAddress),
		parsed:   parsed,
		client:   client,
	}, nil
}

// call packs a method call, executes it and returns the raw result
func (c *ledgerClient) call(ctx context.Context, method string, args ...interface{}) ([]byte, error) {
	data, err := c.parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &c.contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call contract: %w", err)
	}

	return result, nil
}

func parseTokenNumber(tokenNumber string) (*big.Int, error) {
	tokenID, ok := new(big.Int).SetString(tokenNumber, 10)
	if !ok {
		return nil, fmt.Errorf("invalid token number: %s", tokenNumber)
	}
	return tokenID, nil
}

// OwnerOf fetches the current owner of a token
func (c *ledgerClient) OwnerOf(ctx context.Context, tokenNumber string) (string, error) {
	tokenID, err := parseTokenNumber(tokenNumber)
	if err != nil {
		return "", err
	}

	result, err := c.call(ctx, "ownerOf", tokenID)
	if err != nil {
		return "", err
	}

	var owner common.Address
	if err := c.parsed.UnpackIntoInterface(&owner, "ownerOf", result); err != nil {
		return "", fmt.Errorf("failed to unpack result: %w", err)
	}

	return owner.Hex(), nil
}

// TokenURI fetches the metadata URI of a token
func (c *ledgerClient) TokenURI(ctx context.Context, tokenNumber string) (string, error) {
	tokenID, err := parseTokenNumber(tokenNumber)
	if err != nil {
		return "", err
	}

	result, err := c.call(ctx, "tokenURI", tokenID)
	if err != nil {
		return "", err
	}

	var uri string
	if err := c.parsed.UnpackIntoInterface(&uri, "tokenURI", result); err != nil {
		return "", fmt.Errorf("failed to unpack result: %w", err)
	}

	return uri, nil
}

// BalanceOf fetches the number of tokens held by an address
func (c *ledgerClient) BalanceOf(ctx context.Context, ownerAddress string) (uint64, error) {
	result, err := c.call(ctx, "balanceOf", common.HexToAddress(ownerAddress))
	if err != nil {
		return 0, err
	}

	var balance *big.Int
	if err := c.parsed.UnpackIntoInterface(&balance, "balanceOf", result); err != nil {
		return 0, fmt.Errorf("failed to unpack result: %w", err)
	}

	if !balance.IsUint64() {
		return 0, fmt.Errorf("balance out of range: %s", balance.String())
	}
	return balance.Uint64(), nil
}

// TokenOfOwnerByIndex fetches the token number at an index of an owner's enumeration
func (c *ledgerClient) TokenOfOwnerByIndex(ctx context.Context, ownerAddress string, index uint64) (string, error) {
	result, err := c.call(ctx, "tokenOfOwnerByIndex", common.HexToAddress(ownerAddress), new(big.Int).SetUint64(index))
	if err != nil {
		return "", err
	}

	var tokenID *big.Int
	if err := c.parsed.UnpackIntoInterface(&tokenID, "tokenOfOwnerByIndex", result); err != nil {
		return "", fmt.Errorf("failed to unpack result: %w", err)
	}

	return tokenID.String(), nil
}

// TokensOfOwner enumerates all token numbers held by an address. The
// per-index reads fan out on a bounded worker pool; results keep the
// enumeration order.
func (c *ledgerClient) TokensOfOwner(ctx context.Context, ownerAddress string) ([]string, error) {
	balance, err := c.BalanceOf(ctx, ownerAddress)
	if err != nil {
		return nil, err
	}
	if balance == 0 {
		return []string{}, nil
	}

	pool := pond.NewPool(enumerationWorkers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	tokens := make([]string, balance)
	for i := uint64(0); i < balance; i++ {
		index := i
		group.SubmitErr(func() error {
			tokenNumber, err := c.TokenOfOwnerByIndex(ctx, ownerAddress, index)
			if err != nil {
				return fmt.Errorf("failed to enumerate token at index %d: %w", index, err)
			}
			tokens[index] = tokenNumber
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return tokens, nil
}

// OwnershipHistory fetches the contract-recorded owner chain of a token
func (c *ledgerClient) OwnershipHistory(ctx context.Context, tokenNumber string) ([]string, error) {
	tokenID, err := parseTokenNumber(tokenNumber)
	if err != nil {
		return nil, err
	}

	result, err := c.call(ctx, "getOwnershipHistory", tokenID)
	if err != nil {
		return nil, err
	}

	var owners []common.Address
	if err := c.parsed.UnpackIntoInterface(&owners, "getOwnershipHistory", result); err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	history := make([]string, len(owners))
	for i, owner := range owners {
		history[i] = owner.Hex()
	}
	return history, nil
}

// MintPrice fetches the current mint price in wei
func (c *ledgerClient) MintPrice(ctx context.Context) (*big.Int, error) {
	result, err := c.call(ctx, "mintPrice")
	if err != nil {
		return nil, err
	}

	var price *big.Int
	if err := c.parsed.UnpackIntoInterface(&price, "mintPrice", result); err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	return price, nil
}

// MintingPaused fetches whether minting is currently paused
func (c *ledgerClient) MintingPaused(ctx context.Context) (bool, error) {
	result, err := c.call(ctx, "mintingPaused")
	if err != nil {
		return false, err
	}

	var paused bool
	if err := c.parsed.UnpackIntoInterface(&paused, "mintingPaused", result); err != nil {
		return false, fmt.Errorf("failed to unpack result: %w", err)
	}

	return paused, nil
}

// Close closes the connection
func (c *ledgerClient) Close() {
	c.client.Close()
}
