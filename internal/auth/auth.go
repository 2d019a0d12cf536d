package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v5"

	"github.com/openmint-xyz/openmint/internal/adapter"
	"github.com/openmint-xyz/openmint/internal/domain"
	"github.com/openmint-xyz/openmint/internal/store/schema"
)

// nonceMax bounds the generated nonce to a short decimal string. The nonce is
// not cryptographically sized; it deters trivial replay only, since every
// successful login rotates it.
const nonceMax = 1000000

// UserStore is the subset of the store the auth service needs
type UserStore interface {
	GetUserByWallet(ctx context.Context, walletAddress string) (*schema.User, error)
	CreateUser(ctx context.Context, user *schema.User) error
	UpdateUserLogin(ctx context.Context, userID uint64, nonce string, loginAt time.Time) error
}

// Claims is the JWT payload issued after a successful wallet authentication
type Claims struct {
	WalletAddress string `json:"walletAddress"`
	jwt.RegisteredClaims
}

// Service issues nonce challenges and session tokens for wallet addresses
type Service struct {
	store    UserStore
	clock    adapter.Clock
	secret   []byte
	tokenTTL time.Duration
}

// NewService creates a new auth service
func NewService(store UserStore, clock adapter.Clock, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		store:    store,
		clock:    clock,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// GetNonce returns the current challenge nonce for a wallet address, creating
// the user record lazily on first sight. Idempotent between logins: calling it
// twice without an intervening authentication returns the same nonce.
func (s *Service) GetNonce(ctx context.Context, walletAddress string) (string, error) {
	address := domain.NormalizeAddress(walletAddress)

	user, err := s.store.GetUserByWallet(ctx, address)
	if err != nil {
		return "", err
	}
	if user != nil {
		return user.Nonce, nil
	}

	user = &schema.User{
		WalletAddress: address,
		Nonce:         generateNonce(),
		Role:          domain.RoleUser,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// Lost a race against a concurrent first request for the same address
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			existing, getErr := s.store.GetUserByWallet(ctx, address)
			if getErr != nil {
				return "", getErr
			}
			if existing != nil {
				return existing.Nonce, nil
			}
		}
		return "", err
	}

	return user.Nonce, nil
}

// Authenticate verifies a signed challenge message and issues a session token.
// The message must embed the user's current nonce; the recovered signing
// address must match the claimed wallet address (case-insensitive). On success
// the nonce is rotated so the consumed challenge cannot be replayed, and
// last_login is stamped.
func (s *Service) Authenticate(ctx context.Context, walletAddress, signature, message string) (string, *schema.User, error) {
	address := domain.NormalizeAddress(walletAddress)

	user, err := s.store.GetUserByWallet(ctx, address)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		// Lazily create the record so the next attempt has a nonce to fetch,
		// but this attempt cannot have signed a nonce that never existed
		user = &schema.User{
			WalletAddress: address,
			Nonce:         generateNonce(),
			Role:          domain.RoleUser,
		}
		if err := s.store.CreateUser(ctx, user); err != nil && !errors.Is(err, domain.ErrUserAlreadyExists) {
			return "", nil, err
		}
		return "", nil, domain.ErrSignatureMismatch
	}

	// Challenge messages end with "Nonce: <nonce>". Anchoring to the suffix
	// keeps a stale nonce from matching as a substring of the current one.
	if !strings.HasSuffix(message, "Nonce: "+user.Nonce) {
		return "", nil, domain.ErrSignatureMismatch
	}

	recovered, err := RecoverAddress(message, signature)
	if err != nil {
		return "", nil, domain.ErrSignatureMismatch
	}
	if !domain.SameAddress(recovered, address) {
		return "", nil, domain.ErrSignatureMismatch
	}

	now := s.clock.Now()
	if err := s.store.UpdateUserLogin(ctx, user.ID, generateNonce(), now); err != nil {
		return "", nil, err
	}

	token, err := s.IssueToken(address, now)
	if err != nil {
		return "", nil, err
	}

	loginAt := now
	user.LastLogin = &loginAt
	return token, user, nil
}

// IssueToken signs a time-boxed bearer token binding the wallet address
func (s *Service) IssueToken(walletAddress string, issuedAt time.Time) (string, error) {
	claims := Claims{
		WalletAddress: domain.NormalizeAddress(walletAddress),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a bearer token and returns the embedded
// wallet address
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.WalletAddress == "" {
		return "", fmt.Errorf("invalid token claims")
	}

	return claims.WalletAddress, nil
}

// RecoverAddress recovers the signing address from an EIP-191 personal_sign
// signature over the given message
func RecoverAddress(message, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("malformed signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return "", fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}

	// Wallets produce V as 27/28; go-ethereum expects 0/1
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[crypto.RecoveryIDOffset] -= 27
	}

	hash := accounts.TextHash([]byte(message))
	pubKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return "", fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey).Hex(), nil
}

// generateNonce returns a short random decimal string in [0, 1000000)
func generateNonce() string {
	n, err := rand.Int(rand.Reader, big.NewInt(nonceMax))
	if err != nil {
		// crypto/rand only fails if the platform entropy source is broken
		panic(fmt.Sprintf("failed to generate nonce: %v", err))
	}
	return n.String()
}
