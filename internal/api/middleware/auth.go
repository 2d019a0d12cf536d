package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/openmint-xyz/openmint/internal/api/shared/errors"
	"github.com/openmint-xyz/openmint/internal/auth"
	"github.com/openmint-xyz/openmint/internal/logger"
	"github.com/openmint-xyz/openmint/internal/store/schema"
)

const (
	// AuthUserKey is the gin context key holding the authenticated user record
	AuthUserKey = "auth_user"
	// AuthWalletKey is the gin context key holding the authenticated wallet address
	AuthWalletKey = "auth_wallet"
)

// UserLoader resolves a wallet address to its user record
type UserLoader interface {
	GetUserByWallet(ctx context.Context, walletAddress string) (*schema.User, error)
}

// authenticate validates the Authorization header and loads the user record
func authenticate(c *gin.Context, authService *auth.Service, users UserLoader) (*schema.User, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing Authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errors.New("invalid Authorization header format")
	}

	walletAddress, err := authService.ValidateToken(parts[1])
	if err != nil {
		return nil, err
	}

	user, err := users.GetUserByWallet(c.Request.Context(), walletAddress)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("unknown wallet address")
	}

	return user, nil
}

// Auth returns a gin middleware that requires a valid bearer token and loads
// the authenticated user into the request context
func Auth(authService *auth.Service, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authenticate(c, authService, users)
		if err != nil {
			logger.Warn("authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			apiErr := apierrors.NewUnauthorizedError("Authentication failed", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiErr)
			return
		}

		c.Set(AuthUserKey, user)
		c.Set(AuthWalletKey, user.WalletAddress)
		c.Next()
	}
}

// OptionalAuth returns a gin middleware that loads the authenticated user when
// a valid bearer token is present and continues anonymously otherwise
func OptionalAuth(authService *auth.Service, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if user, err := authenticate(c, authService, users); err == nil {
				c.Set(AuthUserKey, user)
				c.Set(AuthWalletKey, user.WalletAddress)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user from the gin context, if any
func CurrentUser(c *gin.Context) *schema.User {
	value, ok := c.Get(AuthUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*schema.User)
	if !ok {
		return nil
	}
	return user
}
