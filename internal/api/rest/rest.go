package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/openmint-xyz/openmint/internal/api/middleware"
	"github.com/openmint-xyz/openmint/internal/auth"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authService *auth.Service, users middleware.UserLoader) {
	requireAuth := middleware.Auth(authService, users)
	optionalAuth := middleware.OptionalAuth(authService, users)

	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Wallet authentication (public)
		v1.GET("/users/nonce/:address", handler.GetNonce)
		v1.POST("/users/authenticate", handler.Authenticate)

		// Profile endpoints (requires authentication)
		v1.GET("/users/profile", requireAuth, handler.GetProfile)
		v1.PUT("/users/profile", requireAuth, handler.UpdateProfile)

		// Public user lookup
		v1.GET("/users/address/:address", handler.GetUserByAddress)

		// NFT endpoints (public read access)
		v1.GET("/nfts", handler.ListNFTs)
		v1.GET("/nfts/:id", handler.GetNFT)
		v1.GET("/nfts/:id/transactions", handler.GetNFTTransactions)
		v1.GET("/nfts/user/:address", handler.GetUserNFTs)

		// NFT lifecycle endpoints (requires authentication)
		v1.POST("/nfts", requireAuth, handler.CreateNFT)
		v1.PUT("/nfts/:id", requireAuth, handler.UpdateNFT)
		v1.POST("/nfts/transfer", requireAuth, handler.TransferNFT)

		// Contract state (public read access)
		v1.GET("/contract", handler.GetContractInfo)

		// Content store relay (anonymous uploads are tagged as such)
		v1.POST("/ipfs/upload", optionalAuth, handler.UploadFile)
		v1.POST("/ipfs/upload-json", optionalAuth, handler.UploadJSON)
		v1.GET("/ipfs/:hash", handler.ResolveContent)
	}
}
