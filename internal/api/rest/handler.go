package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openmint-xyz/openmint/internal/api/middleware"
	"github.com/openmint-xyz/openmint/internal/api/shared/dto"
	apierrors "github.com/openmint-xyz/openmint/internal/api/shared/errors"
	"github.com/openmint-xyz/openmint/internal/api/shared/executor"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetNonce returns the challenge nonce for a wallet address
	// GET /api/v1/users/nonce/:address
	GetNonce(c *gin.Context)

	// Authenticate verifies a signed challenge and issues a session token
	// POST /api/v1/users/authenticate
	Authenticate(c *gin.Context)

	// GetProfile returns the authenticated user's profile
	// GET /api/v1/users/profile
	GetProfile(c *gin.Context)

	// UpdateProfile updates the authenticated user's profile
	// PUT /api/v1/users/profile
	UpdateProfile(c *gin.Context)

	// GetUserByAddress returns a user's public profile by wallet address
	// GET /api/v1/users/address/:address
	GetUserByAddress(c *gin.Context)

	// CreateNFT registers a freshly minted token (requires authentication)
	// POST /api/v1/nfts
	CreateNFT(c *gin.Context)

	// ListNFTs retrieves tokens with optional filters
	// GET /api/v1/nfts?page=<page>&limit=<limit>&owner=<address>&creator=<address>&category=<category>&search=<text>&sort=<order>
	ListNFTs(c *gin.Context)

	// GetNFT retrieves a single token with histories and a live ledger snapshot
	// GET /api/v1/nfts/:id
	GetNFT(c *gin.Context)

	// UpdateNFT updates the mutable off-chain fields of a token (requires authentication)
	// PUT /api/v1/nfts/:id
	UpdateNFT(c *gin.Context)

	// TransferNFT records an ownership change (requires authentication)
	// POST /api/v1/nfts/transfer
	TransferNFT(c *gin.Context)

	// GetUserNFTs retrieves the tokens currently held by an address
	// GET /api/v1/nfts/user/:address
	GetUserNFTs(c *gin.Context)

	// GetNFTTransactions retrieves the recorded transactions of a token
	// GET /api/v1/nfts/:id/transactions?limit=<limit>&offset=<offset>
	GetNFTTransactions(c *gin.Context)

	// GetContractInfo returns the live admin state of the minting contract
	// GET /api/v1/contract
	GetContractInfo(c *gin.Context)

	// UploadFile pins an uploaded file to the content store (requires authentication)
	// POST /api/v1/ipfs/upload
	UploadFile(c *gin.Context)

	// UploadJSON pins a metadata document to the content store (requires authentication)
	// POST /api/v1/ipfs/upload-json
	UploadJSON(c *gin.Context)

	// ResolveContent redirects a content hash to its public gateway URL
	// GET /api/v1/ipfs/:hash
	ResolveContent(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor    executor.Executor
	maxFileSize int64
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor, maxFileSize int64) Handler {
	return &handler{
		executor:    exec,
		maxFileSize: maxFileSize,
	}
}

// GetNonce returns the challenge nonce for a wallet address
func (h *handler) GetNonce(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		respondBadRequest(c, "Wallet address is required")
		return
	}

	response, err := h.executor.GetNonce(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Authenticate verifies a signed challenge and issues a session token
func (h *handler) Authenticate(c *gin.Context) {
	var req dto.AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	response, err := h.executor.Authenticate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetProfile returns the authenticated user's profile
func (h *handler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, apierrors.NewUnauthorizedError("Authentication required"))
		return
	}

	response, err := h.executor.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateProfile updates the authenticated user's profile
func (h *handler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, apierrors.NewUnauthorizedError("Authentication required"))
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	response, err := h.executor.UpdateProfile(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetUserByAddress returns a user's public profile by wallet address
func (h *handler) GetUserByAddress(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		respondBadRequest(c, "Wallet address is required")
		return
	}

	response, err := h.executor.GetUserByAddress(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CreateNFT registers a freshly minted token
func (h *handler) CreateNFT(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, apierrors.NewUnauthorizedError("Authentication required"))
		return
	}

	var req dto.CreateNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	response, err := h.executor.CreateNFT(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListNFTs retrieves tokens with optional filters
func (h *handler) ListNFTs(c *gin.Context) {
	params, err := ParseListNFTsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	response, err := h.executor.ListNFTs(c.Request.Context(), params.ToExecutorParams())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetNFT retrieves a single token with histories and a live ledger snapshot
func (h *handler) GetNFT(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	response, err := h.executor.GetNFTByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateNFT updates the mutable off-chain fields of a token
func (h *handler) UpdateNFT(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, apierrors.NewUnauthorizedError("Authentication required"))
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	response, err := h.executor.UpdateNFT(c.Request.Context(), user, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// TransferNFT records an ownership change
func (h *handler) TransferNFT(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, apierrors.NewUnauthorizedError("Authentication required"))
		return
	}

	var req dto.TransferNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	response, err := h.executor.TransferNFT(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetUserNFTs retrieves the tokens currently held by an address
func (h *handler) GetUserNFTs(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		respondBadRequest(c, "Wallet address is required")
		return
	}

	response, err := h.executor.GetUserNFTs(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetNFTTransactions retrieves the recorded transactions of a token
func (h *handler) GetNFTTransactions(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	params, err := ParsePaginationQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	response, err := h.executor.GetNFTTransactions(c.Request.Context(), id, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetContractInfo returns the live admin state of the minting contract
func (h *handler) GetContractInfo(c *gin.Context) {
	response, err := h.executor.GetContractInfo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UploadFile pins an uploaded file to the content store
func (h *handler) UploadFile(c *gin.Context) {
	// Bound the multipart read before parsing; the executor re-checks the
	// reported file size so exactly-at-limit uploads pass
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+(1<<20))

	file, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "file is required", err.Error())
		return
	}

	content, err := file.Open()
	if err != nil {
		respondBadRequest(c, "Failed to read file", err.Error())
		return
	}
	defer content.Close()

	response, err := h.executor.UploadFile(c.Request.Context(), uploaderAddress(c), file.Filename, file.Size, content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// UploadJSON pins a metadata document to the content store
func (h *handler) UploadJSON(c *gin.Context) {
	var req dto.UploadJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	response, err := h.executor.UploadJSON(c.Request.Context(), uploaderAddress(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ResolveContent redirects a content hash to its public gateway URL
func (h *handler) ResolveContent(c *gin.Context) {
	hash := c.Param("hash")
	if hash == "" {
		respondBadRequest(c, "Content hash is required")
		return
	}

	c.Redirect(http.StatusFound, h.executor.GatewayURL(hash))
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "openmint-api",
	})
}

// uploaderAddress returns the caller's wallet for pin metadata. Uploads work
// without a token, so unauthenticated callers are tagged anonymous.
func uploaderAddress(c *gin.Context) string {
	if user := middleware.CurrentUser(c); user != nil {
		return user.WalletAddress
	}
	return "anonymous"
}

func parseIDParam(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %s", c.Param("id"))
	}
	return id, nil
}
