package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/openmint-xyz/openmint/internal/adapter"
	"github.com/openmint-xyz/openmint/internal/api/shared/dto"
	apierrors "github.com/openmint-xyz/openmint/internal/api/shared/errors"
	"github.com/openmint-xyz/openmint/internal/auth"
	"github.com/openmint-xyz/openmint/internal/domain"
	"github.com/openmint-xyz/openmint/internal/logger"
	"github.com/openmint-xyz/openmint/internal/providers/ethereum"
	"github.com/openmint-xyz/openmint/internal/providers/pinata"
	"github.com/openmint-xyz/openmint/internal/store"
	"github.com/openmint-xyz/openmint/internal/store/schema"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	eventsLimit      = 50
)

// allowedUploadTypes is the content-type whitelist for file uploads, detected
// from content rather than the client-reported type
var allowedUploadTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/svg+xml",
	"image/webp",
	"video/mp4",
	"audio/mpeg",
	"application/pdf",
}

// ListNFTsParams holds the whitelisted listing filters
type ListNFTsParams struct {
	Page     int
	Limit    int
	Owner    string
	Creator  string
	Category domain.Category
	Search   string
	Sort     store.NFTSort
}

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// GetNonce returns the current challenge nonce for a wallet address
	GetNonce(ctx context.Context, walletAddress string) (*dto.NonceResponse, error)

	// Authenticate verifies a signed challenge and issues a session token
	Authenticate(ctx context.Context, req *dto.AuthenticateRequest) (*dto.AuthResponse, error)

	// GetProfile retrieves the authenticated user's profile
	GetProfile(ctx context.Context, userID uint64) (*dto.UserResponse, error)

	// UpdateProfile updates the authenticated user's profile
	UpdateProfile(ctx context.Context, userID uint64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)

	// GetUserByAddress retrieves a user's public profile by wallet address
	GetUserByAddress(ctx context.Context, walletAddress string) (*dto.UserResponse, error)

	// CreateNFT registers a freshly minted token after verifying ledger ownership
	CreateNFT(ctx context.Context, caller *schema.User, req *dto.CreateNFTRequest) (*dto.NFTResponse, error)

	// TransferNFT records an ownership change against the cached owner
	TransferNFT(ctx context.Context, caller *schema.User, req *dto.TransferNFTRequest) (*dto.NFTResponse, error)

	// UpdateNFT updates the mutable off-chain fields of a token the caller created
	UpdateNFT(ctx context.Context, caller *schema.User, nftID uint64, req *dto.UpdateNFTRequest) (*dto.NFTResponse, error)

	// GetNFTByID retrieves a single token with its histories and a live ledger snapshot
	GetNFTByID(ctx context.Context, nftID uint64) (*dto.NFTDetailResponse, error)

	// ListNFTs retrieves tokens matching the filters
	ListNFTs(ctx context.Context, params ListNFTsParams) (*dto.NFTListResponse, error)

	// GetUserNFTs retrieves the mirrored tokens currently held by an address,
	// enumerated from the ledger
	GetUserNFTs(ctx context.Context, ownerAddress string) (*dto.NFTListResponse, error)

	// GetNFTTransactions retrieves the recorded transactions of a token
	GetNFTTransactions(ctx context.Context, nftID uint64, limit int, offset uint64) (*dto.TransactionListResponse, error)

	// GetContractInfo retrieves the live admin state of the minting contract
	GetContractInfo(ctx context.Context) (*dto.ContractInfoResponse, error)

	// UploadFile pins an uploaded file to the content store
	UploadFile(ctx context.Context, uploadedBy, filename string, size int64, content io.Reader) (*dto.PinResponse, error)

	// UploadJSON pins a metadata document to the content store
	UploadJSON(ctx context.Context, uploadedBy string, req *dto.UploadJSONRequest) (*dto.PinResponse, error)

	// GatewayURL resolves a content hash to its public gateway URL
	GatewayURL(hash string) string
}

type executor struct {
	store           store.Store
	auth            *auth.Service
	ledger          ethereum.LedgerClient
	pinner          pinata.Client
	clock           adapter.Clock
	contractAddress string
	chainID         int64
	maxFileSize     int64
}

// NewExecutor creates the API executor bound to one minting contract
func NewExecutor(
	st store.Store,
	authService *auth.Service,
	ledger ethereum.LedgerClient,
	pinner pinata.Client,
	clock adapter.Clock,
	contractAddress string,
	chainID int64,
	maxFileSize int64,
) Executor {
	return &executor{
		store:           st,
		auth:            authService,
		ledger:          ledger,
		pinner:          pinner,
		clock:           clock,
		contractAddress: domain.NormalizeAddress(contractAddress),
		chainID:         chainID,
		maxFileSize:     maxFileSize,
	}
}

func (e *executor) GetNonce(ctx context.Context, walletAddress string) (*dto.NonceResponse, error) {
	if !domain.IsEthereumAddress(walletAddress) {
		return nil, apierrors.NewValidationError(fmt.Sprintf("invalid wallet address: %s", walletAddress))
	}

	nonce, err := e.auth.GetNonce(ctx, walletAddress)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get nonce: %v", err))
	}

	return &dto.NonceResponse{Nonce: nonce}, nil
}

func (e *executor) Authenticate(ctx context.Context, req *dto.AuthenticateRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	token, user, err := e.auth.Authenticate(ctx, req.WalletAddress, req.Signature, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrSignatureMismatch) {
			return nil, apierrors.NewSignatureMismatchError()
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to authenticate: %v", err))
	}

	return &dto.AuthResponse{
		Token: token,
		User:  dto.MapUserToDTO(user),
	}, nil
}

func (e *executor) GetProfile(ctx context.Context, userID uint64) (*dto.UserResponse, error) {
	user, err := e.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get user: %v", err))
	}
	if user == nil {
		return nil, apierrors.NewNotFoundError("User not found")
	}

	return dto.MapUserToDTO(user), nil
}

func (e *executor) UpdateProfile(ctx context.Context, userID uint64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	update := store.UserProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
	}
	if req.Profile != nil {
		update.Profile = mergeProfile(req.Profile)
	}

	user, err := e.store.UpdateUserProfile(ctx, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return nil, apierrors.NewNotFoundError("User not found")
		case errors.Is(err, domain.ErrUsernameTaken):
			return nil, apierrors.NewDuplicateRecordError("Username already taken")
		case errors.Is(err, domain.ErrEmailTaken):
			return nil, apierrors.NewDuplicateRecordError("Email already taken")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to update profile: %v", err))
	}

	return dto.MapUserToDTO(user), nil
}

func (e *executor) GetUserByAddress(ctx context.Context, walletAddress string) (*dto.UserResponse, error) {
	if !domain.IsEthereumAddress(walletAddress) {
		return nil, apierrors.NewValidationError(fmt.Sprintf("invalid wallet address: %s", walletAddress))
	}

	user, err := e.store.GetUserByWallet(ctx, domain.NormalizeAddress(walletAddress))
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get user: %v", err))
	}
	if user == nil {
		return nil, apierrors.NewNotFoundError("User not found")
	}

	return dto.MapUserToDTO(user), nil
}

func (e *executor) CreateNFT(ctx context.Context, caller *schema.User, req *dto.CreateNFTRequest) (*dto.NFTResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !domain.SameAddress(req.ContractAddress, e.contractAddress) {
		return nil, apierrors.NewValidationError(fmt.Sprintf("unsupported contract: %s", req.ContractAddress))
	}

	// The ledger is the source of truth for ownership: only the on-chain owner
	// may register the mint
	ledgerOwner, err := e.ledger.OwnerOf(ctx, req.TokenID)
	if err != nil {
		return nil, apierrors.NewServiceError(fmt.Sprintf("Failed to verify ledger ownership: %v", err))
	}
	if !domain.SameAddress(ledgerOwner, caller.WalletAddress) {
		return nil, apierrors.NewOwnershipMismatchError(fmt.Sprintf("token %s is owned by %s", req.TokenID, ledgerOwner))
	}

	category := req.Category
	if category == "" {
		category = domain.CategoryArt
	}

	nft := schema.NFT{
		TokenNumber:     req.TokenID,
		ContractAddress: e.contractAddress,
		CreatorID:       caller.ID,
		CurrentOwner:    domain.NormalizeAddress(caller.WalletAddress),
		Name:            req.Metadata.Name,
		Description:     req.Metadata.Description,
		Image:           req.Metadata.Image,
		ExternalURL:     req.Metadata.ExternalURL,
		IPFSHash:        req.IPFSHash,
		ImageIPFSHash:   req.ImageIPFSHash,
		Category:        category,
	}
	if len(req.Metadata.Attributes) > 0 {
		if nft.Attributes, err = marshalJSONField(req.Metadata.Attributes); err != nil {
			return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to encode attributes: %v", err))
		}
	}
	if len(req.Metadata.Properties) > 0 {
		if nft.Properties, err = marshalJSONField(req.Metadata.Properties); err != nil {
			return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to encode properties: %v", err))
		}
	}
	if len(req.Tags) > 0 {
		if nft.Tags, err = marshalJSONField(req.Tags); err != nil {
			return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to encode tags: %v", err))
		}
	}

	created, err := e.store.CreateNFTMint(ctx, store.CreateNFTMintInput{
		NFT:        nft,
		MintTxHash: req.TransactionHash,
		MintedAt:   e.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrNFTAlreadyExists) {
			return nil, apierrors.NewDuplicateRecordError("Token already registered",
				fmt.Sprintf("token %s on %s", req.TokenID, req.ContractAddress))
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create NFT: %v", err))
	}
	created.Creator = caller

	return dto.MapNFTToDTO(created), nil
}

func (e *executor) TransferNFT(ctx context.Context, caller *schema.User, req *dto.TransferNFTRequest) (*dto.NFTResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	nft, err := e.store.GetNFTByContractToken(ctx, e.contractAddress, req.TokenID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get NFT: %v", err))
	}
	if nft == nil {
		return nil, apierrors.NewNotFoundError("NFT not found", fmt.Sprintf("token %s", req.TokenID))
	}

	// Cheap pre-check against the cached owner. The store re-checks under a
	// row lock, so concurrent transfers of the same token serialize and the
	// loser gets ErrNotOwner.
	if !domain.SameAddress(nft.CurrentOwner, caller.WalletAddress) {
		return nil, apierrors.NewNotOwnerError(fmt.Sprintf("token %s is held by %s", req.TokenID, nft.CurrentOwner))
	}

	updated, err := e.store.RecordTransfer(ctx, store.RecordTransferInput{
		NFTID:       nft.ID,
		FromAddress: domain.NormalizeAddress(caller.WalletAddress),
		ToAddress:   domain.NormalizeAddress(req.ToAddress),
		TxHash:      req.TransactionHash,
		Price:       req.Price,
		Currency:    req.Currency,
		TransferAt:  e.clock.Now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotOwner):
			return nil, apierrors.NewNotOwnerError(fmt.Sprintf("token %s changed hands", req.TokenID))
		case errors.Is(err, domain.ErrNFTNotFound):
			return nil, apierrors.NewNotFoundError("NFT not found")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to record transfer: %v", err))
	}

	return dto.MapNFTToDTO(updated), nil
}

func (e *executor) UpdateNFT(ctx context.Context, caller *schema.User, nftID uint64, req *dto.UpdateNFTRequest) (*dto.NFTResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	nft, err := e.store.GetNFTByID(ctx, nftID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get NFT: %v", err))
	}
	if nft == nil {
		return nil, apierrors.NewNotFoundError("NFT not found")
	}
	if nft.CreatorID != caller.ID {
		return nil, apierrors.NewForbiddenError("Only the creator can update this NFT")
	}

	update := store.NFTUpdate{
		Description: req.Description,
		ExternalURL: req.ExternalURL,
		Category:    req.Category,
	}
	if req.Tags != nil {
		tags, err := marshalJSONField(*req.Tags)
		if err != nil {
			return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to encode tags: %v", err))
		}
		update.Tags = &tags
	}

	updated, err := e.store.UpdateNFT(ctx, nftID, update)
	if err != nil {
		if errors.Is(err, domain.ErrNFTNotFound) {
			return nil, apierrors.NewNotFoundError("NFT not found")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to update NFT: %v", err))
	}

	return dto.MapNFTToDTO(updated), nil
}

func (e *executor) GetNFTByID(ctx context.Context, nftID uint64) (*dto.NFTDetailResponse, error) {
	nft, err := e.store.GetNFTByID(ctx, nftID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get NFT: %v", err))
	}
	if nft == nil {
		return nil, apierrors.NewNotFoundError("NFT not found")
	}

	// Fire-and-forget: a failed view bump never fails the read
	go func() {
		viewCtx := context.WithoutCancel(ctx)
		if err := e.store.IncrementViewCount(viewCtx, nftID); err != nil {
			logger.Warn("failed to increment view count", zap.Uint64("nft_id", nftID), zap.Error(err))
		}
	}()

	entries, err := e.store.GetOwnershipEntries(ctx, nftID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get ownership history: %v", err))
	}
	events, _, err := e.store.GetNFTEvents(ctx, nftID, eventsLimit, 0)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get events: %v", err))
	}

	return &dto.NFTDetailResponse{
		NFTResponse:      dto.MapNFTToDTO(nft),
		OwnershipHistory: dto.MapOwnershipEntriesToDTO(entries),
		Events:           dto.MapNFTEventsToDTO(events),
		OnChainData:      e.readOnChainData(ctx, nft.TokenNumber),
	}, nil
}

// readOnChainData snapshots the live ledger state of a token. Each read is
// best-effort: a failed call leaves its field nil and the mirrored record is
// still served.
func (e *executor) readOnChainData(ctx context.Context, tokenNumber string) *dto.OnChainData {
	data := &dto.OnChainData{}

	if uri, err := e.ledger.TokenURI(ctx, tokenNumber); err != nil {
		logger.WarnCtx(ctx, "failed to read token URI", zap.String("token", tokenNumber), zap.Error(err))
	} else {
		data.TokenURI = &uri
	}

	if owner, err := e.ledger.OwnerOf(ctx, tokenNumber); err != nil {
		logger.WarnCtx(ctx, "failed to read ledger owner", zap.String("token", tokenNumber), zap.Error(err))
	} else {
		data.CurrentOwner = &owner
	}

	if history, err := e.ledger.OwnershipHistory(ctx, tokenNumber); err != nil {
		logger.WarnCtx(ctx, "failed to read ownership history", zap.String("token", tokenNumber), zap.Error(err))
	} else {
		data.OwnershipHistory = history
	}

	return data
}

func (e *executor) ListNFTs(ctx context.Context, params ListNFTsParams) (*dto.NFTListResponse, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := store.NFTQueryFilter{
		Category: params.Category,
		Search:   params.Search,
		Sort:     params.Sort,
		Limit:    limit,
		Offset:   uint64(page-1) * uint64(limit), //nolint:gosec,G115
	}
	if params.Owner != "" {
		filter.Owner = domain.NormalizeAddress(params.Owner)
	}
	if params.Creator != "" {
		creator, err := e.store.GetUserByWallet(ctx, domain.NormalizeAddress(params.Creator))
		if err != nil {
			return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get creator: %v", err))
		}
		if creator == nil {
			// Unknown creator matches nothing
			return dto.MapNFTListToDTO(nil, 0, page, limit), nil
		}
		filter.CreatorID = creator.ID
	}

	nfts, total, err := e.store.ListNFTs(ctx, filter)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list NFTs: %v", err))
	}

	return dto.MapNFTListToDTO(nfts, total, page, limit), nil
}

func (e *executor) GetUserNFTs(ctx context.Context, ownerAddress string) (*dto.NFTListResponse, error) {
	if !domain.IsEthereumAddress(ownerAddress) {
		return nil, apierrors.NewValidationError(fmt.Sprintf("invalid wallet address: %s", ownerAddress))
	}

	tokenNumbers, err := e.ledger.TokensOfOwner(ctx, ownerAddress)
	if err != nil {
		return nil, apierrors.NewServiceError(fmt.Sprintf("Failed to enumerate tokens: %v", err))
	}
	if len(tokenNumbers) == 0 {
		return dto.MapNFTListToDTO(nil, 0, 1, defaultPageLimit), nil
	}

	mirrored, err := e.store.GetNFTsByTokenNumbers(ctx, e.contractAddress, tokenNumbers)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get NFTs: %v", err))
	}

	// Keep the ledger's enumeration order; tokens the API never mirrored are
	// silently omitted
	nfts := make([]*schema.NFT, 0, len(mirrored))
	for _, tokenNumber := range tokenNumbers {
		if nft, ok := mirrored[tokenNumber]; ok {
			nfts = append(nfts, nft)
		}
	}

	return dto.MapNFTListToDTO(nfts, uint64(len(nfts)), 1, len(tokenNumbers)), nil
}

func (e *executor) GetNFTTransactions(ctx context.Context, nftID uint64, limit int, offset uint64) (*dto.TransactionListResponse, error) {
	nft, err := e.store.GetNFTByID(ctx, nftID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get NFT: %v", err))
	}
	if nft == nil {
		return nil, apierrors.NewNotFoundError("NFT not found")
	}

	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	txs, total, err := e.store.GetTransactionsByNFT(ctx, nftID, limit, offset)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get transactions: %v", err))
	}

	return &dto.TransactionListResponse{
		Transactions: dto.MapTransactionsToDTO(txs),
		Total:        total,
	}, nil
}

func (e *executor) GetContractInfo(ctx context.Context) (*dto.ContractInfoResponse, error) {
	price, err := e.ledger.MintPrice(ctx)
	if err != nil {
		return nil, apierrors.NewServiceError(fmt.Sprintf("Failed to read mint price: %v", err))
	}
	paused, err := e.ledger.MintingPaused(ctx)
	if err != nil {
		return nil, apierrors.NewServiceError(fmt.Sprintf("Failed to read pause state: %v", err))
	}

	return &dto.ContractInfoResponse{
		ContractAddress: e.contractAddress,
		ChainID:         e.chainID,
		MintPrice:       price.String(),
		MintingPaused:   paused,
	}, nil
}

func (e *executor) UploadFile(ctx context.Context, uploadedBy, filename string, size int64, content io.Reader) (*dto.PinResponse, error) {
	if filename == "" {
		return nil, apierrors.NewValidationError("filename is required")
	}
	if size > e.maxFileSize {
		return nil, apierrors.NewPayloadTooLargeError(
			fmt.Sprintf("File exceeds the %d byte limit", e.maxFileSize),
			fmt.Sprintf("got %d bytes", size))
	}

	// Sniff the content type from the bytes themselves; the client-reported
	// type is not trusted
	var header bytes.Buffer
	mtype, err := mimetype.DetectReader(io.TeeReader(content, &header))
	if err != nil {
		return nil, apierrors.NewBadRequestError("Failed to read file content", err.Error())
	}
	if !isAllowedUploadType(mtype) {
		return nil, apierrors.NewValidationError(fmt.Sprintf("unsupported file type: %s", mtype.String()))
	}
	full := io.MultiReader(bytes.NewReader(header.Bytes()), content)

	result, err := e.pinner.PinFile(ctx, filename, full, pinata.PinMetadata{
		Name:       filename,
		UploadedBy: uploadedBy,
		Timestamp:  e.clock.Now(),
	})
	if err != nil {
		return nil, apierrors.NewServiceError(fmt.Sprintf("Failed to pin file: %v", err))
	}

	return mapPinResult(result), nil
}

func (e *executor) UploadJSON(ctx context.Context, uploadedBy string, req *dto.UploadJSONRequest) (*dto.PinResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	name := "metadata.json"
	if n, ok := req.Metadata["name"].(string); ok && n != "" {
		name = n
	}

	result, err := e.pinner.PinJSON(ctx, req.Metadata, pinata.PinMetadata{
		Name:       name,
		UploadedBy: uploadedBy,
		Timestamp:  e.clock.Now(),
	})
	if err != nil {
		return nil, apierrors.NewServiceError(fmt.Sprintf("Failed to pin JSON: %v", err))
	}

	return mapPinResult(result), nil
}

func (e *executor) GatewayURL(hash string) string {
	return e.pinner.GatewayURL(hash)
}

func isAllowedUploadType(mtype *mimetype.MIME) bool {
	for _, allowed := range allowedUploadTypes {
		if mtype.Is(allowed) {
			return true
		}
	}
	return false
}

func mapPinResult(result *pinata.PinResult) *dto.PinResponse {
	return &dto.PinResponse{
		IPFSHash:  result.IPFSHash,
		PinSize:   result.PinSize,
		Timestamp: result.Timestamp,
		URL:       result.URL,
	}
}

// mergeProfile flattens the request's profile fields into the stored shape
func mergeProfile(req *dto.ProfileRequest) *schema.Profile {
	profile := &schema.Profile{}
	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Avatar != nil {
		profile.Avatar = *req.Avatar
	}
	if req.Banner != nil {
		profile.Banner = *req.Banner
	}
	if req.Twitter != nil {
		profile.Social.Twitter = *req.Twitter
	}
	if req.Discord != nil {
		profile.Social.Discord = *req.Discord
	}
	if req.Website != nil {
		profile.Social.Website = *req.Website
	}
	return profile
}

func marshalJSONField(v interface{}) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}
