package dto

import (
	"fmt"
	"regexp"
	"strings"

	apierrors "github.com/openmint-xyz/openmint/internal/api/shared/errors"
	"github.com/openmint-xyz/openmint/internal/domain"
)

const (
	maxNameLength        = 120
	maxDescriptionLength = 4000
	maxTagsPerNFT        = 16
	maxUsernameLength    = 30
	minUsernameLength    = 3
)

var (
	usernameRe  = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	signatureRe = regexp.MustCompile(`^0x[0-9a-fA-F]{130}$`)
)

// AuthenticateRequest represents the request body for wallet authentication
type AuthenticateRequest struct {
	WalletAddress string `json:"walletAddress"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
}

// Validate validates the request body
func (r *AuthenticateRequest) Validate() error {
	// Validate: wallet address must be provided and valid
	if r.WalletAddress == "" {
		return apierrors.NewValidationError("walletAddress is required")
	}
	if !domain.IsEthereumAddress(r.WalletAddress) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid wallet address: %s", r.WalletAddress))
	}

	// Validate: signature must be a 65-byte hex string
	if r.Signature == "" {
		return apierrors.NewValidationError("signature is required")
	}
	if !signatureRe.MatchString(r.Signature) {
		return apierrors.NewValidationError("signature must be a 65-byte hex string")
	}

	// Validate: message must be provided
	if r.Message == "" {
		return apierrors.NewValidationError("message is required")
	}

	return nil
}

// ProfileRequest represents the mutable profile fields of a user
type ProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	Banner      *string `json:"banner,omitempty"`
	Twitter     *string `json:"twitter,omitempty"`
	Discord     *string `json:"discord,omitempty"`
	Website     *string `json:"website,omitempty"`
}

// UpdateProfileRequest represents the request body for updating a user profile
type UpdateProfileRequest struct {
	Username *string         `json:"username,omitempty"`
	Email    *string         `json:"email,omitempty"`
	Profile  *ProfileRequest `json:"profile,omitempty"`
}

// Validate validates the request body
func (r *UpdateProfileRequest) Validate() error {
	// Validate: at least one field must be provided
	if r.Username == nil && r.Email == nil && r.Profile == nil {
		return apierrors.NewValidationError("at least one of username, email or profile is required")
	}

	// Validate: username must be a short handle
	if r.Username != nil {
		username := *r.Username
		if len(username) < minUsernameLength || len(username) > maxUsernameLength {
			return apierrors.NewValidationError(fmt.Sprintf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength))
		}
		if !usernameRe.MatchString(username) {
			return apierrors.NewValidationError("username may only contain letters, digits and underscores")
		}
	}

	// Validate: email must look like an email
	if r.Email != nil && !emailRe.MatchString(*r.Email) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid email: %s", *r.Email))
	}

	return nil
}

// NFTAttribute represents one metadata attribute of a token
type NFTAttribute struct {
	TraitType   string      `json:"trait_type"`
	Value       interface{} `json:"value"`
	DisplayType string      `json:"display_type,omitempty"`
}

// NFTMetadata represents the metadata object of a token
type NFTMetadata struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Image       string                 `json:"image"`
	ExternalURL string                 `json:"external_url,omitempty"`
	Attributes  []NFTAttribute         `json:"attributes,omitempty"`
	Properties  map[string]interface{} `json:"properties,omitempty"`
}

// CreateNFTRequest represents the request body for registering a minted token
type CreateNFTRequest struct {
	TokenID         string          `json:"tokenId"`
	ContractAddress string          `json:"contractAddress"`
	Metadata        NFTMetadata     `json:"metadata"`
	IPFSHash        string          `json:"ipfsHash"`
	ImageIPFSHash   string          `json:"imageIpfsHash"`
	TransactionHash string          `json:"transactionHash"`
	Category        domain.Category `json:"category,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
}

// Validate validates the request body
func (r *CreateNFTRequest) Validate() error {
	// Validate: token ID must be a non-negative integer string
	if r.TokenID == "" {
		return apierrors.NewValidationError("tokenId is required")
	}
	if !domain.ValidTokenNumber(r.TokenID) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid tokenId: %s", r.TokenID))
	}

	// Validate: contract address must be a valid Ethereum address
	if r.ContractAddress == "" {
		return apierrors.NewValidationError("contractAddress is required")
	}
	if !domain.IsEthereumAddress(r.ContractAddress) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid contractAddress: %s", r.ContractAddress))
	}

	// Validate: metadata must carry a name and an image reference
	if strings.TrimSpace(r.Metadata.Name) == "" {
		return apierrors.NewValidationError("metadata.name is required")
	}
	if len(r.Metadata.Name) > maxNameLength {
		return apierrors.NewValidationError(fmt.Sprintf("metadata.name must be at most %d characters", maxNameLength))
	}
	if len(r.Metadata.Description) > maxDescriptionLength {
		return apierrors.NewValidationError(fmt.Sprintf("metadata.description must be at most %d characters", maxDescriptionLength))
	}
	if r.Metadata.Image == "" {
		return apierrors.NewValidationError("metadata.image is required")
	}

	// Validate: content hashes must be provided
	if r.IPFSHash == "" {
		return apierrors.NewValidationError("ipfsHash is required")
	}
	if r.ImageIPFSHash == "" {
		return apierrors.NewValidationError("imageIpfsHash is required")
	}

	// Validate: transaction hash must be a 32-byte hex string
	if r.TransactionHash == "" {
		return apierrors.NewValidationError("transactionHash is required")
	}
	if !domain.IsTxHash(r.TransactionHash) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid transactionHash: %s", r.TransactionHash))
	}

	// Validate: category must be known if provided
	if r.Category != "" && !domain.IsValidCategory(r.Category) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid category: %s", r.Category))
	}

	// Validate: tag list must be bounded
	if len(r.Tags) > maxTagsPerNFT {
		return apierrors.NewValidationError(fmt.Sprintf("maximum %d tags allowed", maxTagsPerNFT))
	}

	return nil
}

// TransferNFTRequest represents the request body for recording a transfer
type TransferNFTRequest struct {
	TokenID         string  `json:"tokenId"`
	ToAddress       string  `json:"toAddress"`
	TransactionHash string  `json:"transactionHash"`
	Price           *string `json:"price,omitempty"`
	Currency        *string `json:"currency,omitempty"`
}

// Validate validates the request body
func (r *TransferNFTRequest) Validate() error {
	// Validate: token ID must be a non-negative integer string
	if r.TokenID == "" {
		return apierrors.NewValidationError("tokenId is required")
	}
	if !domain.ValidTokenNumber(r.TokenID) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid tokenId: %s", r.TokenID))
	}

	// Validate: recipient must be a valid, non-zero Ethereum address
	if r.ToAddress == "" {
		return apierrors.NewValidationError("toAddress is required")
	}
	if !domain.IsEthereumAddress(r.ToAddress) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid toAddress: %s", r.ToAddress))
	}
	if domain.SameAddress(r.ToAddress, domain.ZeroAddress) {
		return apierrors.NewValidationError("toAddress must not be the zero address")
	}

	// Validate: transaction hash must be a 32-byte hex string
	if r.TransactionHash == "" {
		return apierrors.NewValidationError("transactionHash is required")
	}
	if !domain.IsTxHash(r.TransactionHash) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid transactionHash: %s", r.TransactionHash))
	}

	// Validate: price must be a decimal wei string if provided
	if r.Price != nil && !domain.ValidTokenNumber(*r.Price) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid price: %s", *r.Price))
	}

	return nil
}

// UpdateNFTRequest represents the request body for updating off-chain fields
type UpdateNFTRequest struct {
	Description *string          `json:"description,omitempty"`
	ExternalURL *string          `json:"external_url,omitempty"`
	Category    *domain.Category `json:"category,omitempty"`
	Tags        *[]string        `json:"tags,omitempty"`
}

// Validate validates the request body
func (r *UpdateNFTRequest) Validate() error {
	// Validate: at least one field must be provided
	if r.Description == nil && r.ExternalURL == nil && r.Category == nil && r.Tags == nil {
		return apierrors.NewValidationError("at least one updatable field is required")
	}

	if r.Description != nil && len(*r.Description) > maxDescriptionLength {
		return apierrors.NewValidationError(fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}

	if r.Category != nil && !domain.IsValidCategory(*r.Category) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid category: %s", *r.Category))
	}

	if r.Tags != nil && len(*r.Tags) > maxTagsPerNFT {
		return apierrors.NewValidationError(fmt.Sprintf("maximum %d tags allowed", maxTagsPerNFT))
	}

	return nil
}

// UploadJSONRequest represents the request body for pinning a JSON metadata
// document
type UploadJSONRequest struct {
	Metadata map[string]interface{} `json:"metadata"`
}

// Validate validates the request body
func (r *UploadJSONRequest) Validate() error {
	if len(r.Metadata) == 0 {
		return apierrors.NewValidationError("metadata is required")
	}
	return nil
}
