package domain

import "errors"

var (
	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrNFTNotFound is returned when an NFT record is not found
	ErrNFTNotFound = errors.New("nft not found")

	// ErrNFTAlreadyExists is returned when attempting to register a record
	// for a (contract, token) pair that already has one
	ErrNFTAlreadyExists = errors.New("nft already exists")

	// ErrUsernameTaken is returned when a profile update targets a username
	// that belongs to another user
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken is returned when a profile update targets an email that
	// belongs to another user
	ErrEmailTaken = errors.New("email already taken")

	// ErrSignatureMismatch is returned when the recovered signing address
	// does not match the claimed wallet address
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrUserAlreadyExists is returned when a user record for the wallet
	// address already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrNotOwner is returned when the caller is not the cached current owner
	// of the NFT being transferred
	ErrNotOwner = errors.New("caller is not the current owner")

	// ErrOwnershipMismatch is returned when the ledger owner of a token does
	// not match the claimed owner
	ErrOwnershipMismatch = errors.New("ledger owner does not match claimed owner")

	// ErrTransactionNotFound is returned when a transaction record is not found
	ErrTransactionNotFound = errors.New("transaction not found")
)
