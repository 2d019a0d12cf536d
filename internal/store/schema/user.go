package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/openmint-xyz/openmint/internal/domain"
)

// User represents the users table - one row per wallet address that has ever
// requested a nonce or authenticated. Users are created lazily and never deleted.
type User struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// WalletAddress is the user's lowercase Ethereum address (unique key)
	WalletAddress string `gorm:"column:wallet_address;not null;uniqueIndex;type:text"`
	// Username is an optional unique handle
	Username *string `gorm:"column:username;uniqueIndex;type:text"`
	// Email is an optional unique email address (stored lowercase)
	Email *string `gorm:"column:email;uniqueIndex;type:text"`
	// Profile holds display name, bio, avatar, banner and social links as JSON
	Profile datatypes.JSON `gorm:"column:profile;type:jsonb"`
	// Nonce is the single-use challenge value, regenerated after every
	// successful authentication. A short decimal string, not
	// cryptographically sized; it deters trivial replay only.
	Nonce string `gorm:"column:nonce;not null;type:text"`
	// Role is the user's role tag (user, creator, admin)
	Role domain.Role `gorm:"column:role;not null;default:user;type:text"`
	// IsVerified indicates whether the user passed manual verification
	IsVerified bool `gorm:"column:is_verified;not null;default:false"`
	// LastLogin is the timestamp of the most recent successful authentication
	LastLogin *time.Time `gorm:"column:last_login;type:timestamptz"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	MintedNFTs []NFT `gorm:"foreignKey:CreatorID"`
	Favorites  []NFT `gorm:"many2many:user_favorites"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// Profile is the JSON shape stored in User.Profile
type Profile struct {
	DisplayName string        `json:"display_name,omitempty"`
	Bio         string        `json:"bio,omitempty"`
	Avatar      string        `json:"avatar,omitempty"`
	Banner      string        `json:"banner,omitempty"`
	Social      ProfileSocial `json:"social,omitempty"`
}

// ProfileSocial holds social links inside a Profile
type ProfileSocial struct {
	Twitter string `json:"twitter,omitempty"`
	Discord string `json:"discord,omitempty"`
	Website string `json:"website,omitempty"`
}
