package model

import "gorm.io/gorm"

// User roles supported by the content store. The role determines which
// capabilities a user holds (see the store's role-capability map).
const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"
	RoleAuthor        = "author"
	RoleSubscriber    = "subscriber"
)

// User represents a user account in the content store.
// A user authenticates against the PressKeep API with their access token.
type User struct {
	gorm.Model

	Username    string `json:"username" gorm:"uniqueIndex;not null"`
	Email       string `json:"email" gorm:"index"`
	DisplayName string `json:"display_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`

	Role string `json:"role" gorm:"type:varchar(30);default:'subscriber'"`

	// PasswordHash stores a salted SHA-256 digest of the user's password.
	// It is never exposed through the API.
	PasswordHash string `json:"-"`

	// AccessToken authenticates the user against the PressKeep API and MCP endpoints.
	AccessToken string `json:"-" gorm:"uniqueIndex"`
}
