package store

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/presskeep/presskeep/internal"
	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/model"
)

// roleCapabilities maps each role to the set of capabilities it grants.
// The assignments follow the WordPress defaults for the capabilities the
// abilities actually check.
var roleCapabilities = map[string]map[string]bool{
	model.RoleAdministrator: {
		"read":              true,
		"edit_posts":        true,
		"edit_pages":        true,
		"delete_posts":      true,
		"delete_pages":      true,
		"upload_files":      true,
		"list_users":        true,
		"create_users":      true,
		"edit_users":        true,
		"manage_options":    true,
		"manage_plugins":    true,
		"manage_categories": true,
		"switch_themes":     true,
	},
	model.RoleEditor: {
		"read":              true,
		"edit_posts":        true,
		"edit_pages":        true,
		"delete_posts":      true,
		"delete_pages":      true,
		"upload_files":      true,
		"manage_categories": true,
	},
	model.RoleAuthor: {
		"read":         true,
		"edit_posts":   true,
		"delete_posts": true,
		"upload_files": true,
	},
	model.RoleSubscriber: {
		"read": true,
	},
}

// ValidRole reports whether role is one of the supported roles.
func ValidRole(role string) bool {
	_, ok := roleCapabilities[role]
	return ok
}

// HasCapability reports whether the caller's role grants the capability.
// It implements the invocation pipeline's capability checker.
func (s *Store) HasCapability(caller *ability.Caller, capability string) bool {
	if caller == nil {
		return false
	}
	return roleCapabilities[caller.Role][capability]
}

// UserQuery describes a filtered, paginated user listing.
type UserQuery struct {
	Role    string
	Search  string
	PerPage int
	Page    int
}

// CreateUser persists a new user. A password is required; the access token is
// generated unless one is supplied.
func (s *Store) CreateUser(user *model.User, password string) (*model.User, error) {
	if user.Username == "" {
		return nil, fmt.Errorf("username must not be empty")
	}
	if password == "" {
		return nil, fmt.Errorf("password must not be empty")
	}
	if user.Role == "" {
		user.Role = model.RoleSubscriber
	}
	if !ValidRole(user.Role) {
		return nil, fmt.Errorf("invalid role: %s", user.Role)
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Username
	}
	user.PasswordHash = hashPassword(password)
	if user.AccessToken == "" {
		token, err := internal.GenerateAccessToken()
		if err != nil {
			return nil, err
		}
		user.AccessToken = token
	} else if err := internal.ValidateAccessToken(user.AccessToken); err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUser returns the user with the given ID.
func (s *Store) GetUser(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByUsername returns the user with the given username.
func (s *Store) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", username, err)
	}
	return &user, nil
}

// GetUserByAccessToken returns the user holding the given access token.
func (s *Store) GetUserByAccessToken(token string) (*model.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var user model.User
	if err := s.db.Where("access_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	return &user, nil
}

// UpdateUser saves the modified user. An empty password leaves the current
// one unchanged.
func (s *Store) UpdateUser(user *model.User, password string) error {
	if user.Role != "" && !ValidRole(user.Role) {
		return fmt.Errorf("invalid role: %s", user.Role)
	}
	if password != "" {
		user.PasswordHash = hashPassword(password)
	}
	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}
	return nil
}

// ListUsers returns the users matching the query and the total match count.
func (s *Store) ListUsers(q UserQuery) ([]model.User, int64, error) {
	if q.PerPage <= 0 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	tx := s.db.Model(&model.User{})
	if q.Role != "" {
		tx = tx.Where("role = ?", q.Role)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where("username LIKE ? OR email LIKE ? OR display_name LIKE ?", like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []model.User
	err := tx.Order("id ASC").
		Limit(q.PerPage).
		Offset((q.Page - 1) * q.PerPage).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// DeleteUserByUsername removes a user account.
func (s *Store) DeleteUserByUsername(username string) error {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return err
	}
	if err := s.db.Unscoped().Delete(user).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// CountUsers returns the total number of users.
func (s *Store) CountUsers() (int64, error) {
	var count int64
	if err := s.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CheckPassword reports whether the password matches the user's stored hash.
func (s *Store) CheckPassword(user *model.User, password string) bool {
	parts := strings.SplitN(user.PasswordHash, "$", 2)
	if len(parts) != 2 {
		return false
	}
	sum := sha256.Sum256([]byte(parts[0] + password))
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(parts[1])) == 1
}

// hashPassword produces a salted digest in the form "<salt>$<hex>".
func hashPassword(password string) string {
	salt := make([]byte, 16)
	_, _ = rand.Read(salt)
	saltHex := hex.EncodeToString(salt)
	sum := sha256.Sum256([]byte(saltHex + password))
	return saltHex + "$" + hex.EncodeToString(sum[:])
}
