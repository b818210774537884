// Package users provides database operations for local auth users.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByLogin("admin")
package users

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/registrar/internal/entities"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) first(query string, args ...any) (*entities.User, error) {
	var user entities.User
	err := r.db.Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create stores a new user.
func (r *Repository) Create(user *entities.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	return r.first("id = ?", id)
}

// GetByLogin retrieves a user whose username or email equals login.
func (r *Repository) GetByLogin(login string) (*entities.User, error) {
	return r.first("username = ? OR email = ?", login, login)
}

// GetByTokenHash retrieves a user by the SHA-256 hash of their API token.
func (r *Repository) GetByTokenHash(hash string) (*entities.User, error) {
	if hash == "" {
		return nil, ErrNotFound
	}
	return r.first("token_hash = ?", hash)
}

// ExistsByUsernameOrEmail reports whether either value is taken.
func (r *Repository) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Where("username = ? OR email = ?", username, email).Count(&count).Error
	return count > 0, err
}

// Count returns the number of users.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}

// UpdateFields writes the given columns for a user.
// Returns ErrNotFound when no row matched.
func (r *Repository) UpdateFields(id uint, fields map[string]any) error {
	result := r.db.Model(&entities.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
