package auth

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
)

// LocalProvider handles local database authentication and account upkeep.
type LocalProvider struct {
	db *gorm.DB
}

const whereID = "id = ?"

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates a user against the local database.
func (p *LocalProvider) Authenticate(username, password string) (*models.User, error) {
	var user models.User

	err := p.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return &user, nil
}

// CreateUser creates a new active local user.
func (p *LocalProvider) CreateUser(username, email, password, displayName string, admin bool) (*models.User, error) {
	var existingUser models.User

	query := p.db.Where("username = ?", username)
	if email != "" {
		query = query.Or("email = ?", email)
	}

	err := query.First(&existingUser).Error
	if err == nil {
		return nil, ErrUserNameOrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := models.User{
		Active:      true,
		Admin:       admin,
		Username:    username,
		DisplayName: displayName,
		Email:       email,
		Password:    models.HashPassword(password),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := p.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// EnsureAdmin creates the administrator account unless a user with that
// name already exists. It reports whether an account was created.
func (p *LocalProvider) EnsureAdmin(username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	_, err := p.CreateUser(username, "", password, username, true)
	if errors.Is(err, ErrUserNameOrEmailExists) {
		return false, nil
	}

	return err == nil, err
}

// ChangePassword changes a user's password.
func (p *LocalProvider) ChangePassword(userID uint64, oldPassword, newPassword string) error {
	user, err := p.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !user.VerifyPassword(oldPassword) {
		return ErrInvalidOldPassword
	}

	return p.ResetPassword(userID, newPassword)
}

// ResetPassword sets a user's password without checking the old one.
func (p *LocalProvider) ResetPassword(userID uint64, newPassword string) error {
	return p.update(userID, "password", models.HashPassword(newPassword))
}

// SetActive activates or deactivates a user account.
func (p *LocalProvider) SetActive(userID uint64, active bool) error {
	return p.update(userID, "active", active)
}

func (p *LocalProvider) update(userID uint64, column string, value any) error {
	res := p.db.Model(&models.User{}).Where(whereID, userID).Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// GetUserByUsername retrieves a user by username.
func (p *LocalProvider) GetUserByUsername(username string) (*models.User, error) {
	var user models.User

	err := p.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (p *LocalProvider) GetUserByID(userID uint64) (*models.User, error) {
	var user models.User

	err := p.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}
