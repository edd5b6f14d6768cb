package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
)

// Service provides authorization checks over the users table.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasPermission checks if a user has a specific permission.
// Inactive and unknown users have no permissions.
func (s *Service) HasPermission(userID uint64, permission string) (bool, error) {
	perms, err := s.GetUserPermissions(userID)
	if err != nil {
		return false, err
	}

	for _, p := range perms {
		if p == permission {
			return true, nil
		}
	}

	return false, nil
}

// HasAnyPermission checks if a user has at least one of the given permissions.
func (s *Service) HasAnyPermission(userID uint64, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return false, nil
	}

	for _, perm := range permissions {
		has, err := s.HasPermission(userID, perm)
		if err != nil {
			return false, err
		}

		if has {
			return true, nil
		}
	}

	return false, nil
}

// GetUserPermissions retrieves all permissions of a user.
func (s *Service) GetUserPermissions(userID uint64) ([]string, error) {
	if userID == 0 {
		return []string{}, nil
	}

	var user models.User

	err := s.db.Select("id", "active", "admin").Where(whereID, userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return PermissionsOf(&user), nil
}

// PermissionsOf returns the permissions implied by the user's flags.
func PermissionsOf(user *models.User) []string {
	out := []string{}
	if user == nil || !user.Active {
		return out
	}

	for _, perm := range AllPermissions() {
		if adminPermissions[perm] && !user.Admin {
			continue
		}

		out = append(out, perm)
	}

	return out
}
