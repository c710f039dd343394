// Package account exposes the caller's own profile. Accounts are issued by
// the external auth provider; this service mirrors them and lets a user
// edit the display name.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/warmnest/warmnest/internal/platform/errors"
	"github.com/warmnest/warmnest/internal/storage"
)

// Service owns account workflows.
type Service struct {
	users storage.UserStore
}

// New wires an account service.
func New(users storage.UserStore) *Service {
	return &Service{users: users}
}

// Current returns the caller's account record.
func (s *Service) Current(ctx context.Context, userID string) (storage.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateName sets the caller's display name.
func (s *Service) UpdateName(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "name is required")
	}
	if err := s.users.UpdateUserName(ctx, userID, name); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return fmt.Errorf("update name: %w", err)
	}
	return nil
}
