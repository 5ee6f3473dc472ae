package repository

import (
	"context"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
)

// UserRepository is the account store. Email lookups are case-insensitive.
// Find methods return domain.ErrUserNotFound when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateProfile(ctx context.Context, id int64, profile domain.Profile) (*domain.User, error)
	UpdateProfileImage(ctx context.Context, id int64, url string) error
}
