// Package service orchestrates repositories, credentials and authorization
// for the HTTP handlers.
package service

import (
	"context"
	"time"

	"wishlist/api/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Count(ctx context.Context) (int, error)
	UpdateProfile(ctx context.Context, user models.User) (models.User, error)
	UpdateRoles(ctx context.Context, id string, roles []models.Role) (models.User, error)
	UpdateImage(ctx context.Context, id string, image *string) (models.User, error)
	Delete(ctx context.Context, id string) error
}

type GiftStore interface {
	Create(ctx context.Context, gift models.Gift) (models.Gift, error)
	GetByID(ctx context.Context, id string) (models.Gift, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Gift, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	UpdateStatus(ctx context.Context, gift models.Gift) (models.Gift, error)
	Delete(ctx context.Context, id string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password string, encoded string) bool
}

type TokenIssuer interface {
	Issue(user models.User) (string, error)
}

// LoginLimiter reserves a sign-in attempt before the password is checked.
type LoginLimiter interface {
	Reserve(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email string) error
}

type ImageStore interface {
	Put(ctx context.Context, key string, contentType string, data []byte) error
	Remove(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

const (
	MsgCredentialsMismatch = "the given email and password do not match"
	MsgTooManyAttempts     = "too many failed sign-in attempts, try again later"
	MsgUserNotFound        = "user does not exist"
	MsgGiftNotFound        = "gift does not exist"
	MsgEmailTaken          = "email already registered"
)
