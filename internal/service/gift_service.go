package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"wishlist/api/internal/apperr"
	"wishlist/api/internal/auth"
	"wishlist/api/internal/ids"
	"wishlist/api/internal/models"
	"wishlist/api/internal/repository"
)

type UserLookup interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

type GiftService struct {
	gifts GiftStore
	users UserLookup
	log   zerolog.Logger
}

func NewGiftService(gifts GiftStore, users UserLookup, log zerolog.Logger) *GiftService {
	return &GiftService{
		gifts: gifts,
		users: users,
		log:   log.With().Str("service", "gifts").Logger(),
	}
}

type GiftPage struct {
	Data   []models.Gift
	Count  int
	Limit  int
	Offset int
}

func (s *GiftService) ListByUser(ctx context.Context, userID string, limit, offset int) (GiftPage, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return GiftPage{}, userNotFound(err)
	}
	gifts, err := s.gifts.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return GiftPage{}, err
	}
	count, err := s.gifts.CountByUser(ctx, userID)
	if err != nil {
		return GiftPage{}, err
	}
	return GiftPage{Data: gifts, Count: count, Limit: limit, Offset: offset}, nil
}

type CreateGiftInput struct {
	Name     string
	Comments string
	URL      *string
	UserID   string
}

func (s *GiftService) Create(ctx context.Context, session auth.Session, input CreateGiftInput) (models.Gift, error) {
	gift, err := s.gifts.Create(ctx, models.Gift{
		ID:       ids.New(),
		Name:     strings.TrimSpace(input.Name),
		Comments: input.Comments,
		URL:      emptyToNil(input.URL),
		UserID:   input.UserID,
	})
	if err != nil {
		return models.Gift{}, userNotFound(err)
	}

	s.log.Info().Str("gift_id", gift.ID).Str("user_id", gift.UserID).Str("by", session.UserID).Msg("gift created")
	return gift, nil
}

func (s *GiftService) GetByID(ctx context.Context, id string) (models.Gift, error) {
	gift, err := s.gifts.GetByID(ctx, id)
	return gift, giftNotFound(err)
}

// GiftUpdate carries the mutable gift fields; nil leaves a field as is.
type GiftUpdate struct {
	Reserved   *bool
	ReservedBy *string
	Received   *bool
}

// UpdateByID changes reservation and received state. Un-reserving a gift
// clears ReservedBy, and ReservedBy cannot be set on an unreserved gift.
func (s *GiftService) UpdateByID(ctx context.Context, id string, input GiftUpdate) (models.Gift, error) {
	gift, err := s.gifts.GetByID(ctx, id)
	if err != nil {
		return models.Gift{}, giftNotFound(err)
	}

	if input.Reserved != nil {
		gift.Reserved = *input.Reserved
	}
	if input.ReservedBy != nil {
		if !gift.Reserved {
			return models.Gift{}, apperr.Validation("reservedBy requires the gift to be reserved")
		}
		gift.ReservedBy = emptyToNil(input.ReservedBy)
	}
	if !gift.Reserved {
		gift.ReservedBy = nil
	}
	if input.Received != nil {
		gift.Received = *input.Received
	}

	updated, err := s.gifts.UpdateStatus(ctx, gift)
	return updated, giftNotFound(err)
}

// DeleteByID is allowed for the gift's owner and for admins.
func (s *GiftService) DeleteByID(ctx context.Context, session auth.Session, id string) error {
	gift, err := s.gifts.GetByID(ctx, id)
	if err != nil {
		return giftNotFound(err)
	}
	if err := auth.RequireSelfOrRole(session, gift.UserID, models.RoleAdmin); err != nil {
		return err
	}
	return giftNotFound(s.gifts.Delete(ctx, id))
}

func giftNotFound(err error) error {
	if errors.Is(err, repository.ErrGiftNotFound) {
		return apperr.Wrap(apperr.CodeNotFound, MsgGiftNotFound, err)
	}
	return err
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
