package handlers

import (
	"time"

	"wishlist/api/internal/models"
)

// userResponse never carries the password hash or the raw image key.
type userResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	HasImage  bool      `json:"hasImage"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Roles:     models.RolesToStrings(u.Roles),
		HasImage:  u.Image != nil,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type giftResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Comments   string    `json:"comments"`
	URL        *string   `json:"url"`
	Reserved   bool      `json:"reserved"`
	ReservedBy *string   `json:"reservedBy"`
	Received   bool      `json:"received"`
	UserID     string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newGiftResponse(g models.Gift) giftResponse {
	return giftResponse{
		ID:         g.ID,
		Name:       g.Name,
		Comments:   g.Comments,
		URL:        g.URL,
		Reserved:   g.Reserved,
		ReservedBy: g.ReservedBy,
		Received:   g.Received,
		UserID:     g.UserID,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}
