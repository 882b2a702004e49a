package auth

import (
	"slices"

	"wishlist/api/internal/apperr"
	"wishlist/api/internal/models"
)

const MsgForbidden = "you are not allowed to view this part of the application"

func RequireRole(role models.Role, roles []models.Role) error {
	if slices.Contains(roles, role) {
		return nil
	}
	return apperr.Forbidden(MsgForbidden)
}

// RequireSelfOrRole lets the owner of a resource through and otherwise
// falls back to RequireRole.
func RequireSelfOrRole(session Session, ownerID string, role models.Role) error {
	if session.UserID != "" && session.UserID == ownerID {
		return nil
	}
	return RequireRole(role, session.Roles)
}
