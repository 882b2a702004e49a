package models

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Roles        []Role
	Image        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RolesToStrings and RolesFromStrings convert between the column
// representation (text[]) and Role.
func RolesToStrings(roles []Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

func RolesFromStrings(values []string) []Role {
	out := make([]Role, 0, len(values))
	for _, v := range values {
		out = append(out, Role(v))
	}
	return out
}
