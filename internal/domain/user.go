package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role gates what a user may do: authors create tours, administrators moderate.
type Role string

const (
	RoleTourist       Role = "Tourist"
	RoleExcursionist  Role = "Excursionist"
	RoleAdministrator Role = "Administrator"
)

// AllRoles lists every role the schema seeds.
var AllRoles = []Role{RoleTourist, RoleExcursionist, RoleAdministrator}

func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CanAuthorTours reports whether the role may create tours.
func (r Role) CanAuthorTours() bool {
	return r == RoleExcursionist || r == RoleAdministrator
}

// AuthorRoles lists the roles that may create tours.
func AuthorRoles() []Role {
	var out []Role
	for _, r := range AllRoles {
		if r.CanAuthorTours() {
			out = append(out, r)
		}
	}
	return out
}

type User struct {
	UserID       uuid.UUID
	UserName     string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
