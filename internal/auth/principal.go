package auth

import (
	"context"
	"slices"
	"time"
	"tour-guide-service/internal/domain"

	"github.com/google/uuid"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    uuid.UUID
	UserName  string
	Roles     []domain.Role
	TokenID   string
	ExpiresAt time.Time
}

func (p *Principal) HasAnyRole(roles ...domain.Role) bool {
	for _, r := range roles {
		if slices.Contains(p.Roles, r) {
			return true
		}
	}
	return false
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller set by Authenticate, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

func principalFromClaims(c *Claims) *Principal {
	id, _ := c.UserID()
	p := &Principal{
		UserID:   id,
		UserName: c.UserName,
		TokenID:  c.ID,
	}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time
	}
	for _, r := range c.Roles {
		if role, err := domain.ParseRole(r); err == nil {
			p.Roles = append(p.Roles, role)
		}
	}
	return p
}
