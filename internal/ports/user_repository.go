package ports

import (
	"context"
	"tour-guide-service/internal/domain"

	"github.com/google/uuid"
)

// Port: persistence of user accounts and their role assignment.
type UserRepository interface {
	// ErrNotFound if missing.
	FindByUserName(ctx context.Context, userName string) (*domain.User, error)
	// ErrNotFound if missing.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// ErrNotFound if missing.
	FindByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	// Insert the user and assign user.Role in one transaction.
	// ErrConflict on a duplicate username/email, ErrRoleMissing if the role is not configured.
	CreateWithRole(ctx context.Context, user *domain.User) error
	// All users ordered by username.
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// ErrNotFound if missing, ErrHasDependents if the user still owns tours.
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}
