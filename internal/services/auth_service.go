package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"tour-guide-service/internal/auth"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/platform/logging"
	"tour-guide-service/internal/platform/obs"
	"tour-guide-service/internal/ports"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNameTaken      = errors.New("a user with this username already exists")
	ErrEmailTaken         = errors.New("a user with this email already exists")
)

type RegisterInput struct {
	UserName       string
	Email          string
	Password       string
	FullName       string
	IsExcursionist bool
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService handles account registration and bearer-token sessions.
type AuthService struct {
	users    ports.UserRepository
	tokens   *auth.JWTManager
	denylist ports.TokenDenylist
	now      func() time.Time
}

func NewAuthService(users ports.UserRepository, tokens *auth.JWTManager, denylist ports.TokenDenylist) *AuthService {
	return &AuthService{users: users, tokens: tokens, denylist: denylist, now: time.Now}
}

// Register creates a Tourist, or an Excursionist when requested.
// Username is checked before email; ports.ErrRoleMissing means the role
// table is not seeded.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (_ *domain.User, err error) {
	defer obs.Time(ctx, "auth.Register")(&err)

	if err := s.ensureAvailable(ctx, in.UserName, in.Email); err != nil {
		return nil, err
	}

	role := domain.RoleTourist
	if in.IsExcursionist {
		role = domain.RoleExcursionist
	}

	u, err := s.newUser(in.UserName, in.Email, in.Password, in.FullName, role)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if err := s.users.CreateWithRole(ctx, u); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			// A concurrent registration took the username or email after the check.
			if err := s.ensureAvailable(ctx, in.UserName, in.Email); err != nil {
				return nil, err
			}
			return nil, ErrUserNameTaken
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("user_id", u.UserID.String()).
		Str("user_name", u.UserName).
		Str("role", string(role)).
		Msg("user registered")

	return u, nil
}

func (s *AuthService) ensureAvailable(ctx context.Context, userName, email string) error {
	_, err := s.users.FindByUserName(ctx, userName)
	switch {
	case err == nil:
		return ErrUserNameTaken
	case !errors.Is(err, ports.ErrNotFound):
		return fmt.Errorf("register: find by username: %w", err)
	}

	_, err = s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case !errors.Is(err, ports.ErrNotFound):
		return fmt.Errorf("register: find by email: %w", err)
	}
	return nil
}

func (s *AuthService) newUser(userName, email, password, fullName string, role domain.Role) (*domain.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		UserID:       uuid.New(),
		UserName:     strings.TrimSpace(userName),
		Email:        strings.TrimSpace(email),
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}, nil
}

// Login verifies credentials and issues a token. Unknown users and wrong
// passwords both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, userName, password string) (_ *LoginResult, err error) {
	defer obs.Time(ctx, "auth.Login")(&err)

	u, err := s.users.FindByUserName(ctx, userName)
	if errors.Is(err, ports.ErrNotFound) {
		logging.Ctx(ctx).Warn().Str("user_name", userName).Msg("login failed")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: find user: %w", err)
	}

	ok, err := auth.CheckPassword(u.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		logging.Ctx(ctx).Warn().Str("user_name", userName).Msg("login failed")
		return nil, ErrInvalidCredentials
	}

	issued, err := s.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	logging.Ctx(ctx).Info().Str("user_name", u.UserName).Str("role", string(u.Role)).Msg("user logged in")

	return &LoginResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: u}, nil
}

// Logout revokes the caller's token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, p *auth.Principal) error {
	if s.denylist == nil {
		return nil
	}
	if err := s.denylist.Revoke(ctx, p.TokenID, p.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

type AdminAccount struct {
	UserName string
	Email    string
	Password string
	FullName string
}

// EnsureAdmin creates the administrator account unless the username exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, a AdminAccount) (created bool, err error) {
	if a.UserName == "" || a.Password == "" {
		return false, errors.New("ensure admin: username and password are required")
	}

	_, err = s.users.FindByUserName(ctx, a.UserName)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	u, err := s.newUser(a.UserName, a.Email, a.Password, a.FullName, domain.RoleAdministrator)
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	if err := s.users.CreateWithRole(ctx, u); err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	return true, nil
}
