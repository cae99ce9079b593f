package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/platform/logging"
	"tour-guide-service/internal/ports"

	"github.com/google/uuid"
)

const (
	ReasonUserNotFound  = "user not found"
	ReasonAdministrator = "users with the Administrator role cannot be deleted"
	ReasonUserOwnsTours = "user still owns tours; delete or reassign them first"
	ReasonDeleteFailed  = "user could not be deleted"
)

// AdminService backs moderation and account management.
type AdminService struct {
	tours ports.TourRepository
	users ports.UserRepository
	now   func() time.Time
}

func NewAdminService(tours ports.TourRepository, users ports.UserRepository) *AdminService {
	return &AdminService{tours: tours, users: users, now: time.Now}
}

// UserDetails is a user with the tours they created.
type UserDetails struct {
	User         *domain.User
	CreatedTours []domain.TourSummary
}

// TourDetails is a tour in any status with its creator, nil when the creator row is gone.
type TourDetails struct {
	Tour    *domain.Tour
	Creator *domain.User
}

// ListTours returns tour summaries newest first, optionally for one creator.
func (s *AdminService) ListTours(ctx context.Context, creatorID *uuid.UUID) ([]domain.TourSummary, error) {
	tours, err := s.tours.ListSummaries(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("admin list tours: %w", err)
	}
	return tours, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin list users: %w", err)
	}
	return users, nil
}

// UpdateStatus moves a tour to any known status. It reports false when the
// tour is missing, the status is unknown, the tour changed concurrently or
// the write failed.
func (s *AdminService) UpdateStatus(ctx context.Context, tourID uuid.UUID, status domain.TourStatus) bool {
	log := logging.Ctx(ctx).With().Str("tour_id", tourID.String()).Str("status", string(status)).Logger()

	canonical, err := domain.ParseTourStatus(string(status))
	if err != nil {
		log.Warn().Msg("refusing unknown tour status")
		return false
	}
	status = canonical

	t, err := s.tours.GetTour(ctx, tourID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			log.Warn().Msg("status update for missing tour")
		} else {
			log.Error().Err(err).Msg("status update: load tour failed")
		}
		return false
	}

	if err := s.tours.UpdateStatus(ctx, tourID, status, t.Version, s.now().UTC()); err != nil {
		switch {
		case errors.Is(err, ports.ErrConcurrentUpdate):
			log.Warn().Int("version", t.Version).Msg("status update lost to a concurrent change")
		case errors.Is(err, ports.ErrNotFound):
			log.Warn().Msg("tour removed during status update")
		default:
			log.Error().Err(err).Msg("status update failed")
		}
		return false
	}

	log.Info().Str("from", string(t.Status)).Msg("tour status updated")
	return true
}

// DeleteTour removes a tour with its stops, media and comments.
func (s *AdminService) DeleteTour(ctx context.Context, tourID uuid.UUID) bool {
	log := logging.Ctx(ctx).With().Str("tour_id", tourID.String()).Logger()

	if err := s.tours.DeleteTour(ctx, tourID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			log.Warn().Msg("delete of missing tour")
		} else {
			log.Error().Err(err).Msg("delete tour failed")
		}
		return false
	}

	log.Info().Msg("tour deleted")
	return true
}

// DeleteUser removes a non-administrator account. On refusal the returned
// reasons say why.
func (s *AdminService) DeleteUser(ctx context.Context, userID uuid.UUID) (bool, []string) {
	log := logging.Ctx(ctx).With().Str("user_id", userID.String()).Logger()

	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, ports.ErrNotFound) {
		log.Warn().Msg("delete of missing user")
		return false, []string{ReasonUserNotFound}
	}
	if err != nil {
		log.Error().Err(err).Msg("delete user: lookup failed")
		return false, []string{ReasonDeleteFailed}
	}

	if u.Role == domain.RoleAdministrator {
		log.Warn().Msg("refusing to delete an administrator")
		return false, []string{ReasonAdministrator}
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		switch {
		case errors.Is(err, ports.ErrNotFound):
			return false, []string{ReasonUserNotFound}
		case errors.Is(err, ports.ErrHasDependents):
			log.Warn().Msg("user still owns tours")
			return false, []string{ReasonUserOwnsTours}
		default:
			log.Error().Err(err).Msg("delete user failed")
			return false, []string{ReasonDeleteFailed}
		}
	}

	log.Info().Msg("user deleted")
	return true, nil
}

// UserDetails returns ports.ErrNotFound for an unknown user.
func (s *AdminService) UserDetails(ctx context.Context, userID uuid.UUID) (*UserDetails, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("user details: %w", err)
	}

	tours, err := s.tours.ListSummaries(ctx, &userID)
	if err != nil {
		return nil, fmt.Errorf("user details: list tours: %w", err)
	}

	return &UserDetails{User: u, CreatedTours: tours}, nil
}

// TourDetails returns ports.ErrNotFound for an unknown tour.
func (s *AdminService) TourDetails(ctx context.Context, tourID uuid.UUID) (*TourDetails, error) {
	t, err := s.tours.GetTour(ctx, tourID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("tour details: %w", err)
	}

	d := &TourDetails{Tour: t}
	creator, err := s.users.FindByID(ctx, t.CreatorUserID)
	switch {
	case err == nil:
		d.Creator = creator
	case !errors.Is(err, ports.ErrNotFound):
		return nil, fmt.Errorf("tour details: creator: %w", err)
	}

	return d, nil
}
