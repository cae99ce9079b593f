package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/ports"

	"github.com/google/uuid"
)

// MemoryStore is an in-process implementation of the tour, comment and user
// repositories. Rows live in flat tables keyed by id and relate to each other
// by id only; reads hand out copies so callers never alias stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	roles    map[domain.Role]bool
	users    map[uuid.UUID]domain.User
	tours    map[uuid.UUID]domain.Tour
	stops    map[uuid.UUID]domain.Stop
	media    map[uuid.UUID]domain.Media
	comments map[uuid.UUID]domain.Comment
}

// NewMemoryStore returns an empty store with every role configured.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		roles:    make(map[domain.Role]bool),
		users:    make(map[uuid.UUID]domain.User),
		tours:    make(map[uuid.UUID]domain.Tour),
		stops:    make(map[uuid.UUID]domain.Stop),
		media:    make(map[uuid.UUID]domain.Media),
		comments: make(map[uuid.UUID]domain.Comment),
	}
	for _, r := range domain.AllRoles {
		s.roles[r] = true
	}
	return s
}

// RemoveRole drops a configured role. Used to exercise the missing-role path.
func (s *MemoryStore) RemoveRole(r domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles, r)
}

// tours

func (s *MemoryStore) ListApproved(ctx context.Context) ([]*domain.Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Tour
	for _, t := range s.tours {
		if t.Status == domain.TourStatusApproved {
			c := t
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].TourID.String() < out[j].TourID.String()
	})
	return out, nil
}

func (s *MemoryStore) GetTour(ctx context.Context, id uuid.UUID) (*domain.Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tours[id]
	if !ok {
		return nil, ports.ErrNotFound
	}

	for _, st := range s.stops {
		if st.TourID != id {
			continue
		}
		for _, m := range s.media {
			if m.StopID == st.StopID {
				st.Media = append(st.Media, m)
			}
		}
		sort.SliceStable(st.Media, func(i, j int) bool { return st.Media[i].Order < st.Media[j].Order })
		t.Stops = append(t.Stops, st)
	}
	sort.SliceStable(t.Stops, func(i, j int) bool { return t.Stops[i].Order < t.Stops[j].Order })

	return &t, nil
}

func (s *MemoryStore) CreateTour(ctx context.Context, t *domain.Tour) error {
	if t == nil {
		return errors.New("create tour: tour is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tours[t.TourID]; ok {
		return fmt.Errorf("create tour: %w", ports.ErrConflict)
	}
	if _, ok := s.users[t.CreatorUserID]; !ok {
		return fmt.Errorf("create tour: creator %s: %w", t.CreatorUserID, ports.ErrNotFound)
	}

	row := *t
	row.Stops = nil
	s.tours[t.TourID] = row

	for _, st := range t.Stops {
		stopRow := st
		stopRow.TourID = t.TourID
		stopRow.Media = nil
		s.stops[st.StopID] = stopRow
		for _, m := range st.Media {
			m.StopID = st.StopID
			s.media[m.MediaID] = m
		}
	}
	return nil
}

func (s *MemoryStore) ListSummaries(ctx context.Context, creatorID *uuid.UUID) ([]domain.TourSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TourSummary, 0)
	for _, t := range s.tours {
		if creatorID != nil && t.CreatorUserID != *creatorID {
			continue
		}
		out = append(out, domain.TourSummary{
			TourID:          t.TourID,
			Title:           t.Title,
			CreatorUserID:   t.CreatorUserID,
			CreatorFullName: s.users[t.CreatorUserID].FullName,
			Status:          t.Status,
			CreatedAt:       t.CreatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TourStatus, expectedVersion int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tours[id]
	if !ok {
		return ports.ErrNotFound
	}
	if t.Version != expectedVersion {
		return ports.ErrConcurrentUpdate
	}
	t.Status = status
	t.UpdatedAt = at
	t.Version++
	s.tours[id] = t
	return nil
}

func (s *MemoryStore) DeleteTour(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tours[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.tours, id)

	for sid, st := range s.stops {
		if st.TourID != id {
			continue
		}
		for mid, m := range s.media {
			if m.StopID == sid {
				delete(s.media, mid)
			}
		}
		delete(s.stops, sid)
	}
	for cid, c := range s.comments {
		if c.TourID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *MemoryStore) UpdateRouteEstimates(ctx context.Context, id uuid.UUID, distanceMeters, durationMinutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tours[id]
	if !ok {
		return ports.ErrNotFound
	}
	t.EstimatedDistanceMeters = &distanceMeters
	t.EstimatedDurationMinutes = &durationMinutes
	s.tours[id] = t
	return nil
}

// comments

func (s *MemoryStore) CreateComment(ctx context.Context, c *domain.Comment) error {
	if c == nil {
		return errors.New("create comment: comment is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tours[c.TourID]; !ok {
		return fmt.Errorf("create comment: tour %s: %w", c.TourID, ports.ErrNotFound)
	}
	s.comments[c.CommentID] = *c
	return nil
}

func (s *MemoryStore) ListByTour(ctx context.Context, tourID uuid.UUID) ([]domain.CommentView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CommentView, 0)
	for _, c := range s.comments {
		if c.TourID != tourID {
			continue
		}
		name := domain.UnknownAuthorName
		if u, ok := s.users[c.UserID]; ok {
			name = u.UserName
		}
		out = append(out, domain.CommentView{Comment: c, UserName: name})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) GetComment(ctx context.Context, commentID uuid.UUID) (*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[commentID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[commentID]; !ok {
		return ports.ErrNotFound
	}
	delete(s.comments, commentID)
	return nil
}

// users

func (s *MemoryStore) findUser(match func(domain.User) bool) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			c := u
			return &c, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (s *MemoryStore) FindByUserName(ctx context.Context, userName string) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.UserName == userName })
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *MemoryStore) FindByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.UserID == userID })
}

func (s *MemoryStore) CreateWithRole(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("create user: user is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.UserName == u.UserName || strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("create user %q: %w", u.UserName, ports.ErrConflict)
		}
	}
	if !s.roles[u.Role] {
		return fmt.Errorf("create user: role %q: %w", u.Role, ports.ErrRoleMissing)
	}
	s.users[u.UserID] = *u
	return nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		c := u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserName < out[j].UserName })
	return out, nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return ports.ErrNotFound
	}
	for _, t := range s.tours {
		if t.CreatorUserID == userID {
			return fmt.Errorf("delete user %s: %w", userID, ports.ErrHasDependents)
		}
	}
	delete(s.users, userID)
	for cid, c := range s.comments {
		if c.UserID == userID {
			delete(s.comments, cid)
		}
	}
	return nil
}

var (
	_ ports.TourRepository    = (*MemoryStore)(nil)
	_ ports.CommentRepository = (*MemoryStore)(nil)
	_ ports.UserRepository    = (*MemoryStore)(nil)
	_ ports.TourRepository    = (*PostgresTourRepository)(nil)
	_ ports.CommentRepository = (*PostgresCommentRepository)(nil)
	_ ports.UserRepository    = (*PostgresUserRepository)(nil)
)
