package services

import (
	"context"
	"errors"
	"testing"
	"time"
	"tour-guide-service/internal/adapters/directions"
	"tour-guide-service/internal/adapters/repositories"
	"tour-guide-service/internal/adapters/tokens"
	"tour-guide-service/internal/auth"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/ports"

	"github.com/google/uuid"
)

type fixture struct {
	store    *repositories.MemoryStore
	provider *directions.MockDirectionsProvider
	tours    *TourService
	comments *CommentService
	admin    *AdminService
	auth     *AuthService
	denylist *tokens.MemoryDenylist
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := repositories.NewMemoryStore()
	provider := directions.NewMockDirectionsProvider(routeResult(&ports.RouteSummary{DistanceMeters: 2500.4, DurationSeconds: 1830}), nil)
	jwtManager, err := auth.NewJWTManager(auth.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", Expiration: time.Hour})
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}
	denylist := tokens.NewMemoryDenylist()

	return &fixture{
		store:    store,
		provider: provider,
		tours:    NewTourService(store, provider),
		comments: NewCommentService(store, store),
		admin:    NewAdminService(store, store),
		auth:     NewAuthService(store, jwtManager, denylist),
		denylist: denylist,
	}
}

func (f *fixture) register(t *testing.T, name string, excursionist bool) *domain.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{
		UserName:       name,
		Email:          name + "@example.com",
		Password:       "password1",
		FullName:       "Full " + name,
		IsExcursionist: excursionist,
	})
	if err != nil {
		t.Fatalf("register %q: %v", name, err)
	}
	return u
}

func (f *fixture) createTour(t *testing.T, creator uuid.UUID, stops int) uuid.UUID {
	t.Helper()
	in := CreateTourInput{Title: "Walk", Description: "desc", Theme: "art"}
	for i := 0; i < stops; i++ {
		in.Stops = append(in.Stops, domain.NewStopInput{
			Name:      "stop",
			Latitude:  50 + float64(i)/100,
			Longitude: 14 + float64(i)/100,
			ImageURLs: []string{"/Uploads/x.png"},
		})
	}
	agg, err := f.tours.Create(context.Background(), creator, in)
	if err != nil {
		t.Fatalf("create tour: %v", err)
	}
	return agg.TourID
}

func TestTourCreateAndDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	guide := f.register(t, "guide", true)

	id := f.createTour(t, guide.UserID, 3)

	if _, err := f.tours.Details(ctx, id); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("draft details: err = %v, want ErrNotFound", err)
	}
	if _, err := f.tours.Details(ctx, uuid.New()); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("missing details: err = %v, want ErrNotFound", err)
	}
	if n := len(f.provider.Calls()); n != 0 {
		t.Fatalf("directions must not be called for hidden tours, got %d calls", n)
	}

	if !f.admin.UpdateStatus(ctx, id, domain.TourStatusApproved) {
		t.Fatalf("approve failed")
	}

	agg, err := f.tours.Details(ctx, id)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	for i, s := range agg.Stops {
		if s.Order != i+1 {
			t.Fatalf("stop %d order = %d, want %d", i, s.Order, i+1)
		}
	}
	if len(agg.RouteSegmentsGeometry) != 1 || agg.TotalDistanceMeters == nil {
		t.Fatalf("approved tour should be routed: %+v", agg)
	}

	stored, err := f.store.GetTour(ctx, id)
	if err != nil {
		t.Fatalf("get tour: %v", err)
	}
	if stored.EstimatedDistanceMeters == nil || *stored.EstimatedDistanceMeters != 2500 {
		t.Fatalf("distance estimate = %v, want 2500", stored.EstimatedDistanceMeters)
	}
	if stored.EstimatedDurationMinutes == nil || *stored.EstimatedDurationMinutes != 31 {
		t.Fatalf("duration estimate = %v, want 31", stored.EstimatedDurationMinutes)
	}

	list, err := f.tours.ListApproved(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListApproved = %d tours, %v", len(list), err)
	}
}

func TestTourDetailsWithoutRoute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.provider.Err = errors.New("directions down")
	guide := f.register(t, "guide", true)

	id := f.createTour(t, guide.UserID, 2)
	f.admin.UpdateStatus(ctx, id, domain.TourStatusApproved)

	agg, err := f.tours.Details(ctx, id)
	if err != nil {
		t.Fatalf("details must succeed when routing fails: %v", err)
	}
	if agg.RouteSegmentsGeometry != nil || agg.TotalDistanceMeters != nil {
		t.Fatalf("route data must be unset")
	}
	if len(agg.Stops) != 2 {
		t.Fatalf("stops = %d, want 2", len(agg.Stops))
	}
}

func TestCommentsLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	guide := f.register(t, "guide", true)
	reader := f.register(t, "reader", false)
	id := f.createTour(t, guide.UserID, 1)

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i, text := range []string{"older", "newer"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		f.comments.now = func() time.Time { return ts }
		c, err := f.comments.AddComment(ctx, id, reader.UserID, text, 4)
		if err != nil {
			t.Fatalf("add comment: %v", err)
		}
		if c.UserName != "reader" {
			t.Fatalf("user name = %q, want reader", c.UserName)
		}
		ids = append(ids, c.CommentID)
	}

	list, err := f.comments.ListComments(ctx, id)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Text != "newer" {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if ok, err := f.comments.DeleteComment(ctx, ids[0], guide.UserID); err != nil || ok {
		t.Fatalf("non-author delete = %v, %v; want false, nil", ok, err)
	}
	if ok, err := f.comments.DeleteComment(ctx, uuid.New(), reader.UserID); err != nil || ok {
		t.Fatalf("missing delete = %v, %v; want false, nil", ok, err)
	}
	if ok, err := f.comments.DeleteComment(ctx, ids[0], reader.UserID); err != nil || !ok {
		t.Fatalf("author delete = %v, %v; want true, nil", ok, err)
	}

	list, _ = f.comments.ListComments(ctx, id)
	if len(list) != 1 {
		t.Fatalf("expected one comment left, got %d", len(list))
	}
}

func TestAddCommentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	guide := f.register(t, "guide", true)
	id := f.createTour(t, guide.UserID, 1)

	for _, rating := range []int{0, 6} {
		if _, err := f.comments.AddComment(ctx, id, guide.UserID, "ok", rating); !errors.Is(err, ErrInvalidComment) {
			t.Fatalf("rating %d: err = %v, want ErrInvalidComment", rating, err)
		}
	}
	if _, err := f.comments.AddComment(ctx, id, guide.UserID, "   ", 3); !errors.Is(err, ErrInvalidComment) {
		t.Fatalf("blank text: err = %v, want ErrInvalidComment", err)
	}
	if _, err := f.comments.AddComment(ctx, uuid.New(), guide.UserID, "ok", 3); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("unknown tour: err = %v, want ErrNotFound", err)
	}

	ghost := uuid.New()
	c, err := f.comments.AddComment(ctx, id, ghost, "from nobody", 2)
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if c.UserName != domain.UnknownAuthorName {
		t.Fatalf("user name = %q, want %q", c.UserName, domain.UnknownAuthorName)
	}
}

func TestAdminModeration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	guide := f.register(t, "guide", true)
	id := f.createTour(t, guide.UserID, 2)

	for _, st := range []domain.TourStatus{domain.TourStatusArchived, domain.TourStatusDraft, domain.TourStatusRejected} {
		if !f.admin.UpdateStatus(ctx, id, st) {
			t.Fatalf("transition to %s refused", st)
		}
	}
	if f.admin.UpdateStatus(ctx, id, domain.TourStatus("Bogus")) {
		t.Fatalf("unknown status accepted")
	}
	if f.admin.UpdateStatus(ctx, uuid.New(), domain.TourStatusApproved) {
		t.Fatalf("missing tour accepted")
	}

	details, err := f.admin.TourDetails(ctx, id)
	if err != nil {
		t.Fatalf("tour details: %v", err)
	}
	if details.Tour.Status != domain.TourStatusRejected || details.Tour.Version != 4 {
		t.Fatalf("status/version = %s/%d, want Rejected/4", details.Tour.Status, details.Tour.Version)
	}
	if details.Creator == nil || details.Creator.UserName != "guide" {
		t.Fatalf("creator not resolved: %+v", details.Creator)
	}

	summaries, err := f.admin.ListTours(ctx, &guide.UserID)
	if err != nil || len(summaries) != 1 || summaries[0].CreatorFullName != "Full guide" {
		t.Fatalf("ListTours = %+v, %v", summaries, err)
	}
	other := uuid.New()
	if summaries, _ := f.admin.ListTours(ctx, &other); len(summaries) != 0 {
		t.Fatalf("filter by unknown creator returned %d tours", len(summaries))
	}

	if !f.admin.DeleteTour(ctx, id) {
		t.Fatalf("delete tour failed")
	}
	if f.admin.DeleteTour(ctx, id) {
		t.Fatalf("second delete should report false")
	}
}

func TestAdminUpdateStatusCanonicalizes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	guide := f.register(t, "guide", true)
	id := f.createTour(t, guide.UserID, 2)

	if !f.admin.UpdateStatus(ctx, id, domain.TourStatus("approved")) {
		t.Fatalf("lowercase status refused")
	}

	stored, err := f.store.GetTour(ctx, id)
	if err != nil {
		t.Fatalf("get tour: %v", err)
	}
	if stored.Status != domain.TourStatusApproved {
		t.Fatalf("stored status = %q, want %q", stored.Status, domain.TourStatusApproved)
	}

	listed, err := f.tours.ListApproved(ctx)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(listed) != 1 || listed[0].TourID != id {
		t.Fatalf("approved list = %d tours, want the updated tour", len(listed))
	}
	if _, err := f.tours.Details(ctx, id); err != nil {
		t.Fatalf("details after approval: %v", err)
	}
}

func TestAdminDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.auth.EnsureAdmin(ctx, AdminAccount{UserName: "root", Email: "root@example.com", Password: "rootpass", FullName: "Root"}); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	admin, _ := f.store.FindByUserName(ctx, "root")
	guide := f.register(t, "guide", true)
	reader := f.register(t, "reader", false)
	f.createTour(t, guide.UserID, 1)

	ok, reasons := f.admin.DeleteUser(ctx, admin.UserID)
	if ok || len(reasons) != 1 || reasons[0] != ReasonAdministrator {
		t.Fatalf("admin delete = %v %v", ok, reasons)
	}
	if still, err := f.store.FindByID(ctx, admin.UserID); err != nil || still.Role != domain.RoleAdministrator {
		t.Fatalf("administrator gone after refused delete: %+v, %v", still, err)
	}

	ok, reasons = f.admin.DeleteUser(ctx, uuid.New())
	if ok || len(reasons) != 1 || reasons[0] != ReasonUserNotFound {
		t.Fatalf("missing delete = %v %v", ok, reasons)
	}

	ok, reasons = f.admin.DeleteUser(ctx, guide.UserID)
	if ok || len(reasons) != 1 || reasons[0] != ReasonUserOwnsTours {
		t.Fatalf("owner delete = %v %v", ok, reasons)
	}

	if ok, reasons := f.admin.DeleteUser(ctx, reader.UserID); !ok || len(reasons) != 0 {
		t.Fatalf("reader delete = %v %v", ok, reasons)
	}

	details, err := f.admin.UserDetails(ctx, guide.UserID)
	if err != nil || len(details.CreatedTours) != 1 {
		t.Fatalf("user details = %+v, %v", details, err)
	}
	if _, err := f.admin.UserDetails(ctx, reader.UserID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("deleted user details: err = %v, want ErrNotFound", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	guide := f.register(t, "guide", true)
	if guide.Role != domain.RoleExcursionist {
		t.Fatalf("role = %s, want Excursionist", guide.Role)
	}
	if tourist := f.register(t, "tourist", false); tourist.Role != domain.RoleTourist {
		t.Fatalf("role = %s, want Tourist", tourist.Role)
	}

	_, err := f.auth.Register(ctx, RegisterInput{UserName: "guide", Email: "new@example.com", Password: "password1", FullName: "X"})
	if !errors.Is(err, ErrUserNameTaken) {
		t.Fatalf("duplicate username: err = %v", err)
	}
	users, err := f.store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	guides := 0
	for _, u := range users {
		if u.UserName == "guide" {
			guides++
		}
	}
	if guides != 1 {
		t.Fatalf("users named guide = %d, want 1", guides)
	}
	_, err = f.auth.Register(ctx, RegisterInput{UserName: "fresh", Email: "guide@example.com", Password: "password1", FullName: "X"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: err = %v", err)
	}

	f.store.RemoveRole(domain.RoleTourist)
	_, err = f.auth.Register(ctx, RegisterInput{UserName: "late", Email: "late@example.com", Password: "password1", FullName: "X"})
	if !errors.Is(err, ports.ErrRoleMissing) {
		t.Fatalf("missing role: err = %v", err)
	}
	if _, err := f.store.FindByUserName(ctx, "late"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("failed registration left a user behind")
	}

	if _, err := f.auth.Login(ctx, "guide", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v", err)
	}
	if _, err := f.auth.Login(ctx, "nobody", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: err = %v", err)
	}

	res, err := f.auth.Login(ctx, "guide", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" || res.User.UserID != guide.UserID {
		t.Fatalf("unexpected login result %+v", res)
	}

	p := &auth.Principal{UserID: guide.UserID, TokenID: "jti", ExpiresAt: time.Now().Add(time.Hour)}
	if err := f.auth.Logout(ctx, p); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if revoked, _ := f.denylist.IsRevoked(ctx, "jti"); !revoked {
		t.Fatalf("token not revoked after logout")
	}
}
