package directions

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/ports"
)

const geojsonBody = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {"summary": {"distance": 1523.4, "duration": 1096.9}},
    "geometry": {"type": "LineString", "coordinates": [[37.6173, 55.7558], [37.6180, 55.7540], [37.6184, 55.7512]]}
  }]
}`

func twoPoints() []domain.Coordinates {
	return []domain.Coordinates{
		{Lon: 37.6173, Lat: 55.7558},
		{Lon: 37.6184, Lat: 55.7512},
	}
}

func TestORSGetRouteSuccess(t *testing.T) {
	var gotPath, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = io.WriteString(w, geojsonBody)
	}))
	defer srv.Close()

	p := NewORSDirectionsProvider("secret-key", srv.URL, time.Second)
	res, err := p.GetRoute(context.Background(), twoPoints(), ports.ProfileFoot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v2/directions/foot-walking/geojson" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "secret-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if !strings.Contains(gotBody, `"coordinates":[[37.6173,55.7558],[37.6184,55.7512]]`) {
		t.Errorf("body = %s", gotBody)
	}

	if len(res.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(res.Features))
	}
	f := res.Features[0]
	if len(f.Geometry) != 3 {
		t.Fatalf("expected 3 geometry points, got %d", len(f.Geometry))
	}
	if f.Geometry[1] != (domain.Coordinates{Lon: 37.6180, Lat: 55.7540}) {
		t.Errorf("geometry[1] = %+v", f.Geometry[1])
	}
	if f.Summary == nil || f.Summary.DistanceMeters != 1523.4 || f.Summary.DurationSeconds != 1096.9 {
		t.Errorf("summary = %+v", f.Summary)
	}
}

func TestORSGetRouteFailsFastWithoutCall(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	noKey := NewORSDirectionsProvider("", srv.URL, time.Second)
	if _, err := noKey.GetRoute(context.Background(), twoPoints(), ports.ProfileFoot); !errors.Is(err, ports.ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}

	p := NewORSDirectionsProvider("key", srv.URL, time.Second)
	if _, err := p.GetRoute(context.Background(), twoPoints()[:1], ports.ProfileFoot); !errors.Is(err, ports.ErrTooFewCoordinates) {
		t.Errorf("err = %v, want ErrTooFewCoordinates", err)
	}

	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Fatalf("expected no upstream calls, got %d", n)
	}
}

func TestORSGetRouteUpstreamError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewORSDirectionsProvider("key", srv.URL, time.Second)
	_, err := p.GetRoute(context.Background(), twoPoints(), ports.ProfileDriving)

	var he *httpStatusError
	if !errors.As(err, &he) {
		t.Fatalf("err = %v, want httpStatusError", err)
	}
	if he.Code != http.StatusForbidden {
		t.Errorf("code = %d, want 403", he.Code)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("expected exactly one call (no retries), got %d", n)
	}
}

func TestORSGetRouteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	p := NewORSDirectionsProvider("key", srv.URL, 50*time.Millisecond)
	_, err := p.GetRoute(context.Background(), twoPoints(), ports.ProfileFoot)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	upstream := NewMockDirectionsProvider(nil, errors.New("boom"))
	b := NewBreakerProvider(upstream, BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Hour})
	if got := b.State(); got != "closed" {
		t.Fatalf("initial state = %q, want closed", got)
	}

	for i := 0; i < 2; i++ {
		if _, err := b.GetRoute(context.Background(), twoPoints(), ports.ProfileFoot); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	if got := b.State(); got != "open" {
		t.Fatalf("state = %q, want open", got)
	}

	if _, err := b.GetRoute(context.Background(), twoPoints(), ports.ProfileFoot); err == nil {
		t.Fatal("expected rejection while open")
	}
	if n := len(upstream.Calls()); n != 2 {
		t.Fatalf("upstream calls = %d, want 2", n)
	}
}

func TestBreakerIgnoresInputErrors(t *testing.T) {
	upstream := NewMockDirectionsProvider(nil, ports.ErrTooFewCoordinates)
	b := NewBreakerProvider(upstream, BreakerSettings{ConsecutiveFailures: 1, OpenTimeout: time.Hour})

	for i := 0; i < 3; i++ {
		_, _ = b.GetRoute(context.Background(), nil, ports.ProfileFoot)
	}
	if n := len(upstream.Calls()); n != 3 {
		t.Fatalf("upstream calls = %d, want 3 (breaker must stay closed)", n)
	}
	if got := b.State(); got != "closed" {
		t.Fatalf("state = %q, want closed", got)
	}
}
