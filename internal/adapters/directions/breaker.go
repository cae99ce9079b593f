package directions

import (
	"context"
	"errors"
	"time"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/platform/logging"
	"tour-guide-service/internal/platform/metrics"
	"tour-guide-service/internal/ports"

	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerProvider wraps a DirectionsProvider with a circuit breaker so that a
// failing provider is not called on every tour view. A rejected call is
// reported as an ordinary error; there is still no retry.
type BreakerProvider struct {
	next ports.DirectionsProvider
	cb   *gobreaker.CircuitBreaker[*ports.DirectionsResult]
}

type BreakerSettings struct {
	// ConsecutiveFailures that open the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout before a half-open trial call is allowed.
	OpenTimeout time.Duration
}

func NewBreakerProvider(next ports.DirectionsProvider, s BreakerSettings) *BreakerProvider {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = time.Minute
	}

	metrics.DirectionsBreakerState.Set(0)

	cb := gobreaker.NewCircuitBreaker[*ports.DirectionsResult](gobreaker.Settings{
		Name:        "openrouteservice",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		// Input errors say nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ports.ErrTooFewCoordinates) ||
				errors.Is(err, ports.ErrNoAPIKey) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("directions breaker state change")
			metrics.DirectionsBreakerState.Set(stateValue(to))
		},
	})

	return &BreakerProvider{next: next, cb: cb}
}

func (b *BreakerProvider) GetRoute(
	ctx context.Context,
	coordinates []domain.Coordinates,
	profile ports.Profile,
) (*ports.DirectionsResult, error) {
	res, err := b.cb.Execute(func() (*ports.DirectionsResult, error) {
		return b.next.GetRoute(ctx, coordinates, profile)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordDirections(string(profile), "rejected", 0)
		logging.Ctx(ctx).Warn().Err(err).Msg("directions call rejected by breaker")
	}
	return res, err
}

// State reports the breaker as "closed", "half-open" or "open".
func (b *BreakerProvider) State() string {
	return b.cb.State().String()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
