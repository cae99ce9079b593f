package directions

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/platform/logging"
	"tour-guide-service/internal/platform/metrics"
	"tour-guide-service/internal/platform/obs"
	"tour-guide-service/internal/ports"

	"github.com/goccy/go-json"
)

const defaultBaseURL = "https://api.openrouteservice.org"

// ORSDirectionsProvider implements DirectionsProvider using the OpenRouteService
// directions endpoint (GeoJSON flavour).
//
// Each GetRoute issues exactly one request: no retries and no caching. The
// request is bounded by the caller's context and the configured timeout.
// The provider is safe for concurrent use.
type ORSDirectionsProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	timeout time.Duration
}

func NewORSDirectionsProvider(apiKey, baseURL string, timeout time.Duration) *ORSDirectionsProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ORSDirectionsProvider{
		session: &http.Client{},
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary *struct {
				Distance *float64 `json:"distance"`
				Duration *float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// GetRoute fetches the route through coordinates in the given order.
// It fails fast, without a network call, when fewer than two coordinates are
// given or no API key is configured.
func (o *ORSDirectionsProvider) GetRoute(
	ctx context.Context,
	coordinates []domain.Coordinates,
	profile ports.Profile,
) (_ *ports.DirectionsResult, err error) {
	defer obs.Time(ctx, "ors.GetRoute")(&err)

	log := logging.Ctx(ctx)

	if o.apiKey == "" {
		log.Error().Msg("openrouteservice api key is not configured")
		return nil, ports.ErrNoAPIKey
	}
	if len(coordinates) < 2 {
		log.Warn().Int("coordinates", len(coordinates)).Msg("route needs at least 2 points")
		return nil, ports.ErrTooFewCoordinates
	}
	if profile == "" {
		profile = ports.ProfileFoot
	}

	body := directionsRequest{Coordinates: make([][]float64, 0, len(coordinates))}
	for _, c := range coordinates {
		body.Coordinates = append(body.Coordinates, c.CoordsToList())
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, profile)

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req, err := o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("directions request: %w", err)
	}

	log.Info().
		Str("url", endpoint).
		Int("points", len(coordinates)).
		Msg("sending directions request")

	start := time.Now()
	resp, err := o.do(req)
	if err != nil {
		metrics.RecordDirections(string(profile), "failure", time.Since(start))
		log.Error().Err(err).Str("profile", string(profile)).Msg("directions request failed")
		return nil, fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		metrics.RecordDirections(string(profile), "failure", time.Since(start))
		log.Error().Err(err).Msg("decode directions response failed")
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	result := &ports.DirectionsResult{Features: make([]ports.RouteFeature, 0, len(decoded.Features))}
	for _, f := range decoded.Features {
		feature := ports.RouteFeature{
			Geometry: make([]domain.Coordinates, 0, len(f.Geometry.Coordinates)),
		}
		for _, pair := range f.Geometry.Coordinates {
			if c, ok := domain.CoordsFromList(pair); ok {
				feature.Geometry = append(feature.Geometry, c)
			}
		}
		if s := f.Properties.Summary; s != nil && (s.Distance != nil || s.Duration != nil) {
			feature.Summary = &ports.RouteSummary{}
			if s.Distance != nil {
				feature.Summary.DistanceMeters = *s.Distance
			}
			if s.Duration != nil {
				feature.Summary.DurationSeconds = *s.Duration
			}
		}
		result.Features = append(result.Features, feature)
	}

	outcome := "success"
	if len(result.Features) == 0 {
		outcome = "empty"
	}
	metrics.RecordDirections(string(profile), outcome, time.Since(start))

	log.Info().
		Int("features", len(result.Features)).
		Int64("dur_ms", time.Since(start).Milliseconds()).
		Msg("directions response received")

	return result, nil
}
