package handlers

import (
	"net/http"
)

// BreakerState reports the directions breaker state.
type BreakerState interface {
	State() string
}

type HealthHandler struct {
	// Directions is optional; when set its state is included in the answer.
	Directions BreakerState
}

// Health provides a liveness check. Routing being down never fails it; an open
// directions breaker only shows up in the "directions" field.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]string{"status": "ok"}
	if h.Directions != nil {
		res["directions"] = h.Directions.State()
	}
	writeJSON(w, r, http.StatusOK, res)
}
