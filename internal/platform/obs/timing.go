package obs

import (
	"context"
	"time"
	"tour-guide-service/internal/platform/logging"
)

// Time logs the duration of an operation when the returned func runs.
// Pass the named error result so failures are logged with the error.
//
//	defer obs.Time(ctx, "tours.GetTour")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			logging.Ctx(ctx).Debug().
				Str("op", name).
				Int64("dur_ms", dur.Milliseconds()).
				Err(*errp).
				Msg("operation failed")
			return
		}
		logging.Ctx(ctx).Debug().
			Str("op", name).
			Int64("dur_ms", dur.Milliseconds()).
			Msg("operation done")
	}
}
