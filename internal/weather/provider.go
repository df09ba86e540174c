package weather

import (
	"context"

	"github.com/doomer-lab/info-center/internal/notify"
)

// Provider abstracts the upstream observation source (NMC in production).
// The returned map is the decoded JSON body with its top-level "data" field
// still in place; it is nil-valued when no observation is available.
type Provider interface {
	Observation(ctx context.Context, stationID string) (map[string]any, error)
}

// CityResolver maps a city code to its display name. Unknown codes yield
// ErrCityNotFound.
type CityResolver interface {
	CityName(ctx context.Context, code string) (string, error)
}

// Archiver persists sanitized observations. The service treats archiver
// errors as soft failures.
type Archiver interface {
	Save(ctx context.Context, rec Record) error
}

// ContentRunner produces rendered content for an agent from an observation
// payload or plain text.
type ContentRunner interface {
	Run(ctx context.Context, agentID int, input any) (string, error)
}

// Notifier delivers rendered messages and warning events.
type Notifier interface {
	Dispatch(ctx context.Context, channel notify.Channel, message, title string) (notify.Result, error)
	Warn(ctx context.Context, message, module string)
}
