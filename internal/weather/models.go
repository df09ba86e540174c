package weather

import "github.com/doomer-lab/info-center/internal/notify"

// Mode selects how much of the sanitized payload is handed to content
// generation.
type Mode string

const (
	// ModeFull passes the whole sanitized observation.
	ModeFull Mode = "full"
	// ModeCurrent keeps only the current conditions and air quality sections.
	ModeCurrent Mode = "current"
)

// currentSections are the top-level payload sections kept by ModeCurrent.
var currentSections = []string{"real", "air"}

// Record is one archived observation for a city. The store assigns the
// document identity on insert; records are never mutated afterwards.
type Record struct {
	City      string         `bson:"city" json:"city"`
	CityCode  string         `bson:"city_code" json:"cityCode"`
	Data      map[string]any `bson:"data" json:"data"`
	CreatedAt int64          `bson:"created_at" json:"createdAt"` // epoch millis
}

// Request describes one summarize-and-notify invocation.
type Request struct {
	CityCode string         `json:"cityCode"`
	Mode     Mode           `json:"mode"`
	AgentID  int            `json:"agentId"`
	Channel  notify.Channel `json:"channel"`
}

// Response echoes the observation payload alongside the generated content and
// the delivery result so callers can trace what was sent where.
type Response struct {
	Payload  map[string]any `json:"data"`
	Content  string         `json:"content"`
	Delivery notify.Result  `json:"delivery"`
}
