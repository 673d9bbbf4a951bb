package frigate

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is a single detection event as returned by the events endpoint.
// EndTime is zero while the event is still in progress.
type Event struct {
	ID          string   `json:"id"`
	Camera      string   `json:"camera"`
	Label       string   `json:"label"`
	Zones       []string `json:"zones"`
	StartTime   float64  `json:"start_time"`
	EndTime     float64  `json:"end_time"`
	TopScore    float64  `json:"top_score"`
	HasClip     bool     `json:"has_clip"`
	HasSnapshot bool     `json:"has_snapshot"`
	Thumbnail   string   `json:"thumbnail"`
}

// EventSummaryRow is one per-day aggregate from the event summary endpoint.
// Day is formatted YYYY-MM-DD in the recorder's timezone.
type EventSummaryRow struct {
	Camera string   `json:"camera"`
	Label  string   `json:"label"`
	Zones  []string `json:"zones"`
	Day    string   `json:"day"`
	Count  int      `json:"count"`
}

// FolderEntry is one row of a recordings directory listing. Type is either
// "directory" or "file".
type FolderEntry struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Mtime string `json:"mtime"`
	Size  int64  `json:"size"`
}

// EventsQuery narrows an event search. Nil pointer fields and empty strings
// are omitted from the request.
type EventsQuery struct {
	After  *int64
	Before *int64
	Camera string
	Label  string
	Zone   string
	Limit  int
}

// ServiceStats is the service block of the stats payload.
type ServiceStats struct {
	Uptime  int64  `json:"uptime"`
	Version string `json:"version"`
}

// Stats models the subset of the stats endpoint used by diagnostics.
type Stats struct {
	Service ServiceStats `json:"service"`
}

// CameraConfig carries the per-camera configuration fields browsing needs.
// Zone values vary by recorder version, so only the names are interpreted.
type CameraConfig struct {
	Zones map[string]json.RawMessage `json:"zones"`
}

// Config models the subset of the recorder configuration used by diagnostics.
type Config struct {
	Cameras map[string]CameraConfig `json:"cameras"`
}

// StatusError reports a non-success HTTP status from the recorder.
type StatusError struct {
	Op         string
	StatusCode int
	Latency    time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("frigate %s returned %d (latency=%v)", e.Op, e.StatusCode, e.Latency)
}
