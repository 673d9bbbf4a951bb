package ipc

// PingRequest checks daemon liveness.
type PingRequest struct{}

// PingResponse confirms the daemon process answers.
type PingResponse struct {
	Pong bool `json:"pong"`
	PID  int  `json:"pid"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running        bool   `json:"running"`
	PID            int    `json:"pid"`
	Version        string `json:"version"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	Bind           string `json:"bind"`
	FrigateURL     string `json:"frigate_url"`
	LockPath       string `json:"lock_path"`
	BookmarkDBPath string `json:"bookmark_db_path"`
	BookmarkCount  int    `json:"bookmark_count"`
}

// StopRequest shuts the daemon down.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}
