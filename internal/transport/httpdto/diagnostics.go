package httpdto

import "time"

type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// DatabaseTimeResponse is returned by GET /test-db
type DatabaseTimeResponse struct {
	Success bool       `json:"success"`
	Time    *time.Time `json:"time,omitempty"`
	Error   string     `json:"error,omitempty"`
}

type RelayStatsResponse struct {
	Connections int `json:"connections"`
}

// ChatRequest is used for POST /chat
type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
