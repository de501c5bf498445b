// Package cli implements rosterctl, a terminal client for the roster API.
package cli

import (
	"io"
	"time"
)

// Config holds configuration for a client run.
type Config struct {
	BaseURL   string        // Base URL of the service
	SessionID string        // Session to act on; empty only for "session"
	Timeout   time.Duration // HTTP request timeout
	NoColor   bool          // Disable colored status lines
	Out       io.Writer     // Where tables and status lines go
}

// AckResponse represents the response from score submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type memberRequest struct {
	Name   string `json:"name"`
	Skills string `json:"skills"`
}

type scoreRequest struct {
	Judge        string `json:"judge"`
	Contestant   string `json:"contestant"`
	Skill        string `json:"skill"`
	Score        int    `json:"score"`
	SubmissionID string `json:"submission_id,omitempty"`
}
