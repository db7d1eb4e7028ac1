// Package responses defines the JSON response shapes of the worker's HTTP API.
package responses

import (
	"time"

	"github.com/divvun/divvun-worker-grammar/internal/checker"
)

// ProcessResponse is the result of a grammar check request.
type ProcessResponse struct {
	Text string        `json:"text"`
	Errs []checker.Err `json:"errs"`
}

// PreferencesResponse lists the error tags a client may ask to ignore,
// localized for the requested locales.
type PreferencesResponse struct {
	ErrorTags map[string]string `json:"error_tags"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime_seconds"`
	Bundle    string    `json:"bundle,omitempty"`
	Language  string    `json:"language,omitempty"`
}

// StatusResponse summarizes the running worker for the admin API.
type StatusResponse struct {
	Status    string     `json:"status"`
	Version   string     `json:"version"`
	StartTime time.Time  `json:"start_time"`
	Uptime    float64    `json:"uptime_seconds"`
	Bundle    BundleInfo `json:"bundle"`
	Timestamp time.Time  `json:"timestamp"`
}

// BundleInfo describes the active grammar bundle.
type BundleInfo struct {
	Name     string   `json:"name"`
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Rules    int      `json:"rules"`
	Locales  []string `json:"locales"`
}
