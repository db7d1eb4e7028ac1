// Package checker runs grammar rules and detectors over input text. A Pipeline
// is constructed per request from the active bundle and the request options.
package checker

import (
	"fmt"
	"strings"
)

// Encoding selects the unit used for error offsets.
type Encoding string

const (
	// EncodingUTF16 reports offsets in UTF-16 code units (the default, for
	// JavaScript and word-processor clients).
	EncodingUTF16 Encoding = "utf-16"
	// EncodingUTF8 reports offsets in bytes.
	EncodingUTF8 Encoding = "utf-8"
)

// ParseEncoding validates a raw encoding value. Empty means UTF-16.
func ParseEncoding(raw string) (Encoding, error) {
	switch strings.ToLower(raw) {
	case "", string(EncodingUTF16):
		return EncodingUTF16, nil
	case string(EncodingUTF8):
		return EncodingUTF8, nil
	default:
		return "", fmt.Errorf("unsupported encoding: %s", raw)
	}
}

// Err is one reported grammar error with offsets in the requested encoding.
type Err struct {
	Form        string   `json:"error_text"`
	Beg         int      `json:"start_index"`
	End         int      `json:"end_index"`
	Code        string   `json:"error_code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Suggestions []string `json:"suggestions"`
}

// Result is the outcome of checking one text.
type Result struct {
	Text string `json:"text"`
	Errs []Err  `json:"errs"`
}

// Options configure a pipeline run.
type Options struct {
	// Locales is the message localization priority list (Accept-Language order).
	Locales []string
	// Encoding selects the offset unit.
	Encoding Encoding
	// Ignore suppresses errors whose code or category tag is listed.
	Ignore []string
}
