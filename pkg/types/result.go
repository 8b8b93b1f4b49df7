// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"time"
)

// ConversionResult is the body returned by a successful convert call. The
// service defines its shape; only download_url is interpreted.
type ConversionResult struct {
	// DownloadURL is where the converted file can be retrieved.
	DownloadURL string `json:"download_url" yaml:"download_url"`

	// Fields holds the whole response body, download_url included.
	Fields map[string]any `json:"-" yaml:"fields,omitempty"`
}

// UnmarshalJSON keeps every field of the response body while extracting
// download_url.
func (r *ConversionResult) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	r.Fields = fields
	r.DownloadURL = ""
	if v, ok := fields["download_url"].(string); ok {
		r.DownloadURL = v
	}
	return nil
}

// MarshalJSON writes the original response body back out.
func (r ConversionResult) MarshalJSON() ([]byte, error) {
	if r.Fields == nil {
		return json.Marshal(map[string]any{"download_url": r.DownloadURL})
	}
	return json.Marshal(r.Fields)
}

// Clone returns a copy that shares no maps or slices with r.
func (r ConversionResult) Clone() ConversionResult {
	if r.Fields != nil {
		r.Fields = cloneValue(r.Fields).(map[string]any)
	}
	return r
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}

// Outcome records how a conversion attempt ended.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Attempt is one finished run of the upload then convert sequence.
type Attempt struct {
	// ID is the history row identifier; zero until stored.
	ID int64 `json:"id" yaml:"id"`

	// Session is the session token the attempt was sent with.
	Session string `json:"session" yaml:"session"`

	// FileName is the original name of the uploaded file.
	FileName string `json:"file_name" yaml:"file_name"`

	// TargetFormat is the requested output format; empty when validation failed.
	TargetFormat FormatID `json:"target_format" yaml:"target_format"`

	// ConversionID is the identifier returned by the upload call, if any.
	ConversionID string `json:"conversion_id,omitempty" yaml:"conversion_id,omitempty"`

	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// Message is the user-facing failure message; empty on success.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	DownloadURL string `json:"download_url,omitempty" yaml:"download_url,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Receipt is written next to a downloaded result.
type Receipt struct {
	Session      string    `json:"session" yaml:"session"`
	ConversionID string    `json:"conversion_id" yaml:"conversion_id"`
	SourceName   string    `json:"source_name" yaml:"source_name"`
	TargetFormat FormatID  `json:"target_format" yaml:"target_format"`
	DownloadURL  string    `json:"download_url" yaml:"download_url"`
	SavedPath    string    `json:"saved_path" yaml:"saved_path"`
	DownloadedAt time.Time `json:"downloaded_at" yaml:"downloaded_at"`
}
