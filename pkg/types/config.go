// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "file-converter/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ServiceConfig holds settings for the upload and convert endpoints.
type ServiceConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the API base; requests go to BaseURL/upload and BaseURL/convert.
	BaseURL string `json:"api_base_url" yaml:"api_base_url"`
}

// DownloadConfig holds settings for fetching converted files.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is the directory converted files and receipts are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// HistoryConfig holds settings for the local attempt history.
type HistoryConfig struct {
	// Path is the SQLite database file. Empty disables history.
	Path string `json:"history_db" yaml:"history_db"`

	// MaxResults is the default number of attempts listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// LogFormat selects the log handler.
type LogFormat string

const (
	LogConsole LogFormat = "console"
	LogJSON    LogFormat = "json"
)

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"log_level" yaml:"log_level"`

	// Format selects console or json output. Empty picks console on a
	// terminal and json otherwise.
	Format LogFormat `json:"log_format" yaml:"log_format"`
}

// ClientConfig groups all configuration for the CLI client.
type ClientConfig struct {
	Service  ServiceConfig  `json:"service" yaml:"service"`
	Download DownloadConfig `json:"download" yaml:"download"`
	History  HistoryConfig  `json:"history" yaml:"history"`
	Log      LogConfig      `json:"log" yaml:"log"`
}
