// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package remote is the client side of the upload and convert endpoints.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/file-converter/internal/httputil"
	"github.com/pdiddy/file-converter/pkg/types"
)

const (
	uploadPath  = "/upload"
	convertPath = "/convert"
)

// UploadRequest is the body of POST {base}/upload.
type UploadRequest struct {
	FileData    string `json:"file_data"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	UserSession string `json:"user_session"`
}

// UploadResponse is the part of the upload response the client reads.
type UploadResponse struct {
	ConversionID string `json:"conversion_id"`
}

// ConvertRequest is the body of POST {base}/convert.
type ConvertRequest struct {
	ConversionID string         `json:"conversion_id"`
	TargetFormat types.FormatID `json:"target_format"`
}

// Service is the remote conversion service.
type Service interface {
	Upload(ctx context.Context, req UploadRequest) (UploadResponse, error)
	Convert(ctx context.Context, req ConvertRequest) (types.ConversionResult, error)
}

// Client implements Service over HTTP with JSON bodies.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient returns a client for the service at cfg.BaseURL. The base URL
// must be absolute http or https.
func NewClient(cfg types.ServiceConfig, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api base URL is not configured")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing api base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("api base URL must be an absolute http(s) URL, got %q", cfg.BaseURL)
	}

	c := &Client{
		baseURL:    base,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Upload sends the encoded file and returns the conversion identifier.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (UploadResponse, error) {
	var resp UploadResponse
	if err := httputil.PostJSON(ctx, c.httpClient, c.baseURL+uploadPath, c.userAgent, req, &resp); err != nil {
		return UploadResponse{}, fmt.Errorf("upload failed: %w", err)
	}
	return resp, nil
}

// Convert requests conversion of a previously uploaded file and returns the
// whole response body.
func (c *Client) Convert(ctx context.Context, req ConvertRequest) (types.ConversionResult, error) {
	var result types.ConversionResult
	if err := httputil.PostJSON(ctx, c.httpClient, c.baseURL+convertPath, c.userAgent, req, &result); err != nil {
		return types.ConversionResult{}, fmt.Errorf("conversion failed: %w", err)
	}
	return result, nil
}
