// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package encode prepares file contents for the upload request body.
package encode

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/pdiddy/file-converter/pkg/types"
)

// Encoder turns a selected file into the textual payload sent as file_data.
type Encoder interface {
	Encode(ctx context.Context, file types.SelectedFile) (string, error)
}

// Base64 reads files from a filesystem and encodes them as standard base64
// with no data-URL prefix.
type Base64 struct {
	fs afero.Fs
}

// NewBase64 returns a Base64 encoder reading from fs.
func NewBase64(fs afero.Fs) *Base64 {
	return &Base64{fs: fs}
}

// Encode reads file.Path and returns its base64 encoding. The read stops
// early when ctx is done.
func (b *Base64) Encode(ctx context.Context, file types.SelectedFile) (string, error) {
	f, err := b.fs.Open(file.Path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", file.Name, err)
	}
	defer f.Close()

	var out strings.Builder
	if file.Size > 0 {
		out.Grow(base64.StdEncoding.EncodedLen(int(file.Size)))
	}
	enc := base64.NewEncoder(base64.StdEncoding, &out)
	if _, err := io.Copy(enc, &ctxReader{ctx: ctx, r: f}); err != nil {
		return "", fmt.Errorf("reading %s: %w", file.Name, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding %s: %w", file.Name, err)
	}
	return out.String(), nil
}

// StripDataURL returns the payload of a data URL ("data:<type>;base64,<payload>").
// Input without a data-URL header is returned unchanged.
func StripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return s
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
