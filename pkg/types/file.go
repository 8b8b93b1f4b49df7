// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the file-converter client:
// the selected input file, catalog formats, conversion results, history
// records, and stage configuration.
package types

// FormatID identifies a target image format (e.g. "png").
type FormatID string

// String returns the identifier as a plain string.
func (f FormatID) String() string { return string(f) }

// Format is one entry of the target format catalog.
type Format struct {
	// ID is the identifier sent to the convert endpoint as target_format.
	ID FormatID `json:"id" yaml:"id"`

	// Label is the human-readable name shown when choosing a format.
	Label string `json:"label" yaml:"label"`
}

// SelectedFile is the user's chosen input file. Content is read lazily from
// Path when the upload payload is encoded.
type SelectedFile struct {
	// Name is the original file name without directories (e.g. "photo.jpg").
	Name string `json:"name" yaml:"name"`

	// Path is the location the file was picked or dropped from.
	Path string `json:"path" yaml:"path"`

	// ContentType is the declared MIME type derived from the extension.
	ContentType string `json:"content_type" yaml:"content_type"`

	// Size is the file size in bytes at selection time.
	Size int64 `json:"size" yaml:"size"`
}
