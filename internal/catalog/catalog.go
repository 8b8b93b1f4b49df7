// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the fixed, ordered list of target image formats the
// convert endpoint accepts.
package catalog

import (
	"strings"

	"github.com/pdiddy/file-converter/pkg/types"
)

const (
	JPG  types.FormatID = "jpg"
	PNG  types.FormatID = "png"
	GIF  types.FormatID = "gif"
	BMP  types.FormatID = "bmp"
	TIFF types.FormatID = "tiff"
	WEBP types.FormatID = "webp"
)

var formats = []types.Format{
	{ID: JPG, Label: "JPEG (.jpg)"},
	{ID: PNG, Label: "PNG (.png)"},
	{ID: GIF, Label: "GIF (.gif)"},
	{ID: BMP, Label: "BMP (.bmp)"},
	{ID: TIFF, Label: "TIFF (.tiff)"},
	{ID: WEBP, Label: "WebP (.webp)"},
}

var mediaTypes = map[types.FormatID]string{
	JPG:  "image/jpeg",
	PNG:  "image/png",
	GIF:  "image/gif",
	BMP:  "image/bmp",
	TIFF: "image/tiff",
	WEBP: "image/webp",
}

// MediaType returns the MIME type of a converted file in format id, or
// empty when id is not in the catalog.
func MediaType(id types.FormatID) string {
	f, ok := Lookup(string(id))
	if !ok {
		return ""
	}
	return mediaTypes[f.ID]
}

// Formats returns the catalog in display order. The returned slice is a copy.
func Formats() []types.Format {
	out := make([]types.Format, len(formats))
	copy(out, formats)
	return out
}

// Lookup returns the catalog entry for id. Matching ignores case and
// surrounding whitespace.
func Lookup(id string) (types.Format, bool) {
	norm := types.FormatID(strings.ToLower(strings.TrimSpace(id)))
	for _, f := range formats {
		if f.ID == norm {
			return f, true
		}
	}
	return types.Format{}, false
}

// Contains reports whether id is a catalog identifier.
func Contains(id types.FormatID) bool {
	_, ok := Lookup(string(id))
	return ok
}

// IDs returns the catalog identifiers in display order.
func IDs() []string {
	ids := make([]string, len(formats))
	for i, f := range formats {
		ids[i] = string(f.ID)
	}
	return ids
}
