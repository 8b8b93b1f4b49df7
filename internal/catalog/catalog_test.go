// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/file-converter/pkg/types"
)

func TestFormatsOrder(t *testing.T) {
	got := Formats()
	require.Len(t, got, 6)
	assert.Equal(t, []string{"jpg", "png", "gif", "bmp", "tiff", "webp"}, IDs())
	assert.Equal(t, "JPEG (.jpg)", got[0].Label)
	assert.Equal(t, "WebP (.webp)", got[5].Label)
}

func TestFormatsReturnsCopy(t *testing.T) {
	got := Formats()
	got[0].Label = "changed"
	assert.Equal(t, "JPEG (.jpg)", Formats()[0].Label)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		wantID types.FormatID
	}{
		{"exact", "png", true, PNG},
		{"upper case", "TIFF", true, TIFF},
		{"padded", "  webp ", true, WEBP},
		{"jpeg is not an identifier", "jpeg", false, ""},
		{"unknown", "svg", false, ""},
		{"empty", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := Lookup(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, f.ID)
		})
	}
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(GIF))
	assert.False(t, Contains("heic"))
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "image/jpeg", MediaType(JPG))
	assert.Equal(t, "image/webp", MediaType("WEBP"))
	assert.Empty(t, MediaType("heic"))
}
