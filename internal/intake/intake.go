// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package intake turns a picked or dropped file into a SelectedFile and
// suggests a default target format from its extension.
package intake

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/pdiddy/file-converter/internal/catalog"
	"github.com/pdiddy/file-converter/pkg/types"
)

const defaultContentType = "application/octet-stream"

// imageExtensions is the set of extensions recognized as image input.
var imageExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",
}

// Source is an input event that may carry files.
type Source interface {
	// First returns the path of the first file carried by the event.
	First() (path string, ok bool)
}

// Picker is a manual file selection.
type Picker struct {
	Path string
}

// First returns the picked path.
func (p Picker) First() (string, bool) {
	return p.Path, p.Path != ""
}

// Drop is a drag-and-drop event. Only the first file is used.
type Drop struct {
	Files []string
}

// First returns the first dropped path.
func (d Drop) First() (string, bool) {
	for _, f := range d.Files {
		if f != "" {
			return f, true
		}
	}
	return "", false
}

// Intake reads file metadata from a filesystem.
type Intake struct {
	fs afero.Fs
}

// New returns an Intake over fs.
func New(fs afero.Fs) *Intake {
	return &Intake{fs: fs}
}

// Select resolves the file carried by src. When src carries no file, ok is
// false and nothing else is returned. The suggested format is empty when the
// extension is not a recognized image extension.
func (in *Intake) Select(src Source) (file types.SelectedFile, suggested types.FormatID, ok bool, err error) {
	if src == nil {
		return types.SelectedFile{}, "", false, nil
	}
	path, present := src.First()
	if !present {
		return types.SelectedFile{}, "", false, nil
	}

	info, err := in.fs.Stat(path)
	if err != nil {
		return types.SelectedFile{}, "", false, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return types.SelectedFile{}, "", false, fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	file = types.SelectedFile{
		Name:        name,
		Path:        path,
		ContentType: ContentType(name),
		Size:        info.Size(),
	}
	return file, Suggest(name), true, nil
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// IsImage reports whether ext is a recognized image extension.
func IsImage(ext string) bool {
	_, ok := imageExtensions[strings.ToLower(ext)]
	return ok
}

// Suggest returns the default target format for a file name: png for a .jpg
// file, jpg for any other recognized image, and empty otherwise.
func Suggest(name string) types.FormatID {
	ext := Extension(name)
	if !IsImage(ext) {
		return ""
	}
	if ext == "jpg" {
		return catalog.PNG
	}
	return catalog.JPG
}

// ContentType returns the MIME type declared for name.
func ContentType(name string) string {
	if ct, ok := imageExtensions[Extension(name)]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return defaultContentType
}
