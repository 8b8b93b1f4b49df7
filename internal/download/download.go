// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download fetches a converted file from its download URL and writes
// a YAML receipt next to it.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/file-converter/internal/catalog"
	"github.com/pdiddy/file-converter/internal/httputil"
	"github.com/pdiddy/file-converter/pkg/types"
)

// ErrExists is returned when the output file is already present and
// overwriting was not requested.
var ErrExists = errors.New("output already exists")

// ErrMediaType is returned when the download URL serves an image in a
// different format than the one requested.
var ErrMediaType = errors.New("unexpected media type")

// Request describes one converted file to fetch.
type Request struct {
	Session      string
	ConversionID string

	// SourceName is the original input file name; the output takes its base.
	SourceName string
	Format     types.FormatID
	Result     types.ConversionResult

	// Overwrite replaces an existing output file.
	Overwrite bool
}

// Downloader saves conversion results under an output directory.
type Downloader struct {
	fs     afero.Fs
	client *http.Client
	cfg    types.DownloadConfig
	now    func() time.Time
}

// New returns a Downloader writing to fs with the given client.
func New(fs afero.Fs, client *http.Client, cfg types.DownloadConfig) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return &Downloader{fs: fs, client: client, cfg: cfg, now: time.Now}
}

// OutputName returns the file name a result is saved under: the source base
// name with the target format as extension.
func OutputName(sourceName string, format types.FormatID) string {
	base := filepath.Base(sourceName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "converted"
	}
	return base + "." + string(format)
}

// Save downloads req.Result.DownloadURL into the output directory and writes
// the receipt. Progress lines go to w.
func (d *Downloader) Save(ctx context.Context, req Request, w io.Writer) (*types.Receipt, error) {
	if req.Result.DownloadURL == "" {
		return nil, fmt.Errorf("conversion result has no download_url")
	}

	name := OutputName(req.SourceName, req.Format)
	destPath := filepath.Join(d.cfg.OutputDir, name)
	if !req.Overwrite {
		if _, err := d.fs.Stat(destPath); err == nil {
			return nil, fmt.Errorf("%s: %w", destPath, ErrExists)
		}
	}

	if err := d.fs.MkdirAll(d.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", d.cfg.OutputDir, err)
	}

	fmt.Fprintf(w, "downloading: %s\n", name)
	if err := d.fetch(ctx, req.Result.DownloadURL, req.Format, destPath); err != nil {
		return nil, fmt.Errorf("downloading %s: %w", name, err)
	}

	receipt := &types.Receipt{
		Session:      req.Session,
		ConversionID: req.ConversionID,
		SourceName:   req.SourceName,
		TargetFormat: req.Format,
		DownloadURL:  req.Result.DownloadURL,
		SavedPath:    destPath,
		DownloadedAt: d.now().UTC(),
	}
	if err := d.writeReceipt(receipt, destPath+".yaml"); err != nil {
		return nil, fmt.Errorf("writing receipt for %s: %w", name, err)
	}

	fmt.Fprintf(w, "saved: %s\n", destPath)
	return receipt, nil
}

// fetch streams the converted file at url to destPath through a temporary
// file. A response that declares an image type other than format's is
// refused before anything is written.
func (d *Downloader) fetch(ctx context.Context, url string, format types.FormatID, destPath string) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	want := catalog.MediaType(format)
	if want != "" {
		req.Header.Set("Accept", want+", */*;q=0.1")
	}
	if d.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", d.cfg.UserAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &httputil.StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if got := mediaType(resp.Header.Get("Content-Type")); want != "" && strings.HasPrefix(got, "image/") && got != want {
		return fmt.Errorf("%w: got %s, want %s", ErrMediaType, got, want)
	}

	tmp, err := afero.TempFile(d.fs, filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			d.fs.Remove(tmp.Name())
		}
	}()

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(destPath), err)
	}
	if n == 0 {
		return fmt.Errorf("empty response from %s", url)
	}
	return d.fs.Rename(tmp.Name(), destPath)
}

// mediaType returns the lower-cased media type of a Content-Type header
// without parameters.
func mediaType(header string) string {
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

func (d *Downloader) writeReceipt(r *types.Receipt, path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling receipt: %w", err)
	}
	return afero.WriteFile(d.fs, path, data, 0o644)
}

// ReadReceipt loads a receipt written by Save.
func ReadReceipt(fs afero.Fs, path string) (*types.Receipt, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no receipt at %s", path)
		}
		return nil, err
	}
	var r types.Receipt
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing receipt %s: %w", path, err)
	}
	return &r, nil
}
