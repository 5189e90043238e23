package templates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/base-cli/base/internal/branding"
	"github.com/base-cli/base/internal/errors"
	"github.com/base-cli/base/internal/logging"
)

// Fetcher downloads template archives over HTTP(S).
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// NewFetcher creates a Fetcher with the given options.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: http.DefaultClient,
		userAgent:  branding.CLIName() + "-fetcher",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url to destPath. The body is streamed to a .part file that
// is renamed into place only after the whole stream has been written, so a
// failed download never leaves a file at destPath.
func (f *Fetcher) Fetch(ctx context.Context, url, destPath string) error {
	logger := logging.GetLogger("fetcher")
	done := logging.LogOperationStart(logger, "fetch", url)
	defer done()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(errors.ENetwork, "fetch", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.ENetwork, "fetch", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New(errors.ENetwork, "fetch", url, fmt.Sprintf("download returned status %d", resp.StatusCode))
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return errors.Wrap(errors.EFilesystem, "fetch", filepath.Dir(destPath), err)
	}

	partPath := destPath + ".part"
	out, err := os.Create(partPath)
	if err != nil {
		return errors.Wrap(errors.EFilesystem, "fetch", partPath, err)
	}

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		out.Close()
		os.Remove(partPath)
		return errors.Wrap(errors.ENetwork, "fetch", url, fmt.Errorf("reading download stream: %w", err))
	}
	if err := out.Close(); err != nil {
		os.Remove(partPath)
		return errors.Wrap(errors.EFilesystem, "fetch", partPath, err)
	}
	if err := os.Rename(partPath, destPath); err != nil {
		os.Remove(partPath)
		return errors.Wrap(errors.EFilesystem, "fetch", destPath, err)
	}

	logger.Debug().Str("url", url).Str("path", destPath).Int64("bytes", n).Msg("Archive downloaded")
	return nil
}
