package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

// ErrAcquisition means no input file could be obtained from any source.
var ErrAcquisition = errors.New("dictionary source unavailable")

// Acquired describes a local input file and where it came from.
type Acquired struct {
	Path      string
	SourceID  string
	SourceURL string
	License   string
	Bytes     int64
}

// DataSource produces a local CSV file, or fails.
type DataSource interface {
	Acquire(ctx context.Context, destDir string) (*Acquired, error)
}

// URLResolver returns the configured URL of a source.
type URLResolver interface {
	GetURL(sourceID string) (string, error)
}

// FetchRecorder stores the outcome of each download attempt. *Catalog implements it.
type FetchRecorder interface {
	RecordFetch(sourceID string, r FetchResult) error
}

// LocalFile is a CSV already present on disk, e.g. downloaded by hand.
type LocalFile struct {
	Path string
}

// Acquire returns the file itself; destDir is unused.
func (l LocalFile) Acquire(_ context.Context, _ string) (*Acquired, error) {
	info, err := os.Stat(l.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAcquisition, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrAcquisition, l.Path)
	}
	return &Acquired{Path: l.Path, SourceID: "local", SourceURL: l.Path, Bytes: info.Size()}, nil
}

// Fallback tries each adapter in order until one yields a file.
type Fallback struct {
	Adapters []Adapter
	URLs     URLResolver   // optional; adapters' default URLs are used without it
	Recorder FetchRecorder // optional
	Logger   *slog.Logger
}

// Acquire runs the adapters in order. When all of them fail the returned error
// wraps ErrAcquisition and every individual failure.
func (f *Fallback) Acquire(ctx context.Context, destDir string) (*Acquired, error) {
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(f.Adapters) == 0 {
		return nil, fmt.Errorf("%w: no sources configured", ErrAcquisition)
	}

	var errs []error
	for _, a := range f.Adapters {
		url := f.urlFor(a, logger)
		logger.Info("fetching source", "source", a.ID(), "url", url)

		started := time.Now()
		path, size, err := a.Fetch(ctx, url, destDir)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("source failed", "source", a.ID(), "error", err)
			f.record(logger, a.ID(), FetchResult{At: started, Err: err.Error()})
			errs = append(errs, fmt.Errorf("%s: %w", a.ID(), err))
			continue
		}

		f.record(logger, a.ID(), FetchResult{At: started, Bytes: size})
		logger.Info("source fetched",
			"source", a.ID(),
			"size", humanize.Bytes(uint64(size)),
			"elapsed", time.Since(started).Round(time.Millisecond),
		)
		return &Acquired{Path: path, SourceID: a.ID(), SourceURL: url, License: a.License(), Bytes: size}, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrAcquisition, errors.Join(errs...))
}

// record failures are logged; they never change the acquisition outcome.
func (f *Fallback) record(logger *slog.Logger, sourceID string, r FetchResult) {
	if f.Recorder == nil {
		return
	}
	if err := f.Recorder.RecordFetch(sourceID, r); err != nil {
		logger.Warn("record fetch outcome", "source", sourceID, "error", err)
	}
}

func (f *Fallback) urlFor(a Adapter, logger *slog.Logger) string {
	if f.URLs == nil {
		return a.DefaultURL()
	}
	url, err := f.URLs.GetURL(a.ID())
	if err != nil || url == "" {
		logger.Debug("no catalogued url, using default", "source", a.ID(), "error", err)
		return a.DefaultURL()
	}
	return url
}
