package importer

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"time"
)

const userAgent = "dictbuild/1.0"

// downloadFile downloads url to dest with retries and timeout, returning the byte count.
func downloadFile(ctx context.Context, url, dest string) (int64, error) {
	client := &http.Client{Timeout: 10 * time.Minute}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			continue
		}

		f, err := os.Create(dest)
		if err != nil {
			resp.Body.Close()
			return 0, fmt.Errorf("create file: %w", err)
		}

		n, copyErr := io.Copy(f, resp.Body)
		resp.Body.Close()
		closeErr := f.Close()

		if copyErr != nil {
			lastErr = copyErr
			continue
		}
		if closeErr != nil {
			return 0, closeErr
		}
		return n, nil
	}
	return 0, fmt.Errorf("download %s failed after 3 attempts: %w", url, lastErr)
}

// extractZipMember copies the archive entry named member (or, failing an exact
// match, the first entry with the same base name) from src to dest.
func extractZipMember(src, member, dest string) (int64, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return 0, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var found *zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if f.Name == member {
			found = f
			break
		}
		if found == nil && path.Base(f.Name) == path.Base(member) {
			found = f
		}
	}
	if found == nil {
		return 0, fmt.Errorf("%s not found in %s", member, src)
	}

	rc, err := found.Open()
	if err != nil {
		return 0, fmt.Errorf("open zip entry %s: %w", found.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dest, err)
	}
	n, err := io.Copy(out, rc)
	if err != nil {
		out.Close()
		return 0, fmt.Errorf("extract %s: %w", found.Name, err)
	}
	return n, out.Close()
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
