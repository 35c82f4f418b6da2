package dict

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// SortedKeys returns the table keys in ascending code-point order.
// Byte-wise comparison of UTF-8 strings gives the same order.
func (t Table) SortedKeys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Limit keeps the lexicographically first n keys of t. An n of zero or less,
// or a table already within bounds, returns t unchanged.
func Limit(t Table, n int) Table {
	if n <= 0 || len(t) <= n {
		return t
	}
	limited := make(Table, n)
	for _, k := range t.SortedKeys()[:n] {
		limited[k] = t[k]
	}
	return limited
}

// WriteResult describes a written dictionary file.
type WriteResult struct {
	Path    string
	Entries int
	Bytes   int64
	SHA256  string
}

// WriteTo serializes t as sorted "key\ttranslation\n" lines.
func (t Table) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriterSize(w, 64*1024)
	var n int64
	for _, k := range t.SortedKeys() {
		m, err := fmt.Fprintf(bw, "%s\t%s\n", k, t[k])
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Write stores t at path, creating parent directories as needed.
// The file is written under a temporary name and renamed into place,
// so path either holds the complete dictionary or is left untouched.
func Write(path string, t Table) (WriteResult, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return WriteResult{}, fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return WriteResult{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	h := sha256.New()
	n, err := t.WriteTo(io.MultiWriter(tmp, h))
	if err != nil {
		tmp.Close()
		return WriteResult{}, fmt.Errorf("write dictionary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return WriteResult{}, fmt.Errorf("close dictionary: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return WriteResult{}, fmt.Errorf("chmod dictionary: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return WriteResult{}, fmt.Errorf("rename dictionary: %w", err)
	}

	return WriteResult{
		Path:    path,
		Entries: len(t),
		Bytes:   n,
		SHA256:  hex.EncodeToString(h.Sum(nil)),
	}, nil
}
