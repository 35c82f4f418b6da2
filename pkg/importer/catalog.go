package importer

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrUnknownSource is returned for a source ID missing from the catalog.
var ErrUnknownSource = errors.New("source not catalogued")

// CheckResult is the answer to one HEAD request. Status is 0 when no response arrived.
type CheckResult struct {
	At     time.Time
	Status int
	Err    string
}

// Reachable reports whether the source answered with a 2xx or 3xx status.
func (r CheckResult) Reachable() bool {
	return r.Err == "" && r.Status >= 200 && r.Status < 400
}

// FetchResult is the outcome of one download attempt by an adapter.
type FetchResult struct {
	At    time.Time
	Bytes int64
	Err   string
}

// OK reports whether the download produced a CSV.
func (r FetchResult) OK() bool { return r.Err == "" }

// Source is one catalogued download location.
// LastCheck and LastFetch are nil until the first check or fetch.
type Source struct {
	ID          string
	Description string
	URL         string
	License     string
	UpdatedAt   time.Time
	LastCheck   *CheckResult
	LastFetch   *FetchResult
}

// Catalog persists source URLs and their latest outcomes in SQLite.
type Catalog struct {
	db *sql.DB
}

const catalogSchema = `CREATE TABLE IF NOT EXISTS sources (
	id            TEXT PRIMARY KEY,
	description   TEXT NOT NULL,
	url           TEXT NOT NULL,
	license       TEXT NOT NULL DEFAULT '',
	updated_at    INTEGER NOT NULL,
	checked_at    INTEGER,
	check_status  INTEGER,
	check_error   TEXT,
	fetched_at    INTEGER,
	fetch_bytes   INTEGER,
	fetch_error   TEXT
)`

// OpenCatalog opens or creates the catalog database at path.
func OpenCatalog(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Seed catalogues every adapter under its default URL.
// Rows already present keep their URL, so overrides made with SetURL persist.
func (c *Catalog) Seed(adapters []Adapter) error {
	now := time.Now().Unix()
	for _, a := range adapters {
		_, err := c.db.Exec(`INSERT INTO sources (id, description, url, license, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET description = excluded.description, license = excluded.license`,
			a.ID(), a.Description(), a.DefaultURL(), a.License(), now)
		if err != nil {
			return fmt.Errorf("seed %s: %w", a.ID(), err)
		}
	}
	return nil
}

// GetURL returns the catalogued URL of sourceID.
func (c *Catalog) GetURL(sourceID string) (string, error) {
	var url string
	err := c.db.QueryRow(`SELECT url FROM sources WHERE id = ?`, sourceID).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrUnknownSource, sourceID)
	}
	if err != nil {
		return "", fmt.Errorf("get url for %s: %w", sourceID, err)
	}
	return url, nil
}

// SetURL points sourceID at a new location. Earlier outcomes describe the old
// URL and are cleared.
func (c *Catalog) SetURL(sourceID, url string) error {
	res, err := c.db.Exec(`UPDATE sources SET url = ?, updated_at = ?,
		checked_at = NULL, check_status = NULL, check_error = NULL,
		fetched_at = NULL, fetch_bytes = NULL, fetch_error = NULL
		WHERE id = ?`, url, time.Now().Unix(), sourceID)
	if err != nil {
		return fmt.Errorf("set url for %s: %w", sourceID, err)
	}
	return requireRow(res, sourceID)
}

// RecordCheck stores the latest HEAD check of sourceID.
func (c *Catalog) RecordCheck(sourceID string, r CheckResult) error {
	res, err := c.db.Exec(`UPDATE sources SET checked_at = ?, check_status = ?, check_error = ? WHERE id = ?`,
		stamp(r.At), r.Status, nullString(r.Err), sourceID)
	if err != nil {
		return fmt.Errorf("record check for %s: %w", sourceID, err)
	}
	return requireRow(res, sourceID)
}

// RecordFetch stores the latest download attempt of sourceID.
func (c *Catalog) RecordFetch(sourceID string, r FetchResult) error {
	res, err := c.db.Exec(`UPDATE sources SET fetched_at = ?, fetch_bytes = ?, fetch_error = ? WHERE id = ?`,
		stamp(r.At), r.Bytes, nullString(r.Err), sourceID)
	if err != nil {
		return fmt.Errorf("record fetch for %s: %w", sourceID, err)
	}
	return requireRow(res, sourceID)
}

const sourceColumns = `id, description, url, license, updated_at,
	checked_at, check_status, check_error, fetched_at, fetch_bytes, fetch_error`

// Lookup returns one catalogued source.
func (c *Catalog) Lookup(sourceID string) (*Source, error) {
	src, err := scanSource(c.db.QueryRow(`SELECT `+sourceColumns+` FROM sources WHERE id = ?`, sourceID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, sourceID)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", sourceID, err)
	}
	return src, nil
}

// ListSources returns every catalogued source ordered by ID.
func (c *Catalog) ListSources() ([]Source, error) {
	rows, err := c.db.Query(`SELECT ` + sourceColumns + ` FROM sources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, *src)
	}
	return sources, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*Source, error) {
	var (
		src                    Source
		updated                int64
		checkedAt, checkStatus sql.NullInt64
		fetchedAt, fetchBytes  sql.NullInt64
		checkError, fetchError sql.NullString
	)
	if err := row.Scan(&src.ID, &src.Description, &src.URL, &src.License, &updated,
		&checkedAt, &checkStatus, &checkError, &fetchedAt, &fetchBytes, &fetchError); err != nil {
		return nil, err
	}
	src.UpdatedAt = time.Unix(updated, 0)
	if checkedAt.Valid {
		src.LastCheck = &CheckResult{
			At:     time.Unix(checkedAt.Int64, 0),
			Status: int(checkStatus.Int64),
			Err:    checkError.String,
		}
	}
	if fetchedAt.Valid {
		src.LastFetch = &FetchResult{
			At:    time.Unix(fetchedAt.Int64, 0),
			Bytes: fetchBytes.Int64,
			Err:   fetchError.String,
		}
	}
	return &src, nil
}

func requireRow(res sql.Result, sourceID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSource, sourceID)
	}
	return nil
}

func stamp(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Unix()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
