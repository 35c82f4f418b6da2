package dict

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Required header names of the source dataset.
const (
	WordColumn        = "word"
	TranslationColumn = "translation"
)

// ProgressEvery is the row interval between progress log lines.
const ProgressEvery = 100_000

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("required column missing from header")
	// ErrNoHeader is returned when the input has no header row at all.
	ErrNoHeader = errors.New("input has no header row")
)

// Table maps a normalized key to its cleaned translation.
// It carries no order; Write sorts keys.
type Table map[string]string

// Columns holds header positions resolved once per build.
type Columns struct {
	Word        int
	Translation int
}

// ResolveColumns finds the word and translation columns by exact name.
func ResolveColumns(header []string) (Columns, error) {
	cols := Columns{Word: -1, Translation: -1}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		switch h {
		case WordColumn:
			if cols.Word < 0 {
				cols.Word = i
			}
		case TranslationColumn:
			if cols.Translation < 0 {
				cols.Translation = i
			}
		}
	}
	if cols.Word < 0 {
		return cols, fmt.Errorf("%w: %q in %v", ErrMissingColumn, WordColumn, header)
	}
	if cols.Translation < 0 {
		return cols, fmt.Errorf("%w: %q in %v", ErrMissingColumn, TranslationColumn, header)
	}
	return cols, nil
}

// width is the minimum record length holding both columns.
func (c Columns) width() int {
	return max(c.Word, c.Translation) + 1
}

// Stats are the operator-facing counters of one build.
type Stats struct {
	Total   int `yaml:"rows_total" json:"rows_total"`
	Skipped int `yaml:"rows_skipped" json:"rows_skipped"`
	Entries int `yaml:"entries" json:"entries"`
}

// Builder merges records into a Table. It is not safe for concurrent use.
type Builder struct {
	cols   Columns
	table  Table
	stats  Stats
	logger *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger enables progress logging every ProgressEvery rows.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder resolves the column layout from header.
func NewBuilder(header []string, opts ...BuilderOption) (*Builder, error) {
	cols, err := ResolveColumns(header)
	if err != nil {
		return nil, err
	}
	b := &Builder{cols: cols, table: make(Table)}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Add processes one data record and reports whether it was kept.
// A kept record either created its key or was compared against the stored one;
// a shorter translation replaces a longer one, ties keep the first.
func (b *Builder) Add(record []string) bool {
	b.tick()
	if len(record) < b.cols.width() {
		b.stats.Skipped++
		return false
	}

	word := strings.TrimSpace(record[b.cols.Word])
	if !IsUsefulWord(word) {
		b.stats.Skipped++
		return false
	}

	cleaned := CleanTranslation(strings.TrimSpace(record[b.cols.Translation]))
	if cleaned == "" {
		b.stats.Skipped++
		return false
	}

	key := NormalizeKey(word)
	if prev, ok := b.table[key]; !ok || utf8.RuneCountInString(cleaned) < utf8.RuneCountInString(prev) {
		b.table[key] = cleaned
	}
	return true
}

// Skip counts a row that could not be parsed at all.
func (b *Builder) Skip() {
	b.tick()
	b.stats.Skipped++
}

func (b *Builder) tick() {
	b.stats.Total++
	if b.logger != nil && b.stats.Total%ProgressEvery == 0 {
		b.logger.Info("rows processed", "rows", b.stats.Total, "entries", len(b.table))
	}
}

// Table returns the merged table. The builder keeps ownership until it is discarded.
func (b *Builder) Table() Table { return b.table }

// Stats returns the running counters.
func (b *Builder) Stats() Stats {
	s := b.stats
	s.Entries = len(b.table)
	return s
}

// Result is the outcome of a full build.
type Result struct {
	Table Table
	Stats Stats
}

// Build reads a CSV stream with a header row and merges every record.
// Header problems and I/O errors abort the build. A row with broken quoting
// is a *csv.ParseError confined to that row and is counted as skipped.
func Build(ctx context.Context, r io.Reader, opts ...BuilderOption) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	b, err := NewBuilder(header, opts...)
	if err != nil {
		return nil, err
	}

	for {
		if b.stats.Total%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				b.Skip()
				continue
			}
			return nil, fmt.Errorf("read row %d: %w", b.stats.Total+1, err)
		}
		b.Add(record)
	}

	return &Result{Table: b.Table(), Stats: b.Stats()}, nil
}

// BuildFile opens path, transcodes it from encoding when it is not UTF-8,
// and runs Build over it.
func BuildFile(ctx context.Context, path, encoding string, opts ...BuilderOption) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if encoding != "" && !isUTF8(encoding) {
		e, err := htmlindex.Get(encoding)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", encoding, err)
		}
		reader = transform.NewReader(f, e.NewDecoder())
	}
	return Build(ctx, reader, opts...)
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
