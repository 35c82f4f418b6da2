package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/hoverdict/dictbuild/pkg/dict"
	"github.com/hoverdict/dictbuild/pkg/importer"
)

const (
	dictionaryID = "en_zh"
	ecdictHome   = "https://github.com/skywind3000/ECDICT"
)

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "path to config file")
	maxEntries := fs.Int("max", 0, "keep at most N entries, lexicographically first (0 = all)")
	output := fs.String("output", "", "output path (default <project>/"+defaultDictRel+")")
	input := fs.String("input", "", "convert a local ecdict.csv instead of downloading")
	keepCSV := fs.Bool("keep-csv", false, "copy the downloaded ecdict.csv to the project root")
	manifest := fs.String("manifest", "", "also write a YAML build manifest to this path")
	encoding := fs.String("encoding", "", "input encoding (default utf-8)")
	fs.Parse(args)

	cfg, logger := setup(fs, *cfgPath)
	set := flagSet(fs)
	if set["max"] {
		cfg.MaxEntries = *maxEntries
	}
	if set["output"] {
		cfg.Output = *output
	}
	if set["input"] {
		cfg.Input = *input
	}
	if set["keep-csv"] {
		cfg.KeepCSV = *keepCSV
	}
	if set["manifest"] {
		cfg.ManifestPath = *manifest
	}
	if set["encoding"] {
		cfg.Encoding = *encoding
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runConvert(ctx, cfg, workingRoot(), logger, os.Stdout); err != nil {
		logger.Error("convert failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// runConvert acquires the ECDICT CSV, builds the table and writes the
// dictionary (and optional manifest). Nothing is written when it fails.
func runConvert(ctx context.Context, cfg *Config, root string, logger *slog.Logger, out io.Writer) error {
	output := cfg.Output
	if output == "" {
		output = defaultOutput(root)
	}

	fmt.Fprintf(out, "project: %s\noutput:  %s\n", root, output)
	if cfg.MaxEntries > 0 {
		fmt.Fprintf(out, "limit:   %d entries\n", cfg.MaxEntries)
	}

	workDir, err := os.MkdirTemp(cfg.WorkDir, "dictbuild_")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	acq, err := acquire(ctx, cfg, workDir, logger)
	if err != nil {
		if errors.Is(err, importer.ErrAcquisition) {
			printRecovery(out, cfg.Input)
		}
		return err
	}

	res, err := dict.BuildFile(ctx, acq.Path, cfg.Encoding, dict.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("build %s: %w", acq.Path, err)
	}
	logger.Info("table built",
		"rows_total", res.Stats.Total,
		"rows_skipped", res.Stats.Skipped,
		"entries", res.Stats.Entries,
	)

	table := dict.Limit(res.Table, cfg.MaxEntries)
	if len(table) < len(res.Table) {
		logger.Info("table limited", "from", len(res.Table), "to", len(table))
	}

	wr, err := dict.Write(output, table)
	if err != nil {
		return err
	}

	if cfg.ManifestPath != "" {
		stats := res.Stats
		stats.Entries = wr.Entries
		m := &dict.Manifest{
			ID:         dictionaryID,
			Source:     acq.SourceID,
			SourceURL:  acq.SourceURL,
			License:    acq.License,
			DataFile:   filepath.Base(output),
			MaxEntries: cfg.MaxEntries,
			Bytes:      wr.Bytes,
			SHA256:     wr.SHA256,
			Stats:      stats,
		}
		if err := dict.WriteManifest(cfg.ManifestPath, m); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		logger.Info("manifest written", "path", cfg.ManifestPath)
	}

	if cfg.KeepCSV && cfg.Input == "" {
		kept := filepath.Join(root, importer.CSVName)
		if err := copyFile(acq.Path, kept); err != nil {
			return fmt.Errorf("keep csv: %w", err)
		}
		fmt.Fprintf(out, "csv kept: %s\n", kept)
	}

	fmt.Fprintf(out, "\ndictionary written\n  path:    %s\n  entries: %d\n  size:    %s\n  rows:    %d total, %d skipped\n",
		wr.Path, wr.Entries, humanize.Bytes(uint64(wr.Bytes)), res.Stats.Total, res.Stats.Skipped)
	fmt.Fprintln(out, "\nnext step: gradle buildPlugin")
	return nil
}

// acquire returns the input CSV: the configured local file, or the first
// catalogued source that downloads successfully.
func acquire(ctx context.Context, cfg *Config, workDir string, logger *slog.Logger) (*importer.Acquired, error) {
	if cfg.Input != "" {
		return importer.LocalFile{Path: cfg.Input}.Acquire(ctx, workDir)
	}

	adapters, err := importer.Resolve(cfg.Sources)
	if err != nil {
		return nil, err
	}

	fb := &importer.Fallback{Adapters: adapters, Logger: logger}
	if cfg.SourcesDB != "" {
		catalog, err := importer.OpenCatalog(cfg.SourcesDB)
		if err != nil {
			logger.Warn("source catalog unavailable, using default urls", "error", err)
		} else {
			defer catalog.Close()
			if err := catalog.Seed(importer.All()); err != nil {
				logger.Warn("seed source catalog", "error", err)
			}
			fb.URLs = catalog
			fb.Recorder = catalog
		}
	}
	return fb.Acquire(ctx, workDir)
}

func printRecovery(out io.Writer, input string) {
	fmt.Fprintln(out, "\nautomatic download failed; to recover manually:")
	fmt.Fprintf(out, "  1. open %s\n", ecdictHome)
	fmt.Fprintln(out, "  2. download ecdict.csv")
	if input != "" {
		fmt.Fprintf(out, "  3. place it at %s\n", input)
		fmt.Fprintln(out, "  4. run dictbuild convert again")
		return
	}
	fmt.Fprintln(out, "  3. run: dictbuild convert -input /path/to/ecdict.csv")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
