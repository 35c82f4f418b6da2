package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hoverdict/dictbuild/pkg/importer"
)

func cmdSources(args []string) {
	fs := flag.NewFlagSet("sources", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "path to config file")
	dbPath := fs.String("db", "", "source catalog path (default from config)")
	setURL := fs.String("set", "", "override a source URL: <id>=<url>")
	fs.Parse(args)

	cfg, logger := setup(fs, *cfgPath)
	if *dbPath != "" {
		cfg.SourcesDB = *dbPath
	}

	catalog, err := openCatalog(cfg.SourcesDB)
	if err != nil {
		logger.Error("open source catalog", "error", err)
		os.Exit(1)
	}
	defer catalog.Close()

	if *setURL != "" {
		id, url, ok := strings.Cut(*setURL, "=")
		if !ok || id == "" || url == "" {
			fmt.Fprintln(os.Stderr, "-set expects <id>=<url>")
			os.Exit(1)
		}
		if err := catalog.SetURL(id, url); err != nil {
			logger.Error("set source url", "source", id, "error", err)
			os.Exit(1)
		}
		logger.Info("source url updated", "source", id, "url", url)
	}

	if err := listSources(os.Stdout, catalog); err != nil {
		logger.Error("list sources", "error", err)
		os.Exit(1)
	}
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "path to config file")
	interval := fs.Duration("interval", 0, "repeat the check at this interval (0 = once)")
	fs.Parse(args)

	cfg, logger := setup(fs, *cfgPath)

	catalog, err := openCatalog(cfg.SourcesDB)
	if err != nil {
		logger.Error("open source catalog", "error", err)
		os.Exit(1)
	}
	defer catalog.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checker := importer.NewChecker(catalog, logger, *interval)
	if *interval > 0 {
		checker.Start(ctx)
		return
	}

	report, err := checker.CheckAll(ctx)
	if err != nil {
		logger.Error("source check failed", "error", err)
	}
	if err != nil || len(report.Unreachable) > 0 {
		stop()
		catalog.Close()
		os.Exit(1)
	}
}

// openCatalog opens the source catalog and seeds it with the registered adapters.
func openCatalog(path string) (*importer.Catalog, error) {
	catalog, err := importer.OpenCatalog(path)
	if err != nil {
		return nil, err
	}
	if err := catalog.Seed(importer.All()); err != nil {
		catalog.Close()
		return nil, err
	}
	return catalog, nil
}

func listSources(w io.Writer, catalog *importer.Catalog) error {
	sources, err := catalog.ListSources()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Sources:")
	for _, src := range sources {
		fmt.Fprintf(w, "  %-12s  %s\n", src.ID, src.Description)
		fmt.Fprintf(w, "  %-12s  %s\n", "", src.URL)
		fmt.Fprintf(w, "  %-12s  check: %s\n", "", describeCheck(src.LastCheck))
		fmt.Fprintf(w, "  %-12s  fetch: %s\n", "", describeFetch(src.LastFetch))
	}
	return nil
}

func describeCheck(r *importer.CheckResult) string {
	if r == nil {
		return "never"
	}
	s := fmt.Sprintf("%d at %s", r.Status, r.At.Format(time.RFC3339))
	if r.Err != "" {
		s += " (" + r.Err + ")"
	}
	return s
}

func describeFetch(r *importer.FetchResult) string {
	if r == nil {
		return "never"
	}
	if !r.OK() {
		return fmt.Sprintf("failed %s (%s)", humanize.Time(r.At), r.Err)
	}
	return fmt.Sprintf("ok %s, %s", humanize.Time(r.At), humanize.Bytes(uint64(r.Bytes)))
}
