package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// checkWorkers bounds the HEAD requests in flight during one pass.
const checkWorkers = 4

// Checker sends a HEAD request to every catalogued source and records the answer.
type Checker struct {
	catalog  *Catalog
	logger   *slog.Logger
	interval time.Duration
	client   *http.Client
}

// NewChecker returns a Checker for catalog. interval is only used by Start.
func NewChecker(catalog *Catalog, logger *slog.Logger, interval time.Duration) *Checker {
	return &Checker{
		catalog:  catalog,
		logger:   logger,
		interval: interval,
		client: &http.Client{
			Timeout: 30 * time.Second,
			// Redirects count as reachable and are not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// CheckReport lists source IDs by outcome, in catalog order.
type CheckReport struct {
	Reachable   []string
	Unreachable []string
}

// Start checks immediately, then every interval until ctx is done.
func (c *Checker) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		if _, err := c.CheckAll(ctx); err != nil && ctx.Err() == nil {
			c.logger.Error("source check failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// CheckAll checks every catalogued source and stores each result.
// It fails when the catalog cannot be read or written, or when ctx ends mid-pass;
// unreachable sources are reported, not returned as errors.
func (c *Checker) CheckAll(ctx context.Context) (CheckReport, error) {
	var report CheckReport

	sources, err := c.catalog.ListSources()
	if err != nil {
		return report, fmt.Errorf("check sources: %w", err)
	}

	results := make([]CheckResult, len(sources))
	var g errgroup.Group
	g.SetLimit(checkWorkers)
	for i, src := range sources {
		g.Go(func() error {
			results[i] = c.checkOne(ctx, src.URL)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	for i, src := range sources {
		res := results[i]
		if err := c.catalog.RecordCheck(src.ID, res); err != nil {
			return report, err
		}
		if res.Reachable() {
			report.Reachable = append(report.Reachable, src.ID)
			continue
		}
		report.Unreachable = append(report.Unreachable, src.ID)
		c.logger.Warn("source unreachable",
			"source", src.ID,
			"url", src.URL,
			"status", res.Status,
			"error", res.Err,
		)
	}

	c.logger.Info("source check complete",
		"total", len(sources),
		"ok", len(report.Reachable),
		"failed", len(report.Unreachable),
	)
	return report, nil
}

func (c *Checker) checkOne(ctx context.Context, url string) CheckResult {
	res := CheckResult{At: time.Now()}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		res.Err = fmt.Sprintf("build request: %v", err)
		return res
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		res.Err = fmt.Sprintf("HEAD %s: %v", url, err)
		return res
	}
	resp.Body.Close()
	res.Status = resp.StatusCode
	return res
}
