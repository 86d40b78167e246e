package reporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"admincheck/toolkit"
)

var (
	// ErrAborted means login failed and no further step ran.
	ErrAborted = errors.New("authentication failed; remaining checks skipped")
	// ErrChecksFailed means the run completed with at least one failure.
	ErrChecksFailed = errors.New("one or more checks failed")
)

// main exporting function
//
// Run executes the check sequence against cfg.BaseURL and returns the
// report. The error is ErrAborted, ErrChecksFailed, nil, or a setup error
// (in which case the report is empty).
func Run(ctx context.Context, cfg toolkit.CheckerConfig, console *Console) (toolkit.CheckReport, error) {
	runID := uuid.NewString()
	client, err := toolkit.NewAdminClient(cfg, runID)
	if err != nil {
		return toolkit.CheckReport{}, fmt.Errorf("create admin client: %w", err)
	}

	rep := toolkit.CheckReport{
		RunID:     runID,
		BaseURL:   client.BaseURL(),
		StartedAt: time.Now(),
	}
	if console == nil {
		console = NewConsole(io.Discard, false)
	}
	console.Banner(rep.BaseURL, runID)
	slog.Info("runner.run: start", "run_id", runID, "base_url", rep.BaseURL, "timeout", cfg.Timeout, "cleanup", cfg.Cleanup)

	s := NewSession(client, console)
	aborted := runSteps(ctx, s, cfg)

	rep.Results = s.Results()
	rep.Summary = toolkit.Summarize(rep.Results)
	rep.Duration = time.Since(rep.StartedAt)
	rep.Aborted = aborted

	if aborted {
		console.Aborted()
		slog.Warn("runner.run: aborted after login failure", "run_id", runID)
		return rep, ErrAborted
	}

	console.Summary(rep)
	slog.Info("runner.run: completed", "run_id", runID, "total", rep.Summary.Total,
		"passed", rep.Summary.Passed, "failed", rep.Summary.Failed)
	if rep.Summary.Failed > 0 {
		return rep, ErrChecksFailed
	}
	return rep, nil
}

// runSteps is the fixed, data-dependent order. It reports whether the run
// was aborted.
func runSteps(ctx context.Context, s *Session, cfg toolkit.CheckerConfig) bool {
	if !s.Login(ctx, cfg.Email, cfg.Password) {
		return true
	}

	s.CategoriesGet(ctx)
	s.CategoriesPost(ctx)

	coverURL := s.ImageUpload(ctx)

	s.ProductsGet(ctx)
	productID := s.ProductsPost(ctx, coverURL)

	if productID == "" {
		slog.Info("runner.steps: no product id; single-product checks skipped")
		return false
	}
	s.ProductGet(ctx, productID)
	s.ProductPatch(ctx, productID)
	if cfg.Cleanup {
		s.ProductDelete(ctx, productID)
	} else {
		slog.Info("runner.steps: delete skipped; product kept for inspection", "product_id", productID)
	}
	return false
}

// Persist writes the report to the configured JSON and XLSX paths.
func Persist(rep toolkit.CheckReport, cfg toolkit.CheckerConfig) error {
	if cfg.ReportPath != "" {
		path, err := filepath.Abs(cfg.ReportPath)
		if err != nil {
			return fmt.Errorf("resolve report path: %w", err)
		}
		if err := writeJSON(path, rep); err != nil {
			return fmt.Errorf("persist report json: %w", err)
		}
		slog.Info("runner.persist: report written", "path", path)
	}
	if cfg.XLSXPath != "" {
		if err := WriteWorkbook(cfg.XLSXPath, rep); err != nil {
			return fmt.Errorf("persist report xlsx: %w", err)
		}
		slog.Info("runner.persist: workbook written", "path", cfg.XLSXPath)
	}
	return nil
}

func writeJSON(path string, data any) error {
	slog.Debug("runner.write_json: writing", "file", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare output directory for %q: %w", path, err)
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json %q: %w", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write json file %q: %w", path, err)
	}
	return nil
}
