package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/cache"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/engine"
	"github.com/jonathan/resume-analyzer/internal/fetch"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/metrics"
	"github.com/jonathan/resume-analyzer/internal/oracle"
	"github.com/jonathan/resume-analyzer/internal/patterns"
)

// app holds what every subcommand needs.
type app struct {
	engine   *engine.Engine
	registry *prometheus.Registry
	metrics  *metrics.Recorder
	cache    *cache.ResultCache // nil without a Redis URL
	logger   *zap.Logger
	closers  []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{registry: prometheus.NewRegistry(), logger: logger}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.NewRecorder(a.registry)

	lib := patterns.Default()
	if cfg.Patterns.Path != "" {
		var err error
		if lib, err = patterns.Load(cfg.Patterns.Path); err != nil {
			return nil, err
		}
		logger.Info("loaded pattern library", zap.String("path", cfg.Patterns.Path))
	}

	if cfg.Cache.RedisURL != "" {
		rc, err := cache.New(cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		a.cache = rc
		a.closers = append(a.closers, rc.Close)
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, cache lookups will miss", zap.Error(err))
		}
	}

	orc, err := a.buildOracle(ctx, cfg.Oracle)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.engine = engine.New(lib,
		engine.WithOracle(orc),
		engine.WithLogger(logger),
		engine.WithMetrics(a.metrics))
	logger.Debug("engine ready", zap.String("oracle", a.engine.OracleName()))
	return a, nil
}

// buildOracle returns nil when the provider is "none".
func (a *app) buildOracle(ctx context.Context, oc config.OracleConfig) (oracle.Oracle, error) {
	switch oc.Provider {
	case config.ProviderHTTP:
		return oracle.NewHTTPOracle(oc.Endpoint,
			oracle.WithAPIKey(oc.APIKey),
			oracle.WithTimeout(oc.Timeout)), nil
	case config.ProviderGemini:
		tier, err := llm.ParseTier(oc.Tier)
		if err != nil {
			return nil, err
		}
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), oc.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		return oracle.NewLLMOracle(client, tier, oc.Timeout), nil
	default:
		return nil, nil
	}
}

// Close releases clients in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

// readInput extracts text from path, or from stdin when path is "" or "-".
func readInput(path string, stdin io.Reader) (ingestion.ResumeText, *ingestion.Metadata, error) {
	if path != "" && path != "-" {
		return ingestion.ExtractFile(path)
	}
	data, err := io.ReadAll(io.LimitReader(stdin, ingestion.MaxDocumentSize+1))
	if err != nil {
		return ingestion.ResumeText{}, nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return ingestion.ExtractBytes("stdin.txt", data)
}

// jobDescription resolves the job description flags: inline text, then a posting URL,
// then a file.
func (a *app) jobDescription(ctx context.Context, path, text, url string, browser bool) (string, error) {
	if text != "" || url == "" {
		return readJobDescription(path, text)
	}

	options := []fetch.PostingOption{fetch.WithLogger(a.logger)}
	if a.cache != nil {
		options = append(options, fetch.WithCache(a.cache))
	}
	if browser {
		options = append(options, fetch.WithRenderer(fetch.NewChromeRenderer()))
	}
	posting, err := fetch.NewPostingFetcher(nil, options...).Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch job description: %w", err)
	}
	a.logger.Info("fetched job posting",
		zap.String("url", url),
		zap.String("platform", string(posting.Platform)),
		zap.Int("chars", len(posting.Text)),
		zap.Bool("rendered", posting.Rendered))
	return posting.Text, nil
}

// readJobDescription prefers inline text over a file.
func readJobDescription(path, text string) (string, error) {
	if text != "" {
		return text, nil
	}
	if path == "" {
		return "", nil
	}
	jd, _, err := ingestion.ExtractFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	return jd.Original(), nil
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
