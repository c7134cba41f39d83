package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/engine"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze every resume in a directory",
	Long: "Analyze every supported document under a directory with bounded parallelism and write " +
		"one JSON line per file, in path order. A file that cannot be read produces a line with " +
		"an error instead of stopping the batch.",
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	batchJDFile  string
	batchJDText  string
	batchJDURL   string
	batchOutFile string
	batchWorkers int
	batchParse   bool
)

func init() {
	batchCmd.Flags().StringVar(&batchJDFile, "jd", "", "Path to a job description file applied to every resume")
	batchCmd.Flags().StringVar(&batchJDText, "jd-text", "", "Job description text (overrides --jd)")
	batchCmd.Flags().StringVar(&batchJDURL, "jd-url", "", "Fetch the job description from a posting URL")
	batchCmd.Flags().StringVarP(&batchOutFile, "out", "o", "", "Write JSON lines to a file instead of stdout")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Parallel workers (default from config)")
	batchCmd.Flags().BoolVar(&batchParse, "parse", false, "Include the structured resume in each line")

	rootCmd.AddCommand(batchCmd)
}

// batchResult is one JSON line of batch output.
type batchResult struct {
	File   string              `json:"file"`
	Hash   string              `json:"hash,omitempty"`
	Report *engine.Report      `json:"report,omitempty"`
	Parse  *engine.ParseReport `json:"parse,omitempty"`
	Error  string              `json:"error,omitempty"`
}

var batchExtensions = map[string]bool{
	".txt": true, ".text": true, ".md": true, ".markdown": true,
	".pdf": true, ".docx": true, ".html": true, ".htm": true,
}

func runBatch(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args[0])
	if err != nil {
		return err
	}
	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.Batch.Workers
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	jd, err := a.jobDescription(cmd.Context(), batchJDFile, batchJDText, batchJDURL, false)
	if err != nil {
		return err
	}

	results, err := analyzeFiles(cmd.Context(), a.engine, files, jd, workers, batchParse)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if batchOutFile != "" {
		f, err := os.Create(batchOutFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := writeJSONLines(out, results); err != nil {
		return err
	}

	failed, total := 0, 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			continue
		}
		total += r.Report.Result.OverallScore
	}
	fields := []zap.Field{zap.Int("files", len(results)), zap.Int("failed", failed), zap.Int("workers", workers)}
	if ok := len(results) - failed; ok > 0 {
		fields = append(fields, zap.Float64("mean_score", float64(total)/float64(ok)))
	}
	logger.Info("batch complete", fields...)
	return nil
}

// collectFiles lists supported documents under dir in lexical path order.
func collectFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if batchExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return files, nil
}

// analyzeFiles runs the engine over files with at most workers in flight. Results keep
// the order of files. Only cancellation aborts the batch.
func analyzeFiles(ctx context.Context, eng *engine.Engine, files []string, jd string, workers int, withParse bool) ([]batchResult, error) {
	results := make([]batchResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := batchResult{File: path}
			text, meta, err := ingestion.ExtractFile(path)
			if err != nil {
				res.Error = err.Error()
				results[i] = res
				return nil
			}
			res.Hash = meta.Hash

			report := eng.Analyze(gctx, text.Original(), jd)
			res.Report = &report
			if withParse {
				parsed := eng.Parse(gctx, text.Original())
				res.Parse = &parsed
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch canceled: %w", err)
	}
	return results, nil
}

func writeJSONLines(w io.Writer, results []batchResult) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to write result for %s: %w", r.File, err)
		}
	}
	return bw.Flush()
}
