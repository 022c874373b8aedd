package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/resume"
)

const defaultAnalyzeConcurrency = 4

var analyzeCmd = &cobra.Command{
	Use:   "analyze <files...>",
	Short: "Extract and analyze one or more resume files",
	Long: `Extract text from PDF or Word resumes and run the AI analysis on each.
Without --save the records are kept in memory and discarded on exit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeJSON        bool
	analyzeConcurrency int
	analyzeSave        bool
	analyzeUserID      string
)

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print results as JSON")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", defaultAnalyzeConcurrency, "Maximum number of files analyzed at once")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Store records in the configured database")
	analyzeCmd.Flags().StringVar(&analyzeUserID, "user", "", "Owner user ID for stored records (required with --save)")

	rootCmd.AddCommand(analyzeCmd)
}

// fileResult is the outcome of analyzing one file
type fileResult struct {
	File     string            `json:"file"`
	Resume   *resume.Record    `json:"resume,omitempty"`
	Analysis *pipeline.Outcome `json:"analysis,omitempty"`
	Error    string            `json:"error,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	userID := uuid.New()
	if analyzeSave {
		if analyzeUserID == "" {
			return fmt.Errorf("--user is required with --save")
		}
		parsed, err := uuid.Parse(analyzeUserID)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		userID = parsed
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if analyzeSave {
		if err := a.openStorage(ctx); err != nil {
			return err
		}
	} else {
		a.store = resume.NewMemoryStore()
	}

	results := analyzeFiles(ctx, a.newPipeline(), userID, args, analyzeConcurrency)
	if err := writeResults(cmd.OutOrStdout(), results, analyzeJSON); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// analyzeFiles runs the pipeline on each path with at most concurrency runs
// in flight. Results keep the order of paths. A failing file does not stop
// the others.
func analyzeFiles(ctx context.Context, p *pipeline.Pipeline, userID uuid.UUID, paths []string, concurrency int) []fileResult {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			results[i] = analyzeFile(gctx, p, userID, path)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func analyzeFile(ctx context.Context, p *pipeline.Pipeline, userID uuid.UUID, path string) fileResult {
	result := fileResult{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	rec, outcome, err := p.Run(ctx, pipeline.Upload{
		UserID:   userID,
		FileName: filepath.Base(path),
		MIMEType: extract.MIMETypeForFile(path),
		Data:     data,
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Resume = rec
	result.Analysis = &outcome
	return result
}

func writeResults(out io.Writer, results []fileResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		return nil
	}

	printer := observability.NewPrinter(out)
	for _, r := range results {
		if r.Error != "" {
			printer.PrintFailure(filepath.Base(r.File), errors.New(r.Error))
			continue
		}
		printer.PrintResume(r.Resume, *r.Analysis)
	}
	return nil
}
