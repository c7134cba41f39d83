package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/observability"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Score a resume, optionally against a job description",
	Long: "Score a resume (.txt, .md, .pdf, .docx or .html; stdin when no file is given) " +
		"across the ATS categories and print the report as JSON or as a summary box.",
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeJDFile  string
	analyzeJDText  string
	analyzeJDURL   string
	analyzeBrowser bool
	analyzeFormat  string
	analyzeOutFile string
	analyzeVerbose bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeJDFile, "jd", "", "Path to a job description file")
	analyzeCmd.Flags().StringVar(&analyzeJDText, "jd-text", "", "Job description text (overrides --jd)")
	analyzeCmd.Flags().StringVar(&analyzeJDURL, "jd-url", "", "Fetch the job description from a posting URL")
	analyzeCmd.Flags().BoolVar(&analyzeBrowser, "jd-browser", false, "Render client-side job boards in headless Chrome")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "json", "Output format: json or text")
	analyzeCmd.Flags().StringVarP(&analyzeOutFile, "out", "o", "", "Write the report to a file instead of stdout")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Also print document metadata")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := checkFormat(analyzeFormat); err != nil {
		return err
	}

	text, meta, err := readInput(firstArg(args), cmd.InOrStdin())
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	jd, err := a.jobDescription(cmd.Context(), analyzeJDFile, analyzeJDText, analyzeJDURL, analyzeBrowser)
	if err != nil {
		return err
	}

	report := a.engine.Analyze(cmd.Context(), text.Original(), jd)

	if analyzeFormat == formatText {
		p := observability.NewPrinter(cmd.OutOrStdout())
		if analyzeVerbose {
			p.PrintMetadata(meta)
		}
		p.PrintAnalysis(report)
		return nil
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), analyzeOutFile, append(data, '\n'))
}
