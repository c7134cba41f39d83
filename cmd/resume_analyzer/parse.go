package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/schemas"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a resume into structured JSON",
	Long: "Parse a resume into contact details, skills, experience, education, achievements and " +
		"projects. JSON output validates against the structured_resume schema.",
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

var (
	parseFormat  string
	parseOutFile string
)

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "json", "Output format: json or text")
	parseCmd.Flags().StringVarP(&parseOutFile, "out", "o", "", "Write the resume to a file instead of stdout")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if err := checkFormat(parseFormat); err != nil {
		return err
	}

	text, _, err := readInput(firstArg(args), cmd.InOrStdin())
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	report := a.engine.Parse(cmd.Context(), text.Original())

	if parseFormat == formatText {
		observability.NewPrinter(cmd.OutOrStdout()).PrintParse(report)
		return nil
	}

	data, err := json.MarshalIndent(report.Resume, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := schemas.Validate(schemas.StructuredResume, data); err != nil {
		return fmt.Errorf("parsed resume does not validate against schema: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), parseOutFile, append(data, '\n'))
}
