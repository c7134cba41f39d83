package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/observability"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract plain text from a resume document",
	Long:  "Extract the cleaned text of a .txt, .md, .pdf, .docx or .html resume, as the analyzer sees it.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var (
	extractOutFile string
	extractMeta    bool
	extractVerbose bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractOutFile, "out", "o", "", "Write the text to a file instead of stdout")
	extractCmd.Flags().BoolVar(&extractMeta, "metadata", false, "Print the metadata JSON instead of the text")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print a metadata summary to stderr")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, meta, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	if extractMeta {
		data, err := meta.ToJSON()
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), extractOutFile, append(data, '\n'))
	}

	if extractVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintMetadata(meta)
	}
	return writeOutput(cmd.OutOrStdout(), extractOutFile, []byte(text.Normalized()+"\n"))
}
