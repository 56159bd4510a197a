package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashureev/ikigai/internal/domain"
	"github.com/ashureev/ikigai/internal/htmltext"
	"github.com/ashureev/ikigai/internal/store"
	"github.com/ashureev/ikigai/internal/stream"
)

var (
	generateHTML     bool
	generateMarkdown bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Stream the summary for the saved answers to stdout",
	Long: `Sends the saved answers to the summary server without the wizard.

By default the summary is printed as plain text once complete. With --html the
raw HTML chunks are written as they arrive, and with --markdown the summary is
converted to markdown.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateHTML, "html", false, "Write raw HTML as it streams")
	generateCmd.Flags().BoolVar(&generateMarkdown, "markdown", false, "Print the summary as markdown")
	generateCmd.MarkFlagsMutuallyExclusive("html", "markdown")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	kv, err := openStore()
	if err != nil {
		return err
	}
	defer kv.Close()

	rec := store.LoadAnswers(cmd.Context(), kv)
	if missing := missingFields(rec); len(missing) > 0 {
		return fmt.Errorf("answers incomplete, missing: %s (run the wizard or 'ikigai answers set')", strings.Join(missing, ", "))
	}

	consumer, err := stream.New(transport, serverURL)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var summary strings.Builder
	for chunk, err := range consumer.Stream(cmd.Context(), rec) {
		if err != nil {
			slog.Error("Summary stream failed", "error", err)
			if !generateHTML && summary.Len() > 0 {
				fmt.Fprintln(out, renderSummary(summary.String()))
			}
			return fmt.Errorf("generate summary: %w", err)
		}
		summary.WriteString(chunk)
		if generateHTML {
			fmt.Fprint(out, chunk)
		}
	}

	if generateHTML {
		fmt.Fprintln(out)
	} else {
		fmt.Fprintln(out, renderSummary(summary.String()))
	}
	return nil
}

func renderSummary(src string) string {
	if generateMarkdown {
		return htmltext.Markdown(src)
	}
	return htmltext.PlainText(src)
}

func missingFields(rec domain.AnswerRecord) []string {
	var missing []string
	for _, f := range domain.Fields {
		if !rec.IsAnswered(f) {
			missing = append(missing, string(f))
		}
	}
	return missing
}
