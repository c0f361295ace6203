package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"vidsum/internal/summary"
	"vidsum/pkg/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var summarizeJSON bool

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	bodyStyle    = lipgloss.NewStyle().Width(80).PaddingLeft(2)
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <video-url>",
	Short: "Summarize a single video",
	Long:  `Send one video URL to Gemini and print the summary and key takeaways.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().BoolVar(&summarizeJSON, "json", false, "Print the raw JSON result")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	videoURL := strings.TrimSpace(args[0])
	if videoURL == "" {
		return fmt.Errorf("video url is empty")
	}

	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := buildSummarizer(ctx, cfg)
	if err != nil {
		return err
	}

	var result *summary.Result
	summarize := func() error {
		var err error
		result, err = client.Summarize(ctx, videoURL)
		return err
	}

	if summarizeJSON {
		err = summarize()
	} else {
		err = runWithSpinner("Summarizing "+videoURL, summarize)
	}
	if err != nil {
		return err
	}

	slog.Debug("Summary generated", "takeaways", len(result.KeyTakeaways))

	out := cmd.OutOrStdout()
	if summarizeJSON {
		return writeJSON(out, result)
	}
	_, err = io.WriteString(out, formatSummary(result))
	return err
}

func writeJSON(w io.Writer, result *summary.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func formatSummary(result *summary.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(bodyStyle.Render(result.Summary))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Key takeaways"))
	b.WriteString("\n")
	for i, t := range result.KeyTakeaways {
		b.WriteString(headingStyle.Render(fmt.Sprintf("%d. %s", i+1, t.Heading)))
		b.WriteString("\n")
		b.WriteString(bodyStyle.Render(t.Content))
		b.WriteString("\n")
	}
	return b.String()
}
