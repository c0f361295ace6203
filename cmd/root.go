package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	jsonLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "vidsum",
	Short: "Summarize videos with Gemini",
	Long: `Vidsum sends a video URL to Gemini and returns a structured summary
with key takeaways, either over HTTP or straight from the command line.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogger()
	}
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// setupLogger writes logs to stderr so stdout stays clean for piped output.
func setupLogger() {
	slog.SetDefault(slog.New(newLogHandler(os.Stderr)))
}

func newLogHandler(w io.Writer) slog.Handler {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	if jsonLogs {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  verbose,
	})
}
