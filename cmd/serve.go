package cmd

import (
	"context"
	"fmt"

	"vidsum/internal/gemini"
	"vidsum/internal/server"
	"vidsum/pkg/config"
	"vidsum/pkg/prompts"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the summarize HTTP API",
	Long: `Serve POST /api/summarize on the configured PORT (default 5000).
Requests carry {"video_url": "..."} and receive the summary as JSON.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := buildSummarizer(ctx, cfg)
	if err != nil {
		return err
	}

	srv := server.New(client, server.Options{
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		Debug:             verbose,
	})

	return srv.Run(ctx)
}

func buildSummarizer(ctx context.Context, cfg *config.Config) (*gemini.Client, error) {
	p, err := prompts.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	client, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:        cfg.GeminiAPIKey,
		Model:         cfg.Gemini.Model,
		BaseURL:       cfg.Gemini.BaseURL,
		APIVersion:    cfg.Gemini.APIVersion,
		VideoMIMEType: cfg.Gemini.VideoMIMEType,
		Timeout:       cfg.Gemini.Timeout,
		Prompts:       p,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
