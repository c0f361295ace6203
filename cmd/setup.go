package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const envFilePath = ".env"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var envOrder = []string{
	"GEMINI_API_KEY",
	"GEMINI_MODEL",
	"PORT",
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Vidsum",
	Long:  `Configure the Gemini API key and listening port, and write them to .env.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎬 Vidsum Setup"))

	if _, err := os.Stat(envFilePath); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	env, err := askEnv()
	if err != nil {
		return fmt.Errorf("configuring environment: %w", err)
	}

	if err := writeEnvFile(envFilePath, env); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	printNextSteps()
	return nil
}

func askEnv() (map[string]string, error) {
	var apiKey, model string
	port := "5000"

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API Key").
				Description("https://aistudio.google.com/app/apikey").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey).
				Validate(required("Gemini API Key")),
			huh.NewInput().
				Title("Gemini model").
				Description("Leave empty for gemini-1.5-pro").
				Value(&model),
			huh.NewInput().
				Title("HTTP port").
				Value(&port).
				Validate(validPort),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	env := map[string]string{
		"GEMINI_API_KEY": strings.TrimSpace(apiKey),
		"PORT":           strings.TrimSpace(port),
	}
	if model = strings.TrimSpace(model); model != "" {
		env["GEMINI_MODEL"] = model
	}
	return env, nil
}

func writeEnvFile(path string, env map[string]string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	for _, key := range envOrder {
		if val, ok := env[key]; ok && val != "" {
			if _, err := fmt.Fprintf(f, "%s=%s\n", key, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Run: vidsum serve")
	fmt.Println(`  2. Try: curl -X POST localhost:5000/api/summarize -H 'Content-Type: application/json' -d '{"video_url":"https://..."}'`)
	fmt.Println("  3. Or:  vidsum summarize https://...")
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validPort(s string) error {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

func runWithSpinner(title string, fn func() error) error {
	return spinWhile(title, fn, func(ctx context.Context) error {
		return spinner.New().Title(title).Context(ctx).Run()
	})
}

// spinWhile runs fn exactly once while spin draws until fn returns. A spinner
// that fails to draw, such as without a terminal, does not affect fn.
func spinWhile(title string, fn func() error, spin func(context.Context) error) error {
	ctx, done := context.WithCancel(context.Background())
	var err error
	go func() {
		defer done()
		err = fn()
	}()

	if spinErr := spin(ctx); spinErr != nil {
		slog.Debug("Spinner unavailable", "title", title, "error", spinErr)
	}
	<-ctx.Done()

	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
