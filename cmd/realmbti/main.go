package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/api"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/config"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/llm"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/narrator"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "realmbti",
	Short:         "Estimate an MBTI profile from KakaoTalk chat exports",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(".env"); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
		setupLogging(config.Load().LogLevel, cmd.ErrOrStderr())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "realmbti %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(level string, w io.Writer) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// buildNarrator picks the LLM narrator when requested and credentials exist.
func buildNarrator(cfg config.Config, wanted bool) (narrator.Narrator, api.Info) {
	info := api.Info{Version: version, Narrator: "fallback"}
	if !wanted {
		return narrator.Fallback{}, info
	}
	if !cfg.NarratorEnabled() {
		slog.Warn("OPENAI_API_KEY not set, using fallback narrator")
		return narrator.Fallback{}, info
	}

	client := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, slog.Default())
	slog.Info("openai narrator ready", "model", client.Model())
	info.Narrator = "openai"
	info.Model = client.Model()
	return narrator.NewLLM(client, slog.Default()), info
}
