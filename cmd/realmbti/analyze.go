package main

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/analysis"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/chatlog"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/config"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/lexicon"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze PATH...",
	Short: "Analyze exported chat logs and print the result as JSON",
	Long: `Analyze exported chat logs and print the result as JSON.

PATH may be a file or a directory; directories are searched recursively
for .txt exports.

Examples:
  realmbti analyze --user 김현호 ./exports
  realmbti analyze --user 김현호 --narrate room1.txt room2.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		narrate, _ := cmd.Flags().GetBool("narrate")
		if strings.TrimSpace(user) == "" {
			return fmt.Errorf("--user is required")
		}

		cfg := config.Load()
		lx, err := lexicon.Load(cfg.LexiconPath)
		if err != nil {
			return fmt.Errorf("load lexicon: %w", err)
		}

		paths, err := discoverFiles(args)
		if err != nil {
			return err
		}
		files, err := readFiles(paths)
		if err != nil {
			return err
		}
		slog.Debug("chat logs discovered", "files", len(files))

		narr, _ := buildNarrator(cfg, narrate)
		analyzer := analysis.New(lx, narr, nil, cfg.NarratorTimeout, slog.Default())

		resp, err := analyzer.Analyze(cmd.Context(), analysis.Request{UserName: user, Files: files})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func init() {
	analyzeCmd.Flags().String("user", "", "your nickname as it appears in the chat")
	analyzeCmd.Flags().Bool("narrate", false, "generate label and report with the OpenAI narrator")
}

// discoverFiles expands directories into their .txt files, sorted. Plain
// file arguments are kept in the order given.
func discoverFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(d.Name()), ".txt") {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

func readFiles(paths []string) ([]analysis.File, error) {
	files := make([]analysis.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, analysis.File{Name: filepath.Base(path), Text: chatlog.Decode(data)})
	}
	return files, nil
}
