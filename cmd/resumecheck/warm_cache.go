package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-checker/internal/logger"
	"alfredoptarigan/resume-checker/internal/parser"
	"alfredoptarigan/resume-checker/internal/services"
)

var warmCacheCmd = &cobra.Command{
	Use:   "warm-cache",
	Short: "Embed job descriptions into the vector cache",
	Long:  "Embed every job description in a directory, whole and section by section, so later analyses against them skip the embedding API.",
	RunE:  runWarmCache,
}

var warmCacheDir string

func init() {
	warmCacheCmd.Flags().StringVarP(&warmCacheDir, "dir", "d", "", "Directory of job description files (.txt, .md)")
	_ = warmCacheCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(warmCacheCmd)
}

func runWarmCache(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Embedding.CacheEnabled = true

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := jobDescriptionFiles(warmCacheDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .txt or .md files in %s", warmCacheDir)
	}

	embedder, err := services.NewEmbedder(ctx, cfg)
	if err != nil {
		return err
	}
	jdParser := parser.NewJobDescriptionParser(cfg.Analysis.JDHeaderMaxLength)

	texts := 0
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		for _, text := range embeddableTexts(jdParser.Parse(string(content), "")) {
			if _, err := embedder.Embed(ctx, text); err != nil {
				return fmt.Errorf("failed to embed %s: %w", path, err)
			}
			texts++
		}
		logger.Info().Str("file", path).Msg("job description cached")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "cached %d texts from %d job descriptions\n", texts, len(files))
	return nil
}

func jobDescriptionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".md":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// embeddableTexts mirrors what the semantic analyzer embeds on the job side.
func embeddableTexts(jd *parser.JobDescription) []string {
	texts := []string{jd.RawText}
	seen := map[string]bool{jd.RawText: true}
	for _, section := range jd.Sections {
		if section.Content == "" || seen[section.Content] {
			continue
		}
		seen[section.Content] = true
		texts = append(texts, section.Content)
	}
	return texts
}
