// Package main provides the resumecheck command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-checker/internal/config"
	"alfredoptarigan/resume-checker/internal/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:          "resumecheck",
	Short:        "Score resumes against job descriptions",
	Long:         "resumecheck compares a PDF or DOCX resume with a job description and reports a relevance score, verdict, missing elements and suggestions.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

// loadConfig reads .env and the environment, and routes logs to stderr.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	cfg.Logger.Level = logLevel
	logger.InitWriter(os.Stderr, cfg.Logger)

	if err := cfg.Analysis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
