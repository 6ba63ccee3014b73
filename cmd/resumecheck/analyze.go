package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-checker/internal/services"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one resume against one job description",
	Long:  "Extract the resume, compare it with the job description and print the analysis result as JSON.",
	RunE:  runAnalyze,
}

var (
	analyzeResumeFile string
	analyzeJDFile     string
	analyzeTitle      string
	analyzeOutputFile string
	analyzeOffline    bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResumeFile, "resume", "r", "", "Path to the resume (.pdf or .docx)")
	analyzeCmd.Flags().StringVarP(&analyzeJDFile, "jd", "j", "", "Path to the job description text file")
	analyzeCmd.Flags().StringVarP(&analyzeTitle, "title", "t", "", "Job title (overrides the one found in the job description)")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Write the result JSON to this file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "Use the local hashing embedder instead of the embedding API")
	_ = analyzeCmd.MarkFlagRequired("resume")
	_ = analyzeCmd.MarkFlagRequired("jd")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if analyzeOffline {
		cfg.Embedding.Provider = "hashing"
		cfg.Embedding.CacheEnabled = false
	}

	format, err := services.ParseFormat(analyzeResumeFile)
	if err != nil {
		return err
	}

	resume, err := os.ReadFile(analyzeResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	if sniffed, ok := services.SniffFormat(resume); ok {
		format = sniffed
	}

	jd, err := os.ReadFile(analyzeJDFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	extractor, err := services.NewDocumentExtractor(ctx)
	if err != nil {
		return err
	}
	embedder, err := services.NewEmbedder(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := services.NewPipeline(extractor, embedder, cfg.Analysis).Analyze(ctx, services.AnalyzeInput{
		ResumeData:     resume,
		ResumeFormat:   format,
		JobDescription: string(jd),
		JobTitle:       analyzeTitle,
	})
	if err != nil {
		return err
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if analyzeOutputFile == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		return err
	}
	if err := os.WriteFile(analyzeOutputFile, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %.2f (%s)\n", analyzeOutputFile, result.RelevanceScore, result.Verdict)
	return nil
}
