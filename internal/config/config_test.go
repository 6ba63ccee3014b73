package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, DefaultAnalysisConfig(), cfg.Analysis)
	assert.Equal(t, "gemini", cfg.Embedding.Provider)
	assert.Equal(t, 768, cfg.Embedding.Dimension)
	assert.Equal(t, 30*time.Second, cfg.Embedding.Timeout)
	assert.Equal(t, 2, cfg.Embedding.MaxRetries)
	assert.False(t, cfg.Embedding.CacheEnabled)
	assert.Equal(t, 2*time.Second, cfg.Embedding.CacheTimeout)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, []string{".pdf", ".docx"}, cfg.Storage.AllowedExtensions)
	assert.NoError(t, cfg.Analysis.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("VERDICT_HIGH_THRESHOLD", "80")
	t.Setenv("SKILL_FUZZY_THRESHOLD", "0.85")
	t.Setenv("KEYWORD_TOP_N", "15")
	t.Setenv("EMBEDDING_PROVIDER", "hashing")
	t.Setenv("EMBEDDING_TIMEOUT", "5s")
	t.Setenv("EMBEDDING_CACHE_ENABLED", "true")
	t.Setenv("EMBEDDING_CACHE_TIMEOUT", "250ms")
	t.Setenv("ALLOWED_EXTENSIONS", ".PDF, .docx,")
	t.Setenv("WORKER_POLL_INTERVAL", "not-a-duration")
	t.Setenv("MAX_FILE_SIZE", "1024")

	cfg := Load()

	assert.Equal(t, 80.0, cfg.Analysis.HighThreshold)
	assert.Equal(t, 0.85, cfg.Analysis.FuzzyThreshold)
	assert.Equal(t, 15, cfg.Analysis.KeywordTopN)
	assert.Equal(t, "hashing", cfg.Embedding.Provider)
	assert.Equal(t, 5*time.Second, cfg.Embedding.Timeout)
	assert.True(t, cfg.Embedding.CacheEnabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Embedding.CacheTimeout)
	assert.Equal(t, []string{".pdf", ".docx"}, cfg.Storage.AllowedExtensions)
	assert.Equal(t, 10*time.Second, cfg.Worker.PollInterval, "invalid durations fall back")
	assert.Equal(t, int64(1024), cfg.Storage.MaxFileSize)
}

func TestAnalysisConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*AnalysisConfig)
	}{
		{"weight above one", func(a *AnalysisConfig) { a.HardMatchWeight = 1.2 }},
		{"negative threshold", func(a *AnalysisConfig) { a.SectionSimilarityThreshold = -0.1 }},
		{"thresholds out of order", func(a *AnalysisConfig) { a.HighThreshold, a.MediumThreshold = 40, 60 }},
		{"zero header length", func(a *AnalysisConfig) { a.ResumeHeaderMaxLength = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAnalysisConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "resumes"}}

	require.Equal(t, "host=db port=5433 user=u password=p dbname=resumes sslmode=disable", cfg.GetDatabaseDSN())
}
