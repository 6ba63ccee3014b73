package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"alfredoptarigan/resume-checker/internal/logger"
)

type Config struct {
	Server    ServerConfig
	Logger    logger.Config
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	Gemini    GeminiConfig
	Embedding EmbeddingConfig
	Storage   StorageConfig
	Worker    WorkerConfig
	Analysis  AnalysisConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey string
}

type EmbeddingConfig struct {
	Provider     string
	Model        string
	Dimension    int
	Timeout      time.Duration
	MaxRetries   int
	CacheEnabled bool
	CacheTimeout time.Duration
}

type StorageConfig struct {
	Driver            string
	UploadPath        string
	MaxFileSize       int64
	AllowedExtensions []string
	Minio             MinioConfig
}

type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

type WorkerConfig struct {
	Concurrency  int
	QueueSize    int
	PollInterval time.Duration
	PollBatch    int
}

// AnalysisConfig holds every tunable of the scoring pipeline.
type AnalysisConfig struct {
	HardMatchWeight     float64
	SemanticMatchWeight float64

	SkillWeight      float64
	KeywordWeight    float64
	EducationWeight  float64
	ExperienceWeight float64

	HighThreshold   float64
	MediumThreshold float64

	FuzzyThreshold             float64
	FuzzyCreditFactor          float64
	SectionSimilarityThreshold float64

	ResumeHeaderMaxLength int
	JDHeaderMaxLength     int
	KeywordTopN           int

	OverallSimilarityWeight float64
	SectionSimilarityWeight float64
}

// DefaultAnalysisConfig returns the calibrated defaults.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		HardMatchWeight:            0.6,
		SemanticMatchWeight:        0.4,
		SkillWeight:                0.40,
		KeywordWeight:              0.30,
		EducationWeight:            0.15,
		ExperienceWeight:           0.15,
		HighThreshold:              75,
		MediumThreshold:            50,
		FuzzyThreshold:             0.8,
		FuzzyCreditFactor:          0.8,
		SectionSimilarityThreshold: 0.7,
		ResumeHeaderMaxLength:      50,
		JDHeaderMaxLength:          100,
		KeywordTopN:                20,
		OverallSimilarityWeight:    0.6,
		SectionSimilarityWeight:    0.4,
	}
}

func (a AnalysisConfig) Validate() error {
	weights := map[string]float64{
		"HARD_MATCH_WEIGHT":            a.HardMatchWeight,
		"SEMANTIC_MATCH_WEIGHT":        a.SemanticMatchWeight,
		"SKILL_FUZZY_THRESHOLD":        a.FuzzyThreshold,
		"SECTION_SIMILARITY_THRESHOLD": a.SectionSimilarityThreshold,
	}
	for name, w := range weights {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, w)
		}
	}

	if a.HighThreshold < a.MediumThreshold {
		return fmt.Errorf("verdict thresholds out of order: high %v < medium %v", a.HighThreshold, a.MediumThreshold)
	}

	if a.ResumeHeaderMaxLength <= 0 || a.JDHeaderMaxLength <= 0 {
		return fmt.Errorf("header max lengths must be positive")
	}

	return nil
}

func Load() *Config {
	envErr := godotenv.Load()

	analysis := DefaultAnalysisConfig()
	analysis.HardMatchWeight = getEnvAsFloat("HARD_MATCH_WEIGHT", analysis.HardMatchWeight)
	analysis.SemanticMatchWeight = getEnvAsFloat("SEMANTIC_MATCH_WEIGHT", analysis.SemanticMatchWeight)
	analysis.HighThreshold = getEnvAsFloat("VERDICT_HIGH_THRESHOLD", analysis.HighThreshold)
	analysis.MediumThreshold = getEnvAsFloat("VERDICT_MEDIUM_THRESHOLD", analysis.MediumThreshold)
	analysis.FuzzyThreshold = getEnvAsFloat("SKILL_FUZZY_THRESHOLD", analysis.FuzzyThreshold)
	analysis.SectionSimilarityThreshold = getEnvAsFloat("SECTION_SIMILARITY_THRESHOLD", analysis.SectionSimilarityThreshold)
	analysis.ResumeHeaderMaxLength = getEnvAsInt("RESUME_HEADER_MAX_LENGTH", analysis.ResumeHeaderMaxLength)
	analysis.JDHeaderMaxLength = getEnvAsInt("JD_HEADER_MAX_LENGTH", analysis.JDHeaderMaxLength)
	analysis.KeywordTopN = getEnvAsInt("KEYWORD_TOP_N", analysis.KeywordTopN)

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Logger: logger.Config{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_checker"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "resume_checker_embeddings"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Embedding: EmbeddingConfig{
			Provider:     getEnv("EMBEDDING_PROVIDER", "gemini"),
			Model:        getEnv("EMBEDDING_MODEL", "text-embedding-004"),
			Dimension:    getEnvAsInt("EMBEDDING_DIMENSION", 768),
			Timeout:      getEnvAsDuration("EMBEDDING_TIMEOUT", "30s"),
			MaxRetries:   getEnvAsInt("EMBEDDING_MAX_RETRIES", 2),
			CacheEnabled: getEnvAsBool("EMBEDDING_CACHE_ENABLED", false),
			CacheTimeout: getEnvAsDuration("EMBEDDING_CACHE_TIMEOUT", "2s"),
		},
		Storage: StorageConfig{
			Driver:            getEnv("STORAGE_DRIVER", "local"),
			UploadPath:        getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 16*1024*1024),
			AllowedExtensions: getEnvAsList("ALLOWED_EXTENSIONS", []string{".pdf", ".docx"}),
			Minio: MinioConfig{
				Endpoint:        getEnv("MINIO_ENDPOINT", "localhost:9000"),
				AccessKeyID:     getEnv("MINIO_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("MINIO_SECRET_ACCESS_KEY", ""),
				Bucket:          getEnv("MINIO_BUCKET", "resumes"),
				UseSSL:          getEnvAsBool("MINIO_USE_SSL", false),
			},
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 3),
			QueueSize:    getEnvAsInt("WORKER_QUEUE_SIZE", 100),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
			PollBatch:    getEnvAsInt("WORKER_POLL_BATCH", 10),
		},
		Analysis: analysis,
	}

	if envErr != nil {
		logger.Debug().Msg("no .env file found, using environment and defaults")
	}

	return cfg
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
