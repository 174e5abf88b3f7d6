package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Paths PathsConfig
	PDF   PDFConfig
	AI    AIConfig
	Jobs  JobsConfig
}

// PathsConfig holds on-disk layout configuration.
type PathsConfig struct {
	// PDFRoot contains one subfolder per workbook, each holding PDF exports.
	PDFRoot string
	// EmbeddingsRoot contains one store directory per workbook.
	EmbeddingsRoot string
}

// PDFConfig holds text acquisition configuration.
type PDFConfig struct {
	MaxPages  int // per-document page cap, bounds OCR cost
	DPI       int // rasterization DPI for the OCR fallback
	Pdftoppm  string
	Tesseract string
}

// AIConfig holds Gemini collaborator configuration.
type AIConfig struct {
	APIKey         string
	GenerateModel  string
	EmbeddingModel string
	Timeout        time.Duration
}

// JobsConfig holds the extract-job log configuration.
type JobsConfig struct {
	DBPath string // sqlite file; empty disables the job log
}

// Load reads configuration from environment variables, applying defaults.
func Load() *Config {
	return &Config{
		Paths: PathsConfig{
			PDFRoot:        getEnv("PDF_ROOT", "pdfs"),
			EmbeddingsRoot: getEnv("EMBEDDINGS_ROOT", "embeddings"),
		},
		PDF: PDFConfig{
			MaxPages:  getEnvAsInt("PDF_MAX_PAGES", 10),
			DPI:       getEnvAsInt("PDF_OCR_DPI", 200),
			Pdftoppm:  getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract: getEnv("TESSERACT_BIN", "tesseract"),
		},
		AI: AIConfig{
			APIKey:         getEnv("GOOGLE_API_KEY", ""),
			GenerateModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			EmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			Timeout:        getEnvAsDuration("GEMINI_TIMEOUT", 45*time.Second),
		},
		Jobs: JobsConfig{
			DBPath: getEnv("JOBS_DB_PATH", "extract_jobs.db"),
		},
	}
}

// ValidateForAI fails when the Gemini-backed paths cannot be used.
func (c *Config) ValidateForAI() error {
	if c.AI.APIKey == "" {
		return errors.New("GOOGLE_API_KEY is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
