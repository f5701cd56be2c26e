package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all uidmatch configuration.
type Config struct {
	Thresholds ThresholdConfig
	Engine     EngineConfig
	Survey     SurveyConfig
	Warehouse  WarehouseConfig
	Output     OutputConfig
	LogLevel   string
}

// ThresholdConfig holds the six numeric matching thresholds. The heading
// thresholds replace the defaults for questions whose raw text exceeds
// HeadingCutoff characters.
type ThresholdConfig struct {
	TFIDFHigh       float64
	TFIDFLow        float64
	Semantic        float64
	HeadingTFIDF    float64
	HeadingSemantic float64
	HeadingCutoff   int
}

// EngineConfig holds embedding model and batch settings.
type EngineConfig struct {
	ModelPath     string
	TokenizerPath string
	OrtLibPath    string
	CachePath     string // persistent embedding cache; empty disables it
	BatchSize     int
}

// SurveyConfig holds survey source (SurveyMonkey API) settings.
type SurveyConfig struct {
	Token    string
	Endpoint string
}

// WarehouseConfig holds the reference-bank warehouse connection.
type WarehouseConfig struct {
	DSN string
}

// OutputConfig holds export destination settings.
type OutputConfig struct {
	Format    string // "stdout" or "csv"
	ExportDir string
}

// ValidationError describes an invalid configuration value. Validation
// failures are fatal: no matching happens under a config that fails it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Load reads configuration from environment variables with documented defaults.
func Load() Config {
	modelPath := getenv("UIDMATCH_MODEL_PATH", "models/all-MiniLM-L6-v2.onnx")
	return Config{
		Thresholds: ThresholdConfig{
			TFIDFHigh:       getenvFloat("UIDMATCH_TFIDF_HIGH", 0.60),
			TFIDFLow:        getenvFloat("UIDMATCH_TFIDF_LOW", 0.50),
			Semantic:        getenvFloat("UIDMATCH_SEMANTIC", 0.60),
			HeadingTFIDF:    getenvFloat("UIDMATCH_HEADING_TFIDF", 0.55),
			HeadingSemantic: getenvFloat("UIDMATCH_HEADING_SEMANTIC", 0.65),
			HeadingCutoff:   getenvInt("UIDMATCH_HEADING_CUTOFF", 50),
		},
		Engine: EngineConfig{
			ModelPath:     modelPath,
			TokenizerPath: getenv("UIDMATCH_TOKENIZER_PATH", "models/tokenizer.json"),
			OrtLibPath:    getenv("UIDMATCH_ORT_LIB", filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")),
			CachePath:     os.Getenv("UIDMATCH_CACHE_PATH"),
			BatchSize:     getenvInt("UIDMATCH_BATCH_SIZE", 1000),
		},
		Survey: SurveyConfig{
			Token:    os.Getenv("UIDMATCH_SM_TOKEN"),
			Endpoint: getenv("UIDMATCH_SM_ENDPOINT", "https://api.surveymonkey.com"),
		},
		Warehouse: WarehouseConfig{
			DSN: os.Getenv("UIDMATCH_WAREHOUSE_DSN"),
		},
		Output: OutputConfig{
			Format:    getenv("UIDMATCH_OUTPUT", "stdout"),
			ExportDir: getenv("UIDMATCH_EXPORT_DIR", "export"),
		},
		LogLevel: getenv("UIDMATCH_LOG_LEVEL", "info"),
	}
}

// Validate checks thresholds and batch settings, returning a
// *ValidationError for the first violation found.
func (c Config) Validate() error {
	t := c.Thresholds
	checks := []struct {
		field string
		value float64
	}{
		{"UIDMATCH_TFIDF_HIGH", t.TFIDFHigh},
		{"UIDMATCH_TFIDF_LOW", t.TFIDFLow},
		{"UIDMATCH_SEMANTIC", t.Semantic},
		{"UIDMATCH_HEADING_TFIDF", t.HeadingTFIDF},
		{"UIDMATCH_HEADING_SEMANTIC", t.HeadingSemantic},
	}
	for _, ch := range checks {
		if ch.value <= 0 || ch.value > 1 {
			return &ValidationError{Field: ch.field, Reason: fmt.Sprintf("threshold %v outside (0, 1]", ch.value)}
		}
	}
	if t.TFIDFLow >= t.TFIDFHigh {
		return &ValidationError{Field: "UIDMATCH_TFIDF_LOW", Reason: "low threshold must be below high threshold"}
	}
	if t.HeadingCutoff < 1 {
		return &ValidationError{Field: "UIDMATCH_HEADING_CUTOFF", Reason: "cutoff must be at least 1 character"}
	}
	if c.Engine.BatchSize < 1 {
		return &ValidationError{Field: "UIDMATCH_BATCH_SIZE", Reason: "batch size must be positive"}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
