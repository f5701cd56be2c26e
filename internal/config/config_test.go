package config

import (
	"errors"
	"os"
	"testing"
)

var allVars = []string{
	"UIDMATCH_TFIDF_HIGH", "UIDMATCH_TFIDF_LOW", "UIDMATCH_SEMANTIC",
	"UIDMATCH_HEADING_TFIDF", "UIDMATCH_HEADING_SEMANTIC", "UIDMATCH_HEADING_CUTOFF",
	"UIDMATCH_MODEL_PATH", "UIDMATCH_TOKENIZER_PATH", "UIDMATCH_ORT_LIB",
	"UIDMATCH_CACHE_PATH", "UIDMATCH_BATCH_SIZE",
	"UIDMATCH_SM_TOKEN", "UIDMATCH_SM_ENDPOINT", "UIDMATCH_WAREHOUSE_DSN",
	"UIDMATCH_OUTPUT", "UIDMATCH_EXPORT_DIR", "UIDMATCH_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allVars {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Thresholds.TFIDFHigh != 0.60 {
		t.Fatalf("expected default TFIDFHigh=0.60, got %v", cfg.Thresholds.TFIDFHigh)
	}
	if cfg.Thresholds.TFIDFLow != 0.50 {
		t.Fatalf("expected default TFIDFLow=0.50, got %v", cfg.Thresholds.TFIDFLow)
	}
	if cfg.Thresholds.Semantic != 0.60 {
		t.Fatalf("expected default Semantic=0.60, got %v", cfg.Thresholds.Semantic)
	}
	if cfg.Thresholds.HeadingTFIDF != 0.55 {
		t.Fatalf("expected default HeadingTFIDF=0.55, got %v", cfg.Thresholds.HeadingTFIDF)
	}
	if cfg.Thresholds.HeadingSemantic != 0.65 {
		t.Fatalf("expected default HeadingSemantic=0.65, got %v", cfg.Thresholds.HeadingSemantic)
	}
	if cfg.Thresholds.HeadingCutoff != 50 {
		t.Fatalf("expected default HeadingCutoff=50, got %d", cfg.Thresholds.HeadingCutoff)
	}
	if cfg.Engine.BatchSize != 1000 {
		t.Fatalf("expected default BatchSize=1000, got %d", cfg.Engine.BatchSize)
	}
	if cfg.Engine.CachePath != "" {
		t.Fatalf("expected cache disabled by default, got %q", cfg.Engine.CachePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	os.Setenv("UIDMATCH_TFIDF_HIGH", "0.72")
	os.Setenv("UIDMATCH_BATCH_SIZE", "250")
	defer clearEnv(t)

	cfg := Load()

	if cfg.Thresholds.TFIDFHigh != 0.72 {
		t.Fatalf("expected TFIDFHigh=0.72, got %v", cfg.Thresholds.TFIDFHigh)
	}
	if cfg.Engine.BatchSize != 250 {
		t.Fatalf("expected BatchSize=250, got %d", cfg.Engine.BatchSize)
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	clearEnv(t)
	os.Setenv("UIDMATCH_TFIDF_HIGH", "not-a-number")
	os.Setenv("UIDMATCH_BATCH_SIZE", "lots")
	defer clearEnv(t)

	cfg := Load()

	if cfg.Thresholds.TFIDFHigh != 0.60 {
		t.Fatalf("expected fallback 0.60, got %v", cfg.Thresholds.TFIDFHigh)
	}
	if cfg.Engine.BatchSize != 1000 {
		t.Fatalf("expected fallback 1000, got %d", cfg.Engine.BatchSize)
	}
}

func TestValidate_Rejections(t *testing.T) {
	base := func() Config {
		clearEnv(t)
		return Load()
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "threshold above one",
			mutate: func(c *Config) { c.Thresholds.Semantic = 1.5 },
			field:  "UIDMATCH_SEMANTIC",
		},
		{
			name:   "zero threshold",
			mutate: func(c *Config) { c.Thresholds.HeadingTFIDF = 0 },
			field:  "UIDMATCH_HEADING_TFIDF",
		},
		{
			name:   "low at or above high",
			mutate: func(c *Config) { c.Thresholds.TFIDFLow = 0.60 },
			field:  "UIDMATCH_TFIDF_LOW",
		},
		{
			name:   "cutoff below one",
			mutate: func(c *Config) { c.Thresholds.HeadingCutoff = 0 },
			field:  "UIDMATCH_HEADING_CUTOFF",
		},
		{
			name:   "non-positive batch size",
			mutate: func(c *Config) { c.Engine.BatchSize = 0 },
			field:  "UIDMATCH_BATCH_SIZE",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}
}
