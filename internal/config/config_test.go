package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("failed to unmarshal defaults: %v", err)
	}
	return &cfg
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration must validate: %v", err)
	}
	if cfg.AI.Model == "" || cfg.AI.EmbeddingModel == "" {
		t.Error("default models must be set")
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("default cache backend should be memory, got %s", cfg.Cache.Backend)
	}
	if cfg.AI.RetryBaseDelay != 5*time.Second {
		t.Errorf("default retry base delay should be 5s, got %v", cfg.AI.RetryBaseDelay)
	}
}

func TestOperationConfigFallbacks(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.AI.APIKey = "global-key"

	gen := cfg.GetGenerateConfig()
	if gen.APIKey != "global-key" {
		t.Errorf("operation config should inherit the global API key, got %q", gen.APIKey)
	}
	if gen.Model != cfg.AI.Model {
		t.Errorf("operation config should inherit the global model, got %q", gen.Model)
	}
	if gen.MaxRetries == nil || *gen.MaxRetries != 3 {
		t.Errorf("generate keeps its own retry default of 3, got %v", gen.MaxRetries)
	}
	if gen.Temperature == nil || *gen.Temperature != 0.7 {
		t.Errorf("generate temperature default mismatch: %v", gen.Temperature)
	}

	// Operation-specific values win over globals.
	cfg.AI.Analyze.Model = "gemini-2.5-pro"
	ana := cfg.GetAnalyzeConfig()
	if ana.Model != "gemini-2.5-pro" {
		t.Errorf("operation model override lost, got %q", ana.Model)
	}
}

func TestEmbedConfigUsesEmbeddingModel(t *testing.T) {
	cfg := defaultConfig(t)
	emb := cfg.GetEmbedConfig()
	if emb.Model != cfg.AI.EmbeddingModel {
		t.Errorf("embed config should use the embedding model, got %q", emb.Model)
	}

	cfg.AI.Embed.Model = "custom-embedder"
	emb = cfg.GetEmbedConfig()
	if emb.Model != "custom-embedder" {
		t.Errorf("explicit embed model override lost, got %q", emb.Model)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without address", func(c *Config) {
			c.Cache.Backend = "redis"
			c.Cache.Redis.Address = ""
		}},
		{"zero timeout", func(c *Config) { c.AI.Timeout = 0 }},
		{"negative retries", func(c *Config) { c.AI.MaxRetries = -1 }},
		{"inverted resume limits", func(c *Config) { c.Limits.MaxResumeChars = 10 }},
		{"inverted job description limits", func(c *Config) { c.Limits.MaxJobDescriptionChars = 10 }},
		{"zero token budget", func(c *Config) { c.Limits.TokenBudget = 0 }},
		{"unknown default format", func(c *Config) { c.App.DefaultFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApplyGeminiKeyToConfig(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.AI.Generate.APIKey = "explicit-key"

	applyGeminiKeyToConfig(cfg, "vault-key")

	if cfg.AI.APIKey != "vault-key" {
		t.Error("global key should be replaced")
	}
	if cfg.AI.Analyze.APIKey != "vault-key" {
		t.Error("unset operation keys should receive the vault key")
	}
	if cfg.AI.Generate.APIKey != "explicit-key" {
		t.Error("explicitly set operation keys must be preserved")
	}
}
