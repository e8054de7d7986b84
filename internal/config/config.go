package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (RESUMELENS_AI_APIKEY, etc.)
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Limits        LimitsConfig        `mapstructure:"limits"`
	Cost          CostConfig          `mapstructure:"cost"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds AI provider configuration
type AIConfig struct {
	// Global/fallback configuration
	Provider         string          `mapstructure:"provider"`
	Model            string          `mapstructure:"model"`
	EmbeddingModel   string          `mapstructure:"embeddingModel"`
	Timeout          time.Duration   `mapstructure:"timeout"`
	APIKey           string          `mapstructure:"apiKey"`
	MaxRetries       int             `mapstructure:"maxRetries"`
	RetryBaseDelay   time.Duration   `mapstructure:"retryBaseDelay"`
	Temperature      float32         `mapstructure:"temperature"`
	UseSystemPrompts bool            `mapstructure:"useSystemPrompts"`
	RateLimit        RateLimitConfig `mapstructure:"rateLimit"`

	// Operation-specific configurations
	Analyze  OperationAIConfig `mapstructure:"analyze"`
	Generate OperationAIConfig `mapstructure:"generate"`
	Embed    OperationAIConfig `mapstructure:"embed"`
	Moderate OperationAIConfig `mapstructure:"moderate"`

	// ModerationEnabled gates the moderation provider independently of the
	// other analyzers.
	ModerationEnabled bool `mapstructure:"moderationEnabled"`
}

// OperationAIConfig holds AI configuration for a specific operation
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	RetryBaseDelay   *time.Duration       `mapstructure:"retryBaseDelay"`
	Temperature      *float32             `mapstructure:"temperature"`
	MaxOutputTokens  int32                `mapstructure:"maxOutputTokens"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// RateLimitConfig throttles outbound provider calls
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requestsPerSecond"`
	Burst             int     `mapstructure:"burst"`
}

// CacheConfig selects and tunes the result cache backend
type CacheConfig struct {
	// Backend is "memory" or "redis"
	Backend       string        `mapstructure:"backend"`
	AnalysisTTL   time.Duration `mapstructure:"analysisTTL"`
	GenerationTTL time.Duration `mapstructure:"generationTTL"`
	Redis         RedisConfig   `mapstructure:"redis"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LimitsConfig bounds input sizes before they reach a provider
type LimitsConfig struct {
	MinResumeChars         int `mapstructure:"minResumeChars"`
	MaxResumeChars         int `mapstructure:"maxResumeChars"`
	MinJobDescriptionChars int `mapstructure:"minJobDescriptionChars"`
	MaxJobDescriptionChars int `mapstructure:"maxJobDescriptionChars"`
	// TokenBudget caps the estimated prompt size (~1 token per 4 chars)
	TokenBudget int `mapstructure:"tokenBudget"`
}

// CostConfig holds per-million-token pricing used for cost accounting
type CostConfig struct {
	InputPerMillion  float64 `mapstructure:"inputPerMillion"`
	OutputPerMillion float64 `mapstructure:"outputPerMillion"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool             `mapstructure:"enabled"`
	ServiceName     string           `mapstructure:"serviceName"`
	ServiceVersion  string           `mapstructure:"serviceVersion"`
	ServiceInstance string           `mapstructure:"serviceInstance"`
	SampleRate      float64          `mapstructure:"sampleRate"`
	Tracing         TracingConfig    `mapstructure:"tracing"`
	Metrics         MetricsConfig    `mapstructure:"metrics"`
	Prometheus      PrometheusConfig `mapstructure:"prometheus"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// PrometheusConfig holds Prometheus exporter configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("RESUMELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumelens/")
	v.AddConfigPath("$HOME/.resumelens")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.embeddingModel", "text-embedding-004")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.retryBaseDelay", 5*time.Second)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.useSystemPrompts", true)
	v.SetDefault("ai.moderationEnabled", false)

	// Outbound rate limiting defaults
	v.SetDefault("ai.rateLimit.enabled", true)
	v.SetDefault("ai.rateLimit.requestsPerSecond", 2.0)
	v.SetDefault("ai.rateLimit.burst", 4)

	// AI Configuration - Analyze operation defaults
	v.SetDefault("ai.analyze.timeout", 75*time.Second)
	v.SetDefault("ai.analyze.maxRetries", 2)
	v.SetDefault("ai.analyze.temperature", 0.2) // Low temperature for consistent analysis
	v.SetDefault("ai.analyze.maxOutputTokens", 4096)

	// AI Configuration - Generate operation defaults
	v.SetDefault("ai.generate.timeout", 90*time.Second) // Longer timeout for long-form output
	v.SetDefault("ai.generate.maxRetries", 3)
	v.SetDefault("ai.generate.temperature", 0.7)
	v.SetDefault("ai.generate.maxOutputTokens", 2048)

	// AI Configuration - Embed operation defaults
	v.SetDefault("ai.embed.timeout", 30*time.Second)
	v.SetDefault("ai.embed.maxRetries", 2)
	v.SetDefault("ai.embed.temperature", 0.0)

	// AI Configuration - Moderate operation defaults
	v.SetDefault("ai.moderate.timeout", 20*time.Second)
	v.SetDefault("ai.moderate.maxRetries", 1)
	v.SetDefault("ai.moderate.temperature", 0.0)
	v.SetDefault("ai.moderate.maxOutputTokens", 256)

	// Circuit Breaker defaults for provider-facing operations
	for _, op := range []string{"analyze", "generate", "embed", "moderate"} {
		v.SetDefault("ai."+op+".circuitBreaker.enabled", true)
		v.SetDefault("ai."+op+".circuitBreaker.maxRequests", 3)
		v.SetDefault("ai."+op+".circuitBreaker.interval", 60*time.Second)
		v.SetDefault("ai."+op+".circuitBreaker.timeout", 60*time.Second)
		v.SetDefault("ai."+op+".circuitBreaker.minRequests", 3)
		v.SetDefault("ai."+op+".circuitBreaker.failureThreshold", 0.6)
	}

	// Cache Configuration
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.analysisTTL", time.Hour)
	v.SetDefault("cache.generationTTL", time.Hour)
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	// Input limits
	v.SetDefault("limits.minResumeChars", 100)
	v.SetDefault("limits.maxResumeChars", 50000)
	v.SetDefault("limits.minJobDescriptionChars", 50)
	v.SetDefault("limits.maxJobDescriptionChars", 20000)
	v.SetDefault("limits.tokenBudget", 16000)

	// Cost accounting (USD per million tokens)
	v.SetDefault("cost.inputPerMillion", 0.10)
	v.SetDefault("cost.outputPerMillion", 0.40)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.redisPassword", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumelens")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("AI maxRetries must not be negative")
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid cache backend: %s (must be 'memory' or 'redis')", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Address == "" {
		return fmt.Errorf("redis cache backend requires cache.redis.address")
	}

	if c.Limits.MaxResumeChars <= c.Limits.MinResumeChars {
		return fmt.Errorf("limits.maxResumeChars must exceed limits.minResumeChars")
	}
	if c.Limits.MaxJobDescriptionChars <= c.Limits.MinJobDescriptionChars {
		return fmt.Errorf("limits.maxJobDescriptionChars must exceed limits.minJobDescriptionChars")
	}
	if c.Limits.TokenBudget <= 0 {
		return fmt.Errorf("limits.tokenBudget must be positive")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	return nil
}

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.RetryBaseDelay == nil {
		opCfg.RetryBaseDelay = &c.AI.RetryBaseDelay
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetAnalyzeConfig returns the AI configuration for analysis calls
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	config := c.AI.Analyze
	c.applyOperationDefaults(&config)
	return config
}

// GetGenerateConfig returns the AI configuration for generation calls
func (c *Config) GetGenerateConfig() OperationAIConfig {
	config := c.AI.Generate
	c.applyOperationDefaults(&config)
	return config
}

// GetEmbedConfig returns the AI configuration for embedding calls. The
// embedding model takes the place of the text model.
func (c *Config) GetEmbedConfig() OperationAIConfig {
	config := c.AI.Embed
	c.applyOperationDefaults(&config)
	if c.AI.Embed.Model == "" && c.AI.EmbeddingModel != "" {
		config.Model = c.AI.EmbeddingModel
	}
	return config
}

// GetModerateConfig returns the AI configuration for moderation calls
func (c *Config) GetModerateConfig() OperationAIConfig {
	config := c.AI.Moderate
	c.applyOperationDefaults(&config)
	return config
}

// Global configuration instance
var GlobalConfig *Config

// InitConfig initializes the global configuration
func InitConfig() error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	GlobalConfig = config
	return nil
}
