package paging

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds simulator and service configuration
type Config struct {
	// Simulation defaults
	DefaultFrames int    `json:"default_frames"` // Frames used when a caller gives none
	Lookahead     int    `json:"lookahead"`      // Forecast length of the predictive policy
	TrainingMode  string `json:"training_mode"`  // omniscient or online

	// HTTP Configuration
	ListenAddr          string   `json:"listen_addr"`
	AllowedOrigins      []string `json:"allowed_origins"`       // CORS origins, "*" allows any
	ReadTimeoutSeconds  int      `json:"read_timeout_seconds"`  // Per-request read timeout
	WriteTimeoutSeconds int      `json:"write_timeout_seconds"` // Per-request write timeout
	MaxReferenceLength  int      `json:"max_reference_length"`  // Longest accepted reference string (pages)
	RateLimit           float64  `json:"rate_limit"`            // Requests per second, 0 disables
	RateBurst           int      `json:"rate_burst"`
	TrustProxyHeaders   bool     `json:"trust_proxy_headers"` // Key rate limits on X-Forwarded-For / X-Real-IP

	// Trace archive
	TraceCompression string `json:"trace_compression"` // none, lz4, snappy

	// Observability
	EnableMetrics bool   `json:"enable_metrics"` // Expose /metrics
	LogLevel      string `json:"log_level"`      // debug, info, warn, error
	LogFormat     string `json:"log_format"`     // text or json

	// CLI
	HistoryFile string `json:"history_file"` // REPL history, empty disables
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultFrames: 3,
		Lookahead:     DefaultLookahead,
		TrainingMode:  TrainingOmniscient.String(),
		ListenAddr:    ":8000",
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		ReadTimeoutSeconds:  10,
		WriteTimeoutSeconds: 10,
		MaxReferenceLength:  100000,
		RateLimit:           50,
		RateBurst:           100,
		TraceCompression:    CompressionLZ4.String(),
		EnableMetrics:       true,
		LogLevel:            "info",
		LogFormat:           "text",
		HistoryFile:         "",
	}
}

// LoadConfigFromFile loads configuration from a JSON file
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	err = json.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigFromEnv loads configuration from environment variables
// Falls back to default values if environment variables are not set
func LoadConfigFromEnv() *Config {
	return DefaultConfig().ApplyEnv()
}

// ApplyEnv overrides fields from PAGESIM_* environment variables.
// Unparseable values are ignored.
func (c *Config) ApplyEnv() *Config {
	if val := os.Getenv("PAGESIM_DEFAULT_FRAMES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.DefaultFrames = n
		}
	}

	if val := os.Getenv("PAGESIM_LOOKAHEAD"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.Lookahead = n
		}
	}

	if val := os.Getenv("PAGESIM_TRAINING_MODE"); val != "" {
		c.TrainingMode = val
	}

	// HTTP
	if val := os.Getenv("PAGESIM_LISTEN_ADDR"); val != "" {
		c.ListenAddr = val
	}

	if val := os.Getenv("PAGESIM_ALLOWED_ORIGINS"); val != "" {
		origins := strings.Split(val, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		c.AllowedOrigins = origins
	}

	if val := os.Getenv("PAGESIM_RATE_LIMIT"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.RateLimit = f
		}
	}

	if val := os.Getenv("PAGESIM_RATE_BURST"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.RateBurst = n
		}
	}

	if val := os.Getenv("PAGESIM_TRUST_PROXY_HEADERS"); val != "" {
		c.TrustProxyHeaders = val == "true" || val == "1"
	}

	if val := os.Getenv("PAGESIM_TRACE_COMPRESSION"); val != "" {
		c.TraceCompression = val
	}

	// Observability
	if val := os.Getenv("PAGESIM_ENABLE_METRICS"); val != "" {
		c.EnableMetrics = val == "true" || val == "1"
	}

	if val := os.Getenv("PAGESIM_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}

	if val := os.Getenv("PAGESIM_LOG_FORMAT"); val != "" {
		c.LogFormat = val
	}

	if val := os.Getenv("PAGESIM_HISTORY_FILE"); val != "" {
		c.HistoryFile = val
	}

	return c
}

// SaveToFile saves the configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	const op = "Config.Validate"
	invalid := func(msg string) error {
		return NewSimulationError(ErrCodeInvalidConfig, op, msg, nil)
	}

	if c.DefaultFrames <= 0 {
		return invalid("default frames must be greater than 0")
	}

	if c.Lookahead <= 0 {
		return invalid("lookahead must be greater than 0")
	}

	if _, err := ParseTrainingMode(c.TrainingMode); err != nil {
		return NewSimulationError(ErrCodeInvalidConfig, op, "invalid training mode", err)
	}

	if c.ListenAddr == "" {
		return invalid("listen address cannot be empty")
	}

	if c.ReadTimeoutSeconds < 0 || c.WriteTimeoutSeconds < 0 {
		return invalid("timeouts cannot be negative")
	}

	if c.MaxReferenceLength <= 0 {
		return invalid("max reference length must be greater than 0")
	}

	if c.RateLimit < 0 {
		return invalid("rate limit cannot be negative")
	}

	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return invalid("rate burst must be greater than 0 when rate limiting is enabled")
	}

	if _, err := ParseCompression(c.TraceCompression); err != nil {
		return NewSimulationError(ErrCodeInvalidConfig, op, "invalid trace compression", err)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.LogLevel] {
		return invalid(fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return invalid(fmt.Sprintf("invalid log format: %s (must be text or json)", c.LogFormat))
	}

	return nil
}

// SimulationOptions converts the simulation defaults into engine options
func (c *Config) SimulationOptions() []Option {
	mode, err := ParseTrainingMode(c.TrainingMode)
	if err != nil {
		mode = TrainingOmniscient
	}
	return []Option{WithLookahead(c.Lookahead), WithTrainingMode(mode)}
}

// ReadTimeout returns the HTTP read timeout
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the HTTP write timeout
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	clone.AllowedOrigins = append([]string(nil), c.AllowedOrigins...)
	return &clone
}
