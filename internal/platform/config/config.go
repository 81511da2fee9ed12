// Package config provides configuration loading and validation for the service.
// Configuration is loaded from built-in defaults and YAML files with
// environment variable overrides using a layered system:
// defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the service.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Log         LogConfig         `koanf:"log"`
	Client      ClientConfig      `koanf:"client"`
	Telemetry   TelemetryConfig   `koanf:"telemetry"`
	UIActions   UIActionsConfig   `koanf:"uiactions"`
	Chrome      ChromeConfig      `koanf:"chrome"`
	Preferences PreferencesConfig `koanf:"preferences"`
	Plugins     PluginsConfig     `koanf:"plugins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ClientConfig holds settings for the outbound HTTP client that delivers
// webhook action executions.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds outbound rate limiter settings. A zero
// RequestsPerSecond disables rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// UIActionsConfig holds action registry settings.
type UIActionsConfig struct {
	// MaxConcurrentChecks bounds the compatibility predicates evaluated in
	// parallel for one trigger.
	MaxConcurrentChecks int `koanf:"max_concurrent_checks"`
	// PredicateCostLimit caps the evaluation cost of one CEL predicate.
	PredicateCostLimit uint64 `koanf:"predicate_cost_limit"`
}

// ChromeConfig holds chrome service settings.
type ChromeConfig struct {
	Embed           bool   `koanf:"embed"`
	NavGroupEnabled bool   `koanf:"nav_group_enabled"`
	HelpSupportURL  string `koanf:"help_support_url"`
	DocTitle        string `koanf:"doc_title"`
	// StreamMaxClients bounds concurrent websocket chrome stream clients.
	StreamMaxClients int `koanf:"stream_max_clients"`
}

// Preference store backends.
const (
	PreferencesMemory = "memory"
	PreferencesRedis  = "redis"
)

// PreferencesConfig selects and configures the preference store.
type PreferencesConfig struct {
	Backend string      `koanf:"backend"`
	Redis   RedisConfig `koanf:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	KeyPrefix   string        `koanf:"key_prefix"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

// PluginsConfig holds plugin host settings.
type PluginsConfig struct {
	// ManifestDir is the directory the manifest plugin reads *.yaml
	// manifests from. Empty disables the manifest plugin.
	ManifestDir string `koanf:"manifest_dir"`
}
