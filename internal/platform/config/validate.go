package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/jsamuelsen11/uishell/internal/platform/logging"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Client.validate(),
		c.Telemetry.validate(),
		c.UIActions.validate(),
		c.Chrome.validate(),
		c.Preferences.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	if _, ok := logging.ParseLevel(l.Level); !ok {
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case logging.FormatJSON, logging.FormatText:
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (cl *ClientConfig) validate() error {
	var errs []error

	if cl.Timeout <= 0 {
		errs = append(errs, errors.New("client.timeout must be positive"))
	}
	if cl.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("client.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts))
	}
	if cl.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("client.retry.multiplier must be positive, got %f", cl.Retry.Multiplier))
	}
	if cl.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("client.circuit_breaker.max_failures must be >= 1, got %d",
			cl.CircuitBreaker.MaxFailures))
	}
	if cl.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("client.rate_limit.requests_per_second must not be negative, got %f",
			cl.RateLimit.RequestsPerSecond))
	}
	if cl.RateLimit.RequestsPerSecond > 0 && cl.RateLimit.BurstSize < 1 {
		errs = append(errs, fmt.Errorf("client.rate_limit.burst_size must be >= 1 when rate limiting, got %d",
			cl.RateLimit.BurstSize))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}

func (u *UIActionsConfig) validate() error {
	var errs []error

	if u.MaxConcurrentChecks < 1 {
		errs = append(errs, fmt.Errorf("uiactions.max_concurrent_checks must be >= 1, got %d", u.MaxConcurrentChecks))
	}
	if u.PredicateCostLimit == 0 {
		errs = append(errs, errors.New("uiactions.predicate_cost_limit must be positive"))
	}

	return errors.Join(errs...)
}

func (c *ChromeConfig) validate() error {
	var errs []error

	if c.HelpSupportURL == "" {
		errs = append(errs, errors.New("chrome.help_support_url must not be empty"))
	} else if u, err := url.Parse(c.HelpSupportURL); err != nil || u.Scheme == "" {
		errs = append(errs, fmt.Errorf("chrome.help_support_url must be an absolute URL, got %q", c.HelpSupportURL))
	}
	if c.StreamMaxClients < 1 {
		errs = append(errs, fmt.Errorf("chrome.stream_max_clients must be >= 1, got %d", c.StreamMaxClients))
	}

	return errors.Join(errs...)
}

func (p *PreferencesConfig) validate() error {
	switch p.Backend {
	case PreferencesMemory:
		return nil
	case PreferencesRedis:
		if p.Redis.Addr == "" {
			return errors.New("preferences.redis.addr must not be empty when backend is redis")
		}
		return nil
	default:
		return fmt.Errorf("preferences.backend must be one of: memory, redis; got %q", p.Backend)
	}
}
