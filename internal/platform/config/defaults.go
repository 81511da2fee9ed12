package config

import "maps"

// Fallback values for keys no YAML layer or environment variable sets.
const (
	defaultPort             = 8080
	defaultStreamMaxClients = 100
	defaultManifestDir      = "configs/plugins"

	defaultRetryAttempts      = 3
	defaultRetryMultiplier    = 2.0
	defaultBreakerMaxFailures = 5
	defaultBreakerHalfOpen    = 1

	defaultMaxConcurrentChecks = 8
	defaultPredicateCostLimit  = 10000
)

// defaults flattens every section's fallbacks into koanf keys.
func defaults() map[string]any {
	out := map[string]any{}
	for _, section := range []map[string]any{
		serverDefaults(),
		clientDefaults(),
		shellDefaults(),
		preferenceDefaults(),
	} {
		maps.Copy(out, section)
	}
	return out
}

func serverDefaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "uishell",
	}
}

// clientDefaults tune webhook delivery.
func clientDefaults() map[string]any {
	return map[string]any{
		"client.timeout":                         "30s",
		"client.retry.max_attempts":              defaultRetryAttempts,
		"client.retry.initial_interval":          "100ms",
		"client.retry.max_interval":              "10s",
		"client.retry.multiplier":                defaultRetryMultiplier,
		"client.circuit_breaker.max_failures":    defaultBreakerMaxFailures,
		"client.circuit_breaker.timeout":         "30s",
		"client.circuit_breaker.half_open_limit": defaultBreakerHalfOpen,
		"client.rate_limit.requests_per_second":  0,
		"client.rate_limit.burst_size":           1,
	}
}

func shellDefaults() map[string]any {
	return map[string]any{
		"uiactions.max_concurrent_checks": defaultMaxConcurrentChecks,
		"uiactions.predicate_cost_limit":  defaultPredicateCostLimit,

		"chrome.embed":              false,
		"chrome.nav_group_enabled":  false,
		"chrome.help_support_url":   "https://forum.opensearch.org/",
		"chrome.doc_title":          "OpenSearch Dashboards",
		"chrome.stream_max_clients": defaultStreamMaxClients,

		"plugins.manifest_dir": defaultManifestDir,
	}
}

func preferenceDefaults() map[string]any {
	return map[string]any{
		"preferences.backend":            PreferencesMemory,
		"preferences.redis.addr":         "localhost:6379",
		"preferences.redis.db":           0,
		"preferences.redis.key_prefix":   "uishell:prefs:",
		"preferences.redis.dial_timeout": "5s",
	}
}
