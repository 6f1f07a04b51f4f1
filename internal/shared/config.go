package shared

import (
	"os"
	"time"
)

// AppConfig carries the toggles the server wires at startup. Environment
// variables override the defaults; everything else is code-level config.
type AppConfig struct {
	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitEndpointConfig

	CacheEnabled bool
	CacheConfigs map[string]ResponseCacheConfig

	EnforceHTTPS bool

	Environment string
}

func GetDefaultConfig() *AppConfig {
	environment := os.Getenv("APP_ENV")

	if environment == "" {
		environment = "development"
	}

	return &AppConfig{
		RateLimitEnabled: os.Getenv("RATE_LIMIT_DISABLED") != "true",
		RateLimitConfigs: DefaultRateLimitConfigs(),
		CacheEnabled:     os.Getenv("RESPONSE_CACHE_DISABLED") != "true",
		CacheConfigs: map[string]ResponseCacheConfig{
			"/api/todos": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
			"/api/categories": {
				TTL:     30 * time.Second,
				Enabled: true,
			},
			"/api/tags": {
				TTL:     30 * time.Second,
				Enabled: true,
			},
		},
		EnforceHTTPS: os.Getenv("ENFORCE_HTTPS") == "true",
		Environment:  environment,
	}
}
