package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables the check.
	ApiKey string `mapstructure:"api_key" default:""`
	// SummaryTTLSeconds is how long a roster summary is served from cache.
	SummaryTTLSeconds int `mapstructure:"summary_ttl_seconds" default:"30"`
}

// SummaryTTL returns the summary cache lifetime. Negative values disable caching.
func (c Config) SummaryTTL() time.Duration {
	if c.SummaryTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.SummaryTTLSeconds) * time.Second
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + c.Port
}
