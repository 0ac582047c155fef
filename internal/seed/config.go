// Package seed drives a running club service over HTTP: it creates a
// deterministic demo club and checks the ranking the service returns.
package seed

import "time"

// Config holds settings for a seed run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Email    string        // Admin email
	Password string        // Admin password
	Season   int           // Season the demo events are dated in
	Shooters int           // Number of demo shooters
	Workers  int           // Concurrent requests while recording results
	Timeout  time.Duration // HTTP request timeout
}

// Report summarises a seed run.
type Report struct {
	Shooters  int
	Events    int
	Results   int
	Qualified int
	Duration  time.Duration
}

// Default settings.
const (
	DefaultBaseURL  = "http://localhost:9080"
	DefaultShooters = 12
	DefaultWorkers  = 4
	DefaultTimeout  = 10 * time.Second
)

func (c *Config) withDefaults() Config {
	out := *c
	if out.BaseURL == "" {
		out.BaseURL = DefaultBaseURL
	}
	if out.Shooters <= 0 {
		out.Shooters = DefaultShooters
	}
	if out.Workers <= 0 {
		out.Workers = DefaultWorkers
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.Season == 0 {
		out.Season = time.Now().Year()
	}
	return out
}
