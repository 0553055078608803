package server

import "github.com/robfig/cron/v3"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Schedule is a cron spec for periodic validation runs (empty disables them).
	// Example: "0 3 * * *" or "@every 6h".
	Schedule string `mapstructure:"schedule" default:""`
}

// HasSchedule reports whether periodic runs are configured.
func (c Config) HasSchedule() bool {
	return c.Schedule != ""
}

// ValidSchedule checks that Schedule parses as a standard cron spec.
// An empty schedule is valid.
func (c Config) ValidSchedule() error {
	if !c.HasSchedule() {
		return nil
	}
	_, err := cron.ParseStandard(c.Schedule)
	return err
}
