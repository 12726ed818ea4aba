package collaboration

import "time"

// Config holds collaboration settings.
type Config struct {
	// ActiveWindow is the staleness window for liveness: a collaborator whose
	// last activity is older than this is reported inactive.
	ActiveWindow time.Duration

	// BaseURL is the public origin share URLs are built against.
	BaseURL string

	// LinkExpiry is how long new share links stay joinable. Zero means links
	// never expire.
	LinkExpiry time.Duration
}

// DefaultConfig returns the default collaboration configuration.
func DefaultConfig() *Config {
	return &Config{
		ActiveWindow: 5 * time.Minute,
		BaseURL:      "http://localhost:3000",
		LinkExpiry:   0,
	}
}
