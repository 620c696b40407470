package cfg

import "time"

type Cfg struct {
	// Server configuration
	Port string

	// Fetch configuration
	UserAgent    string
	FetchTimeout time.Duration
	MaxBodyBytes int64

	// One-shot modes; when set the process parses once and exits
	// instead of serving HTTP.
	File string
	URL  string

	// Application metadata
	Debug   bool
	Version string
}
