package cfg

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version != "" {
		return Version
	}
	return "unknown"
}

type rawCfg struct {
	// Server configuration
	Port string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`

	// Fetch configuration
	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"Atom Comb/1.0" description:"User agent string for HTTP requests"`
	FetchTimeout int    `long:"timeout" env:"FETCH_TIMEOUT" default:"30" description:"Remote fetch timeout in seconds"`
	MaxBodyBytes int64  `long:"max-body" env:"MAX_BODY_BYTES" default:"10485760" description:"Maximum feed size in bytes"`

	// One-shot modes
	File string `long:"file" description:"Parse a local Atom file, print JSON and exit"`
	URL  string `long:"url" description:"Fetch and parse a remote Atom feed, print JSON and exit"`

	// Application metadata
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:         raw.Port,
		UserAgent:    raw.UserAgent,
		FetchTimeout: time.Duration(raw.FetchTimeout) * time.Second,
		MaxBodyBytes: raw.MaxBodyBytes,
		File:         raw.File,
		URL:          raw.URL,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	if cfg.File != "" && cfg.URL != "" {
		return nil, fmt.Errorf("--file and --url are mutually exclusive")
	}

	return cfg, nil
}
