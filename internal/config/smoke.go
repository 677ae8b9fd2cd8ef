package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultBaseURL is where the auth service listens in local development.
const DefaultBaseURL = "http://localhost:3333"

// Keys shared by the smoke CLI flags and the SMOKE_* environment variables.
const (
	KeyBaseURL = "base_url"
	KeyNoColor = "no_color"
	KeyStrict  = "strict"
	KeyVerbose = "verbose"
	KeyTimeout = "timeout"
)

// Smoke holds the settings of one smoke-test run.
type Smoke struct {
	BaseURL string
	NoColor bool
	Strict  bool
	Verbose bool
	// Timeout bounds each HTTP call. Zero means wait forever.
	Timeout time.Duration
}

// NewSmokeViper returns a viper instance reading SMOKE_* variables with defaults applied.
func NewSmokeViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SMOKE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyStrict, false)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyTimeout, time.Duration(0))
	return v
}

// LoadSmoke resolves the run settings from v.
func LoadSmoke(v *viper.Viper) (Smoke, error) {
	cfg := Smoke{
		BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString(KeyBaseURL)), "/"),
		NoColor: v.GetBool(KeyNoColor),
		Strict:  v.GetBool(KeyStrict),
		Verbose: v.GetBool(KeyVerbose),
		Timeout: v.GetDuration(KeyTimeout),
	}

	if cfg.BaseURL == "" {
		return Smoke{}, errors.New("base url is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Smoke{}, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}
	if cfg.Timeout < 0 {
		return Smoke{}, errors.New("timeout must not be negative")
	}

	return cfg, nil
}
