// Package config holds the provisioning parameters. The zero-argument run
// uses only the literal defaults below; a YAML file and CLI flags may
// override individual fields.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Literal defaults for a run against the local forum service.
const (
	DefaultBaseURL       = "http://127.0.0.1:8084"
	DefaultSignupPath    = "/api/v1/signup"
	DefaultLoginPath     = "/api/v1/login"
	DefaultUserPrefix    = "user"
	DefaultPassword      = "user1234"
	DefaultStart         = 1
	DefaultCount         = 10000
	DefaultTimeout       = 5 * time.Second
	DefaultThrottleEvery = 100
	DefaultThrottlePause = 1 * time.Second
	DefaultOutput        = "tokens.txt"
)

// Config is everything a provisioning run needs.
type Config struct {
	BaseURL       string
	SignupPath    string
	LoginPath     string
	UserPrefix    string
	Password      string
	Start         int
	Count         int
	Timeout       time.Duration
	ThrottleEvery int
	ThrottlePause time.Duration
	Output        string
}

// fileConfig mirrors Config with durations kept as strings so the file can
// say "5s" or "5".
type fileConfig struct {
	BaseURL       *string `yaml:"baseUrl"`
	SignupPath    *string `yaml:"signupPath"`
	LoginPath     *string `yaml:"loginPath"`
	UserPrefix    *string `yaml:"userPrefix"`
	Password      *string `yaml:"password"`
	Start         *int    `yaml:"start"`
	Count         *int    `yaml:"count"`
	Timeout       *string `yaml:"timeout"`
	ThrottleEvery *int    `yaml:"throttleEvery"`
	ThrottlePause *string `yaml:"throttlePause"`
	Output        *string `yaml:"output"`
}

// Default returns the literal configuration.
func Default() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		SignupPath:    DefaultSignupPath,
		LoginPath:     DefaultLoginPath,
		UserPrefix:    DefaultUserPrefix,
		Password:      DefaultPassword,
		Start:         DefaultStart,
		Count:         DefaultCount,
		Timeout:       DefaultTimeout,
		ThrottleEvery: DefaultThrottleEvery,
		ThrottlePause: DefaultThrottlePause,
		Output:        DefaultOutput,
	}
}

// End is the last sequence number of the run, inclusive.
func (c Config) End() int {
	return c.Start + c.Count - 1
}

// LoadFile reads a YAML file and applies it on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.Apply(data); err != nil {
		return cfg, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Apply overrides every field present in the YAML document.
func (c *Config) Apply(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	setString(&c.BaseURL, fc.BaseURL)
	setString(&c.SignupPath, fc.SignupPath)
	setString(&c.LoginPath, fc.LoginPath)
	setString(&c.UserPrefix, fc.UserPrefix)
	setString(&c.Password, fc.Password)
	setString(&c.Output, fc.Output)
	setInt(&c.Start, fc.Start)
	setInt(&c.Count, fc.Count)
	setInt(&c.ThrottleEvery, fc.ThrottleEvery)

	if fc.Timeout != nil {
		d, err := ParseDuration(*fc.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
	}
	if fc.ThrottlePause != nil {
		d, err := ParseDuration(*fc.ThrottlePause)
		if err != nil {
			return fmt.Errorf("throttlePause: %w", err)
		}
		c.ThrottlePause = d
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// ParseDuration accepts Go duration syntax ("500ms", "1m") or bare seconds ("5").
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	var seconds int
	var rest string
	if n, _ := fmt.Sscanf(s, "%d%s", &seconds, &rest); n == 1 {
		return time.Duration(seconds) * time.Second, nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}
