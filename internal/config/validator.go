package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors joins several ValidationError values into one error.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns every problem found.
func (c Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.BaseURL == "" {
		errors = append(errors, ValidationError{Path: "baseUrl", Message: "baseUrl is required"})
	} else if u, err := url.ParseRequestURI(c.BaseURL); err != nil || u.Host == "" {
		errors = append(errors, ValidationError{Path: "baseUrl", Message: fmt.Sprintf("invalid URL: %s", c.BaseURL)})
	}

	if c.SignupPath == "" {
		errors = append(errors, ValidationError{Path: "signupPath", Message: "signupPath is required"})
	}
	if c.LoginPath == "" {
		errors = append(errors, ValidationError{Path: "loginPath", Message: "loginPath is required"})
	}

	if c.UserPrefix == "" {
		errors = append(errors, ValidationError{Path: "userPrefix", Message: "userPrefix is required"})
	}
	if c.Password == "" {
		errors = append(errors, ValidationError{Path: "password", Message: "password is required"})
	}

	if c.Start < 0 {
		errors = append(errors, ValidationError{Path: "start", Message: "start cannot be negative"})
	}
	if c.Count < 1 {
		errors = append(errors, ValidationError{Path: "count", Message: "count must be at least 1"})
	}

	if c.Timeout <= 0 {
		errors = append(errors, ValidationError{Path: "timeout", Message: "timeout must be positive"})
	}

	if c.ThrottleEvery < 0 {
		errors = append(errors, ValidationError{Path: "throttleEvery", Message: "throttleEvery cannot be negative"})
	}
	if c.ThrottlePause < 0 {
		errors = append(errors, ValidationError{Path: "throttlePause", Message: "throttlePause cannot be negative"})
	}

	if c.Output == "" {
		errors = append(errors, ValidationError{Path: "output", Message: "output is required"})
	}

	return errors
}

// Check is Validate folded into a single error, nil when valid.
func (c Config) Check() error {
	if errs := c.Validate(); len(errs) > 0 {
		return ValidationErrors(errs)
	}
	return nil
}
