package fillkit

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError reports a configuration key whose value cannot be used.
type ConfigError struct {
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config key %q: %s", e.Key, e.Reason)
}

// Unwrap returns ErrInvalidConfig for errors.Is support.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
