package envelope

import "fmt"

// Config holds envelope configuration.
type Config struct {
	// MaxCauseDepth bounds the violation search through cause chains.
	MaxCauseDepth int `yaml:"max_cause_depth" mapstructure:"max_cause_depth"`
	// NotFoundPrefix is prepended to resource-not-found messages.
	NotFoundPrefix string `yaml:"not_found_prefix" mapstructure:"not_found_prefix"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.MaxCauseDepth == 0 {
		c.MaxCauseDepth = DefaultMaxCauseDepth
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxCauseDepth < 1 {
		return fmt.Errorf("envelope.max_cause_depth must be positive (got: %d)", c.MaxCauseDepth)
	}
	return nil
}
