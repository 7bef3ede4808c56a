package user

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Config holds the user resource configuration.
type Config struct {
	// BcryptCost is the bcrypt work factor for password hashes.
	BcryptCost int `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
	// Seed loads a handful of demo users at startup.
	Seed bool `yaml:"seed" mapstructure:"seed"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("users.bcrypt_cost must be between %d and %d (got: %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	return nil
}
