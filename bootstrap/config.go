package bootstrap

import (
	"fmt"

	"github.com/kbukum/usermodel/config"
	"github.com/kbukum/usermodel/envelope"
	"github.com/kbukum/usermodel/metrics"
	"github.com/kbukum/usermodel/observability"
	"github.com/kbukum/usermodel/server"
	"github.com/kbukum/usermodel/store"
	"github.com/kbukum/usermodel/user"
)

// Config is the service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server   server.Config               `yaml:"server" mapstructure:"server"`
	Envelope envelope.Config             `yaml:"envelope" mapstructure:"envelope"`
	Metrics  metrics.Config              `yaml:"metrics" mapstructure:"metrics"`
	Tracing  observability.TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Users    user.Config                 `yaml:"users" mapstructure:"users"`
	Database store.Config                `yaml:"database" mapstructure:"database"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Envelope.ApplyDefaults()
	c.Metrics.ApplyDefaults()
	c.Tracing.ApplyDefaults()
	c.Users.ApplyDefaults()
	c.Database.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	sections := []struct {
		name string
		v    interface{ Validate() error }
	}{
		{"server", &c.Server},
		{"envelope", &c.Envelope},
		{"metrics", &c.Metrics},
		{"tracing", &c.Tracing},
		{"users", &c.Users},
		{"database", &c.Database},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("config.%s: %w", s.name, err)
		}
	}
	return nil
}
