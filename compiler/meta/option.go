package meta

import (
	"errors"

	"go.uber.org/zap"
)

// DefaultLanguageTable is the entity targeted by select columns marked
// with the "languages" special.
const DefaultLanguageTable = "sys_language"

// Config holds the settings shared by index construction and resolution.
type Config struct {
	// Logger receives debug output of the resolution passes.
	Logger *zap.Logger
	// LanguageTable is the target of language select columns.
	LanguageTable string
}

// Option configures a Factory.
type Option func(*Config) error

// WithLogger sets the logger used by the factory and its resolvers.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithLanguageTable sets the entity that language select columns point at.
func WithLanguageTable(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("LanguageTable", nil, "language table cannot be empty")
		}
		c.LanguageTable = name
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a Config with defaults and the given options applied.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Logger:        zap.NewNop(),
		LanguageTable: DefaultLanguageTable,
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// cacheKey renders the settings that change a resolved map.
func (c *Config) cacheKey() string {
	return c.LanguageTable
}
