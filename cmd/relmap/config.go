package main

import (
	"fmt"
	"slices"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/syssam/relmap/compiler/meta"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"
)

var formats = []string{FormatJSON, FormatYAML, FormatMsgpack}

// Config holds the settings of a relmap run.
// Values come from an optional YAML file, then RELMAP_* environment
// variables, then command line flags.
type Config struct {
	// Instruction selects the resolution passes, e.g. "all" or "identity|opposite".
	Instruction string `yaml:"instruction" env:"RELMAP_INSTRUCTION" env-default:"default"`
	// Format is the output encoding: json, yaml or msgpack.
	Format string `yaml:"format" env:"RELMAP_FORMAT" env-default:"json"`
	// Constraints adds multiplicities to records with active relations.
	// Defaults to true in LoadConfig; an env-default would override an
	// explicit false in the file.
	Constraints bool `yaml:"constraints" env:"RELMAP_CONSTRAINTS"`
	// LanguageTable is the target of language select columns.
	LanguageTable string `yaml:"language_table" env:"RELMAP_LANGUAGE_TABLE" env-default:"sys_language"`
	// Workers bounds the number of schemas resolved concurrently.
	Workers int `yaml:"workers" env:"RELMAP_WORKERS" env-default:"4"`
	// LogLevel is a zap level name. "debug" selects the development logger.
	LogLevel string `yaml:"log_level" env:"RELMAP_LOG_LEVEL" env-default:"warn"`
	// Watch keeps running and re-resolves schemas when they change.
	Watch bool `yaml:"watch" env:"RELMAP_WATCH" env-default:"false"`
	// Output is the file exports are written to. Empty means stdout.
	Output string `yaml:"output" env:"RELMAP_OUTPUT" env-default:""`

	instruction meta.Instruction
	level       zapcore.Level
}

// LoadConfig reads the configuration file at path, if any, with
// environment variable overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Constraints: true}
	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
		return cfg, nil
	}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration and parses its derived fields.
func (c *Config) Validate() error {
	in, err := meta.ParseInstruction(c.Instruction)
	if err != nil {
		return err
	}
	if !slices.Contains(formats, c.Format) {
		return meta.NewConfigError("format", c.Format, "use json, yaml or msgpack")
	}
	if c.Workers < 1 {
		return meta.NewConfigError("workers", c.Workers, "must be at least 1")
	}
	if c.LanguageTable == "" {
		return meta.NewConfigError("language_table", nil, "cannot be empty")
	}
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return meta.NewConfigError("log_level", c.LogLevel, err.Error())
	}
	c.instruction = in
	c.level = level
	return nil
}

// Logger builds the logger selected by LogLevel. It writes to stderr so
// that exports on stdout stay clean.
func (c *Config) Logger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(c.level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
