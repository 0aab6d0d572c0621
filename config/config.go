// Package config loads typedsql configuration from defaults, a YAML or INI
// file, TYPEDSQL_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/shipq/typedsql/dburl"
	"github.com/shipq/typedsql/inifile"
	"github.com/shipq/typedsql/logging"
	"github.com/shipq/typedsql/project"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TYPEDSQL_"

// DefaultFiles are looked up from the working directory up to the module
// root when Load gets no path.
var DefaultFiles = []string{"typedsql.yaml", "typedsql.yml", "typedsql.ini"}

// ValidDialects is the list of supported database dialects.
var ValidDialects = []string{dburl.DialectPostgres, dburl.DialectMySQL, dburl.DialectSQLite}

// Config holds the complete configuration.
type Config struct {
	Database   DatabaseConfig   `koanf:"database"`
	Log        LogConfig        `koanf:"log"`
	Statements StatementsConfig `koanf:"statements"`
	Schema     SchemaConfig     `koanf:"schema"`

	// File is the config file that was read, empty when none was.
	File string `koanf:"-"`
}

// DatabaseConfig holds the [database] settings.
type DatabaseConfig struct {
	URL string `koanf:"url"`
	// Dialect is inferred from URL when empty.
	Dialect         string        `koanf:"dialect"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type StatementsConfig struct {
	// Cache keeps prepared statements for reuse.
	Cache bool `koanf:"cache"`
}

type SchemaConfig struct {
	Path string `koanf:"path"`
}

func defaults() map[string]any {
	return map[string]any{
		"database.max_open_conns":    10,
		"database.max_idle_conns":    2,
		"database.conn_max_lifetime": "30m",
		"log.level":                  "info",
		"log.format":                 logging.FormatJSON,
		"statements.cache":           true,
		"schema.path":                "schema.yaml",
	}
}

// flagKeys maps flag names to config keys. Only flags that were set on the
// command line override the other layers.
var flagKeys = map[string]string{
	"database-url": "database.url",
	"dialect":      "database.dialect",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"cache":        "statements.cache",
	"schema":       "schema.path",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("database-url", "", "database URL (postgres://, mysql://, sqlite:)")
	fs.String("dialect", "", "SQL dialect, inferred from the URL when empty")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.String("log-format", "", "log format: json, pretty or text")
	fs.Bool("cache", true, "cache prepared statements")
	fs.String("schema", "", "schema declaration file")
}

// Load reads the configuration. path names the config file; when empty
// the first of DefaultFiles that exists is used, if any. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// TYPEDSQL_DATABASE_MAX_OPEN_CONNS -> database.max_open_conns
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, key, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + key
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".ini":
		return inifile.NewParser(), nil
	}
	return nil, fmt.Errorf("unsupported config file type %q", filepath.Ext(path))
}

// findConfigFile looks for DefaultFiles from the working directory up to
// the module root.
func findConfigFile() string {
	path, err := project.FindFile(".", DefaultFiles...)
	if err != nil {
		return ""
	}
	return path
}

// normalize infers the dialect and validates the settings.
func (c *Config) normalize() error {
	c.Database.Dialect = strings.ToLower(strings.TrimSpace(c.Database.Dialect))
	if c.Database.Dialect == "" && c.Database.URL != "" {
		d, err := dburl.InferDialect(c.Database.URL)
		if err != nil {
			return fmt.Errorf("database.url: %w", err)
		}
		c.Database.Dialect = d
	}
	return c.Validate()
}

// Validate checks the values that Load cannot type check.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Dialect != "" && !slices.Contains(ValidDialects, c.Database.Dialect) {
		errs = append(errs, fmt.Errorf("database.dialect: %w: %q (valid: %s)",
			dburl.ErrUnknownDialect, c.Database.Dialect, strings.Join(ValidDialects, ", ")))
	}
	if c.Database.MaxOpenConns < 0 {
		errs = append(errs, errors.New("database.max_open_conns must not be negative"))
	}
	if c.Database.MaxIdleConns < 0 {
		errs = append(errs, errors.New("database.max_idle_conns must not be negative"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatJSON, logging.FormatPretty, logging.FormatText:
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Logging returns the logging configuration.
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}
