// Copyright 2025 Certen Protocol
//
// Configuration loading: YAML file with ${VAR_NAME} environment variable
// substitution, then individual environment variables as final overrides
// for secrets that should never live in a checked-in config file.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML unmarshaling from Go duration
// strings like "30s" or "5m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration for the gateway/ITS engine process.
type Config struct {
	Network  NetworkSettings  `yaml:"network"`
	Store    StoreSettings    `yaml:"store"`
	Gateway  GatewaySettings  `yaml:"gateway"`
	ITS      ITSSettings      `yaml:"its"`
	Server   ServerSettings   `yaml:"server"`
	Indexer  IndexerSettings  `yaml:"indexer"`
	Metrics  MetricsSettings  `yaml:"metrics"`
	LogLevel string           `yaml:"log_level"`
}

// NetworkSettings identifies this deployment within the wider Axelar
// network of chains.
type NetworkSettings struct {
	ChainName      string   `yaml:"chain_name"`
	TrustedChains  []string `yaml:"trusted_chains"`
	GatewayProgram string   `yaml:"gateway_program_id"`
	ITSProgram     string   `yaml:"its_program_id"`
}

// StoreSettings configures the content-addressed record store.
type StoreSettings struct {
	Backend string `yaml:"backend"` // "memory" or "goleveldb"
	DataDir string `yaml:"data_dir"`
	DBName  string `yaml:"db_name"`
}

// GatewaySettings configures C1/C8 rotation policy.
type GatewaySettings struct {
	RotationRetention    uint64   `yaml:"rotation_retention"`
	MinimumRotationDelay Duration `yaml:"minimum_rotation_delay"`
}

// ITSSettings holds the ITS section of the file. EpochSeconds is loaded
// and defaulted but not read elsewhere: the flow slot uses the
// its.EpochSeconds constant.
type ITSSettings struct {
	EpochSeconds int64 `yaml:"epoch_seconds"`
}

// ServerSettings configures the read-only HTTP introspection API.
type ServerSettings struct {
	ListenAddr  string   `yaml:"listen_addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// IndexerSettings configures the Postgres-backed off-chain read model.
type IndexerSettings struct {
	DatabaseURL     string   `yaml:"database_url"`
	MaxOpenConns    int      `yaml:"max_open_conns"`
	MaxIdleConns    int      `yaml:"max_idle_conns"`
	ConnMaxIdleTime Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime Duration `yaml:"conn_max_lifetime"`
	Required        bool     `yaml:"required"`
}

// MetricsSettings configures the Prometheus exporter.
type MetricsSettings struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads a YAML config file, substituting ${VAR_NAME} references
// against the process environment, then applies defaults and the
// INDEXER_DATABASE_URL environment override (never checked into a
// config file).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Network.ChainName == "" {
		c.Network.ChainName = "solana"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "memory"
	}
	if c.Store.DBName == "" {
		c.Store.DBName = "axelar-solana-core"
	}
	if c.Gateway.RotationRetention == 0 {
		c.Gateway.RotationRetention = 4
	}
	if c.ITS.EpochSeconds == 0 {
		c.ITS.EpochSeconds = 21600
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = "0.0.0.0:8080"
	}
	if c.Indexer.MaxOpenConns == 0 {
		c.Indexer.MaxOpenConns = 25
	}
	if c.Indexer.MaxIdleConns == 0 {
		c.Indexer.MaxIdleConns = 5
	}
	if c.Indexer.ConnMaxIdleTime == 0 {
		c.Indexer.ConnMaxIdleTime = Duration(5 * time.Minute)
	}
	if c.Indexer.ConnMaxLifetime == 0 {
		c.Indexer.ConnMaxLifetime = Duration(time.Hour)
	}
	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = "0.0.0.0:9090"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// applyEnvOverrides applies the handful of environment variables that
// take precedence over the YAML file regardless of ${...} substitution,
// matching the convention that secrets never live in a checked-in file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("INDEXER_DATABASE_URL"); v != "" {
		c.Indexer.DatabaseURL = v
	}
	if v := os.Getenv("STORE_DATA_DIR"); v != "" {
		c.Store.DataDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks that configuration required for the selected backends
// is actually present.
func (c *Config) Validate() error {
	var errs []string

	if c.Store.Backend != "memory" && c.Store.Backend != "goleveldb" {
		errs = append(errs, fmt.Sprintf("store.backend must be \"memory\" or \"goleveldb\", got %q", c.Store.Backend))
	}
	if c.Store.Backend == "goleveldb" && c.Store.DataDir == "" {
		errs = append(errs, "store.data_dir is required when store.backend is goleveldb")
	}
	if c.Indexer.Required && c.Indexer.DatabaseURL == "" {
		errs = append(errs, "indexer.database_url (or INDEXER_DATABASE_URL) is required when indexer.required is true")
	}
	if c.Network.ChainName == "" {
		errs = append(errs, "network.chain_name is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
