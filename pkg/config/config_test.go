package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
network:
  chain_name: solana
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("expected default store backend memory, got %q", cfg.Store.Backend)
	}
	if cfg.Gateway.RotationRetention != 4 {
		t.Errorf("expected default rotation retention 4, got %d", cfg.Gateway.RotationRetention)
	}
	if cfg.ITS.EpochSeconds != 21600 {
		t.Errorf("expected default epoch seconds 21600, got %d", cfg.ITS.EpochSeconds)
	}
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("TEST_CHAIN_NAME", "solana-devnet")
	path := writeTempConfig(t, `
network:
  chain_name: ${TEST_CHAIN_NAME}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network.ChainName != "solana-devnet" {
		t.Errorf("expected substituted chain name, got %q", cfg.Network.ChainName)
	}
}

func TestIndexerDatabaseURLEnvOverride(t *testing.T) {
	t.Setenv("INDEXER_DATABASE_URL", "postgres://override")
	path := writeTempConfig(t, `
indexer:
  database_url: postgres://from-yaml
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Indexer.DatabaseURL != "postgres://override" {
		t.Errorf("expected env override to win, got %q", cfg.Indexer.DatabaseURL)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{Network: NetworkSettings{ChainName: "solana"}, Store: StoreSettings{Backend: "redis"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown store backend")
	}
}

func TestValidateRequiresDataDirForGoLevelDB(t *testing.T) {
	cfg := &Config{Network: NetworkSettings{ChainName: "solana"}, Store: StoreSettings{Backend: "goleveldb"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error when goleveldb backend has no data_dir")
	}
}
