package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
api:
  base_url: https://staging.recall.dev/v1
  token: tok-abc
stream:
  url: https://staging.recall.dev/v1/events/stream
  transport: websocket
database:
  postgres:
    host: localhost
    port: 5432
    name: recall_events
    user: recall
    password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "https://staging.recall.dev/v1" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "https://staging.recall.dev/v1")
	}
	if cfg.Stream.Transport != "websocket" {
		t.Errorf("Stream.Transport = %q, want websocket", cfg.Stream.Transport)
	}
	if cfg.Database.Postgres.Host != "localhost" {
		t.Errorf("Database.Postgres.Host = %q, want localhost", cfg.Database.Postgres.Host)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_STREAM_TOKEN", "secret123")

	yaml := `
api:
  token: ${TEST_STREAM_TOKEN}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.Token != "secret123" {
		t.Errorf("API.Token = %q, want %q", cfg.API.Token, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
api:
  token: tok-abc
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("API.BaseURL = %q, want default %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.Stream.Transport != DefaultTransport {
		t.Errorf("Stream.Transport = %q, want default %q", cfg.Stream.Transport, DefaultTransport)
	}
	if cfg.Stream.ReconnectBaseDelay != DefaultReconnectBaseDelay {
		t.Errorf("Stream.ReconnectBaseDelay = %v, want default %v", cfg.Stream.ReconnectBaseDelay, DefaultReconnectBaseDelay)
	}
	if cfg.Stream.ReconnectMaxDelay != DefaultReconnectMaxDelay {
		t.Errorf("Stream.ReconnectMaxDelay = %v, want default %v", cfg.Stream.ReconnectMaxDelay, DefaultReconnectMaxDelay)
	}
	if cfg.Stream.LogCapacity != DefaultLogCapacity {
		t.Errorf("Stream.LogCapacity = %d, want default %d", cfg.Stream.LogCapacity, DefaultLogCapacity)
	}
	if cfg.Database.Postgres.Port != DefaultDBPort {
		t.Errorf("Database.Postgres.Port = %d, want default %d", cfg.Database.Postgres.Port, DefaultDBPort)
	}
	if cfg.Archive.BatchSize != DefaultBatchSize {
		t.Errorf("Archive.BatchSize = %d, want default %d", cfg.Archive.BatchSize, DefaultBatchSize)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Config{API: APIConfig{Token: "tok"}}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing token",
			mutate:  func(c *Config) { c.API.Token = "" },
			wantErr: "api.token is required",
		},
		{
			name:    "bad transport",
			mutate:  func(c *Config) { c.Stream.Transport = "carrier-pigeon" },
			wantErr: `stream.transport must be sse or websocket, got "carrier-pigeon"`,
		},
		{
			name: "stale timeout below handshake",
			mutate: func(c *Config) {
				c.Stream.HandshakeTimeout = time.Minute
				c.Stream.StaleTimeout = time.Second
			},
			wantErr: "stream.stale_timeout must exceed stream.handshake_timeout",
		},
		{
			name: "base delay above max",
			mutate: func(c *Config) {
				c.Stream.ReconnectBaseDelay = time.Minute
				c.Stream.ReconnectMaxDelay = time.Second
			},
			wantErr: "stream.reconnect_base_delay cannot exceed reconnect_max_delay",
		},
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestValidateDatabase(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{
			Postgres: DBConfig{Host: "localhost", Name: "db", User: "user", MaxConns: 5, MinConns: 10},
		},
	}
	if err := cfg.ValidateDatabase(); err == nil {
		t.Error("ValidateDatabase() = nil, want missing password error")
	}

	cfg.Database.Postgres.Password = "pass"
	err := cfg.ValidateDatabase()
	if err == nil || err.Error() != "database.postgres.min_conns (10) cannot exceed max_conns (5)" {
		t.Errorf("ValidateDatabase() error = %v, want min/max conns error", err)
	}

	cfg.Database.Postgres.MinConns = 2
	if err := cfg.ValidateDatabase(); err != nil {
		t.Errorf("ValidateDatabase() unexpected error: %v", err)
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
