package config

import "time"

// Config is the root configuration for a stream client instance.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Stream   StreamConfig   `yaml:"stream"`
	Database DatabaseConfig `yaml:"database"`
	Archive  ArchiveConfig  `yaml:"archive"`
}

// APIConfig holds REST API settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Token      string        `yaml:"token"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// StreamConfig holds event stream connection settings.
type StreamConfig struct {
	URL       string `yaml:"url"`
	Transport string `yaml:"transport"` // "sse" or "websocket"

	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	StaleTimeout     time.Duration `yaml:"stale_timeout"`
	BufferSize       int           `yaml:"buffer_size"`

	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`

	LogCapacity int `yaml:"log_capacity"`
}

// DatabaseConfig holds the Postgres connection for the event archive.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ArchiveConfig holds batch archive writer settings.
type ArchiveConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`

	// EventTypes limits which event types get archived. Empty means all.
	EventTypes []string `yaml:"event_types"`
}
