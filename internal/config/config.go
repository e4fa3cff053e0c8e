package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Sync   SyncConfig   `yaml:"sync"`
	Remote RemoteConfig `yaml:"remote"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StoreConfig holds settings of the local SQLite store.
type StoreConfig struct {
	Path        string        `yaml:"path"         env:"STORE_PATH"         env-default:"data/word_storage.db"`
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"STORE_BUSY_TIMEOUT" env-default:"5s"`
}

// SyncConfig holds sync coordinator settings. With ManualStart the background
// loop is not started at boot and waits for an explicit start request.
type SyncConfig struct {
	IntervalSeconds int           `yaml:"interval_seconds" env:"SYNC_INTERVAL_SECONDS" env-default:"60"`
	ManualStart     bool          `yaml:"manual_start"     env:"SYNC_MANUAL_START"`
	ProbeTimeout    time.Duration `yaml:"probe_timeout"    env:"SYNC_PROBE_TIMEOUT"    env-default:"5s"`
	DeliveryTimeout time.Duration `yaml:"delivery_timeout" env:"SYNC_DELIVERY_TIMEOUT" env-default:"10s"`
	StopTimeout     time.Duration `yaml:"stop_timeout"     env:"SYNC_STOP_TIMEOUT"     env-default:"10s"`
}

// Interval returns the wake cadence of the background loop.
func (c SyncConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// RemoteConfig holds the remote ledger (PostgreSQL) connection settings.
type RemoteConfig struct {
	DSN             string        `yaml:"dsn"                env:"REMOTE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"REMOTE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"REMOTE_MIN_CONNS"          env-default:"0"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"REMOTE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"REMOTE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"REMOTE_MIGRATE_ON_START"   env-default:"false"`
}

// LogConfig holds logging settings. File enables a rotated log file next to
// stderr output.
type LogConfig struct {
	Level      string `yaml:"level"        env:"LOG_LEVEL"        env-default:"info"`
	Format     string `yaml:"format"       env:"LOG_FORMAT"       env-default:"json"`
	File       string `yaml:"file"         env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb"  env:"LOG_MAX_SIZE_MB"  env-default:"100"`
	MaxBackups int    `yaml:"max_backups"  env:"LOG_MAX_BACKUPS"  env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"28"`
}
