package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Store.BusyTimeout < 0 {
		return fmt.Errorf("store.busy_timeout must be >= 0 (got %s)", c.Store.BusyTimeout)
	}

	if err := c.Sync.validate(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if strings.TrimSpace(c.Remote.DSN) == "" {
		return fmt.Errorf("remote.dsn is required")
	}
	if c.Remote.MaxConns <= 0 {
		return fmt.Errorf("remote.max_conns must be > 0 (got %d)", c.Remote.MaxConns)
	}
	if c.Remote.MinConns < 0 || c.Remote.MinConns > c.Remote.MaxConns {
		return fmt.Errorf("remote.min_conns must be in 0..max_conns (got %d)", c.Remote.MinConns)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	return nil
}

func (s *SyncConfig) validate() error {
	if s.IntervalSeconds < 1 {
		return fmt.Errorf("interval_seconds must be >= 1 (got %d)", s.IntervalSeconds)
	}
	if s.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout must be > 0 (got %s)", s.ProbeTimeout)
	}
	if s.DeliveryTimeout <= 0 {
		return fmt.Errorf("delivery_timeout must be > 0 (got %s)", s.DeliveryTimeout)
	}
	if s.StopTimeout <= 0 {
		return fmt.Errorf("stop_timeout must be > 0 (got %s)", s.StopTimeout)
	}
	if s.ProbeTimeout >= s.Interval() {
		return fmt.Errorf("probe_timeout (%s) must be shorter than the interval (%s)", s.ProbeTimeout, s.Interval())
	}
	return nil
}
