package config

import "time"

// Config represents the application configuration
type Config struct {
	Database      DatabaseConfig      `toml:"database"`
	Catalog       CatalogConfig       `toml:"catalog"`
	Store         StoreConfig         `toml:"store"`
	Redis         RedisConfig         `toml:"redis"`
	Scoring       ScoringConfig       `toml:"scoring"`
	Collaborative CollaborativeConfig `toml:"collaborative"`
	Hybrid        HybridConfig        `toml:"hybrid"`
	Priority      PriorityConfig      `toml:"priority"`
	Scheduler     SchedulerConfig     `toml:"scheduler"`
	Logging       LoggingConfig       `toml:"logging"`
	MCP           MCPConfig           `toml:"mcp"`
}

// DatabaseConfig contains the SQLite key-value and audit database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// CatalogConfig contains the item and profile catalog settings
type CatalogConfig struct {
	Path string `toml:"path"`
}

// StoreConfig selects where behavior logs, preferences and priorities live
type StoreConfig struct {
	Backend string `toml:"backend"` // sqlite, redis or memory
}

// RedisConfig contains Redis settings, used when store.backend is redis
type RedisConfig struct {
	URL     string `toml:"url"`
	Prefix  string `toml:"prefix"`
	TTLDays int    `toml:"ttl_days"` // 0 keeps keys forever
}

// TTL returns the key expiry as a duration
func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLDays) * 24 * time.Hour
}

// ScoringConfig contains content scoring settings
type ScoringConfig struct {
	Profile string             `toml:"profile"` // hybrid or feed
	Weights map[string]float64 `toml:"weights"` // optional override, must sum to 100
}

// CollaborativeConfig contains collaborative filtering settings
type CollaborativeConfig struct {
	Neighbors    int  `toml:"neighbors"`
	HistoryLimit int  `toml:"history_limit"`
	UseIndex     bool `toml:"use_index"`
}

// HybridConfig contains blend and result list settings
type HybridConfig struct {
	ContentWeight       float64 `toml:"content_weight"`
	CollaborativeWeight float64 `toml:"collaborative_weight"`
	MinScore            float64 `toml:"min_score"`
	MaxPerSource        int     `toml:"max_per_source"`
	Limit               int     `toml:"limit"`
}

// PriorityConfig contains priority list settings
type PriorityConfig struct {
	Policy string `toml:"policy"` // drift or rescale
}

// SchedulerConfig contains background job settings
type SchedulerConfig struct {
	RefreshSpec string `toml:"refresh_spec"`
	PruneSpec   string `toml:"prune_spec"`
	PruneKeep   int    `toml:"prune_keep"`
}

// LoggingConfig contains diagnostic logging settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/jobmatch/jobmatch.db",
		},
		Catalog: CatalogConfig{
			Path: "~/.local/share/jobmatch/catalog.db",
		},
		Store: StoreConfig{
			Backend: "sqlite",
		},
		Redis: RedisConfig{
			URL:     "redis://localhost:6379/0",
			Prefix:  "jobmatch:",
			TTLDays: 30,
		},
		Scoring: ScoringConfig{
			Profile: "hybrid",
		},
		Collaborative: CollaborativeConfig{
			Neighbors:    5,
			HistoryLimit: 100,
			UseIndex:     false,
		},
		Hybrid: HybridConfig{
			ContentWeight:       0.6,
			CollaborativeWeight: 0.4,
			MinScore:            20,
			MaxPerSource:        3,
			Limit:               10,
		},
		Priority: PriorityConfig{
			Policy: "drift",
		},
		Scheduler: SchedulerConfig{
			RefreshSpec: "@every 1h",
			PruneSpec:   "@daily",
			PruneKeep:   1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}
