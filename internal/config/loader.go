package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/vijay-prabhu/jobmatch/internal/content"
	"github.com/vijay-prabhu/jobmatch/internal/model"
	"github.com/vijay-prabhu/jobmatch/internal/priority"
)

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'jobmatch config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// LoadOrDefault loads the config file, falling back to defaults when it is missing
func LoadOrDefault(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}
	if _, err := os.Stat(expandedPath); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.expandPaths(); err != nil {
			return nil, fmt.Errorf("failed to expand paths: %w", err)
		}
		return cfg, nil
	}
	return Load(expandedPath)
}

// Parse decodes TOML onto the defaults, expands paths and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	c.Catalog.Path, err = expandPath(c.Catalog.Path)
	if err != nil {
		return err
	}

	return nil
}

// ContentWeights returns the weight table for content scoring: the explicit
// override when one is configured, otherwise the named profile
func (c *Config) ContentWeights() (content.Weights, error) {
	if len(c.Scoring.Weights) == 0 {
		return content.WeightsFor(c.Scoring.Profile)
	}
	w := make(content.Weights, len(c.Scoring.Weights))
	for d, v := range c.Scoring.Weights {
		w[model.Dimension(d)] = v
	}
	return w, nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Storage validation
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Catalog.Path == "" {
		errs = append(errs, errors.New("catalog.path is required"))
	}
	validBackends := map[string]bool{"sqlite": true, "redis": true, "memory": true}
	if !validBackends[c.Store.Backend] {
		errs = append(errs, fmt.Errorf("store.backend must be 'sqlite', 'redis' or 'memory', got '%s'", c.Store.Backend))
	}
	if c.Store.Backend == "redis" && c.Redis.URL == "" {
		errs = append(errs, errors.New("redis.url is required when store.backend is 'redis'"))
	}
	if c.Redis.TTLDays < 0 {
		errs = append(errs, errors.New("redis.ttl_days must not be negative"))
	}

	// Scoring validation
	w, err := c.ContentWeights()
	if err != nil {
		errs = append(errs, fmt.Errorf("scoring.profile: %w", err))
	} else if err := w.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("scoring.weights: %w", err))
	}

	// Collaborative validation
	if c.Collaborative.Neighbors < 1 {
		errs = append(errs, errors.New("collaborative.neighbors must be at least 1"))
	}
	if c.Collaborative.HistoryLimit < 1 || c.Collaborative.HistoryLimit > 100 {
		errs = append(errs, errors.New("collaborative.history_limit must be between 1 and 100"))
	}

	// Hybrid validation
	if c.Hybrid.ContentWeight < 0 || c.Hybrid.CollaborativeWeight < 0 {
		errs = append(errs, errors.New("hybrid weights must not be negative"))
	}
	if c.Hybrid.ContentWeight+c.Hybrid.CollaborativeWeight == 0 {
		errs = append(errs, errors.New("hybrid.content_weight and hybrid.collaborative_weight must not both be 0"))
	}
	if c.Hybrid.MinScore < 0 || c.Hybrid.MinScore > 100 {
		errs = append(errs, errors.New("hybrid.min_score must be between 0 and 100"))
	}
	if c.Hybrid.MaxPerSource < 1 {
		errs = append(errs, errors.New("hybrid.max_per_source must be at least 1"))
	}
	if c.Hybrid.Limit < 1 {
		errs = append(errs, errors.New("hybrid.limit must be at least 1"))
	}

	// Priority validation
	if _, err := priority.ParsePolicy(c.Priority.Policy); err != nil {
		errs = append(errs, fmt.Errorf("priority.policy: %w", err))
	}

	// Scheduler validation
	if _, err := cron.ParseStandard(c.Scheduler.RefreshSpec); err != nil {
		errs = append(errs, fmt.Errorf("scheduler.refresh_spec: %w", err))
	}
	if _, err := cron.ParseStandard(c.Scheduler.PruneSpec); err != nil {
		errs = append(errs, fmt.Errorf("scheduler.prune_spec: %w", err))
	}
	if c.Scheduler.PruneKeep < 1 {
		errs = append(errs, errors.New("scheduler.prune_keep must be at least 1"))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Errorf("logging.level must be debug, info, warn or error, got '%s'", c.Logging.Level))
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be 'text' or 'json', got '%s'", c.Logging.Format))
	}

	// MCP validation
	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// EnsureDirectories creates the data directories for both databases
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
		filepath.Dir(c.Catalog.Path),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
