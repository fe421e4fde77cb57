package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "jobmatch")
	dataDir := filepath.Join(home, ".local", "share", "jobmatch")

	// Create directories
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	configFile := filepath.Join(configDir, "config.toml")

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("Config file already exists at %s\n", configFile)
		fmt.Println("Use 'jobmatch config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configFile, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Import jobs, teams and profiles: jobmatch import catalog.yaml")
	fmt.Println("  2. Track interactions:              jobmatch track <user> <item> view")
	fmt.Println("  3. Get recommendations:             jobmatch recommend <user> --collab")
	fmt.Println()
	fmt.Println("To share behavior logs between processes, set store.backend = \"redis\".")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found. Run 'jobmatch config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", configPath)
	fmt.Println(string(data))
	return nil
}

const defaultConfig = `# jobmatch configuration

[database]
# Behavior audit log and, with the sqlite backend, the key-value store
path = "~/.local/share/jobmatch/jobmatch.db"

[catalog]
# Jobs, team postings and user profiles
path = "~/.local/share/jobmatch/catalog.db"

[store]
backend = "sqlite"  # sqlite, redis or memory

[redis]
url = "redis://localhost:6379/0"
prefix = "jobmatch:"
ttl_days = 30  # 0 keeps keys forever

[scoring]
profile = "hybrid"  # hybrid or feed

# Uncomment to override the profile. Weights must sum to 100.
# [scoring.weights]
# industry = 30.0
# skills = 25.0
# location = 15.0
# salary = 10.0
# experience = 10.0
# work_type = 10.0

[collaborative]
neighbors = 5
history_limit = 100  # most recent events kept per user
use_index = false    # build an inverted index for neighbor search

[hybrid]
content_weight = 0.6
collaborative_weight = 0.4
min_score = 20.0
max_per_source = 3
limit = 10

[priority]
policy = "drift"  # drift or rescale

[scheduler]
refresh_spec = "@every 1h"
prune_spec = "@daily"
prune_keep = 1000  # audit events kept per user

[logging]
level = "info"   # debug, info, warn or error
format = "text"  # text or json

[mcp]
enabled = true
transport = "stdio"
`
