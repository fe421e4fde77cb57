package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog and behavior statistics",
	Long: `Display catalog counts, behavior audit totals, the last refresh and the
content weights in use.

Examples:
  jobmatch stats             # Overall stats
  jobmatch stats --since=7d  # Behavior stats for the last 7 days`,
	RunE: runStats,
}

var statsSince string

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsSince, "since", "", "Time period (e.g., 7d, 2w, 1m)")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	since, err := sinceFlag(statsSince)
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.engine.Stats(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	return output.Output(outputFmt, stats)
}

// sinceFlag turns a --since value into a cutoff time; empty means no cutoff
func sinceFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %w", err)
	}
	since := time.Now().Add(-d)
	return &since, nil
}

// parseDuration parses a human-readable duration like "7d", "2w", "1m"
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration format")
	}

	unit := s[len(s)-1]
	valueStr := s[:len(s)-1]

	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return 0, fmt.Errorf("invalid duration value")
	}

	switch unit {
	case 'h':
		return time.Duration(value) * time.Hour, nil
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(value) * 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %c (use h, d, w, or m)", unit)
	}
}
