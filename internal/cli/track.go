package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/model"
	"github.com/vijay-prabhu/jobmatch/internal/output"
)

var trackCmd = &cobra.Command{
	Use:   "track <user> <item> <action>",
	Short: "Record a user interaction with an item",
	Long: `Record a view, save, apply or reject event.

Events feed the collaborative filter: view +1, save +2, apply +3, reject -2.
Only the most recent collaborative.history_limit events are kept per user.

Examples:
  jobmatch track u1 j3 apply
  jobmatch track u1 j2 reject --at 2026-01-02T15:04:05Z`,
	Args: cobra.ExactArgs(3),
	RunE: runTrack,
}

var historyCmd = &cobra.Command{
	Use:   "history <user>",
	Short: "Show a user's behavior log",
	Long: `Show the bounded behavior history the collaborative filter uses, oldest
first. With --audit, read the full audit log instead, newest first.

Examples:
  jobmatch history u1
  jobmatch history u1 --audit --since=7d`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

var (
	trackAt      string
	historyAudit bool
	historySince string
	historyLimit int
)

func init() {
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(historyCmd)
	trackCmd.Flags().StringVar(&trackAt, "at", "", "Event time in RFC 3339 (default: now)")
	historyCmd.Flags().BoolVar(&historyAudit, "audit", false, "Read the audit log")
	historyCmd.Flags().StringVar(&historySince, "since", "", "Audit time period (e.g., 7d, 2w, 1m)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum audit records")
}

func runTrack(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	action, err := model.ParseAction(args[2])
	if err != nil {
		return err
	}

	var at time.Time
	if trackAt != "" {
		at, err = time.Parse(time.RFC3339, trackAt)
		if err != nil {
			return fmt.Errorf("invalid --at time: %w", err)
		}
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ev, err := a.engine.Track(ctx, args[0], args[1], action, at)
	if err != nil {
		return err
	}

	return output.Output(outputFmt, ev)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var events []model.BehaviorEvent
	if historyAudit {
		since, err := sinceFlag(historySince)
		if err != nil {
			return err
		}
		events, err = a.engine.AuditLog(ctx, args[0], since, historyLimit)
		if err != nil {
			return err
		}
	} else {
		events, err = a.engine.History(ctx, args[0])
		if err != nil {
			return err
		}
	}

	return output.Output(outputFmt, events)
}
