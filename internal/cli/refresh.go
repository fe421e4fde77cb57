package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/engine"
	"github.com/vijay-prabhu/jobmatch/internal/output"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reload behavior histories and rebuild the neighbor index",
	Long: `Load every known user's recent behavior history into the collaborative
filter and, when collaborative.use_index is set, rebuild the inverted index
used for neighbor search.

Use --prune to also trim the audit log to scheduler.prune_keep events per user.`,
	RunE: runRefresh,
}

var refreshPrune bool

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.Flags().BoolVar(&refreshPrune, "prune", false, "Also prune the audit log")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// Keep stdout clean for JSON output
	terminal := output.NewTerminal(os.Stdout)
	if outputFmt == output.FormatJSON {
		terminal = output.NewPlainTerminal(os.Stderr)
	}
	var lastPhase engine.ProgressPhase

	progress := func(p engine.Progress) {
		var msg string
		switch p.Phase {
		case engine.PhaseListing:
			msg = "Listing users..."
		case engine.PhaseLoading:
			msg = fmt.Sprintf("Loading histories: %d/%d users (%d%%)", p.Current, p.Total, p.Percentage())
		case engine.PhaseIndexing:
			msg = fmt.Sprintf("Building neighbor index: %d users", p.Total)
		}

		// For non-terminals, print on phase change or every 10 users
		shouldPrint := terminal.IsTerminal || p.Phase != lastPhase ||
			p.Current%10 == 0 || p.Current == p.Total
		if shouldPrint {
			terminal.Status(output.PhaseColor(string(p.Phase)), msg)
		}
		lastPhase = p.Phase
	}

	result, err := a.engine.Refresh(ctx, progress)
	terminal.Done()
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	if err := output.Output(outputFmt, result); err != nil {
		return err
	}

	if refreshPrune {
		deleted, err := a.engine.Prune(ctx)
		if err != nil {
			return fmt.Errorf("prune failed: %w", err)
		}
		if outputFmt != output.FormatJSON {
			fmt.Printf("Pruned %d audit events\n", deleted)
		}
	}

	return nil
}
