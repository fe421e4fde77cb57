package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the refresh and prune jobs on their cron schedules",
	Long: `Run the background scheduler in the foreground until interrupted.

The refresh job reloads behavior histories on scheduler.refresh_spec and the
prune job trims the audit log on scheduler.prune_spec. Both accept standard
cron expressions and descriptors such as "@every 1h" or "@daily".

Examples:
  jobmatch schedule          # Run until Ctrl-C
  jobmatch schedule --once   # Run both jobs once and exit`,
	RunE: runSchedule,
}

var scheduleOnce bool

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().BoolVar(&scheduleOnce, "once", false, "Run each job once and exit")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s := scheduler.New(a.engine,
		a.cfg.Scheduler.RefreshSpec,
		a.cfg.Scheduler.PruneSpec,
		a.logger)

	if scheduleOnce {
		return s.RunOnce(ctx)
	}

	return s.Run(ctx)
}
