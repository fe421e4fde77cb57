package cli

import (
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/output"
)

var teamCmd = &cobra.Command{
	Use:   "team <user>",
	Short: "Match team recruitment posts to a user",
	Long: `Rank team postings by the user's priority list, matching role, skills,
culture and personality.

Examples:
  jobmatch team u1
  jobmatch team u1 -n 5 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runTeam,
}

var teamLimit int

func init() {
	rootCmd.AddCommand(teamCmd)
	teamCmd.Flags().IntVarP(&teamLimit, "limit", "n", 0, "Maximum results (default: hybrid.limit)")
}

func runTeam(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	matches, err := a.engine.TeamMatches(ctx, args[0], teamLimit)
	if err != nil {
		return err
	}

	return output.Output(outputFmt, matches)
}
