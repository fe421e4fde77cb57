package cli

import (
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/engine"
	"github.com/vijay-prabhu/jobmatch/internal/output"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <user>",
	Short: "Recommend jobs for a user",
	Long: `Rank catalog jobs for a user, best first.

By default only the content score is used. --collab blends in the
collaborative score from similar users, --diverse caps the number of
results per source, and --feed ranks by the user's priority list instead.

Examples:
  jobmatch recommend u1
  jobmatch recommend u1 --collab --diverse
  jobmatch recommend u1 --feed -n 20`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

var recommendOpts engine.RecommendOptions

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().BoolVar(&recommendOpts.Collaborative, "collab", false, "Blend in the collaborative score")
	recommendCmd.Flags().BoolVar(&recommendOpts.Diverse, "diverse", false, "Limit results per source")
	recommendCmd.Flags().BoolVar(&recommendOpts.Feed, "feed", false, "Rank by the user's priority list")
	recommendCmd.Flags().IntVarP(&recommendOpts.Limit, "limit", "n", 0, "Maximum results (default: hybrid.limit)")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	recs, err := a.engine.Recommend(ctx, args[0], recommendOpts)
	if err != nil {
		return err
	}

	return output.Output(outputFmt, recs)
}
