package cli

import (
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/output"
)

var similarCmd = &cobra.Command{
	Use:   "similar <user>",
	Short: "Show users with similar behavior",
	Long: `List the users whose behavior is most similar to the given user, by
cosine similarity over their interaction scores.

With --items, list the jobs those users liked that the given user has not
seen yet, with their predicted collaborative scores.

Examples:
  jobmatch similar u1
  jobmatch similar u1 --items -n 5`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

var (
	similarItems bool
	similarLimit int
)

func init() {
	rootCmd.AddCommand(similarCmd)
	similarCmd.Flags().BoolVar(&similarItems, "items", false, "Show collaborative item picks instead of users")
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 0, "Maximum results")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if similarItems {
		picks, err := a.engine.CollaborativePicks(ctx, args[0], similarLimit)
		if err != nil {
			return err
		}
		return output.Output(outputFmt, picks)
	}

	neighbors, err := a.engine.Similar(ctx, args[0], similarLimit)
	if err != nil {
		return err
	}
	return output.Output(outputFmt, neighbors)
}
