package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/output"
)

var scoreCmd = &cobra.Command{
	Use:   "score <user> <item>",
	Short: "Explain how one item scores for a user",
	Long: `Score a single item against a user's profile and show the per-dimension
breakdown, matched and missing skills, and the reasons behind the score.

Examples:
  jobmatch score u1 j1
  jobmatch score u1 j1 --collab   # blend in the collaborative score`,
	Args: cobra.ExactArgs(2),
	RunE: runScore,
}

var scoreCollab bool

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().BoolVar(&scoreCollab, "collab", false, "Blend in the collaborative score")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.engine.ScoreItem(ctx, args[0], args[1], scoreCollab)
	if err != nil {
		return err
	}

	if outputFmt != output.FormatJSON {
		terminal := output.NewTerminal(os.Stdout)
		fmt.Println(terminal.Color(output.ScoreColor(result.FinalScore),
			fmt.Sprintf("%s for %s: %.1f", args[1], args[0], result.FinalScore)))
	}

	return output.Output(outputFmt, result)
}
