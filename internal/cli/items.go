package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/catalog"
	"github.com/vijay-prabhu/jobmatch/internal/model"
	"github.com/vijay-prabhu/jobmatch/internal/output"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List catalog items",
	Long: `List job postings and team recruitment posts in the catalog.

Examples:
  jobmatch items                  # All items
  jobmatch items --kind=team      # Team postings only
  jobmatch items --source=acme    # Items from one source`,
	RunE: runItems,
}

var (
	itemsKind   string
	itemsSource string
	itemsLimit  int
	itemsOffset int
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List user profiles in the catalog",
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(profilesCmd)
	itemsCmd.Flags().StringVar(&itemsKind, "kind", "", "Filter by kind (job, team)")
	itemsCmd.Flags().StringVar(&itemsSource, "source", "", "Filter by source id")
	itemsCmd.Flags().IntVarP(&itemsLimit, "limit", "n", 50, "Maximum results")
	itemsCmd.Flags().IntVar(&itemsOffset, "offset", 0, "Skip the first N results")
}

func runItems(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts := catalog.ListOptions{
		SourceID: itemsSource,
		Limit:    itemsLimit,
		Offset:   itemsOffset,
	}
	switch model.Kind(itemsKind) {
	case "":
	case model.KindJob, model.KindTeam:
		opts.Kind = model.Kind(itemsKind)
	default:
		return fmt.Errorf("invalid kind: %s (use job or team)", itemsKind)
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := a.catalog.ListItems(ctx, opts)
	if err != nil {
		return err
	}

	return output.Output(outputFmt, items)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	profiles, err := a.catalog.ListProfiles(ctx)
	if err != nil {
		return err
	}

	return output.Output(outputFmt, profiles)
}
