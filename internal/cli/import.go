package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/catalog"
	"github.com/vijay-prabhu/jobmatch/internal/output"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import jobs, team postings and profiles",
	Long: `Import items and user profiles from a JSON or YAML fixture file.

Existing items and profiles with the same id are updated in place.

Examples:
  jobmatch import catalog.yaml
  jobmatch import profiles.json --prefs  # also store profiles as preference overrides`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importPrefs bool

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importPrefs, "prefs", false, "Also save each profile as the user's preference override")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fx, err := catalog.LoadFixtures(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.catalog.Import(ctx, fx)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}

	if importPrefs {
		for i := range fx.Profiles {
			if err := a.engine.SaveProfile(ctx, &fx.Profiles[i]); err != nil {
				return fmt.Errorf("failed to save preferences for %s: %w", fx.Profiles[i].UserID, err)
			}
		}
	}

	a.logger.Info("import complete",
		"file", args[0],
		"items", len(fx.Items),
		"profiles", len(fx.Profiles))

	return output.Output(outputFmt, result)
}
