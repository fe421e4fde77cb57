package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/output"
	"github.com/vijay-prabhu/jobmatch/internal/priority"
)

var priorityCmd = &cobra.Command{
	Use:   "priority",
	Short: "Manage a user's priority list",
	Long: `Show and edit the ordered list of criteria that drives the home feed and
team matching.

Fields: desiredJob, skills, industry, location, workType, salary, career.
Reordering, adding, removing and toggling recalculate weights so that higher
items count more. Manual weight edits follow priority.policy.

Examples:
  jobmatch priority show u1
  jobmatch priority move u1 salary 1
  jobmatch priority toggle u1 career
  jobmatch priority set u1 skills 40`,
}

var priorityShowCmd = &cobra.Command{
	Use:   "show <user>",
	Short: "Show the priority list",
	Args:  cobra.ExactArgs(1),
	RunE:  runPriorityShow,
}

var priorityAddCmd = &cobra.Command{
	Use:   "add <user> <field> [label]",
	Short: "Add a criterion at the bottom",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := ""
		if len(args) == 3 {
			label = args[2]
		}
		return updatePriorities(cmd, args[0], func(l *priority.List) error {
			return l.Add(args[1], label)
		})
	},
}

var priorityRemoveCmd = &cobra.Command{
	Use:   "remove <user> <field>",
	Short: "Remove a criterion",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updatePriorities(cmd, args[0], func(l *priority.List) error {
			return l.Remove(args[1])
		})
	},
}

var priorityMoveCmd = &cobra.Command{
	Use:   "move <user> <field> <position>",
	Short: "Move a criterion to a position (1 is the top)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := strconv.Atoi(args[2])
		if err != nil || pos < 1 {
			return fmt.Errorf("invalid position: %s", args[2])
		}
		return updatePriorities(cmd, args[0], func(l *priority.List) error {
			return l.Move(args[1], pos-1)
		})
	},
}

var priorityToggleCmd = &cobra.Command{
	Use:   "toggle <user> <field>",
	Short: "Enable or disable a criterion",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updatePriorities(cmd, args[0], func(l *priority.List) error {
			for _, it := range l.Items() {
				if it.Field == args[1] {
					return l.SetEnabled(it.Field, !it.Enabled)
				}
			}
			return fmt.Errorf("priority %s not found", args[1])
		})
	},
}

var prioritySetCmd = &cobra.Command{
	Use:   "set <user> <field> <weight>",
	Short: "Set a criterion's weight manually",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[2])
		}
		return updatePriorities(cmd, args[0], func(l *priority.List) error {
			return l.SetWeight(args[1], weight)
		})
	},
}

var priorityResetCmd = &cobra.Command{
	Use:   "reset <user>",
	Short: "Restore the default priority list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		l, err := a.engine.ResetPriorities(ctx, args[0])
		if err != nil {
			return err
		}
		return output.Output(outputFmt, l)
	},
}

func init() {
	rootCmd.AddCommand(priorityCmd)
	priorityCmd.AddCommand(priorityShowCmd)
	priorityCmd.AddCommand(priorityAddCmd)
	priorityCmd.AddCommand(priorityRemoveCmd)
	priorityCmd.AddCommand(priorityMoveCmd)
	priorityCmd.AddCommand(priorityToggleCmd)
	priorityCmd.AddCommand(prioritySetCmd)
	priorityCmd.AddCommand(priorityResetCmd)
}

func runPriorityShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := a.engine.Priorities(ctx, args[0])
	if err != nil {
		return err
	}
	return output.Output(outputFmt, l)
}

// updatePriorities applies one edit to the user's stored list and prints the result
func updatePriorities(cmd *cobra.Command, userID string, fn func(*priority.List) error) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := a.engine.UpdatePriorities(ctx, userID, fn)
	if err != nil {
		return err
	}
	return output.Output(outputFmt, l)
}
