package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/jobmatch/internal/catalog"
	"github.com/vijay-prabhu/jobmatch/internal/collab"
	"github.com/vijay-prabhu/jobmatch/internal/engine"
	"github.com/vijay-prabhu/jobmatch/internal/model"
	"github.com/vijay-prabhu/jobmatch/internal/priority"
)

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []model.Recommendation:
		return recommendationsTable(w, v)
	case *model.ScoreResult:
		return scoreDetail(w, v)
	case []model.Item:
		return itemsTable(w, v)
	case []model.Profile:
		return profilesTable(w, v)
	case []model.BehaviorEvent:
		return historyTable(w, v)
	case []collab.Neighbor:
		return neighborsTable(w, v)
	case []collab.ItemScore:
		return itemScoresTable(w, v)
	case *priority.List:
		return prioritiesTable(w, v)
	case *engine.Stats:
		return statsTable(w, v)
	case *engine.RefreshResult:
		return refreshDetail(w, v)
	case *catalog.ImportResult:
		return importDetail(w, v)
	case model.BehaviorEvent:
		return eventDetail(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func recommendationsTable(w io.Writer, recs []model.Recommendation) error {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No recommendations above the minimum score.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "ID", "Title", "Source", "Content", "Collab", "Final")
	for i, r := range recs {
		if err := table.Append([]string{
			fmt.Sprint(i + 1),
			r.Item.ID,
			truncate(r.Item.Title, 30),
			r.Item.Source(),
			formatScore(r.Result.ContentScore),
			formatScore(r.Result.CollaborativeScore),
			formatScore(r.Result.FinalScore),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func scoreDetail(w io.Writer, r *model.ScoreResult) error {
	fmt.Fprintf(w, "Item:          %s\n", r.ItemID)
	fmt.Fprintf(w, "Content:       %s\n", formatScore(r.ContentScore))
	fmt.Fprintf(w, "Collaborative: %s\n", formatScore(r.CollaborativeScore))
	fmt.Fprintf(w, "Final:         %s\n", formatScore(r.FinalScore))

	if len(r.Breakdown) > 0 {
		fmt.Fprintln(w)
		table := tablewriter.NewWriter(w)
		table.Header("Dimension", "Points")
		for _, d := range SortedDimensions(r.Breakdown) {
			if err := table.Append([]string{string(d), formatScore(r.Breakdown[d])}); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if len(r.MatchedSkills) > 0 {
		fmt.Fprintf(w, "Matched skills: %s\n", strings.Join(r.MatchedSkills, ", "))
	}
	if len(r.MissingSkills) > 0 {
		fmt.Fprintf(w, "Missing skills: %s\n", strings.Join(r.MissingSkills, ", "))
	}
	if len(r.Reasons) > 0 {
		fmt.Fprintln(w, "Reasons:")
		for _, reason := range r.Reasons {
			fmt.Fprintf(w, "  - %s\n", reason)
		}
	}
	return nil
}

func itemsTable(w io.Writer, items []model.Item) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found. Run 'jobmatch import <file>' to load some.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Kind", "Title", "Location", "Industry", "Source", "Posted")
	for _, it := range items {
		posted := ""
		if !it.CreatedAt.IsZero() {
			posted = it.CreatedAt.Format("Jan 02, 2006")
		}
		if err := table.Append([]string{
			it.ID,
			string(it.Kind),
			truncate(it.Title, 30),
			truncate(it.Location, 20),
			truncate(it.Industry, 15),
			it.Source(),
			posted,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func profilesTable(w io.Writer, profiles []model.Profile) error {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No profiles found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("User", "Desired Job", "Skills", "Locations", "Career")
	for _, p := range profiles {
		skills := make([]string, len(p.Skills))
		for i, sk := range p.Skills {
			skills[i] = sk.Name
		}
		if err := table.Append([]string{
			p.UserID,
			truncate(p.DesiredJob, 20),
			truncate(strings.Join(skills, ", "), 30),
			truncate(strings.Join(p.Locations, ", "), 20),
			string(p.CareerType),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func historyTable(w io.Writer, events []model.BehaviorEvent) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "No behavior recorded.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("When", "Item", "Action", "Score")
	for _, e := range events {
		if err := table.Append([]string{
			e.Timestamp.Format("Jan 02 15:04"),
			e.ItemID,
			string(e.Action),
			formatScore(e.Score),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func eventDetail(w io.Writer, e model.BehaviorEvent) error {
	fmt.Fprintf(w, "Tracked %s on %s for %s (%+g)\n", e.Action, e.ItemID, e.UserID, e.Score)
	return nil
}

func neighborsTable(w io.Writer, neighbors []collab.Neighbor) error {
	if len(neighbors) == 0 {
		fmt.Fprintln(w, "No similar users yet.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("User", "Similarity")
	for _, n := range neighbors {
		if err := table.Append([]string{n.UserID, fmt.Sprintf("%.3f", n.Similarity)}); err != nil {
			return err
		}
	}
	return table.Render()
}

func itemScoresTable(w io.Writer, scores []collab.ItemScore) error {
	if len(scores) == 0 {
		fmt.Fprintln(w, "No collaborative picks yet.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Item", "Predicted", "Normalized")
	for _, s := range scores {
		if err := table.Append([]string{
			s.ItemID,
			fmt.Sprintf("%.2f", s.Score),
			formatScore(collab.Normalize(s.Score)),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func prioritiesTable(w io.Writer, l *priority.List) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Field", "Label", "Weight", "Enabled")
	for i, it := range l.Items() {
		enabled := "yes"
		if !it.Enabled {
			enabled = "no"
		}
		if err := table.Append([]string{
			fmt.Sprint(i + 1),
			it.Field,
			it.Label,
			fmt.Sprint(it.Weight),
			enabled,
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Active total: %d (policy: %s)\n", l.ActiveTotal(), l.Policy())
	return nil
}

func statsTable(w io.Writer, s *engine.Stats) error {
	fmt.Fprintln(w, "Catalog")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Jobs:                   %d\n", s.Catalog.Jobs)
	fmt.Fprintf(w, "Teams:                  %d\n", s.Catalog.Teams)
	fmt.Fprintf(w, "Sources:                %d\n", s.Catalog.Sources)
	fmt.Fprintf(w, "Profiles:               %d\n", s.Catalog.Profiles)

	if s.Behavior != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Behavior")
		fmt.Fprintln(w, strings.Repeat("-", 30))
		fmt.Fprintf(w, "Events:                 %d\n", s.Behavior.TotalEvents)
		fmt.Fprintf(w, "Users:                  %d\n", s.Behavior.Users)
		fmt.Fprintf(w, "Items:                  %d\n", s.Behavior.Items)
		for _, a := range []model.Action{model.ActionView, model.ActionSave, model.ActionApply, model.ActionReject} {
			fmt.Fprintf(w, "  %-21s %d\n", string(a)+":", s.Behavior.ByAction[a])
		}
		if s.Behavior.LastAt != nil {
			fmt.Fprintf(w, "Last event:             %s\n", s.Behavior.LastAt.Format("Jan 02, 2006 15:04"))
		}
	}

	if s.Refresh != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Neighbor index")
		fmt.Fprintln(w, strings.Repeat("-", 30))
		last := "never"
		if s.Refresh.LastRefreshAt != nil {
			last = s.Refresh.LastRefreshAt.Format("Jan 02, 2006 15:04")
		}
		fmt.Fprintf(w, "Last refresh:           %s\n", last)
		fmt.Fprintf(w, "Users loaded:           %d\n", s.Refresh.UsersIndexed)
		fmt.Fprintf(w, "Users indexed:          %d\n", s.Indexed)
		if s.IndexAt != nil {
			fmt.Fprintf(w, "Index built:            %s\n", s.IndexAt.Format("Jan 02, 2006 15:04"))
		}
		fmt.Fprintf(w, "Events pruned:          %d\n", s.Refresh.EventsPruned)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Content weights")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	for _, d := range SortedDimensions(s.Weights) {
		fmt.Fprintf(w, "  %-21s %s\n", string(d)+":", formatScore(s.Weights[d]))
	}
	return nil
}

func refreshDetail(w io.Writer, r *engine.RefreshResult) error {
	fmt.Fprintln(w, "Refresh complete:")
	fmt.Fprintf(w, "  Users loaded:   %d\n", r.Users)
	fmt.Fprintf(w, "  Events loaded:  %d\n", r.Events)
	fmt.Fprintf(w, "  Users indexed:  %d\n", r.Indexed)
	fmt.Fprintf(w, "  Duration:       %s\n", r.Duration.Round(time.Millisecond))
	return nil
}

func importDetail(w io.Writer, r *catalog.ImportResult) error {
	fmt.Fprintln(w, "Import complete:")
	fmt.Fprintf(w, "  Items created:     %d\n", r.Items.Created)
	fmt.Fprintf(w, "  Items updated:     %d\n", r.Items.Updated)
	fmt.Fprintf(w, "  Profiles created:  %d\n", r.Profiles.Created)
	fmt.Fprintf(w, "  Profiles updated:  %d\n", r.Profiles.Updated)
	return nil
}

// SortedDimensions returns the map keys in name order
func SortedDimensions(m map[model.Dimension]float64) []model.Dimension {
	dims := make([]model.Dimension, 0, len(m))
	for d := range m {
		dims = append(dims, d)
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })
	return dims
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// truncate shortens s to max runes
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
