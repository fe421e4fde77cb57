package priority

import (
	"strings"

	"github.com/vijay-prabhu/jobmatch/internal/feature"
	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// MaxScore caps a priority-weighted score
const MaxScore = 100.0

// Fractions of the desiredJob weight awarded per match tier
const (
	titleExact   = 1.0
	titlePartial = 0.7
	titleKeyword = 0.4
)

// matcher returns the fraction of a criterion's weight an item earns
type matcher func(item *model.Item, p *model.Profile) float64

var matchers = map[string]matcher{
	FieldDesiredJob: matchDesiredJob,
	FieldSkills:     matchSkills,
	FieldIndustry:   matchIndustry,
	FieldLocation:   matchLocation,
	FieldWorkType:   matchWorkType,
	FieldSalary:     matchSalary,
	FieldCareer:     matchCareer,
}

// Result is a priority-weighted score with per-field points
type Result struct {
	Total     float64            `json:"total"`
	Breakdown map[string]float64 `json:"breakdown"`
	Reasons   []string           `json:"reasons,omitempty"`
}

// Score sums the weight of every enabled priority the item satisfies.
// With no enabled priorities the default scheme applies. The total is
// capped at 100 since drifted weights may exceed it.
func Score(item *model.Item, p *model.Profile, priorities []model.PriorityItem) Result {
	active := make([]model.PriorityItem, 0, len(priorities))
	for _, it := range priorities {
		if it.Enabled {
			active = append(active, it)
		}
	}
	if len(active) == 0 {
		active = DefaultScheme()
	}

	r := Result{Breakdown: make(map[string]float64, len(active))}
	for _, it := range active {
		m := matchers[it.Field]
		if m == nil || it.Weight <= 0 {
			continue
		}
		pts := m(item, p) * float64(it.Weight)
		if pts <= 0 {
			continue
		}
		r.Breakdown[it.Field] = pts
		r.Total += pts

		label := it.Label
		if label == "" {
			label = Label(it.Field)
		}
		r.Reasons = append(r.Reasons, feature.Reason(label, pts))
	}

	if r.Total > MaxScore {
		r.Total = MaxScore
	}
	return r
}

// ScoreResult converts the result into the shared result record
func (r Result) ScoreResult(itemID string) model.ScoreResult {
	breakdown := make(map[model.Dimension]float64, len(r.Breakdown))
	for f, v := range r.Breakdown {
		breakdown[model.Dimension(f)] = v
	}
	return model.ScoreResult{
		ItemID:       itemID,
		ContentScore: r.Total,
		FinalScore:   r.Total,
		Breakdown:    breakdown,
		Reasons:      r.Reasons,
	}
}

// titleMatch grades how well desired job text matches an item:
// exact title, substring of title or description, or a shared keyword.
func titleMatch(desired string, item *model.Item) float64 {
	want := strings.ToLower(strings.TrimSpace(desired))
	title := strings.ToLower(strings.TrimSpace(item.Title))
	desc := strings.ToLower(item.Description)
	if want == "" {
		return 0
	}

	switch {
	case want == title:
		return titleExact
	case strings.Contains(title, want) || strings.Contains(desc, want):
		return titlePartial
	}

	for _, w := range strings.Fields(want) {
		if strings.Contains(title, w) || strings.Contains(desc, w) {
			return titleKeyword
		}
	}
	return 0
}

func matchDesiredJob(item *model.Item, p *model.Profile) float64 {
	return titleMatch(p.DesiredJob, item)
}

func matchSkills(item *model.Item, p *model.Profile) float64 {
	itemSkills := item.Skills()
	if len(itemSkills) == 0 {
		return 1
	}
	for _, s := range p.Skills {
		for _, is := range itemSkills {
			if feature.ContainsEither(s.Name, is) {
				return 1
			}
		}
	}
	return 0
}

func matchIndustry(item *model.Item, p *model.Profile) float64 {
	for _, ind := range p.Industries {
		if feature.ContainsEither(ind, item.Industry) {
			return 1
		}
	}
	return 0
}

func matchLocation(item *model.Item, p *model.Profile) float64 {
	for _, loc := range p.Locations {
		if feature.ContainsEither(loc, item.Location) {
			return 1
		}
	}
	return 0
}

func matchWorkType(item *model.Item, p *model.Profile) float64 {
	if feature.WorkType(item, p, 1).Score > 0 {
		return 1
	}
	return 0
}

func matchSalary(item *model.Item, p *model.Profile) float64 {
	if feature.Salary(item, p, 1).Score >= 1 {
		return 1
	}
	return 0
}

func matchCareer(item *model.Item, p *model.Profile) float64 {
	tier := feature.ClassifyExperience(item.Experience)
	if p.CareerType == model.CareerNewcomer {
		if tier == feature.TierAny || tier == feature.TierNewGrad {
			return 1
		}
		return 0
	}
	if tier.Fits(p.Years()) {
		return 1
	}
	return 0
}
