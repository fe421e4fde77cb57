package priority

import (
	"strings"

	"github.com/vijay-prabhu/jobmatch/internal/feature"
	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// Team matching factors
const (
	FactorTitle       = "title"
	FactorRequired    = "required_skills"
	FactorPreferred   = "preferred_skills"
	FactorExperience  = "experience"
	FactorWorkPlace   = "location_work_type"
	FactorCulture     = "culture_benefits"
	FactorPersonality = "personality"
)

// TeamWeights caps each team matching factor. The caps sum to 100.
var TeamWeights = map[string]float64{
	FactorTitle:       20,
	FactorRequired:    25,
	FactorPreferred:   10,
	FactorExperience:  15,
	FactorWorkPlace:   10,
	FactorCulture:     10,
	FactorPersonality: 10,
}

var teamFactors = []string{
	FactorTitle, FactorRequired, FactorPreferred, FactorExperience,
	FactorWorkPlace, FactorCulture, FactorPersonality,
}

var teamLabels = map[string]string{
	FactorTitle:       "모집 포지션",
	FactorRequired:    "필수 기술",
	FactorPreferred:   "우대 기술",
	FactorExperience:  "경력",
	FactorWorkPlace:   "지역/근무 형태",
	FactorCulture:     "문화/복지",
	FactorPersonality: "성향",
}

// ScoreTeam rates a team posting against a profile across seven capped factors
func ScoreTeam(item *model.Item, p *model.Profile) Result {
	r := Result{Breakdown: make(map[string]float64, len(teamFactors))}

	for _, f := range teamFactors {
		ceil := TeamWeights[f]
		pts := min(teamFactor(f, item, p, ceil), ceil)
		if pts <= 0 {
			continue
		}
		r.Breakdown[f] = pts
		r.Total += pts
		r.Reasons = append(r.Reasons, feature.Reason(teamLabels[f], pts))
	}

	if r.Total > MaxScore {
		r.Total = MaxScore
	}
	return r
}

func teamFactor(f string, item *model.Item, p *model.Profile, ceil float64) float64 {
	switch f {
	case FactorTitle:
		return titleMatch(p.DesiredJob, item) * ceil
	case FactorRequired:
		return coverage(item.RequiredSkills, p.SkillNames()) * ceil
	case FactorPreferred:
		return coverage(item.PreferredSkills, p.SkillNames()) * ceil
	case FactorExperience:
		return experienceCredit(item, p) * ceil
	case FactorWorkPlace:
		half := ceil / 2
		return feature.Location(item, p, half).Score + feature.WorkType(item, p, half).Score
	case FactorCulture:
		offered := append(append([]string{}, item.Culture...), item.Benefits...)
		return overlap(p.CulturePrefs, offered) * ceil
	case FactorPersonality:
		return overlap(p.Personality, item.Personality) * ceil
	}
	return 0
}

// coverage is the share of required entries matched by any of have.
// Nothing required counts as fully covered.
func coverage(required, have []string) float64 {
	if len(required) == 0 {
		return 1
	}
	hit := 0
	for _, req := range required {
		for _, h := range have {
			if feature.ContainsEither(req, h) {
				hit++
				break
			}
		}
	}
	return float64(hit) / float64(len(required))
}

// overlap is the share of wanted entries found in offered (case-insensitive).
// Either side empty gives 0.
func overlap(wanted, offered []string) float64 {
	if len(wanted) == 0 || len(offered) == 0 {
		return 0
	}
	set := make(map[string]bool, len(offered))
	for _, o := range offered {
		set[strings.ToLower(strings.TrimSpace(o))] = true
	}
	hit := 0
	for _, w := range wanted {
		if set[strings.ToLower(strings.TrimSpace(w))] {
			hit++
		}
	}
	return float64(hit) / float64(len(wanted))
}

// experienceCredit is full when the years fit the tier and half when the
// candidate is at most one year short of the tier minimum
func experienceCredit(item *model.Item, p *model.Profile) float64 {
	tier := feature.ClassifyExperience(item.Experience)
	years := p.Years()
	switch {
	case tier.Fits(years):
		return 1
	case years < tier.MinYears() && tier.MinYears()-years <= 1:
		return 0.5
	}
	return 0
}
