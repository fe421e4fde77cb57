package feature

import (
	"fmt"
	"strings"

	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// Industry awards full credit on an exact match with a preferred industry,
// otherwise the share of preferred-industry words found in the item industry.
func Industry(item *model.Item, p *model.Profile, max float64) Result {
	target := norm(item.Industry)
	if target == "" || len(p.Industries) == 0 {
		return none(max)
	}

	best := 0.0
	for _, pref := range p.Industries {
		pref = norm(pref)
		if pref == "" {
			continue
		}
		if pref == target {
			return award("업종 일치", max, max)
		}

		words := strings.Fields(pref)
		found := 0
		for _, w := range words {
			if strings.Contains(target, w) {
				found++
			}
		}
		if ratio := float64(found) / float64(len(words)); ratio > best {
			best = ratio
		}
	}

	return award("업종 부분 일치", max*best, max)
}

// Skills weighs each profile skill by proficiency and awards the matched share.
// An item that lists no skills has no requirement and gets full credit.
func Skills(item *model.Item, p *model.Profile, max float64) Result {
	itemSkills := item.Skills()
	if len(p.Skills) == 0 {
		return Result{Max: max, Missing: dedupe(item.RequiredSkills)}
	}
	if len(itemSkills) == 0 {
		return award("기술 요건 없음", max, max)
	}

	hit := make([]bool, len(itemSkills))
	var total, matched float64
	for _, s := range p.Skills {
		if norm(s.Name) == "" {
			continue
		}
		w := s.Level.Multiplier()
		total += w

		found := false
		for i, is := range itemSkills {
			if ContainsEither(s.Name, is) {
				hit[i] = true
				found = true
			}
		}
		if found {
			matched += w
		}
	}

	var matchedSkills, missingSkills []string
	for i, is := range itemSkills {
		switch {
		case hit[i]:
			matchedSkills = append(matchedSkills, is)
		case i < len(item.RequiredSkills):
			missingSkills = append(missingSkills, is)
		}
	}

	if total == 0 {
		return Result{Max: max, Missing: dedupe(missingSkills)}
	}

	r := award(fmt.Sprintf("기술 스택 %d개 일치", len(dedupe(matchedSkills))), matched/total*max, max)
	r.Matched = dedupe(matchedSkills)
	r.Missing = dedupe(missingSkills)
	return r
}

// Location awards full credit when a preferred location and the item location
// contain one another, half credit when only a single word overlaps.
func Location(item *model.Item, p *model.Profile, max float64) Result {
	loc := norm(item.Location)
	if loc == "" || len(p.Locations) == 0 {
		return none(max)
	}

	for _, pref := range p.Locations {
		if ContainsEither(pref, loc) {
			return award("선호 지역 일치", max, max)
		}
	}

	for _, pref := range p.Locations {
		for _, w := range strings.Fields(norm(pref)) {
			if strings.Contains(loc, w) {
				return award("선호 지역 인접", max/2, max)
			}
		}
	}

	return none(max)
}

// Salary compares the item's representative salary with the desired range.
// Outside the range credit decays linearly with distance, floored at zero.
func Salary(item *model.Item, p *model.Profile, max float64) Result {
	v, ok := RepresentativeSalary(item)
	if !ok {
		return none(max)
	}

	lo, hi := float64(p.SalaryMin), float64(p.SalaryMax)
	if lo <= 0 && hi <= 0 {
		return none(max)
	}
	if hi > 0 && lo > hi {
		lo, hi = hi, lo
	}

	var scale float64
	switch {
	case lo > 0 && hi > 0:
		scale = (lo + hi) / 2
	case lo > 0:
		scale = lo
	default:
		scale = hi
	}

	var distance float64
	switch {
	case lo > 0 && v < lo:
		distance = lo - v
	case hi > 0 && v > hi:
		distance = v - hi
	}

	if distance == 0 {
		return award("희망 연봉 범위", max, max)
	}
	return award("희망 연봉 근접", max*(1-distance/scale), max)
}

// WorkType awards full credit when the normalized work modes overlap
func WorkType(item *model.Item, p *model.Profile, max float64) Result {
	itemModes := NormalizeWorkType(item.WorkType)
	if len(itemModes) == 0 || len(p.WorkTypes) == 0 {
		return none(max)
	}

	for _, raw := range p.WorkTypes {
		for mode := range NormalizeWorkType(raw) {
			if itemModes[mode] {
				return award("근무 형태 일치", max, max)
			}
		}
	}

	return none(max)
}

// Experience awards full credit when the user's years fit the item's tier
func Experience(item *model.Item, p *model.Profile, max float64) Result {
	tier := ClassifyExperience(item.Experience)
	if !tier.Fits(p.Years()) {
		return none(max)
	}
	if tier == TierAny {
		return award("경력 무관", max, max)
	}
	return award("경력 조건 충족", max, max)
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := norm(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
