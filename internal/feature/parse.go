package feature

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/vijay-prabhu/jobmatch/internal/model"
)

var numberPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// RepresentativeSalary reduces an item's salary to one figure.
// Returns false when the item carries no usable salary data.
func RepresentativeSalary(item *model.Item) (float64, bool) {
	switch {
	case item.SalaryMin > 0 && item.SalaryMax > 0:
		return float64(item.SalaryMin+item.SalaryMax) / 2, true
	case item.SalaryMin > 0:
		return float64(item.SalaryMin), true
	case item.SalaryMax > 0:
		return float64(item.SalaryMax), true
	}
	return ParseSalaryText(item.SalaryText)
}

// ParseSalaryText averages every number embedded in free text ("3,500~4,500만원")
func ParseSalaryText(text string) (float64, bool) {
	var sum float64
	var n int
	for _, m := range numberPattern.FindAllString(text, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			continue
		}
		sum += v
		n++
	}
	if n == 0 || sum <= 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// WorkMode is a normalized work arrangement
type WorkMode string

const (
	ModeRemote WorkMode = "remote"
	ModeHybrid WorkMode = "hybrid"
	ModeOnsite WorkMode = "onsite"
)

var workModeTerms = []struct {
	mode  WorkMode
	terms []string
}{
	{ModeRemote, []string{"remote", "재택", "원격", "wfh"}},
	{ModeHybrid, []string{"hybrid", "하이브리드", "dispatch", "파견"}},
	{ModeOnsite, []string{"onsite", "on-site", "office", "사무실", "출근", "상주"}},
}

// NormalizeWorkType maps raw work-type text onto the modes it mentions
func NormalizeWorkType(raw string) map[WorkMode]bool {
	text := norm(raw)
	if text == "" {
		return nil
	}
	modes := make(map[WorkMode]bool)
	for _, wm := range workModeTerms {
		if containsAny(text, wm.terms) {
			modes[wm.mode] = true
		}
	}
	return modes
}

// Tier is a required-experience band
type Tier string

const (
	TierAny     Tier = "any"
	TierNewGrad Tier = "new_grad"
	TierMid     Tier = "mid"
	TierSenior  Tier = "senior"
)

// Fits reports whether a candidate with the given years falls inside the tier
func (t Tier) Fits(years int) bool {
	switch t {
	case TierNewGrad:
		return years <= 2
	case TierMid:
		return years >= 2 && years <= 5
	case TierSenior:
		return years >= 5
	default:
		return true
	}
}

// MinYears returns the lowest experience the tier accepts
func (t Tier) MinYears() int {
	switch t {
	case TierMid:
		return 2
	case TierSenior:
		return 5
	default:
		return 0
	}
}

var (
	rangePattern = regexp.MustCompile(`(\d+)\s*[-~]\s*(\d+)`)
	yearsPattern = regexp.MustCompile(`(\d+)\s*(?:년|years?|yrs?|\+)`)

	anyTerms     = termPattern("무관", "any experience", "all levels", "신입/경력", "경력/신입", "no experience required")
	seniorTerms  = termPattern("senior", "시니어", "lead", "리드", "책임", "수석", "principal", "staff")
	midTerms     = termPattern("mid", "중급", "경력")
	newGradTerms = termPattern("신입", "new grad", "entry", "junior", "주니어", "intern", "인턴")
)

// termPattern matches any of terms. Latin terms match whole words only;
// Hangul terms match anywhere.
func termPattern(terms ...string) *regexp.Regexp {
	alts := make([]string, len(terms))
	for i, term := range terms {
		q := regexp.QuoteMeta(term)
		if isLatin(term) {
			q = `\b` + q + `\b`
		}
		alts[i] = q
	}
	return regexp.MustCompile(strings.Join(alts, "|"))
}

func isLatin(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// ClassifyExperience maps required-experience text onto a tier.
// Empty or unrecognized text imposes no requirement.
func ClassifyExperience(text string) Tier {
	t := norm(text)
	if t == "" || anyTerms.MatchString(t) {
		return TierAny
	}

	if m := rangePattern.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return tierForYears(n)
		}
	}
	if m := yearsPattern.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return tierForYears(n)
		}
	}

	switch {
	case seniorTerms.MatchString(t):
		return TierSenior
	case newGradTerms.MatchString(t):
		return TierNewGrad
	case midTerms.MatchString(t):
		return TierMid
	}
	return TierAny
}

// tierForYears classifies a minimum-years requirement
func tierForYears(n int) Tier {
	switch {
	case n < 2:
		return TierNewGrad
	case n < 5:
		return TierMid
	default:
		return TierSenior
	}
}
