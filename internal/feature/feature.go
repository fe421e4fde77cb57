// Package feature implements the per-dimension scorers that compare an item
// against a user profile. Every scorer is pure: it reads its inputs, never
// mutates them, and returns a score bounded by the cap it is given.
package feature

import (
	"math"
	"strconv"
	"strings"

	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// Result is the outcome of one feature scorer
type Result struct {
	Score   float64  // Points awarded, within [0, Max]
	Max     float64  // Cap this dimension was scored against
	Reason  string   // Display string, empty when no credit was given
	Matched []string // Item skills hit by the profile (skills only)
	Missing []string // Required item skills not covered (skills only)
}

// Func scores one dimension of an item against a profile
type Func func(item *model.Item, p *model.Profile, max float64) Result

// Dimensions lists the content dimensions in display order
var Dimensions = []model.Dimension{
	model.DimIndustry,
	model.DimSkills,
	model.DimLocation,
	model.DimSalary,
	model.DimWorkType,
	model.DimExperience,
}

// ByDimension returns the scorer for a dimension
func ByDimension(d model.Dimension) Func {
	switch d {
	case model.DimIndustry:
		return Industry
	case model.DimSkills:
		return Skills
	case model.DimLocation:
		return Location
	case model.DimSalary:
		return Salary
	case model.DimWorkType:
		return WorkType
	case model.DimExperience:
		return Experience
	default:
		return nil
	}
}

func none(max float64) Result {
	return Result{Max: max}
}

func award(label string, score, max float64) Result {
	score = clamp(score, max)
	if score <= 0 {
		return none(max)
	}
	return Result{Score: score, Max: max, Reason: Reason(label, score)}
}

// Reason formats a display string such as "업종 일치 (+30점)"
func Reason(label string, points float64) string {
	return label + " (+" + FormatPoints(points) + "점)"
}

// FormatPoints renders points with at most one decimal
func FormatPoints(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

func clamp(v, max float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// norm lowercases and trims text for comparison
func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContainsEither reports whether either string contains the other (case-insensitive).
// Empty strings never match.
func ContainsEither(a, b string) bool {
	a, b = norm(a), norm(b)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// containsAny checks if text contains any of the terms
func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
