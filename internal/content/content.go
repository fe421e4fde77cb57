// Package content combines the feature scorers into a single content-based
// match score per (user, item) pair.
package content

import (
	"errors"
	"fmt"

	"github.com/vijay-prabhu/jobmatch/internal/feature"
	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// MaxScore is the ceiling of a content score
const MaxScore = 100.0

// Weights assigns the full-credit points of each dimension
type Weights map[model.Dimension]float64

// HybridWeights is the table used by the hybrid recommender
func HybridWeights() Weights {
	return Weights{
		model.DimIndustry:   30,
		model.DimSkills:     25,
		model.DimLocation:   15,
		model.DimSalary:     15,
		model.DimWorkType:   10,
		model.DimExperience: 5,
	}
}

// FeedWeights is the table used on the home feed
func FeedWeights() Weights {
	return Weights{
		model.DimIndustry:   25,
		model.DimSkills:     25,
		model.DimLocation:   15,
		model.DimSalary:     15,
		model.DimWorkType:   10,
		model.DimExperience: 10,
	}
}

// WeightsFor returns the named preset ("hybrid" or "feed")
func WeightsFor(profile string) (Weights, error) {
	switch profile {
	case "hybrid", "":
		return HybridWeights(), nil
	case "feed":
		return FeedWeights(), nil
	default:
		return nil, fmt.Errorf("unknown weight profile: %s", profile)
	}
}

// Total returns the sum of all full-credit points
func (w Weights) Total() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// Validate checks that the table covers known dimensions and sums to 100
func (w Weights) Validate() error {
	var errs []error
	for d, v := range w {
		if feature.ByDimension(d) == nil {
			errs = append(errs, fmt.Errorf("unknown dimension: %s", d))
		}
		if v < 0 {
			errs = append(errs, fmt.Errorf("weight for %s must not be negative", d))
		}
	}
	if total := w.Total(); total != MaxScore {
		errs = append(errs, fmt.Errorf("weights must sum to 100, got %s", feature.FormatPoints(total)))
	}
	return errors.Join(errs...)
}

// Result is a content score with its per-dimension breakdown
type Result struct {
	Total         float64
	Breakdown     map[model.Dimension]float64
	Reasons       []string
	MatchedSkills []string
	MissingSkills []string
}

// Scorer computes content-based scores with a fixed weight table
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer. A nil table falls back to HybridWeights.
func NewScorer(w Weights) *Scorer {
	if w == nil {
		w = HybridWeights()
	}
	return &Scorer{weights: w}
}

// Weights returns a copy of the scorer's weight table
func (s *Scorer) Weights() Weights {
	out := make(Weights, len(s.weights))
	for d, v := range s.weights {
		out[d] = v
	}
	return out
}

// Score runs every weighted feature scorer and sums the results
func (s *Scorer) Score(item *model.Item, p *model.Profile) Result {
	r := Result{Breakdown: make(map[model.Dimension]float64, len(s.weights))}

	for _, d := range feature.Dimensions {
		max, ok := s.weights[d]
		if !ok {
			continue
		}

		fr := feature.ByDimension(d)(item, p, max)
		r.Breakdown[d] = fr.Score
		r.Total += fr.Score
		if fr.Reason != "" {
			r.Reasons = append(r.Reasons, fr.Reason)
		}
		if d == model.DimSkills {
			r.MatchedSkills = fr.Matched
			r.MissingSkills = fr.Missing
		}
	}

	if r.Total > MaxScore {
		r.Total = MaxScore
	}
	return r
}

// ScoreResult converts a content score into the shared result record
func (r Result) ScoreResult(itemID string) model.ScoreResult {
	return model.ScoreResult{
		ItemID:        itemID,
		ContentScore:  r.Total,
		FinalScore:    r.Total,
		Breakdown:     r.Breakdown,
		MatchedSkills: r.MatchedSkills,
		MissingSkills: r.MissingSkills,
		Reasons:       r.Reasons,
	}
}
