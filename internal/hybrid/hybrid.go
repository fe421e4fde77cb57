// Package hybrid blends content-based and collaborative scores into a single
// ranked recommendation list.
package hybrid

import (
	"sort"

	"github.com/vijay-prabhu/jobmatch/internal/collab"
	"github.com/vijay-prabhu/jobmatch/internal/content"
	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// Defaults for the blend and the result filters
const (
	DefaultContentWeight       = 0.6
	DefaultCollaborativeWeight = 0.4
	DefaultMinScore            = 20.0
	DefaultMaxPerSource        = 3
)

// Recommender ranks items for a profile
type Recommender struct {
	content  *content.Scorer
	filter   *collab.Filter
	wContent float64
	wCollab  float64

	minScore     float64
	maxPerSource int
}

// New creates a Recommender. filter may be nil, in which case the
// collaborative part always scores 0.
func New(scorer *content.Scorer, filter *collab.Filter) *Recommender {
	if scorer == nil {
		scorer = content.NewScorer(nil)
	}
	return &Recommender{
		content:      scorer,
		filter:       filter,
		wContent:     DefaultContentWeight,
		wCollab:      DefaultCollaborativeWeight,
		minScore:     DefaultMinScore,
		maxPerSource: DefaultMaxPerSource,
	}
}

// SetWeights sets the content and collaborative blend, rescaled to sum to 1.
// Negative inputs count as 0; a zero sum restores the defaults.
func (r *Recommender) SetWeights(contentWeight, collabWeight float64) {
	contentWeight = max(contentWeight, 0)
	collabWeight = max(collabWeight, 0)

	sum := contentWeight + collabWeight
	if sum == 0 {
		r.wContent, r.wCollab = DefaultContentWeight, DefaultCollaborativeWeight
		return
	}
	r.wContent = contentWeight / sum
	r.wCollab = collabWeight / sum
}

// Weights returns the current content and collaborative blend
func (r *Recommender) Weights() (float64, float64) {
	return r.wContent, r.wCollab
}

// SetMinScore sets the final score below which items are dropped
func (r *Recommender) SetMinScore(v float64) {
	r.minScore = max(v, 0)
}

// SetMaxPerSource sets the diversification cap. Values below 1 restore the default.
func (r *Recommender) SetMaxPerSource(n int) {
	if n < 1 {
		n = DefaultMaxPerSource
	}
	r.maxPerSource = n
}

// Score computes the blended result for a single item
func (r *Recommender) Score(item *model.Item, p *model.Profile, includeCollaborative bool) model.ScoreResult {
	res := r.content.Score(item, p).ScoreResult(item.ID)

	if includeCollaborative && r.filter != nil {
		res.CollaborativeScore = collab.Normalize(r.filter.Score(p.UserID, item.ID))
		res.FinalScore = res.ContentScore*r.wContent + res.CollaborativeScore*r.wCollab
	}
	return res
}

// Recommend scores every item, drops those under the minimum score and
// returns the rest best first. Ties keep their input order.
func (r *Recommender) Recommend(items []model.Item, p *model.Profile, includeCollaborative bool) []model.Recommendation {
	var out []model.Recommendation
	for i := range items {
		res := r.Score(&items[i], p, includeCollaborative)
		if res.FinalScore < r.minScore {
			continue
		}
		out = append(out, model.Recommendation{Item: items[i], Result: res})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.FinalScore > out[j].Result.FinalScore
	})
	return out
}

// RecommendDiverse ranks the items and then applies Diversify with the
// recommender's per-source cap
func (r *Recommender) RecommendDiverse(items []model.Item, p *model.Profile, includeCollaborative bool, limit int) []model.Recommendation {
	return Diversify(r.Recommend(items, p, includeCollaborative), limit, r.maxPerSource)
}

// Diversify walks a ranked list and keeps an item only while its source has
// fewer than maxPerSource accepted items, stopping after limit items.
// A limit of zero or less keeps going to the end of the list.
func Diversify(ranked []model.Recommendation, limit, maxPerSource int) []model.Recommendation {
	if maxPerSource < 1 {
		maxPerSource = DefaultMaxPerSource
	}

	counts := make(map[string]int)
	var out []model.Recommendation
	for _, rec := range ranked {
		if limit > 0 && len(out) >= limit {
			break
		}
		src := rec.Item.Source()
		if counts[src] >= maxPerSource {
			continue
		}
		counts[src]++
		out = append(out, rec)
	}
	return out
}
