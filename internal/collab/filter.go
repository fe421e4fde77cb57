// Package collab implements user-based collaborative filtering over implicit
// feedback (view, save, apply, reject events).
//
// A Filter belongs to a single scoring session and is not safe for
// concurrent use. Share an Index across goroutines instead.
package collab

import (
	"math"
	"sort"

	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// DefaultNeighbors is how many similar users contribute to a prediction
const DefaultNeighbors = 5

// Neighbor is a similar user with its cosine similarity
type Neighbor struct {
	UserID     string  `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

// ItemScore is a predicted collaborative score for one item
type ItemScore struct {
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
}

// VectorSource exposes per-user implicit feedback vectors
type VectorSource interface {
	Users() []string
	// Vector returns the user's item scores. Callers must not modify it.
	Vector(userID string) map[string]float64
}

// SimilarUserFinder returns the k users most similar to a user
type SimilarUserFinder interface {
	FindSimilar(userID string, k int) []Neighbor
}

// Filter accumulates behavior events into per-user item vectors
type Filter struct {
	behaviors map[string][]model.BehaviorEvent
	scores    map[string]map[string]float64
	finder    SimilarUserFinder
	neighbors int
}

// New creates an empty Filter using a linear similarity scan
func New() *Filter {
	f := &Filter{
		behaviors: make(map[string][]model.BehaviorEvent),
		scores:    make(map[string]map[string]float64),
		neighbors: DefaultNeighbors,
	}
	f.finder = NewLinearFinder(f)
	return f
}

// SetFinder replaces the neighbor lookup strategy
func (f *Filter) SetFinder(finder SimilarUserFinder) {
	if finder == nil {
		finder = NewLinearFinder(f)
	}
	f.finder = finder
}

// SetNeighbors sets how many similar users feed a prediction
func (f *Filter) SetNeighbors(k int) {
	if k <= 0 {
		k = DefaultNeighbors
	}
	f.neighbors = k
}

// AddBehavior appends an event and adds its score to the user's item total.
// Totals are signed and unbounded.
func (f *Filter) AddBehavior(e model.BehaviorEvent) {
	f.behaviors[e.UserID] = append(f.behaviors[e.UserID], e)

	vec, ok := f.scores[e.UserID]
	if !ok {
		vec = make(map[string]float64)
		f.scores[e.UserID] = vec
	}
	vec[e.ItemID] += e.Score
}

// Behaviors returns a copy of the user's event log
func (f *Filter) Behaviors(userID string) []model.BehaviorEvent {
	events := f.behaviors[userID]
	out := make([]model.BehaviorEvent, len(events))
	copy(out, events)
	return out
}

// Users returns every user with at least one event, sorted
func (f *Filter) Users() []string {
	users := make([]string, 0, len(f.scores))
	for u := range f.scores {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// Vector implements VectorSource
func (f *Filter) Vector(userID string) map[string]float64 {
	return f.scores[userID]
}

// Seen reports whether the user has any recorded behavior on the item
func (f *Filter) Seen(userID, itemID string) bool {
	_, ok := f.scores[userID][itemID]
	return ok
}

// Similarity is the cosine similarity of two users over their shared items
func (f *Filter) Similarity(u1, u2 string) float64 {
	return Cosine(f.scores[u1], f.scores[u2])
}

// FindSimilarUsers returns up to k users with positive similarity, most similar first
func (f *Filter) FindSimilarUsers(userID string, k int) []Neighbor {
	return f.finder.FindSimilar(userID, k)
}

// Score predicts the user's interest in an item from similar users.
// Items the user already interacted with score 0.
func (f *Filter) Score(userID, itemID string) float64 {
	if f.Seen(userID, itemID) {
		return 0
	}

	var weighted, simSum float64
	for _, n := range f.FindSimilarUsers(userID, f.neighbors) {
		s, ok := f.scores[n.UserID][itemID]
		if !ok {
			continue
		}
		weighted += s * n.Similarity
		simSum += n.Similarity
	}

	if simSum == 0 {
		return 0
	}
	return weighted / simSum
}

// Recommendations scores candidates, keeps positive predictions and returns
// the best first. A limit of zero or less returns all of them.
func (f *Filter) Recommendations(userID string, candidates []string, limit int) []ItemScore {
	var out []ItemScore
	for _, id := range candidates {
		if s := f.Score(userID, id); s > 0 {
			out = append(out, ItemScore{ItemID: id, Score: s})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Cosine computes cosine similarity over the keys both vectors share.
// Returns 0 for empty vectors, no overlap, or a zero magnitude.
func Cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Sum in key order so the result does not depend on map iteration
	common := make([]string, 0, min(len(a), len(b)))
	for k := range a {
		if _, ok := b[k]; ok {
			common = append(common, k)
		}
	}
	if len(common) == 0 {
		return 0
	}
	sort.Strings(common)

	var dot, magA, magB float64
	for _, k := range common {
		dot += a[k] * b[k]
		magA += a[k] * a[k]
		magB += b[k] * b[k]
	}
	if magA == 0 || magB == 0 {
		return 0
	}

	sim := dot / math.Sqrt(magA*magB)
	return math.Max(-1, math.Min(1, sim))
}

// Normalize maps a raw collaborative score onto 0-100, where the score of a
// single apply event is full credit.
func Normalize(raw float64) float64 {
	v := raw / model.MaxActionScore * 100
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v > 100:
		return 100
	}
	return v
}
