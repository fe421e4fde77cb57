package collab

import (
	"sort"
	"sync"
	"time"
)

// LinearFinder compares the user against every other known user.
// Cost is O(U) per lookup.
type LinearFinder struct {
	src VectorSource
}

// NewLinearFinder creates a finder scanning the given vectors
func NewLinearFinder(src VectorSource) *LinearFinder {
	return &LinearFinder{src: src}
}

// FindSimilar implements SimilarUserFinder
func (l *LinearFinder) FindSimilar(userID string, k int) []Neighbor {
	if k <= 0 {
		return nil
	}

	target := l.src.Vector(userID)
	if len(target) == 0 {
		return nil
	}

	var out []Neighbor
	for _, other := range l.src.Users() {
		if other == userID {
			continue
		}
		if sim := Cosine(target, l.src.Vector(other)); sim > 0 {
			out = append(out, Neighbor{UserID: other, Similarity: sim})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})

	if len(out) > k {
		out = out[:k]
	}
	return out
}

// Index serves precomputed neighbor lists. It is rebuilt in bulk, typically
// by the scheduler, and may be read concurrently while a rebuild runs.
type Index struct {
	mu        sync.RWMutex
	depth     int
	neighbors map[string][]Neighbor
	builtAt   time.Time
}

// NewIndex creates an empty index keeping up to depth neighbors per user
func NewIndex(depth int) *Index {
	if depth <= 0 {
		depth = DefaultNeighbors
	}
	return &Index{depth: depth, neighbors: make(map[string][]Neighbor)}
}

// Rebuild recomputes every user's neighbor list from src
func (x *Index) Rebuild(src VectorSource) {
	linear := NewLinearFinder(src)
	table := make(map[string][]Neighbor)
	for _, u := range src.Users() {
		if n := linear.FindSimilar(u, x.depth); len(n) > 0 {
			table[u] = n
		}
	}

	x.mu.Lock()
	x.neighbors = table
	x.builtAt = time.Now()
	x.mu.Unlock()
}

// FindSimilar implements SimilarUserFinder. k is capped at the index depth.
func (x *Index) FindSimilar(userID string, k int) []Neighbor {
	if k <= 0 {
		return nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	list := x.neighbors[userID]
	if len(list) > k {
		list = list[:k]
	}
	out := make([]Neighbor, len(list))
	copy(out, list)
	return out
}

// Len returns how many users have at least one neighbor
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.neighbors)
}

// BuiltAt returns the time of the last rebuild
func (x *Index) BuiltAt() time.Time {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.builtAt
}
