// Package priority implements the user-ordered priority list and the
// priority-weighted scorers used on the home feed and for team matching.
package priority

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// Criterion fields a priority item can point at
const (
	FieldDesiredJob = "desiredJob"
	FieldSkills     = "skills"
	FieldIndustry   = "industry"
	FieldLocation   = "location"
	FieldWorkType   = "workType"
	FieldSalary     = "salary"
	FieldCareer     = "career"
)

// rankBoost is the extra multiplier each rank above the bottom receives
const rankBoost = 0.2

var defaultScheme = []model.PriorityItem{
	{Field: FieldDesiredJob, Label: "희망 직무", Weight: 25, Enabled: true},
	{Field: FieldSkills, Label: "보유 기술", Weight: 25, Enabled: true},
	{Field: FieldIndustry, Label: "관심 업종", Weight: 15, Enabled: true},
	{Field: FieldLocation, Label: "희망 지역", Weight: 15, Enabled: true},
	{Field: FieldWorkType, Label: "근무 형태", Weight: 10, Enabled: true},
	{Field: FieldSalary, Label: "희망 연봉", Weight: 5, Enabled: true},
	{Field: FieldCareer, Label: "경력 조건", Weight: 5, Enabled: true},
}

// DefaultScheme returns the fixed weights used when a user has no enabled priorities
func DefaultScheme() []model.PriorityItem {
	out := make([]model.PriorityItem, len(defaultScheme))
	copy(out, defaultScheme)
	return out
}

// Label returns the display label for a field, or the field itself
func Label(field string) string {
	for _, it := range defaultScheme {
		if it.Field == field {
			return it.Label
		}
	}
	return field
}

// KnownField reports whether a matcher exists for the field
func KnownField(field string) bool {
	return matchers[field] != nil
}

// Policy decides what a manual weight edit does to the other items
type Policy string

const (
	// PolicyDrift accepts the edited weight verbatim; the total may leave 100
	PolicyDrift Policy = "drift"
	// PolicyRescale rescales the other enabled items so the total stays 100
	PolicyRescale Policy = "rescale"
)

// ParsePolicy validates a policy name. Empty means drift.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyDrift, "":
		return PolicyDrift, nil
	case PolicyRescale:
		return PolicyRescale, nil
	default:
		return "", fmt.Errorf("unknown priority policy: %s (use drift or rescale)", s)
	}
}

// List is an ordered, user-editable set of priorities
type List struct {
	items  []model.PriorityItem
	policy Policy
}

// NewList wraps existing items as-is. Weights are not recalculated.
func NewList(items []model.PriorityItem, policy Policy) *List {
	if policy == "" {
		policy = PolicyDrift
	}
	l := &List{items: make([]model.PriorityItem, len(items)), policy: policy}
	copy(l.items, items)
	return l
}

// DefaultList returns a list seeded with the default scheme
func DefaultList(policy Policy) *List {
	return NewList(defaultScheme, policy)
}

// Items returns a copy of the list in priority order
func (l *List) Items() []model.PriorityItem {
	out := make([]model.PriorityItem, len(l.items))
	copy(out, l.items)
	return out
}

// MarshalJSON renders the list with its policy and active total
func (l *List) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Policy      Policy               `json:"policy"`
		ActiveTotal int                  `json:"active_total"`
		Items       []model.PriorityItem `json:"items"`
	}{l.policy, l.ActiveTotal(), l.items})
}

// Policy returns the list's manual-edit policy
func (l *List) Policy() Policy {
	return l.policy
}

// ActiveTotal sums the weights of enabled items
func (l *List) ActiveTotal() int {
	total := 0
	for _, it := range l.items {
		if it.Enabled {
			total += it.Weight
		}
	}
	return total
}

func (l *List) index(field string) int {
	for i, it := range l.items {
		if it.Field == field {
			return i
		}
	}
	return -1
}

// Add appends an enabled criterion at the bottom and recalculates weights
func (l *List) Add(field, label string) error {
	if !KnownField(field) {
		return fmt.Errorf("unknown priority field: %s", field)
	}
	if l.index(field) >= 0 {
		return fmt.Errorf("priority %s already in list", field)
	}
	if label == "" {
		label = Label(field)
	}
	l.items = append(l.items, model.PriorityItem{Field: field, Label: label, Enabled: true})
	l.Recalculate()
	return nil
}

// Remove drops a criterion and recalculates weights
func (l *List) Remove(field string) error {
	i := l.index(field)
	if i < 0 {
		return fmt.Errorf("priority %s not found", field)
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.Recalculate()
	return nil
}

// Move places a criterion at position to (0 is the top) and recalculates weights.
// Out-of-range positions are clamped.
func (l *List) Move(field string, to int) error {
	from := l.index(field)
	if from < 0 {
		return fmt.Errorf("priority %s not found", field)
	}
	to = max(0, min(to, len(l.items)-1))

	it := l.items[from]
	l.items = append(l.items[:from], l.items[from+1:]...)
	l.items = append(l.items[:to], append([]model.PriorityItem{it}, l.items[to:]...)...)
	l.Recalculate()
	return nil
}

// SetEnabled toggles a criterion and recalculates weights
func (l *List) SetEnabled(field string, enabled bool) error {
	i := l.index(field)
	if i < 0 {
		return fmt.Errorf("priority %s not found", field)
	}
	l.items[i].Enabled = enabled
	l.Recalculate()
	return nil
}

// SetWeight applies a manual weight edit according to the list policy
func (l *List) SetWeight(field string, weight int) error {
	if weight < 0 || weight > 100 {
		return fmt.Errorf("weight must be between 0 and 100, got %d", weight)
	}
	i := l.index(field)
	if i < 0 {
		return fmt.Errorf("priority %s not found", field)
	}

	l.items[i].Weight = weight
	if l.policy != PolicyRescale || !l.items[i].Enabled {
		return nil
	}

	var others []int
	for j, it := range l.items {
		if j != i && it.Enabled {
			others = append(others, j)
		}
	}
	if len(others) == 0 {
		return nil
	}

	shares := make([]float64, len(others))
	for k, j := range others {
		shares[k] = float64(l.items[j].Weight)
	}
	for k, w := range distribute(shares, 100-weight) {
		l.items[others[k]].Weight = w
	}
	return nil
}

// Recalculate assigns rank-biased weights to the enabled items. Higher items
// get base*(1+0.2*rankFromBottom); the result is rescaled to integers that
// sum to exactly 100. Disabled items drop to 0.
func (l *List) Recalculate() {
	var enabled []int
	for i := range l.items {
		if l.items[i].Enabled {
			enabled = append(enabled, i)
		} else {
			l.items[i].Weight = 0
		}
	}
	n := len(enabled)
	if n == 0 {
		return
	}

	base := 100.0 / float64(n)
	raw := make([]float64, n)
	for k := range enabled {
		raw[k] = base * (1 + rankBoost*float64(n-1-k))
	}
	for k, w := range distribute(raw, 100) {
		l.items[enabled[k]].Weight = w
	}
}

// distribute splits total across shares proportionally, flooring each part
// and giving the remainder to the first entry. Zero shares split evenly.
func distribute(shares []float64, total int) []int {
	out := make([]int, len(shares))
	if len(shares) == 0 || total <= 0 {
		return out
	}

	var sum float64
	for _, s := range shares {
		sum += s
	}

	assigned := 0
	for k, s := range shares {
		part := float64(total) / float64(len(shares))
		if sum > 0 {
			part = s / sum * float64(total)
		}
		out[k] = int(math.Floor(part))
		assigned += out[k]
	}
	out[0] += total - assigned
	return out
}
