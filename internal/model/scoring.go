package model

import (
	"fmt"
	"time"
)

// Action is a tracked user interaction with an item
type Action string

const (
	ActionView   Action = "view"
	ActionSave   Action = "save"
	ActionApply  Action = "apply"
	ActionReject Action = "reject"
)

// actionScores maps each action to its implicit feedback value
var actionScores = map[Action]float64{
	ActionView:   1,
	ActionSave:   2,
	ActionApply:  3,
	ActionReject: -2,
}

// MaxActionScore is the strongest positive signal a single event carries
const MaxActionScore = 3.0

// Score returns the implicit feedback value of the action
func (a Action) Score() float64 {
	return actionScores[a]
}

// ParseAction validates an action name
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := actionScores[a]; !ok {
		return "", fmt.Errorf("unknown action: %s (use view, save, apply or reject)", s)
	}
	return a, nil
}

// BehaviorEvent is one implicit feedback signal
type BehaviorEvent struct {
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}

// NewBehaviorEvent builds an event with the fixed score for its action
func NewBehaviorEvent(userID, itemID string, action Action, at time.Time) BehaviorEvent {
	return BehaviorEvent{
		UserID:    userID,
		ItemID:    itemID,
		Action:    action,
		Timestamp: at,
		Score:     action.Score(),
	}
}

// Dimension names a scoring factor in a breakdown
type Dimension string

const (
	DimIndustry   Dimension = "industry"
	DimSkills     Dimension = "skills"
	DimLocation   Dimension = "location"
	DimSalary     Dimension = "salary"
	DimWorkType   Dimension = "work_type"
	DimExperience Dimension = "experience"
)

// ScoreResult is the transient outcome of scoring one item for one user
type ScoreResult struct {
	ItemID             string                `json:"item_id"`
	ContentScore       float64               `json:"content_score"`
	CollaborativeScore float64               `json:"collaborative_score"`
	FinalScore         float64               `json:"final_score"`
	Breakdown          map[Dimension]float64 `json:"breakdown"`
	MatchedSkills      []string              `json:"matched_skills,omitempty"`
	MissingSkills      []string              `json:"missing_skills,omitempty"`
	Reasons            []string              `json:"reasons,omitempty"`
}

// Recommendation pairs an item with its score
type Recommendation struct {
	Item   Item        `json:"item"`
	Result ScoreResult `json:"result"`
}

// PriorityItem is one entry of a user's ordered priority list
type PriorityItem struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Weight  int    `json:"weight"`
	Enabled bool   `json:"enabled"`
}
