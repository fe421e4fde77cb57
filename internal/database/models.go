package database

import (
	"database/sql"
	"time"

	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// BehaviorRecord is one row of the behavior audit table
type BehaviorRecord struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	ItemID     string       `json:"item_id"`
	Action     model.Action `json:"action"`
	Score      float64      `json:"score"`
	OccurredAt time.Time    `json:"occurred_at"`
	CreatedAt  time.Time    `json:"created_at"`
}

// NewBehaviorRecord wraps an event for the audit table
func NewBehaviorRecord(e model.BehaviorEvent) *BehaviorRecord {
	return &BehaviorRecord{
		UserID:     e.UserID,
		ItemID:     e.ItemID,
		Action:     e.Action,
		Score:      e.Score,
		OccurredAt: e.Timestamp,
	}
}

// Event converts the record back into a behavior event
func (r *BehaviorRecord) Event() model.BehaviorEvent {
	return model.BehaviorEvent{
		UserID:    r.UserID,
		ItemID:    r.ItemID,
		Action:    r.Action,
		Timestamp: r.OccurredAt,
		Score:     r.Score,
	}
}

// BehaviorListOptions contains options for listing behavior records
type BehaviorListOptions struct {
	UserID *string
	ItemID *string
	Action *model.Action
	Since  *time.Time
	Limit  int
}

// BehaviorStats contains aggregate counts over the audit table
type BehaviorStats struct {
	TotalEvents int                  `json:"total_events"`
	Users       int                  `json:"users"`
	Items       int                  `json:"items"`
	ByAction    map[model.Action]int `json:"by_action"`
	FirstAt     *time.Time           `json:"first_at,omitempty"`
	LastAt      *time.Time           `json:"last_at,omitempty"`
}

// RefreshState tracks the scheduler's last neighbor index refresh
type RefreshState struct {
	LastRefreshAt *time.Time `json:"last_refresh_at,omitempty"`
	UsersIndexed  int        `json:"users_indexed"`
	EventsPruned  int64      `json:"events_pruned"`
}

// TimePtr converts sql.NullTime to *time.Time
func TimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Time
}
