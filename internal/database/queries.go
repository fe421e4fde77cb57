package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// Key-value store

// Get returns the value stored under key. Implements kvstore.Store.
func (db *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value. Implements kvstore.Store.
func (db *DB) Set(ctx context.Context, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now())
	return err
}

// Keys lists stored keys with the given prefix, sorted
func (db *DB) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT key FROM kv WHERE substr(key, 1, ?) = ? ORDER BY key
	`, len(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Behavior audit log

// RecordBehavior appends a record to the audit table
func (db *DB) RecordBehavior(ctx context.Context, r *BehaviorRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.OccurredAt.IsZero() {
		r.OccurredAt = time.Now()
	}
	r.CreatedAt = time.Now()

	_, err := db.ExecContext(ctx, `
		INSERT INTO behavior_events (id, user_id, item_id, action, score, occurred_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.UserID, r.ItemID, r.Action, r.Score, r.OccurredAt, r.CreatedAt)
	return err
}

// ListBehaviors retrieves audit records, newest first
func (db *DB) ListBehaviors(ctx context.Context, opts BehaviorListOptions) ([]BehaviorRecord, error) {
	query := `SELECT id, user_id, item_id, action, score, occurred_at, created_at FROM behavior_events WHERE 1=1`
	args := []interface{}{}

	if opts.UserID != nil {
		query += " AND user_id = ?"
		args = append(args, *opts.UserID)
	}
	if opts.ItemID != nil {
		query += " AND item_id = ?"
		args = append(args, *opts.ItemID)
	}
	if opts.Action != nil {
		query += " AND action = ?"
		args = append(args, *opts.Action)
	}
	if opts.Since != nil {
		query += " AND occurred_at >= ?"
		args = append(args, *opts.Since)
	}

	query += " ORDER BY occurred_at DESC, created_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []BehaviorRecord
	for rows.Next() {
		r := BehaviorRecord{}
		if err := rows.Scan(&r.ID, &r.UserID, &r.ItemID, &r.Action, &r.Score, &r.OccurredAt, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// BehaviorUsers returns every user with at least one audit record, sorted
func (db *DB) BehaviorUsers(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT user_id FROM behavior_events ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// BehaviorStats returns aggregate counts, optionally limited to events since a time
func (db *DB) BehaviorStats(ctx context.Context, since *time.Time) (*BehaviorStats, error) {
	stats := &BehaviorStats{ByAction: make(map[model.Action]int)}

	where := ""
	args := []interface{}{}
	if since != nil {
		where = " WHERE occurred_at >= ?"
		args = append(args, *since)
	}

	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT user_id), COUNT(DISTINCT item_id)
		FROM behavior_events`+where, args...).Scan(&stats.TotalEvents, &stats.Users, &stats.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT action, COUNT(*) FROM behavior_events`+where+`
		GROUP BY action`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count actions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var action model.Action
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, err
		}
		stats.ByAction[action] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.TotalEvents == 0 {
		return stats, nil
	}

	// Aggregates drop the column type, so fetch the bounds as plain rows
	var first, last time.Time
	if err := db.QueryRowContext(ctx, `
		SELECT occurred_at FROM behavior_events`+where+`
		ORDER BY occurred_at ASC LIMIT 1`, args...).Scan(&first); err != nil {
		return nil, fmt.Errorf("failed to read first event: %w", err)
	}
	if err := db.QueryRowContext(ctx, `
		SELECT occurred_at FROM behavior_events`+where+`
		ORDER BY occurred_at DESC LIMIT 1`, args...).Scan(&last); err != nil {
		return nil, fmt.Errorf("failed to read last event: %w", err)
	}
	stats.FirstAt = &first
	stats.LastAt = &last

	return stats, nil
}

// PruneBehaviors keeps the most recent keep records per user and deletes the
// rest, adding the count to refresh_state.events_pruned in the same
// transaction. Returns the number of deleted rows.
func (db *DB) PruneBehaviors(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	var deleted int64
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			DELETE FROM behavior_events WHERE id IN (
				SELECT id FROM (
					SELECT id, ROW_NUMBER() OVER (
						PARTITION BY user_id ORDER BY occurred_at DESC, created_at DESC
					) AS rn
					FROM behavior_events
				) WHERE rn > ?
			)
		`, keep)
		if err != nil {
			return err
		}
		if deleted, err = result.RowsAffected(); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE refresh_state SET events_pruned = events_pruned + ? WHERE id = 1`, deleted)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune behavior events: %w", err)
	}
	return deleted, nil
}

// Refresh state

// GetRefreshState retrieves the last neighbor index refresh
func (db *DB) GetRefreshState(ctx context.Context) (*RefreshState, error) {
	state := &RefreshState{}
	var lastRefreshAt sql.NullTime

	err := db.QueryRowContext(ctx, `
		SELECT last_refresh_at, users_indexed, events_pruned
		FROM refresh_state WHERE id = 1
	`).Scan(&lastRefreshAt, &state.UsersIndexed, &state.EventsPruned)
	if err != nil {
		return nil, err
	}

	state.LastRefreshAt = TimePtr(lastRefreshAt)
	return state, nil
}

// RecordRefresh stores the time and size of the latest history refresh.
// events_pruned is owned by PruneBehaviors and left alone.
func (db *DB) RecordRefresh(ctx context.Context, at time.Time, usersIndexed int) error {
	_, err := db.ExecContext(ctx, `
		UPDATE refresh_state SET last_refresh_at = ?, users_indexed = ?
		WHERE id = 1
	`, at, usersIndexed)
	return err
}
