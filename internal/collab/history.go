package collab

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vijay-prabhu/jobmatch/internal/kvstore"
	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// MaxHistory bounds the per-user behavior log kept in the store
const MaxHistory = 100

// loadConcurrency caps parallel store reads in LoadUsers
const loadConcurrency = 8

// HistoryLimit clamps n to (0, MaxHistory]
func HistoryLimit(n int) int {
	if n <= 0 || n > MaxHistory {
		return MaxHistory
	}
	return n
}

// ReadHistory returns the user's stored behavior log, oldest first
func ReadHistory(ctx context.Context, store kvstore.Store, userID string) ([]model.BehaviorEvent, error) {
	var events []model.BehaviorEvent
	if _, err := kvstore.GetJSON(ctx, store, kvstore.BehaviorKey(userID), &events); err != nil {
		return nil, fmt.Errorf("failed to read history for %s: %w", userID, err)
	}
	return events, nil
}

// LoadHistory replays the user's most recent n events into the filter.
// Returns how many events were loaded.
func LoadHistory(ctx context.Context, store kvstore.Store, f *Filter, userID string, n int) (int, error) {
	events, err := ReadHistory(ctx, store, userID)
	if err != nil {
		return 0, err
	}

	recent := tail(events, HistoryLimit(n))
	for _, e := range recent {
		f.AddBehavior(e)
	}
	return len(recent), nil
}

// SaveHistory writes the most recent n events as the user's log
func SaveHistory(ctx context.Context, store kvstore.Store, userID string, events []model.BehaviorEvent, n int) error {
	if err := kvstore.SetJSON(ctx, store, kvstore.BehaviorKey(userID), tail(events, HistoryLimit(n))); err != nil {
		return fmt.Errorf("failed to save history for %s: %w", userID, err)
	}
	return nil
}

// Track records one interaction in the filter and persists the user's log
func Track(ctx context.Context, store kvstore.Store, f *Filter, e model.BehaviorEvent, n int) error {
	f.AddBehavior(e)
	return SaveHistory(ctx, store, e.UserID, f.Behaviors(e.UserID), n)
}

// LoadUsers reads several users' logs concurrently, then replays them into
// the filter in the order the users were given.
func LoadUsers(ctx context.Context, store kvstore.Store, f *Filter, userIDs []string, n int) error {
	logs := make([][]model.BehaviorEvent, len(userIDs))
	limit := HistoryLimit(n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, id := range userIDs {
		i, id := i, id
		g.Go(func() error {
			events, err := ReadHistory(gctx, store, id)
			if err != nil {
				return err
			}
			logs[i] = tail(events, limit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, events := range logs {
		for _, e := range events {
			f.AddBehavior(e)
		}
	}
	return nil
}

func tail(events []model.BehaviorEvent, n int) []model.BehaviorEvent {
	if len(events) > n {
		return events[len(events)-n:]
	}
	return events
}
