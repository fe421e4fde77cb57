package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vijay-prabhu/jobmatch/internal/catalog"
	"github.com/vijay-prabhu/jobmatch/internal/collab"
	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/hybrid"
	"github.com/vijay-prabhu/jobmatch/internal/kvstore"
	"github.com/vijay-prabhu/jobmatch/internal/model"
	"github.com/vijay-prabhu/jobmatch/internal/priority"
)

// RecommendOptions controls a recommendation query
type RecommendOptions struct {
	Collaborative bool // blend in the collaborative score
	Diverse       bool // cap items per source
	Feed          bool // rank by the user's priority list instead of the hybrid blend
	Limit         int  // 0 uses hybrid.limit from the config
}

// Profile returns the user's profile. A stored preference override wins
// over the catalog profile.
func (e *Engine) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	ok, err := kvstore.GetJSON(ctx, e.store, kvstore.PreferencesKey(userID), &p)
	if err != nil {
		return nil, err
	}
	if ok {
		p.UserID = userID
		return &p, nil
	}

	found, err := e.catalog.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	return found, nil
}

// SaveProfile stores p as the user's preference override
func (e *Engine) SaveProfile(ctx context.Context, p *model.Profile) error {
	if p.UserID == "" {
		return errors.New("profile user_id is required")
	}
	return kvstore.SetJSON(ctx, e.store, kvstore.PreferencesKey(p.UserID), p)
}

// Item returns one catalog item
func (e *Engine) Item(ctx context.Context, itemID string) (*model.Item, error) {
	item, err := e.catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	return item, nil
}

func (e *Engine) limit(n int) int {
	if n > 0 {
		return n
	}
	return e.cfg.Hybrid.Limit
}

// recommender builds a hybrid recommender over the current filter.
// Callers hold e.mu.
func (e *Engine) recommender() *hybrid.Recommender {
	r := hybrid.New(e.scorer, e.filter)
	r.SetWeights(e.cfg.Hybrid.ContentWeight, e.cfg.Hybrid.CollaborativeWeight)
	r.SetMinScore(e.cfg.Hybrid.MinScore)
	r.SetMaxPerSource(e.cfg.Hybrid.MaxPerSource)
	return r
}

// Recommend ranks the job catalog for a user
func (e *Engine) Recommend(ctx context.Context, userID string, opts RecommendOptions) ([]model.Recommendation, error) {
	p, err := e.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := e.catalog.ListItems(ctx, catalog.ListOptions{Kind: model.KindJob})
	if err != nil {
		return nil, err
	}
	limit := e.limit(opts.Limit)

	if opts.Feed {
		list, err := e.Priorities(ctx, userID)
		if err != nil {
			return nil, err
		}
		ranked := rank(items, func(it *model.Item) model.ScoreResult {
			return priority.Score(it, p, list.Items()).ScoreResult(it.ID)
		})
		return e.trim(ranked, limit, opts.Diverse), nil
	}

	if opts.Collaborative {
		if err := e.ensureLoaded(ctx); err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	r := e.recommender()
	var recs []model.Recommendation
	if opts.Diverse {
		recs = r.RecommendDiverse(items, p, opts.Collaborative, limit)
	} else {
		recs = r.Recommend(items, p, opts.Collaborative)
	}
	e.mu.Unlock()

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// ScoreItem scores a single item for a user without the minimum score filter
func (e *Engine) ScoreItem(ctx context.Context, userID, itemID string, collaborative bool) (*model.ScoreResult, error) {
	p, err := e.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := e.Item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if collaborative {
		if err := e.ensureLoaded(ctx); err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	res := e.recommender().Score(item, p, collaborative)
	e.mu.Unlock()
	return &res, nil
}

// TeamMatches ranks team postings for a user with the team matcher
func (e *Engine) TeamMatches(ctx context.Context, userID string, limit int) ([]model.Recommendation, error) {
	p, err := e.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	teams, err := e.catalog.ListItems(ctx, catalog.ListOptions{Kind: model.KindTeam})
	if err != nil {
		return nil, err
	}

	ranked := rank(teams, func(it *model.Item) model.ScoreResult {
		return priority.ScoreTeam(it, p).ScoreResult(it.ID)
	})
	return e.trim(ranked, e.limit(limit), false), nil
}

// rank scores every item and sorts best first, keeping input order on ties
func rank(items []model.Item, score func(*model.Item) model.ScoreResult) []model.Recommendation {
	out := make([]model.Recommendation, 0, len(items))
	for i := range items {
		out = append(out, model.Recommendation{Item: items[i], Result: score(&items[i])})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.FinalScore > out[j].Result.FinalScore
	})
	return out
}

// trim drops results under the minimum score and applies the limit
func (e *Engine) trim(ranked []model.Recommendation, limit int, diverse bool) []model.Recommendation {
	kept := ranked[:0]
	for _, r := range ranked {
		if r.Result.FinalScore >= e.cfg.Hybrid.MinScore {
			kept = append(kept, r)
		}
	}
	if diverse {
		return hybrid.Diversify(kept, limit, e.cfg.Hybrid.MaxPerSource)
	}
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// Track records one interaction. The event lands in the in-memory filter,
// the user's bounded history and, when configured, the audit log.
// A zero at means now.
func (e *Engine) Track(ctx context.Context, userID, itemID string, action model.Action, at time.Time) (model.BehaviorEvent, error) {
	if userID == "" || itemID == "" {
		return model.BehaviorEvent{}, errors.New("user and item are required")
	}
	if at.IsZero() {
		at = time.Now()
	}
	if err := e.ensureLoaded(ctx); err != nil {
		return model.BehaviorEvent{}, err
	}

	ev := model.NewBehaviorEvent(userID, itemID, action, at)

	e.mu.Lock()
	err := collab.Track(ctx, e.store, e.filter, ev, e.cfg.Collaborative.HistoryLimit)
	e.mu.Unlock()
	if err != nil {
		return ev, err
	}

	if e.audit != nil {
		if err := e.audit.RecordBehavior(ctx, database.NewBehaviorRecord(ev)); err != nil {
			return ev, fmt.Errorf("failed to record behavior: %w", err)
		}
	}

	e.logger.Debug("tracked behavior", "user", userID, "item", itemID, "action", action)
	return ev, nil
}

// Similar returns up to k users most similar to the user
func (e *Engine) Similar(ctx context.Context, userID string, k int) ([]collab.Neighbor, error) {
	if err := e.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = e.cfg.Collaborative.Neighbors
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter.FindSimilarUsers(userID, k), nil
}

// CollaborativePicks predicts collaborative scores for every catalog job the
// user has not interacted with, best first
func (e *Engine) CollaborativePicks(ctx context.Context, userID string, limit int) ([]collab.ItemScore, error) {
	if err := e.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	ids, err := e.catalog.ItemIDs(ctx, model.KindJob)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter.Recommendations(userID, ids, e.limit(limit)), nil
}

// History returns the user's stored behavior log, oldest first
func (e *Engine) History(ctx context.Context, userID string) ([]model.BehaviorEvent, error) {
	return collab.ReadHistory(ctx, e.store, userID)
}

// AuditLog returns the user's audited events, newest first. Unlike History
// it is not capped by collaborative.history_limit, only by prune_keep.
func (e *Engine) AuditLog(ctx context.Context, userID string, since *time.Time, limit int) ([]model.BehaviorEvent, error) {
	if e.audit == nil {
		return nil, errors.New("audit log requires the sqlite database")
	}

	records, err := e.audit.ListBehaviors(ctx, database.BehaviorListOptions{
		UserID: &userID,
		Since:  since,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}

	events := make([]model.BehaviorEvent, len(records))
	for i := range records {
		events[i] = records[i].Event()
	}
	return events, nil
}

// Priorities returns the user's stored priority list, or the default scheme
func (e *Engine) Priorities(ctx context.Context, userID string) (*priority.List, error) {
	policy, err := priority.ParsePolicy(e.cfg.Priority.Policy)
	if err != nil {
		return nil, err
	}

	var items []model.PriorityItem
	ok, err := kvstore.GetJSON(ctx, e.store, kvstore.PrioritiesKey(userID), &items)
	if err != nil {
		return nil, err
	}
	if !ok {
		return priority.DefaultList(policy), nil
	}
	return priority.NewList(items, policy), nil
}

// SavePriorities stores the user's priority list
func (e *Engine) SavePriorities(ctx context.Context, userID string, l *priority.List) error {
	return kvstore.SetJSON(ctx, e.store, kvstore.PrioritiesKey(userID), l.Items())
}

// UpdatePriorities loads the user's list, applies fn and saves the result
func (e *Engine) UpdatePriorities(ctx context.Context, userID string, fn func(*priority.List) error) (*priority.List, error) {
	l, err := e.Priorities(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(l); err != nil {
		return nil, err
	}
	if err := e.SavePriorities(ctx, userID, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ResetPriorities replaces the user's list with the default scheme
func (e *Engine) ResetPriorities(ctx context.Context, userID string) (*priority.List, error) {
	policy, err := priority.ParsePolicy(e.cfg.Priority.Policy)
	if err != nil {
		return nil, err
	}
	l := priority.DefaultList(policy)
	if err := e.SavePriorities(ctx, userID, l); err != nil {
		return nil, err
	}
	return l, nil
}
