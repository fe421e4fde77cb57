// Package engine connects the scorers to storage. It loads behavior
// histories into a collaborative filter, keeps the neighbor index fresh and
// answers the queries issued by the CLI and the MCP server.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/vijay-prabhu/jobmatch/internal/catalog"
	"github.com/vijay-prabhu/jobmatch/internal/collab"
	"github.com/vijay-prabhu/jobmatch/internal/config"
	"github.com/vijay-prabhu/jobmatch/internal/content"
	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/kvstore"
	"github.com/vijay-prabhu/jobmatch/internal/logging"
)

// ErrNotFound is returned when a user profile or item does not exist
var ErrNotFound = errors.New("not found")

// Deps are the collaborators an Engine reads and writes
type Deps struct {
	Store   kvstore.Store  // behavior logs, preference overrides, priority lists
	Catalog *catalog.Store // items and profiles
	Audit   *database.DB   // optional append-only behavior log
	Logger  *slog.Logger
}

// Engine serves recommendations backed by the configured stores
type Engine struct {
	cfg     *config.Config
	store   kvstore.Store
	catalog *catalog.Store
	audit   *database.DB
	logger  *slog.Logger
	scorer  *content.Scorer
	index   *collab.Index // nil unless collaborative.use_index is set

	refreshMu sync.Mutex // serializes refreshes

	mu     sync.Mutex // guards filter
	filter *collab.Filter
	loaded bool
}

// New creates an Engine. The store and catalog are required.
func New(cfg *config.Config, deps Deps) (*Engine, error) {
	if deps.Store == nil {
		return nil, errors.New("engine: store is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("engine: catalog is required")
	}

	weights, err := cfg.ContentWeights()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve content weights: %w", err)
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content weights: %w", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	e := &Engine{
		cfg:     cfg,
		store:   deps.Store,
		catalog: deps.Catalog,
		audit:   deps.Audit,
		logger:  logger,
		scorer:  content.NewScorer(weights),
	}
	if cfg.Collaborative.UseIndex {
		e.index = collab.NewIndex(cfg.Collaborative.Neighbors)
	}
	e.filter = e.newFilter()
	return e, nil
}

func (e *Engine) newFilter() *collab.Filter {
	f := collab.New()
	f.SetNeighbors(e.cfg.Collaborative.Neighbors)
	if e.index != nil {
		f.SetFinder(e.index)
	}
	return f
}

// Progress reports how far a refresh has come
type Progress struct {
	Phase   ProgressPhase
	Current int
	Total   int
}

// ProgressPhase names a refresh step
type ProgressPhase string

const (
	PhaseListing  ProgressPhase = "listing"
	PhaseLoading  ProgressPhase = "loading"
	PhaseIndexing ProgressPhase = "indexing"
)

// ProgressCallback receives refresh progress updates
type ProgressCallback func(Progress)

// Percentage returns the completion percentage (0-100)
func (p Progress) Percentage() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Current * 100) / p.Total
}

// RefreshResult summarizes a refresh
type RefreshResult struct {
	Users    int           `json:"users"`
	Events   int           `json:"events"`
	Indexed  int           `json:"indexed"`
	Duration time.Duration `json:"duration"`
}

// Refresh reloads every known user's recent history into a fresh filter,
// rebuilds the neighbor index when one is configured and swaps the new
// filter in. progress may be nil.
func (e *Engine) Refresh(ctx context.Context, progress ProgressCallback) (*RefreshResult, error) {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	start := time.Now()
	report := func(phase ProgressPhase, current, total int) {
		if progress != nil {
			progress(Progress{Phase: phase, Current: current, Total: total})
		}
	}

	report(PhaseListing, 0, 0)
	users, err := e.knownUsers(ctx)
	if err != nil {
		return nil, err
	}

	fresh := e.newFilter()
	report(PhaseLoading, 0, len(users))
	if err := collab.LoadUsers(ctx, e.store, fresh, users, e.cfg.Collaborative.HistoryLimit); err != nil {
		return nil, fmt.Errorf("failed to load histories: %w", err)
	}
	report(PhaseLoading, len(users), len(users))

	result := &RefreshResult{Users: len(users)}
	for _, u := range users {
		result.Events += len(fresh.Behaviors(u))
	}

	if e.index != nil {
		report(PhaseIndexing, 0, len(users))
		e.index.Rebuild(fresh)
		result.Indexed = e.index.Len()
		report(PhaseIndexing, len(users), len(users))
	}

	e.mu.Lock()
	e.filter = fresh
	e.loaded = true
	e.mu.Unlock()

	if e.audit != nil {
		if err := e.audit.RecordRefresh(ctx, time.Now(), result.Users); err != nil {
			return nil, fmt.Errorf("failed to update refresh state: %w", err)
		}
	}

	result.Duration = time.Since(start)
	e.logger.Info("refreshed behavior histories",
		"users", result.Users,
		"events", result.Events,
		"indexed", result.Indexed,
		"duration", result.Duration)
	return result, nil
}

// Prune trims the audit log to the configured number of recent events per
// user. It is a no-op without an audit database.
func (e *Engine) Prune(ctx context.Context) (int64, error) {
	if e.audit == nil {
		return 0, nil
	}

	deleted, err := e.audit.PruneBehaviors(ctx, e.cfg.Scheduler.PruneKeep)
	if err != nil {
		return 0, err
	}

	e.logger.Info("pruned behavior audit log", "deleted", deleted, "keep", e.cfg.Scheduler.PruneKeep)
	return deleted, nil
}

// ensureLoaded runs the first refresh on demand
func (e *Engine) ensureLoaded(ctx context.Context) error {
	e.mu.Lock()
	loaded := e.loaded
	e.mu.Unlock()
	if loaded {
		return nil
	}
	_, err := e.Refresh(ctx, nil)
	return err
}

// knownUsers merges the users found in the key-value store with those in
// the audit log, since not every store can list its keys
func (e *Engine) knownUsers(ctx context.Context) ([]string, error) {
	users, err := kvstore.BehaviorUsers(ctx, e.store)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if e.audit == nil {
		return users, nil
	}

	audited, err := e.audit.BehaviorUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list audited users: %w", err)
	}

	seen := make(map[string]bool, len(users)+len(audited))
	var merged []string
	for _, u := range append(users, audited...) {
		if !seen[u] {
			seen[u] = true
			merged = append(merged, u)
		}
	}
	sort.Strings(merged)
	return merged, nil
}

// Stats collects catalog, behavior and index counters
type Stats struct {
	Catalog  *catalog.Summary        `json:"catalog"`
	Behavior *database.BehaviorStats `json:"behavior,omitempty"`
	Refresh  *database.RefreshState  `json:"refresh,omitempty"`
	Indexed  int                     `json:"indexed"`
	IndexAt  *time.Time              `json:"index_built_at,omitempty"`
	Weights  content.Weights         `json:"weights"`
}

// Stats returns the current counters. Behavior and refresh figures need the
// audit database; since limits the behavior figures when set.
func (e *Engine) Stats(ctx context.Context, since *time.Time) (*Stats, error) {
	summary, err := e.catalog.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize catalog: %w", err)
	}

	s := &Stats{Catalog: summary, Weights: e.scorer.Weights()}
	if e.index != nil {
		s.Indexed = e.index.Len()
		if at := e.index.BuiltAt(); !at.IsZero() {
			s.IndexAt = &at
		}
	}
	if e.audit == nil {
		return s, nil
	}

	if s.Behavior, err = e.audit.BehaviorStats(ctx, since); err != nil {
		return nil, fmt.Errorf("failed to get behavior stats: %w", err)
	}
	if s.Refresh, err = e.audit.GetRefreshState(ctx); err != nil {
		return nil, fmt.Errorf("failed to get refresh state: %w", err)
	}
	return s, nil
}

// Config returns the configuration the engine was built with
func (e *Engine) Config() *config.Config {
	return e.cfg
}
