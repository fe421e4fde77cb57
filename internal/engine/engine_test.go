package engine

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/vijay-prabhu/jobmatch/internal/catalog"
	"github.com/vijay-prabhu/jobmatch/internal/config"
	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/kvstore"
	"github.com/vijay-prabhu/jobmatch/internal/model"
	"github.com/vijay-prabhu/jobmatch/internal/priority"
)

var base = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	engine  *Engine
	store   *kvstore.Memory
	catalog *catalog.Store
	audit   *database.DB
	cfg     *config.Config
}

func setupEngine(t *testing.T, modify func(*config.Config)) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(dir, "jobmatch.db")
	cfg.Catalog.Path = filepath.Join(dir, "catalog.db")
	if modify != nil {
		modify(cfg)
	}

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	t.Cleanup(func() { cat.Close() })

	audit, err := database.Open(cfg.Database.Path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { audit.Close() })

	items := []model.Item{
		{
			ID: "j1", Kind: model.KindJob, Title: "프론트엔드 개발자", Industry: "IT",
			RequiredSkills: []string{"React", "TypeScript"}, Location: "서울 강남구",
			SourceID: "acme", CreatedAt: base,
		},
		{
			ID: "j2", Kind: model.KindJob, Title: "백엔드 개발자", Industry: "금융",
			RequiredSkills: []string{"Java"}, Location: "부산",
			SourceID: "bank", CreatedAt: base,
		},
		{
			ID: "j3", Kind: model.KindJob, Title: "서버 개발자", Industry: "IT",
			RequiredSkills: []string{"Java"}, Location: "부산",
			SourceID: "acme", CreatedAt: base,
		},
		{
			ID: "t1", Kind: model.KindTeam, Title: "프론트엔드 개발자",
			RequiredSkills: []string{"React"}, CreatedAt: base,
		},
	}
	if _, err := cat.UpsertItems(ctx, items); err != nil {
		t.Fatalf("failed to seed items: %v", err)
	}

	profiles := []model.Profile{
		{
			UserID: "u1", DesiredJob: "프론트엔드 개발자", Industries: []string{"IT"},
			Skills: []model.Skill{
				{Name: "React", Level: model.LevelAdvanced},
				{Name: "TypeScript", Level: model.LevelIntermediate},
			},
			Locations: []string{"서울"},
		},
		{UserID: "u2", Industries: []string{"IT"}},
	}
	if _, err := cat.UpsertProfiles(ctx, profiles); err != nil {
		t.Fatalf("failed to seed profiles: %v", err)
	}

	store := kvstore.NewMemory()
	e, err := New(cfg, Deps{Store: store, Catalog: cat, Audit: audit})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	return &fixture{engine: e, store: store, catalog: cat, audit: audit, cfg: cfg}
}

func ids(recs []model.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Item.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewRequiresDeps(t *testing.T) {
	cfg := config.Default()
	if _, err := New(cfg, Deps{}); err == nil {
		t.Error("expected error without a store")
	}
	if _, err := New(cfg, Deps{Store: kvstore.NewMemory()}); err == nil {
		t.Error("expected error without a catalog")
	}
}

func TestProfile(t *testing.T) {
	f := setupEngine(t, nil)
	ctx := context.Background()

	p, err := f.engine.Profile(ctx, "u1")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if p.DesiredJob != "프론트엔드 개발자" {
		t.Errorf("DesiredJob = %q", p.DesiredJob)
	}

	override := &model.Profile{UserID: "u1", DesiredJob: "디자이너"}
	if err := f.engine.SaveProfile(ctx, override); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	p, _ = f.engine.Profile(ctx, "u1")
	if p.DesiredJob != "디자이너" {
		t.Errorf("override ignored, DesiredJob = %q", p.DesiredJob)
	}

	if _, err := f.engine.Profile(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Profile(nobody) error = %v, want ErrNotFound", err)
	}
	if err := f.engine.SaveProfile(ctx, &model.Profile{}); err == nil {
		t.Error("expected error for profile without user id")
	}
}

func TestRecommendContentOnly(t *testing.T) {
	f := setupEngine(t, nil)
	ctx := context.Background()

	recs, err := f.engine.Recommend(ctx, "u1", RecommendOptions{})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	// j2 scores only the experience points and falls under the minimum
	if got := ids(recs); !equalIDs(got, []string{"j1", "j3"}) {
		t.Fatalf("Recommend = %v, want [j1 j3]", got)
	}
	if recs[0].Result.FinalScore != 75 {
		t.Errorf("j1 score = %v, want 75", recs[0].Result.FinalScore)
	}
	for _, r := range recs {
		if r.Item.Kind != model.KindJob {
			t.Errorf("team posting %s in job recommendations", r.Item.ID)
		}
	}

	recs, _ = f.engine.Recommend(ctx, "u1", RecommendOptions{Limit: 1})
	if got := ids(recs); !equalIDs(got, []string{"j1"}) {
		t.Errorf("limited Recommend = %v, want [j1]", got)
	}

	if _, err := f.engine.Recommend(ctx, "nobody", RecommendOptions{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Recommend(nobody) error = %v", err)
	}
}

func TestRecommendDiverse(t *testing.T) {
	f := setupEngine(t, func(c *config.Config) {
		c.Hybrid.MaxPerSource = 1
	})

	recs, err := f.engine.Recommend(context.Background(), "u1", RecommendOptions{Diverse: true})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	// j1 and j3 share a source
	if got := ids(recs); !equalIDs(got, []string{"j1"}) {
		t.Errorf("diverse Recommend = %v, want [j1]", got)
	}
}

func TestRecommendFeed(t *testing.T) {
	f := setupEngine(t, nil)

	recs, err := f.engine.Recommend(context.Background(), "u1", RecommendOptions{Feed: true})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(recs) == 0 || recs[0].Item.ID != "j1" {
		t.Fatalf("feed = %v, want j1 first", ids(recs))
	}
	if recs[0].Result.Breakdown[model.Dimension(priority.FieldDesiredJob)] != 25 {
		t.Errorf("desired job points = %v, want 25", recs[0].Result.Breakdown)
	}
}

func TestTrackAndCollaborative(t *testing.T) {
	f := setupEngine(t, nil)
	ctx := context.Background()

	steps := []struct {
		user, item string
		action     model.Action
	}{
		{"u1", "j1", model.ActionApply},
		{"u2", "j1", model.ActionApply},
		{"u2", "j3", model.ActionApply},
	}
	for i, s := range steps {
		if _, err := f.engine.Track(ctx, s.user, s.item, s.action, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("Track(%s, %s) failed: %v", s.user, s.item, err)
		}
	}

	neighbors, err := f.engine.Similar(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("Similar failed: %v", err)
	}
	if len(neighbors) != 1 || neighbors[0].UserID != "u2" || neighbors[0].Similarity != 1 {
		t.Errorf("Similar = %+v, want u2 with similarity 1", neighbors)
	}

	picks, err := f.engine.CollaborativePicks(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("CollaborativePicks failed: %v", err)
	}
	if len(picks) != 1 || picks[0].ItemID != "j3" || picks[0].Score != 3 {
		t.Errorf("CollaborativePicks = %+v, want j3 at 3", picks)
	}

	res, err := f.engine.ScoreItem(ctx, "u1", "j3", true)
	if err != nil {
		t.Fatalf("ScoreItem failed: %v", err)
	}
	if res.ContentScore != 35 || res.CollaborativeScore != 100 {
		t.Errorf("ScoreItem = %+v, want content 35 and collaborative 100", res)
	}
	if math.Abs(res.FinalScore-61) > 1e-9 {
		t.Errorf("FinalScore = %v, want 61", res.FinalScore)
	}

	// Already seen items get no collaborative credit
	res, _ = f.engine.ScoreItem(ctx, "u1", "j1", true)
	if res.CollaborativeScore != 0 {
		t.Errorf("seen item collaborative score = %v, want 0", res.CollaborativeScore)
	}

	history, err := f.engine.History(ctx, "u2")
	if err != nil || len(history) != 2 {
		t.Errorf("History(u2) = %v, %v", history, err)
	}

	user := "u2"
	records, err := f.audit.ListBehaviors(ctx, database.BehaviorListOptions{UserID: &user})
	if err != nil || len(records) != 2 {
		t.Errorf("audit records for u2 = %d, %v", len(records), err)
	}

	if _, err := f.engine.Track(ctx, "", "j1", model.ActionView, base); err == nil {
		t.Error("expected error for empty user")
	}
}

func TestRefreshFromStore(t *testing.T) {
	f := setupEngine(t, func(c *config.Config) {
		c.Collaborative.UseIndex = true
	})
	ctx := context.Background()

	_, _ = f.engine.Track(ctx, "u1", "j1", model.ActionApply, base)
	_, _ = f.engine.Track(ctx, "u2", "j1", model.ActionSave, base)

	// A second engine over the same stores starts empty and reloads
	other, err := New(f.cfg, Deps{Store: f.store, Catalog: f.catalog, Audit: f.audit})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var phases []ProgressPhase
	result, err := other.Refresh(ctx, func(p Progress) {
		if len(phases) == 0 || phases[len(phases)-1] != p.Phase {
			phases = append(phases, p.Phase)
		}
	})
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if result.Users != 2 || result.Events != 2 || result.Indexed != 2 {
		t.Errorf("Refresh = %+v", result)
	}
	if len(phases) != 3 || phases[2] != PhaseIndexing {
		t.Errorf("phases = %v", phases)
	}

	neighbors, _ := other.Similar(ctx, "u1", 0)
	if len(neighbors) != 1 || neighbors[0].UserID != "u2" {
		t.Errorf("Similar after refresh = %+v", neighbors)
	}

	state, err := f.audit.GetRefreshState(ctx)
	if err != nil {
		t.Fatalf("GetRefreshState failed: %v", err)
	}
	if state.LastRefreshAt == nil || state.UsersIndexed != 2 {
		t.Errorf("refresh state = %+v", state)
	}

	stats, err := other.Stats(ctx, nil)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Indexed != 2 || stats.IndexAt == nil {
		t.Errorf("index stats = %d, %v", stats.Indexed, stats.IndexAt)
	}
}

func TestPrune(t *testing.T) {
	f := setupEngine(t, func(c *config.Config) {
		c.Scheduler.PruneKeep = 1
	})
	ctx := context.Background()

	_, _ = f.engine.Track(ctx, "u2", "j1", model.ActionView, base)
	_, _ = f.engine.Track(ctx, "u2", "j3", model.ActionSave, base.Add(time.Minute))

	deleted, err := f.engine.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	state, _ := f.audit.GetRefreshState(ctx)
	if state.EventsPruned != 1 {
		t.Errorf("EventsPruned = %d, want 1", state.EventsPruned)
	}

	// The bounded history in the store is untouched by pruning
	history, _ := f.engine.History(ctx, "u2")
	if len(history) != 2 {
		t.Errorf("history length = %d, want 2", len(history))
	}

	audited, err := f.engine.AuditLog(ctx, "u2", nil, 0)
	if err != nil {
		t.Fatalf("AuditLog failed: %v", err)
	}
	if len(audited) != 1 || audited[0].ItemID != "j3" || audited[0].Action != model.ActionSave {
		t.Errorf("audit log after prune = %+v, want only the j3 save", audited)
	}
}

func TestPruneWithoutAudit(t *testing.T) {
	f := setupEngine(t, nil)
	e, err := New(f.cfg, Deps{Store: f.store, Catalog: f.catalog})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if n, err := e.Prune(context.Background()); n != 0 || err != nil {
		t.Errorf("Prune without audit = %d, %v", n, err)
	}
	if _, err := e.AuditLog(context.Background(), "u1", nil, 0); err == nil {
		t.Error("expected AuditLog error without audit database")
	}
}

func TestTeamMatches(t *testing.T) {
	f := setupEngine(t, nil)

	recs, err := f.engine.TeamMatches(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("TeamMatches failed: %v", err)
	}
	if got := ids(recs); !equalIDs(got, []string{"t1"}) {
		t.Fatalf("TeamMatches = %v, want [t1]", got)
	}
	if recs[0].Result.Breakdown[model.Dimension(priority.FactorTitle)] != 20 {
		t.Errorf("title points = %v", recs[0].Result.Breakdown)
	}
}

func TestPriorities(t *testing.T) {
	f := setupEngine(t, nil)
	ctx := context.Background()

	l, err := f.engine.Priorities(ctx, "u1")
	if err != nil {
		t.Fatalf("Priorities failed: %v", err)
	}
	if l.ActiveTotal() != 100 || len(l.Items()) != 7 {
		t.Errorf("default list total %d with %d items", l.ActiveTotal(), len(l.Items()))
	}

	updated, err := f.engine.UpdatePriorities(ctx, "u1", func(l *priority.List) error {
		return l.SetEnabled(priority.FieldSalary, false)
	})
	if err != nil {
		t.Fatalf("UpdatePriorities failed: %v", err)
	}
	if updated.ActiveTotal() != 100 {
		t.Errorf("ActiveTotal after toggle = %d, want 100", updated.ActiveTotal())
	}

	reloaded, _ := f.engine.Priorities(ctx, "u1")
	for _, it := range reloaded.Items() {
		if it.Field == priority.FieldSalary && it.Enabled {
			t.Error("toggle was not persisted")
		}
	}

	if _, err := f.engine.UpdatePriorities(ctx, "u1", func(l *priority.List) error {
		return l.Remove("unknown")
	}); err == nil {
		t.Error("expected error removing an unknown field")
	}

	reset, err := f.engine.ResetPriorities(ctx, "u1")
	if err != nil || len(reset.Items()) != 7 {
		t.Errorf("ResetPriorities = %v, %v", reset, err)
	}
}

func TestStats(t *testing.T) {
	f := setupEngine(t, nil)
	ctx := context.Background()
	_, _ = f.engine.Track(ctx, "u1", "j1", model.ActionView, base)

	s, err := f.engine.Stats(ctx, nil)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if s.Catalog.Jobs != 3 || s.Catalog.Teams != 1 || s.Catalog.Profiles != 2 {
		t.Errorf("catalog summary = %+v", s.Catalog)
	}
	if s.Behavior == nil || s.Behavior.TotalEvents != 1 {
		t.Errorf("behavior stats = %+v", s.Behavior)
	}
	if s.Weights[model.DimIndustry] != 30 {
		t.Errorf("weights = %v", s.Weights)
	}
}
