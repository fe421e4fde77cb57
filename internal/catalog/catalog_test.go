package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vijay-prabhu/jobmatch/internal/model"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestUpsertAndListItems(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	first := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	items := []model.Item{
		{ID: "j1", Kind: model.KindJob, Title: "백엔드 개발자", SourceID: "acme", RequiredSkills: []string{"Go", "PostgreSQL"}, CreatedAt: first},
		{ID: "j2", Kind: model.KindJob, Title: "프론트엔드 개발자", SourceID: "acme", CreatedAt: first.Add(time.Hour)},
		{ID: "t1", Kind: model.KindTeam, Title: "사이드 프로젝트 팀원", SourceID: "team-a", Personality: []string{"꼼꼼함"}, CreatedAt: first.Add(2 * time.Hour)},
	}

	res, err := store.UpsertItems(ctx, items)
	if err != nil {
		t.Fatalf("UpsertItems error: %v", err)
	}
	if res.Created != 3 || res.Updated != 0 {
		t.Fatalf("first upsert = %+v", res)
	}

	items[0].Title = "시니어 백엔드 개발자"
	res, err = store.UpsertItems(ctx, items[:1])
	if err != nil {
		t.Fatalf("second UpsertItems error: %v", err)
	}
	if res.Created != 0 || res.Updated != 1 {
		t.Errorf("second upsert = %+v", res)
	}

	all, err := store.ListItems(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("ListItems error: %v", err)
	}
	if len(all) != 3 || all[0].ID != "t1" {
		t.Fatalf("ListItems = %v", all)
	}

	jobs, _ := store.ListItems(ctx, ListOptions{Kind: model.KindJob})
	if len(jobs) != 2 {
		t.Errorf("expected 2 jobs, got %d", len(jobs))
	}

	limited, _ := store.ListItems(ctx, ListOptions{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("expected 1 item with limit, got %d", len(limited))
	}

	got, err := store.GetItem(ctx, "j1")
	if err != nil || got == nil {
		t.Fatalf("GetItem = %v, %v", got, err)
	}
	if got.Title != "시니어 백엔드 개발자" || len(got.RequiredSkills) != 2 || got.RequiredSkills[0] != "Go" {
		t.Errorf("GetItem = %+v", got)
	}
	if !got.CreatedAt.Equal(first) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, first)
	}

	missing, err := store.GetItem(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("GetItem(missing) = %v, %v", missing, err)
	}

	ids, _ := store.ItemIDs(ctx, model.KindTeam)
	if len(ids) != 1 || ids[0] != "t1" {
		t.Errorf("ItemIDs(team) = %v", ids)
	}
}

func TestUpsertItemsRejectsMissingID(t *testing.T) {
	store := setupStore(t)
	if _, err := store.UpsertItems(context.Background(), []model.Item{{Title: "no id"}}); err == nil {
		t.Error("expected error for item without id")
	}
}

func TestProfiles(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	profiles := []model.Profile{
		{
			UserID:     "u2",
			Skills:     []model.Skill{{Name: "React", Level: model.LevelAdvanced}},
			Locations:  []string{"서울"},
			CareerType: model.CareerNewcomer,
		},
		{UserID: "u1", DesiredJob: "데이터 엔지니어", YearsExperience: 4},
	}
	if _, err := store.UpsertProfiles(ctx, profiles); err != nil {
		t.Fatalf("UpsertProfiles error: %v", err)
	}

	p, err := store.GetProfile(ctx, "u2")
	if err != nil || p == nil {
		t.Fatalf("GetProfile = %v, %v", p, err)
	}
	if len(p.Skills) != 1 || p.Skills[0].Level != model.LevelAdvanced || p.CareerType != model.CareerNewcomer {
		t.Errorf("GetProfile = %+v", p)
	}

	list, _ := store.ListProfiles(ctx)
	if len(list) != 2 || list[0].UserID != "u1" {
		t.Errorf("ListProfiles = %v", list)
	}

	if p, err := store.GetProfile(ctx, "ghost"); p != nil || err != nil {
		t.Errorf("GetProfile(ghost) = %v, %v", p, err)
	}
}

const yamlFixtures = `
items:
  - id: j1
    title: 백엔드 개발자
    industry: IT/소프트웨어
    required_skills: [Go, Redis]
    salary_text: "4,000~5,000만원"
    source_id: acme
  - id: t1
    kind: team
    title: 해커톤 팀
    personality: [적극성]
profiles:
  - user_id: u1
    skills:
      - name: Go
        level: advanced
    locations: [서울]
`

func TestLoadFixturesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(yamlFixtures), 0o644); err != nil {
		t.Fatal(err)
	}

	fx, err := LoadFixtures(path)
	if err != nil {
		t.Fatalf("LoadFixtures error: %v", err)
	}
	if len(fx.Items) != 2 || len(fx.Profiles) != 1 {
		t.Fatalf("fixtures = %+v", fx)
	}
	if fx.Items[0].Kind != model.KindJob {
		t.Errorf("default kind = %q, want job", fx.Items[0].Kind)
	}
	if fx.Items[1].Kind != model.KindTeam {
		t.Errorf("explicit kind = %q, want team", fx.Items[1].Kind)
	}
	if fx.Profiles[0].Skills[0].Level != model.LevelAdvanced {
		t.Errorf("skill level = %q", fx.Profiles[0].Skills[0].Level)
	}

	store := setupStore(t)
	res, err := store.Import(context.Background(), fx)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if res.Items.Created != 2 || res.Profiles.Created != 1 {
		t.Errorf("Import = %+v", res)
	}

	sum, err := store.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if sum.Jobs != 1 || sum.Teams != 1 || sum.Sources != 1 || sum.Profiles != 1 {
		t.Errorf("Summary = %+v", sum)
	}
}

func TestParseFixtures(t *testing.T) {
	fx, err := ParseFixtures([]byte(`{"items":[{"id":"j1","title":"QA"}]}`), ".JSON")
	if err != nil {
		t.Fatalf("ParseFixtures(json) error: %v", err)
	}
	if len(fx.Items) != 1 || fx.Items[0].Kind != model.KindJob {
		t.Errorf("items = %+v", fx.Items)
	}

	if _, err := ParseFixtures([]byte("a,b"), ".csv"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if _, err := ParseFixtures([]byte("{"), ".json"); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
