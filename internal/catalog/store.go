// Package catalog persists job postings, team postings and user profiles in
// SQLite through GORM.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// Store wraps the catalog database
type Store struct {
	db *gorm.DB
}

// UpsertResult reports how many rows an upsert created and updated
type UpsertResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ListOptions filters item listings
type ListOptions struct {
	Kind     model.Kind
	SourceID string
	Limit    int
	Offset   int
}

// Summary counts catalog contents
type Summary struct {
	Jobs     int64 `json:"jobs"`
	Teams    int64 `json:"teams"`
	Sources  int64 `json:"sources"`
	Profiles int64 `json:"profiles"`
}

var itemColumns = []string{
	"kind", "title", "description", "location", "salary_min", "salary_max",
	"salary_text", "work_type", "industry", "required_skills", "preferred_skills",
	"experience", "source_id", "culture", "benefits", "personality", "posted_at", "updated_at",
}

var profileColumns = []string{
	"desired_job", "skills", "industries", "locations", "salary_min", "salary_max",
	"work_types", "career_type", "years_experience", "culture_prefs", "personality", "updated_at",
}

// Open opens or creates the catalog at the given path and migrates its tables
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	if err := db.AutoMigrate(&itemRow{}, &profileRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql DB: %w", err)
	}
	return sqlDB.Close()
}

// UpsertItems writes items, replacing existing rows with the same ID
func (s *Store) UpsertItems(ctx context.Context, items []model.Item) (UpsertResult, error) {
	res := UpsertResult{}
	if len(items) == 0 {
		return res, nil
	}

	rows := make([]itemRow, 0, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			return res, fmt.Errorf("item without id: %q", it.Title)
		}
		rows = append(rows, toItemRow(it))
		ids = append(ids, it.ID)
	}

	existing, err := s.existing(ctx, &itemRow{}, "id", ids)
	if err != nil {
		return res, err
	}
	res.Updated = countIn(ids, existing)
	res.Created = len(ids) - res.Updated

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(itemColumns),
	}).Create(&rows).Error
	if err != nil {
		return res, fmt.Errorf("failed to upsert items: %w", err)
	}
	return res, nil
}

// ListItems returns items, newest posting first
func (s *Store) ListItems(ctx context.Context, opts ListOptions) ([]model.Item, error) {
	query := s.db.WithContext(ctx).Model(&itemRow{}).Order("posted_at DESC, id ASC")
	if opts.Kind != "" {
		query = query.Where("kind = ?", string(opts.Kind))
	}
	if opts.SourceID != "" {
		query = query.Where("source_id = ?", opts.SourceID)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var rows []itemRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	items := make([]model.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.item())
	}
	return items, nil
}

// GetItem retrieves an item by ID. Returns nil when it does not exist.
func (s *Store) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var row itemRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	it := row.item()
	return &it, nil
}

// ItemIDs returns every item ID of the given kind (all kinds when empty)
func (s *Store) ItemIDs(ctx context.Context, kind model.Kind) ([]string, error) {
	query := s.db.WithContext(ctx).Model(&itemRow{}).Order("id")
	if kind != "" {
		query = query.Where("kind = ?", string(kind))
	}
	var ids []string
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list item ids: %w", err)
	}
	return ids, nil
}

// UpsertProfiles writes profiles keyed by user ID
func (s *Store) UpsertProfiles(ctx context.Context, profiles []model.Profile) (UpsertResult, error) {
	res := UpsertResult{}
	if len(profiles) == 0 {
		return res, nil
	}

	rows := make([]profileRow, 0, len(profiles))
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		if p.UserID == "" {
			return res, errors.New("profile without user_id")
		}
		rows = append(rows, toProfileRow(p))
		ids = append(ids, p.UserID)
	}

	existing, err := s.existing(ctx, &profileRow{}, "user_id", ids)
	if err != nil {
		return res, err
	}
	res.Updated = countIn(ids, existing)
	res.Created = len(ids) - res.Updated

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(profileColumns),
	}).Create(&rows).Error
	if err != nil {
		return res, fmt.Errorf("failed to upsert profiles: %w", err)
	}
	return res, nil
}

// GetProfile retrieves a profile by user ID. Returns nil when it does not exist.
func (s *Store) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var row profileRow
	err := s.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p := row.profile()
	return &p, nil
}

// ListProfiles returns every profile ordered by user ID
func (s *Store) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	var rows []profileRow
	if err := s.db.WithContext(ctx).Order("user_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	profiles := make([]model.Profile, 0, len(rows))
	for _, r := range rows {
		profiles = append(profiles, r.profile())
	}
	return profiles, nil
}

// Summary counts items per kind, distinct sources and profiles
func (s *Store) Summary(ctx context.Context) (*Summary, error) {
	sum := &Summary{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&itemRow{}).Where("kind = ?", string(model.KindJob)).Count(&sum.Jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	if err := db.Model(&itemRow{}).Where("kind = ?", string(model.KindTeam)).Count(&sum.Teams).Error; err != nil {
		return nil, fmt.Errorf("failed to count teams: %w", err)
	}
	if err := db.Model(&itemRow{}).Where("source_id <> ''").Distinct("source_id").Count(&sum.Sources).Error; err != nil {
		return nil, fmt.Errorf("failed to count sources: %w", err)
	}
	if err := db.Model(&profileRow{}).Count(&sum.Profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}
	return sum, nil
}

func (s *Store) existing(ctx context.Context, table interface{}, column string, ids []string) (map[string]bool, error) {
	var found []string
	if err := s.db.WithContext(ctx).Model(table).Where(column+" IN ?", ids).Pluck(column, &found).Error; err != nil {
		return nil, fmt.Errorf("failed to query existing ids: %w", err)
	}
	set := make(map[string]bool, len(found))
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}

func countIn(ids []string, set map[string]bool) int {
	n := 0
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if set[id] && !seen[id] {
			n++
		}
		seen[id] = true
	}
	return n
}
