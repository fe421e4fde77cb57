package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// Fixtures is the on-disk import format
type Fixtures struct {
	Items    []model.Item    `json:"items" yaml:"items"`
	Profiles []model.Profile `json:"profiles" yaml:"profiles"`
}

// ImportResult reports what an import wrote
type ImportResult struct {
	Items    UpsertResult `json:"items"`
	Profiles UpsertResult `json:"profiles"`
}

// LoadFixtures reads a JSON or YAML fixture file, chosen by extension
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return ParseFixtures(data, filepath.Ext(path))
}

// ParseFixtures decodes fixture data. ext is ".json", ".yaml" or ".yml".
func ParseFixtures(data []byte, ext string) (*Fixtures, error) {
	fx := &Fixtures{}
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, fx); err != nil {
			return nil, fmt.Errorf("failed to parse JSON fixtures: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, fx); err != nil {
			return nil, fmt.Errorf("failed to parse YAML fixtures: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported fixture format: %q (use .json, .yaml or .yml)", ext)
	}

	for i := range fx.Items {
		if fx.Items[i].Kind == "" {
			fx.Items[i].Kind = model.KindJob
		}
	}
	return fx, nil
}

// Import upserts every item and profile in the fixtures
func (s *Store) Import(ctx context.Context, fx *Fixtures) (*ImportResult, error) {
	items, err := s.UpsertItems(ctx, fx.Items)
	if err != nil {
		return nil, err
	}
	profiles, err := s.UpsertProfiles(ctx, fx.Profiles)
	if err != nil {
		return nil, err
	}
	return &ImportResult{Items: items, Profiles: profiles}, nil
}
