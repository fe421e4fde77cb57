package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vijay-prabhu/jobmatch/internal/engine"
	"github.com/vijay-prabhu/jobmatch/internal/model"
)

func (s *Server) registerHandlers() {
	s.handlers["recommend_items"] = s.handleRecommendItems
	s.handlers["score_item"] = s.handleScoreItem
	s.handlers["track_behavior"] = s.handleTrackBehavior
	s.handlers["similar_users"] = s.handleSimilarUsers
	s.handlers["team_matches"] = s.handleTeamMatches
	s.handlers["get_priorities"] = s.handleGetPriorities
	s.handlers["get_stats"] = s.handleGetStats
}

// decode unmarshals tool arguments; absent arguments leave dst zeroed
func decode(params json.RawMessage, dst interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, dst); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func requireUser(userID string) error {
	if userID == "" {
		return errors.New("user_id is required")
	}
	return nil
}

type recommendParams struct {
	UserID        string `json:"user_id"`
	Collaborative bool   `json:"collaborative"`
	Diverse       bool   `json:"diverse"`
	Feed          bool   `json:"feed"`
	Limit         int    `json:"limit"`
}

func (s *Server) handleRecommendItems(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p recommendParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if err := requireUser(p.UserID); err != nil {
		return nil, err
	}

	return s.engine.Recommend(ctx, p.UserID, engine.RecommendOptions{
		Collaborative: p.Collaborative,
		Diverse:       p.Diverse,
		Feed:          p.Feed,
		Limit:         p.Limit,
	})
}

type scoreParams struct {
	UserID        string `json:"user_id"`
	ItemID        string `json:"item_id"`
	Collaborative bool   `json:"collaborative"`
}

func (s *Server) handleScoreItem(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p scoreParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if err := requireUser(p.UserID); err != nil {
		return nil, err
	}
	if p.ItemID == "" {
		return nil, errors.New("item_id is required")
	}

	return s.engine.ScoreItem(ctx, p.UserID, p.ItemID, p.Collaborative)
}

type trackParams struct {
	UserID string `json:"user_id"`
	ItemID string `json:"item_id"`
	Action string `json:"action"`
}

func (s *Server) handleTrackBehavior(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p trackParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if err := requireUser(p.UserID); err != nil {
		return nil, err
	}
	if p.ItemID == "" {
		return nil, errors.New("item_id is required")
	}
	action, err := model.ParseAction(p.Action)
	if err != nil {
		return nil, err
	}

	return s.engine.Track(ctx, p.UserID, p.ItemID, action, time.Time{})
}

type similarParams struct {
	UserID       string `json:"user_id"`
	IncludeItems bool   `json:"include_items"`
	Limit        int    `json:"limit"`
}

func (s *Server) handleSimilarUsers(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p similarParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if err := requireUser(p.UserID); err != nil {
		return nil, err
	}

	if p.IncludeItems {
		return s.engine.CollaborativePicks(ctx, p.UserID, p.Limit)
	}
	return s.engine.Similar(ctx, p.UserID, p.Limit)
}

type teamParams struct {
	UserID string `json:"user_id"`
	Limit  int    `json:"limit"`
}

func (s *Server) handleTeamMatches(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p teamParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if err := requireUser(p.UserID); err != nil {
		return nil, err
	}

	return s.engine.TeamMatches(ctx, p.UserID, p.Limit)
}

type userParams struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleGetPriorities(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p userParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if err := requireUser(p.UserID); err != nil {
		return nil, err
	}

	return s.engine.Priorities(ctx, p.UserID)
}

type statsParams struct {
	SinceDays int `json:"since_days"`
}

func (s *Server) handleGetStats(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p statsParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	var since *time.Time
	if p.SinceDays > 0 {
		t := time.Now().AddDate(0, 0, -p.SinceDays)
		since = &t
	}

	return s.engine.Stats(ctx, since)
}
