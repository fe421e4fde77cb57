package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vijay-prabhu/jobmatch/internal/catalog"
	"github.com/vijay-prabhu/jobmatch/internal/config"
	"github.com/vijay-prabhu/jobmatch/internal/engine"
	"github.com/vijay-prabhu/jobmatch/internal/kvstore"
	"github.com/vijay-prabhu/jobmatch/internal/model"
)

type response struct {
	ID     interface{}     `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func setupServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	cfg := config.Default()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "catalog.db")

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	t.Cleanup(func() { cat.Close() })

	_, err = cat.Import(ctx, &catalog.Fixtures{
		Items: []model.Item{{
			ID: "j1", Kind: model.KindJob, Title: "프론트엔드 개발자", Industry: "IT",
			RequiredSkills: []string{"React"}, Location: "서울 강남구", SourceID: "acme",
		}},
		Profiles: []model.Profile{{
			UserID: "u1", Industries: []string{"IT"},
			Skills: []model.Skill{{Name: "React"}}, Locations: []string{"서울"},
		}},
	})
	if err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	e, err := engine.New(cfg, engine.Deps{Store: kvstore.NewMemory(), Catalog: cat})
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	return New(e, "test", nil)
}

// serve feeds the requests to the server and decodes every response line
func serve(t *testing.T, s *Server, requests ...string) []response {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(requests, "\n"))
	if err := s.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var responses []response
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r response
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		responses = append(responses, r)
	}
	return responses
}

func callTool(t *testing.T, s *Server, name, args string) callToolResult {
	t.Helper()
	req := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"` + name + `","arguments":` + args + `}}`
	responses := serve(t, s, req)
	if len(responses) != 1 || responses[0].Error != nil {
		t.Fatalf("tools/call %s: %+v", name, responses)
	}
	var result callToolResult
	if err := json.Unmarshal(responses[0].Result, &result); err != nil {
		t.Fatalf("invalid tool result: %v", err)
	}
	return result
}

func TestInitialize(t *testing.T) {
	s := setupServer(t)
	responses := serve(t, s,
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	)
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses (notification has none), got %d", len(responses))
	}

	var init initializeResult
	if err := json.Unmarshal(responses[0].Result, &init); err != nil {
		t.Fatal(err)
	}
	if init.ServerInfo.Name != "jobmatch" || init.ServerInfo.Version != "test" {
		t.Errorf("serverInfo = %+v", init.ServerInfo)
	}
	if init.ProtocolVersion != protocolVersion {
		t.Errorf("protocolVersion = %s", init.ProtocolVersion)
	}

	var tools toolsListResult
	if err := json.Unmarshal(responses[1].Result, &tools); err != nil {
		t.Fatal(err)
	}
	if len(tools.Tools) != len(ToolDefinitions) {
		t.Errorf("listed %d tools, want %d", len(tools.Tools), len(ToolDefinitions))
	}
	for _, tool := range tools.Tools {
		if s.handlers[tool.Name] == nil {
			t.Errorf("tool %s has no handler", tool.Name)
		}
	}
}

func TestProtocolErrors(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		name string
		req  string
		code int
	}{
		{"parse error", `{not json`, codeParseError},
		{"unknown method", `{"jsonrpc":"2.0","id":1,"method":"prompts/list"}`, codeMethodNotFound},
		{"unknown tool", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"nope"}}`, codeInvalidParams},
		{"unknown resource", `{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"jobmatch://nope"}}`, codeInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := serve(t, s, tt.req)
			if len(responses) != 1 || responses[0].Error == nil {
				t.Fatalf("expected an error response, got %+v", responses)
			}
			if responses[0].Error.Code != tt.code {
				t.Errorf("code = %d, want %d", responses[0].Error.Code, tt.code)
			}
		})
	}
}

func TestRecommendTool(t *testing.T) {
	s := setupServer(t)

	result := callTool(t, s, "recommend_items", `{"user_id":"u1"}`)
	if result.IsError {
		t.Fatalf("recommend_items failed: %s", result.Content[0].Text)
	}

	var recs []model.Recommendation
	if err := json.Unmarshal([]byte(result.Content[0].Text), &recs); err != nil {
		t.Fatalf("invalid recommendations: %v", err)
	}
	if len(recs) != 1 || recs[0].Item.ID != "j1" {
		t.Errorf("recommendations = %+v", recs)
	}
}

func TestToolErrors(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		name string
		tool string
		args string
		want string
	}{
		{"missing user", "recommend_items", `{}`, "user_id is required"},
		{"missing item", "score_item", `{"user_id":"u1"}`, "item_id is required"},
		{"bad action", "track_behavior", `{"user_id":"u1","item_id":"j1","action":"like"}`, "like"},
		{"unknown profile", "team_matches", `{"user_id":"ghost"}`, "ghost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, s, tt.tool, tt.args)
			if !result.IsError {
				t.Fatalf("expected isError, got %+v", result)
			}
			if !strings.Contains(result.Content[0].Text, tt.want) {
				t.Errorf("error text %q missing %q", result.Content[0].Text, tt.want)
			}
		})
	}
}

func TestTrackThenSimilar(t *testing.T) {
	s := setupServer(t)

	if r := callTool(t, s, "track_behavior", `{"user_id":"u1","item_id":"j1","action":"apply"}`); r.IsError {
		t.Fatalf("track u1: %s", r.Content[0].Text)
	}
	if r := callTool(t, s, "track_behavior", `{"user_id":"u2","item_id":"j1","action":"save"}`); r.IsError {
		t.Fatalf("track u2: %s", r.Content[0].Text)
	}

	result := callTool(t, s, "similar_users", `{"user_id":"u1"}`)
	if result.IsError {
		t.Fatalf("similar_users failed: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, `"u2"`) {
		t.Errorf("similar users = %s, want u2", result.Content[0].Text)
	}
}

func TestReadResources(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		uri  string
		want []string
	}{
		{uriStats, []string{"Jobs:", "Profiles:"}},
		{uriWeights, []string{"industry", "Hybrid blend", "0.60"}},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			responses := serve(t, s, `{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"`+tt.uri+`"}}`)
			if len(responses) != 1 || responses[0].Error != nil {
				t.Fatalf("resources/read: %+v", responses)
			}
			var result readResourceResult
			if err := json.Unmarshal(responses[0].Result, &result); err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(result.Contents[0].Text, w) {
					t.Errorf("resource text missing %q:\n%s", w, result.Contents[0].Text)
				}
			}
		})
	}
}
