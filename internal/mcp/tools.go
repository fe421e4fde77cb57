package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

type props map[string]interface{}

func objectSchema(properties props, required ...string) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}(properties),
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func field(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

var userField = field("string", "User id whose profile and history are used")

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "recommend_items",
		Description: "Rank catalog jobs for a user, best first. Content scoring by default; optionally blend in collaborative scores, cap results per source, or rank by the user's priority list.",
		InputSchema: objectSchema(props{
			"user_id":       userField,
			"collaborative": field("boolean", "Blend in the collaborative score from similar users"),
			"diverse":       field("boolean", "Limit results per source"),
			"feed":          field("boolean", "Rank by the user's priority list instead of the hybrid blend"),
			"limit":         field("integer", "Maximum number of results (default: hybrid.limit)"),
		}, "user_id"),
	},
	{
		Name:        "score_item",
		Description: "Explain how one item scores for a user: per-dimension points, matched and missing skills, and reasons.",
		InputSchema: objectSchema(props{
			"user_id":       userField,
			"item_id":       field("string", "Catalog item id"),
			"collaborative": field("boolean", "Blend in the collaborative score"),
		}, "user_id", "item_id"),
	},
	{
		Name:        "track_behavior",
		Description: "Record that a user viewed, saved, applied to or rejected an item.",
		InputSchema: objectSchema(props{
			"user_id": userField,
			"item_id": field("string", "Catalog item id"),
			"action": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"view", "save", "apply", "reject"},
				"description": "Interaction type",
			},
		}, "user_id", "item_id", "action"),
	},
	{
		Name:        "similar_users",
		Description: "List users whose behavior is most similar to the given user, or with include_items the jobs they liked that the user has not seen.",
		InputSchema: objectSchema(props{
			"user_id":       userField,
			"include_items": field("boolean", "Return collaborative item picks instead of users"),
			"limit":         field("integer", "Maximum number of results"),
		}, "user_id"),
	},
	{
		Name:        "team_matches",
		Description: "Rank team recruitment posts for a user by role, skills, culture and personality fit.",
		InputSchema: objectSchema(props{
			"user_id": userField,
			"limit":   field("integer", "Maximum number of results (default: hybrid.limit)"),
		}, "user_id"),
	},
	{
		Name:        "get_priorities",
		Description: "Get the user's ordered priority list with weights.",
		InputSchema: objectSchema(props{"user_id": userField}, "user_id"),
	},
	{
		Name:        "get_stats",
		Description: "Get catalog counts, behavior totals and the last refresh.",
		InputSchema: objectSchema(props{
			"since_days": field("integer", "Count behavior events from the last N days only"),
		}),
	},
}
