package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vijay-prabhu/jobmatch/internal/output"
)

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Resource URIs
const (
	uriStats   = "jobmatch://stats"
	uriWeights = "jobmatch://weights"
)

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         uriStats,
		Name:        "Engine Statistics",
		Description: "Catalog counts, behavior totals, last refresh and content weights",
		MimeType:    "text/plain",
	},
	{
		URI:         uriWeights,
		Name:        "Scoring Weights",
		Description: "Content weights per dimension and the hybrid blend settings",
		MimeType:    "text/plain",
	},
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}

func (s *Server) readResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case uriStats:
		stats, err := s.engine.Stats(ctx, nil)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		if err := output.TableTo(&buf, stats); err != nil {
			return "", err
		}
		return buf.String(), nil

	case uriWeights:
		stats, err := s.engine.Stats(ctx, nil)
		if err != nil {
			return "", err
		}
		hybrid := s.engine.Config().Hybrid

		var buf bytes.Buffer
		fmt.Fprintln(&buf, "Content weights (points at full credit):")
		for _, d := range output.SortedDimensions(stats.Weights) {
			fmt.Fprintf(&buf, "  %-12s %.1f\n", d, stats.Weights[d])
		}
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "Hybrid blend:")
		fmt.Fprintf(&buf, "  content:        %.2f\n", hybrid.ContentWeight)
		fmt.Fprintf(&buf, "  collaborative:  %.2f\n", hybrid.CollaborativeWeight)
		fmt.Fprintf(&buf, "  min score:      %.1f\n", hybrid.MinScore)
		fmt.Fprintf(&buf, "  max per source: %d\n", hybrid.MaxPerSource)
		return buf.String(), nil

	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}
