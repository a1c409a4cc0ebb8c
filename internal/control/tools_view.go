package control

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/session"
	"github.com/papapumpkin/qadash/internal/viewmode"
)

// selectInput is the input schema for the select_metrics tool.
type selectInput struct {
	Category string   `json:"category" jsonschema:"Category whose selection is replaced"`
	Metrics  []string `json:"metrics" jsonschema:"Metrics to plot, in display order"`
}

// modeInput is the input schema for the set_view_mode tool.
type modeInput struct {
	Mode string `json:"mode" jsonschema:"aggregated or skygrid"`
}

// messageEntry is one status message in a frame.
type messageEntry struct {
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	Severity string `json:"severity"`
}

// frameOutput is the output schema shared by every intent tool.
type frameOutput struct {
	Mode       string            `json:"mode"`
	Top        []string          `json:"top,omitempty"`
	Plots      []string          `json:"plots,omitempty"`
	Tabs       []string          `json:"tabs,omitempty"`
	Messages   []messageEntry    `json:"messages,omitempty"`
	Predicates map[string]string `json:"predicates,omitempty"`
}

func newFrameOutput(f session.Frame) frameOutput {
	out := frameOutput{Mode: f.Mode.String()}
	for _, p := range f.Layout.Top {
		out.Top = append(out.Top, p.Spec().Label())
	}
	for _, p := range f.Layout.List {
		out.Plots = append(out.Plots, p.Spec().Label())
	}
	for _, tab := range f.Layout.Tabs {
		out.Tabs = append(out.Tabs, tab.Label)
	}
	for _, m := range f.Messages {
		out.Messages = append(out.Messages, messageEntry{
			Title:    m.Title,
			Body:     m.Body,
			Severity: m.Severity.String(),
		})
	}
	if len(f.Predicates) > 0 {
		out.Predicates = make(map[string]string, len(f.Predicates))
		for c, text := range f.Predicates {
			out.Predicates[string(c)] = text
		}
	}
	return out
}

// registerViewTools registers the selection, view mode and render tools.
func (s *Server) registerViewTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "select_metrics",
		Description: "Choose the metrics plotted for a category",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in selectInput) (*mcp.CallToolResult, frameOutput, error) {
		return s.apply(ctx, func(sess *session.Session) error {
			return sess.SelectMetrics(catalog.Category(in.Category), in.Metrics)
		})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_view_mode",
		Description: "Switch between the aggregated and sky grid views",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in modeInput) (*mcp.CallToolResult, frameOutput, error) {
		mode, err := viewmode.ParseMode(in.Mode)
		if err != nil {
			return nil, frameOutput{}, err
		}
		return s.apply(ctx, func(sess *session.Session) error {
			sess.SetViewMode(mode)
			return nil
		})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "toggle_view_mode",
		Description: "Flip between the aggregated and sky grid views",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, frameOutput, error) {
		return s.apply(ctx, func(sess *session.Session) error {
			sess.ToggleViewMode()
			return nil
		})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "render",
		Description: "Return the current plot layout and pending status messages",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, frameOutput, error) {
		return s.apply(ctx, func(*session.Session) error { return nil })
	})
}
