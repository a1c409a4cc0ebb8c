package control

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/session"
)

// loadInput is the input schema for the load_repository tool.
type loadInput struct {
	Path string `json:"path" jsonschema:"Repository directory to load"`
}

// addFlagInput is the input schema for the add_flag tool.
type addFlagInput struct {
	Name       string   `json:"name" jsonschema:"Flag column name"`
	Value      bool     `json:"value" jsonschema:"Value rows must have to be kept"`
	Categories []string `json:"categories,omitempty" jsonschema:"Categories to filter (default: all)"`
}

// removeFlagInput is the input schema for the remove_flag tool.
type removeFlagInput struct {
	Name       string   `json:"name" jsonschema:"Flag column name"`
	Categories []string `json:"categories,omitempty" jsonschema:"Categories to clear (default: every category with the flag)"`
}

// queryInput is the input schema for the set_query tool.
type queryInput struct {
	Query string `json:"query" jsonschema:"Query expression applied to every category"`
}

// emptyInput is the input schema of tools without arguments.
type emptyInput struct{}

// summaryOutput is the output schema for the summary tool.
type summaryOutput struct {
	Path          string   `json:"path"`
	Tract         string   `json:"tract"`
	Categories    []string `json:"categories"`
	Flags         []string `json:"flags"`
	Tracts        int      `json:"tracts"`
	Patches       int      `json:"patches"`
	Visits        int      `json:"visits"`
	UniqueObjects int      `json:"unique_objects"`
}

// metricsInput is the input schema for the available_metrics tool.
type metricsInput struct {
	Category string `json:"category" jsonschema:"Category to list metrics for"`
}

// metricsOutput is the output schema for the available_metrics tool.
type metricsOutput struct {
	Metrics []string `json:"metrics"`
}

// registerSessionTools registers the repository and filter tools.
func (s *Server) registerSessionTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "load_repository",
		Description: "Load a QA data repository and show its plots",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in loadInput) (*mcp.CallToolResult, frameOutput, error) {
		if in.Path == "" {
			return nil, frameOutput{}, fmt.Errorf("path is required")
		}
		return s.apply(ctx, func(sess *session.Session) error {
			return sess.LoadRepository(ctx, in.Path)
		})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_flag",
		Description: "Keep only rows whose flag column has the given value",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in addFlagInput) (*mcp.CallToolResult, frameOutput, error) {
		if in.Name == "" {
			return nil, frameOutput{}, fmt.Errorf("name is required")
		}
		return s.apply(ctx, func(sess *session.Session) error {
			return sess.AddFlag(in.Name, in.Value, categories(in.Categories)...)
		})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_flag",
		Description: "Remove a flag filter",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in removeFlagInput) (*mcp.CallToolResult, frameOutput, error) {
		if in.Name == "" {
			return nil, frameOutput{}, fmt.Errorf("name is required")
		}
		return s.apply(ctx, func(sess *session.Session) error {
			return sess.RemoveFlag(in.Name, categories(in.Categories)...)
		})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_query",
		Description: "Filter every category with a query expression",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in queryInput) (*mcp.CallToolResult, frameOutput, error) {
		return s.apply(ctx, func(sess *session.Session) error {
			return sess.SetQuery(in.Query)
		})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "clear_query",
		Description: "Remove the query expression",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, frameOutput, error) {
		return s.apply(ctx, func(sess *session.Session) error {
			return sess.ClearQuery()
		})
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "summary",
		Description: "Describe the loaded repository",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, summaryOutput, error) {
		var out summaryOutput
		err := s.disp.Do(ctx, func(sess *session.Session) error {
			sum := sess.Summary()
			out = summaryOutput{
				Path:          sess.Path(),
				Flags:         sess.FlagOptions(),
				Tracts:        sum.Tracts,
				Patches:       sum.Patches,
				Visits:        sum.Visits,
				UniqueObjects: sum.UniqueObjects,
			}
			if c := sess.Catalog(); c != nil {
				out.Tract = c.Tract
			}
			for _, c := range sess.Categories() {
				out.Categories = append(out.Categories, string(c))
			}
			return nil
		})
		return nil, out, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "available_metrics",
		Description: "List the metrics that can be plotted for a category",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in metricsInput) (*mcp.CallToolResult, metricsOutput, error) {
		var out metricsOutput
		err := s.disp.Do(ctx, func(sess *session.Session) error {
			out.Metrics = sess.AvailableMetrics(catalog.Category(in.Category))
			return nil
		})
		return nil, out, err
	})
}

// apply runs an intent on the dispatcher and renders the resulting frame.
// Rendering drains the status queue, so a failed intent still carries its
// frame: the result is marked as a tool error and the drained messages are
// listed after the cause.
func (s *Server) apply(ctx context.Context, fn func(*session.Session) error) (*mcp.CallToolResult, frameOutput, error) {
	var (
		out    frameOutput
		intent error
	)
	err := s.disp.Do(ctx, func(sess *session.Session) error {
		intent = fn(sess)
		out = newFrameOutput(sess.Render())
		return nil
	})
	if err != nil {
		return nil, frameOutput{}, err
	}
	if intent != nil {
		s.log.Warn("control intent failed", "err", intent)
		return intentError(intent, out), out, nil
	}
	return nil, out, nil
}

// intentError builds the error result for a failed intent.
func intentError(cause error, out frameOutput) *mcp.CallToolResult {
	var b strings.Builder
	b.WriteString(cause.Error())
	for _, m := range out.Messages {
		fmt.Fprintf(&b, "\n[%s] %s", m.Severity, m.Title)
		if m.Body != "" {
			b.WriteString(": " + m.Body)
		}
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: b.String()}},
	}
}

func categories(names []string) []catalog.Category {
	out := make([]catalog.Category, len(names))
	for i, n := range names {
		out[i] = catalog.Category(n)
	}
	return out
}
