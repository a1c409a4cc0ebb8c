package control

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/metrics"
	"github.com/papapumpkin/qadash/internal/session"
)

const metric = "base_Footprint_nPix"

// mcpClientSession connects an in-memory MCP client to srv.
func mcpClientSession(t *testing.T, srv *Server) *mcp.ClientSession {
	t.Helper()

	ctx := context.Background()
	ct, st := mcp.NewInMemoryTransports()

	ss, err := srv.mcp.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool %s: %v", name, err)
	}
	return result
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	var out T
	raw, err := json.Marshal(result.StructuredContent)
	if err != nil {
		t.Fatalf("marshal StructuredContent: %v", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	if err := catalog.Write(context.Background(), dir, catalog.Sample(5, 40)); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	met := metrics.New()
	sess := session.New(session.Options{Metrics: met})
	return NewServer(runDispatcher(t, sess), met, nil), dir
}

func TestToolsDriveSession(t *testing.T) {
	t.Parallel()

	srv, dir := newTestServer(t)
	cs := mcpClientSession(t, srv)

	res := callTool(t, cs, "load_repository", map[string]any{"path": dir})
	if res.IsError {
		t.Fatalf("load_repository returned error: %v", res.Content)
	}
	frame := decode[frameOutput](t, res)
	if len(frame.Messages) != 2 || frame.Messages[0].Title != "Data Ready" {
		t.Fatalf("unexpected messages: %+v", frame.Messages)
	}

	res = callTool(t, cs, "select_metrics", map[string]any{"category": "HSC-R", "metrics": []string{metric}})
	if res.IsError {
		t.Fatalf("select_metrics returned error: %v", res.Content)
	}
	frame = decode[frameOutput](t, res)
	if frame.Mode != "aggregated" {
		t.Errorf("mode = %q, want aggregated", frame.Mode)
	}
	if len(frame.Top) != 1 || len(frame.Plots) != 1 {
		t.Errorf("unexpected layout: top=%v plots=%v", frame.Top, frame.Plots)
	}

	res = callTool(t, cs, "add_flag", map[string]any{"name": "qaBad_flag", "value": false})
	if res.IsError {
		t.Fatalf("add_flag returned error: %v", res.Content)
	}
	frame = decode[frameOutput](t, res)
	if got := frame.Predicates["HSC-R"]; got != "qaBad_flag==False" {
		t.Errorf("predicate = %q", got)
	}

	res = callTool(t, cs, "toggle_view_mode", map[string]any{})
	frame = decode[frameOutput](t, res)
	if frame.Mode != "skygrid" || len(frame.Tabs) != 1 {
		t.Errorf("unexpected sky frame: %+v", frame)
	}

	res = callTool(t, cs, "available_metrics", map[string]any{"category": "HSC-R"})
	mets := decode[metricsOutput](t, res)
	if len(mets.Metrics) == 0 {
		t.Error("expected available metrics")
	}

	res = callTool(t, cs, "summary", map[string]any{})
	sum := decode[summaryOutput](t, res)
	if sum.Tract != catalog.SampleTract || len(sum.Categories) != 4 {
		t.Errorf("unexpected summary: %+v", sum)
	}
}

func TestToolErrors(t *testing.T) {
	t.Parallel()

	srv, dir := newTestServer(t)
	cs := mcpClientSession(t, srv)
	callTool(t, cs, "load_repository", map[string]any{"path": dir})

	tests := []struct {
		tool string
		args map[string]any
	}{
		{"set_query", map[string]any{"query": "psfMag >"}},
		{"remove_flag", map[string]any{"name": "never_set"}},
		{"select_metrics", map[string]any{"category": "HSC-Y", "metrics": []string{metric}}},
		{"set_view_mode", map[string]any{"mode": "grid"}},
		{"load_repository", map[string]any{"path": ""}},
	}
	for _, tt := range tests {
		res := callTool(t, cs, tt.tool, tt.args)
		if !res.IsError {
			t.Errorf("%s: expected tool error", tt.tool)
		}
	}
}

func TestFailedIntentKeepsMessages(t *testing.T) {
	t.Parallel()

	srv, dir := newTestServer(t)
	cs := mcpClientSession(t, srv)
	callTool(t, cs, "load_repository", map[string]any{"path": dir})

	res := callTool(t, cs, "add_flag", map[string]any{"name": "no_such_flag", "value": true})
	if !res.IsError {
		t.Fatal("expected tool error for a flag column that does not exist")
	}
	frame := decode[frameOutput](t, res)
	var got []string
	for _, m := range frame.Messages {
		got = append(got, m.Title)
	}
	if len(got) != 2 || got[0] != "Filtering Error" || got[1] != "Added Flag Filter" {
		t.Fatalf("messages = %v, want [Filtering Error Added Flag Filter]", got)
	}
	text := res.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "[error] Filtering Error") || !strings.Contains(text, "[info] Added Flag Filter") {
		t.Errorf("error text does not list the drained messages:\n%s", text)
	}

	frame = decode[frameOutput](t, callTool(t, cs, "render", map[string]any{}))
	if len(frame.Messages) != 0 {
		t.Errorf("messages delivered twice: %+v", frame.Messages)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	t.Parallel()

	srv, dir := newTestServer(t)
	cs := mcpClientSession(t, srv)
	callTool(t, cs, "load_repository", map[string]any{"path": dir})

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "qadash_loaded_rows") {
		t.Errorf("metrics output missing loaded rows:\n%s", body)
	}
}

func TestServerStartAndSSEReachable(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	if err := srv.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() {
		if err := srv.Stop(context.Background()); err != nil {
			t.Errorf("Stop: %v", err)
		}
	}()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/sse", srv.Addr().String()))
	if err != nil {
		t.Fatalf("GET /sse: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want %q", ct, "text/event-stream")
	}
}
