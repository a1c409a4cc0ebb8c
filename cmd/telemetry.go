package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/qadash/internal/config"
	"github.com/papapumpkin/qadash/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry [file]",
	Short: "Print a session's JSONL telemetry events",
	Long: `Reads and formats a JSONL telemetry file written by a dashboard session.

Without a file argument, the telemetry_path from config is used.
With --follow (-f), watches the file for new events (like tail -f).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	telemetryCmd.Flags().String("kind", "", "only print events of this kind")
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	follow, _ := cmd.Flags().GetBool("follow")
	kind, _ := cmd.Flags().GetString("kind")

	path, err := resolveTelemetryPath(args)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	out := &eventPrinter{w: cmd.OutOrStdout(), kind: kind}
	reader := bufio.NewReader(f)
	if err := out.drain(reader); err != nil {
		return fmt.Errorf("telemetry: read %s: %w", path, err)
	}

	if !follow {
		return nil
	}
	return tailFollow(out, reader, path)
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(out *eventPrinter, reader *bufio.Reader, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	for event := range watcher.Events {
		if !event.Has(fsnotify.Write) {
			continue
		}
		if err := out.drain(reader); err != nil {
			return fmt.Errorf("telemetry: read %s: %w", path, err)
		}
	}
	return nil
}

// eventPrinter formats telemetry lines, optionally keeping one kind.
type eventPrinter struct {
	w    io.Writer
	kind string
}

// drain prints every complete line available from r.
func (p *eventPrinter) drain(r *bufio.Reader) error {
	for {
		line, err := r.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			p.print(line)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// print decodes a JSONL line and prints a human-readable representation.
func (p *eventPrinter) print(line string) {
	var evt telemetry.Event
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		fmt.Fprintf(p.w, "??? %s\n", line)
		return
	}
	if p.kind != "" && evt.Kind != p.kind {
		return
	}

	parts := []string{fmt.Sprintf("[%s]", evt.Timestamp.Format(time.TimeOnly)), evt.Kind}
	if evt.Category != "" {
		parts = append(parts, "category="+evt.Category)
	}
	if evt.Data != nil {
		if m, ok := evt.Data.(map[string]any); ok {
			parts = append(parts, formatDataMap(m))
		} else {
			data, _ := json.Marshal(evt.Data)
			parts = append(parts, string(data))
		}
	}
	fmt.Fprintln(p.w, strings.Join(parts, " "))
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}

// resolveTelemetryPath takes the file argument, falling back to config.
func resolveTelemetryPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.TelemetryPath == "" {
		return "", fmt.Errorf("telemetry: no file given and telemetry_path is not set")
	}
	return cfg.TelemetryPath, nil
}
