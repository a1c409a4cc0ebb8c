// Package ui prints command-line reports for the non-interactive commands.
package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/session"
	"github.com/papapumpkin/qadash/internal/status"
)

// ANSI color codes.
const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	dim     = "\033[2m"
	blue    = "\033[34m"
	yellow  = "\033[33m"
	green   = "\033[32m"
	red     = "\033[31m"
	cyan    = "\033[36m"
	magenta = "\033[35m"
)

// Printer writes colored reports. Colors are dropped when the output is
// not a terminal.
type Printer struct {
	w     io.Writer
	color bool
}

// New returns a printer on stderr.
func New() *Printer {
	return &Printer{
		w:     os.Stderr,
		color: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}
}

// NewWriter returns a printer on w without colors.
func NewWriter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// c returns code when colors are on.
func (p *Printer) c(code string) string {
	if p.color {
		return code
	}
	return ""
}

// Banner prints the program header.
func (p *Printer) Banner() {
	fmt.Fprintln(p.w, p.c(bold+cyan)+"  ╔═══════════════════════════════════╗"+p.c(reset))
	fmt.Fprintln(p.w, p.c(bold+cyan)+"  ║"+p.c(reset+bold)+"   QADASH  "+p.c(dim)+"pipeline QA dashboard  "+p.c(reset+bold+cyan)+" ║"+p.c(reset))
	fmt.Fprintln(p.w, p.c(bold+cyan)+"  ╚═══════════════════════════════════╝"+p.c(reset))
	fmt.Fprintln(p.w)
}

// Error prints msg as an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, p.c(red+bold)+"error: "+p.c(reset)+"%s\n", msg)
}

// Info prints msg dimmed.
func (p *Printer) Info(msg string) {
	fmt.Fprintf(p.w, p.c(dim)+"%s"+p.c(reset)+"\n", msg)
}

// Repository prints the layout and counts of a loaded repository.
func (p *Printer) Repository(path string, c *catalog.Catalog) {
	fmt.Fprintf(p.w, p.c(bold+cyan)+"repository: %s"+p.c(reset)+"\n", path)
	if c.Name != "" {
		fmt.Fprintf(p.w, "  name:     %s\n", c.Name)
	}
	fmt.Fprintf(p.w, "  tract:    %s\n", c.Tract)
	fmt.Fprintf(p.w, "  table:    %s\n", c.Table)

	sum := c.Summary()
	fmt.Fprintf(p.w, "  tracts: %d  patches: %d  visits: %d  objects: %d\n\n",
		sum.Tracts, sum.Patches, sum.Visits, sum.UniqueObjects)

	fmt.Fprintln(p.w, p.c(bold)+"categories:"+p.c(reset))
	for _, cat := range c.Categories {
		obj := c.Object(cat)
		if obj == nil {
			fmt.Fprintf(p.w, "  %-8s "+p.c(yellow)+"missing"+p.c(reset)+"\n", cat)
			continue
		}
		fmt.Fprintf(p.w, "  %-8s %6d rows  %2d metrics  %3d visits\n",
			cat, obj.Len(), len(obj.Metrics()), c.Visit(cat).Len())
	}
	if len(c.Flags) > 0 {
		fmt.Fprintf(p.w, "\n"+p.c(bold)+"flags:"+p.c(reset)+" %s\n", strings.Join(c.Flags, ", "))
	}
}

// Metrics prints the selectable metrics of one category.
func (p *Printer) Metrics(cat catalog.Category, metrics []string) {
	fmt.Fprintf(p.w, p.c(bold)+"%s metrics:"+p.c(reset)+"\n", cat)
	for _, m := range metrics {
		fmt.Fprintf(p.w, "  %s\n", m)
	}
}

// ValidateResult prints the outcome of a repository validation.
func (p *Printer) ValidateResult(path string, categories int, errs []error) {
	if len(errs) == 0 {
		fmt.Fprintf(p.w, p.c(green+bold)+"✓ repository %q"+p.c(reset)+" — %d categories, no errors\n", path, categories)
		return
	}
	fmt.Fprintf(p.w, p.c(red+bold)+"✗ repository %q"+p.c(reset)+" — %d error(s):\n", path, len(errs))
	for _, e := range errs {
		fmt.Fprintf(p.w, "  "+p.c(red)+"• "+p.c(reset)+"%s\n", e.Error())
	}
}

// SampleWritten confirms a generated sample repository.
func (p *Printer) SampleWritten(dir string, c *catalog.Catalog, rows int) {
	fmt.Fprintf(p.w, p.c(green+bold)+"✓ sample written"+p.c(reset)+" %s "+p.c(dim)+"(tract %s, %d bands, %d rows each)"+p.c(reset)+"\n",
		dir, c.Tract, len(c.Categories), rows)
}

// Frame prints the plot layout, active filters and status messages of a
// session frame.
func (p *Printer) Frame(f session.Frame) {
	fmt.Fprintf(p.w, "\n"+p.c(bold+magenta)+"── %s ──"+p.c(reset)+"\n", f.Mode.Title())

	if len(f.Predicates) > 0 {
		cats := make([]string, 0, len(f.Predicates))
		for c := range f.Predicates {
			cats = append(cats, string(c))
		}
		sort.Strings(cats)
		fmt.Fprintln(p.w, p.c(bold)+"filters:"+p.c(reset))
		for _, c := range cats {
			fmt.Fprintf(p.w, "  %-8s %s\n", c, f.Predicates[catalog.Category(c)])
		}
	}

	panels := f.Layout.Panels()
	if len(panels) == 0 {
		fmt.Fprintln(p.w, p.c(dim)+"  (no plots)"+p.c(reset))
	}
	for _, panel := range panels {
		spec := panel.Spec()
		fmt.Fprintf(p.w, "  "+p.c(cyan)+"◆ %-14s"+p.c(reset)+" %s\n", spec.Role, spec.Label())
	}

	// Messages arrive most recent first; print them in the order posted.
	for i := len(f.Messages) - 1; i >= 0; i-- {
		p.Message(f.Messages[i])
	}
}

// Message prints one status message with a severity marker.
func (p *Printer) Message(m status.Message) {
	var symbol, color string
	switch m.Severity {
	case status.SeveritySuccess:
		symbol, color = "✓", green
	case status.SeverityWarning:
		symbol, color = "⚠", yellow
	case status.SeverityError:
		symbol, color = "✗", red
	default:
		symbol, color = "•", blue
	}
	fmt.Fprintf(p.w, p.c(color+bold)+"%s %s"+p.c(reset), symbol, m.Title)
	if m.Body != "" {
		body := strings.ReplaceAll(m.Body, "\n", "\n    ")
		fmt.Fprintf(p.w, p.c(dim)+" — %s"+p.c(reset), body)
	}
	fmt.Fprintln(p.w)
}
