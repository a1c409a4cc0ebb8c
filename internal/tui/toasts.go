package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/qadash/internal/status"
)

// severityColor maps a message severity to its toast border color.
func severityColor(s status.Severity) lipgloss.Color {
	switch s {
	case status.SeveritySuccess:
		return colorSuccess
	case status.SeverityWarning:
		return colorAccent
	case status.SeverityError:
		return colorDanger
	default:
		return colorBlue
	}
}

// Toasts renders the most recent status messages as bordered boxes, newest
// first.
type Toasts struct {
	Messages []status.Message
	Width    int
}

// View renders up to MaxToasts messages stacked vertically.
func (t Toasts) View() string {
	if len(t.Messages) == 0 {
		return ""
	}
	msgs := t.Messages
	if len(msgs) > MaxToasts {
		msgs = msgs[len(msgs)-MaxToasts:]
	}

	width := t.Width - 2
	if width > 60 {
		width = 60
	}
	if width < 10 {
		width = 10
	}

	var boxes []string
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		color := severityColor(m.Severity)
		title := styleToastTitle.Foreground(color).Render(m.Title)
		body := title
		if m.Body != "" {
			lines := strings.Split(m.Body, "\n")
			for j, l := range lines {
				lines[j] = TruncateWithEllipsis(l, width-4)
			}
			body += "\n" + styleDim.Render(strings.Join(lines, "\n"))
		}
		boxes = append(boxes, styleToast.BorderForeground(color).Width(width).Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}
