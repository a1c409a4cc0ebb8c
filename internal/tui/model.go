package tui

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/query"
	"github.com/papapumpkin/qadash/internal/session"
	"github.com/papapumpkin/qadash/internal/status"
	"github.com/papapumpkin/qadash/internal/viewmode"
)

// Focus says which part of the dashboard receives keys.
type Focus int

const (
	// FocusList sends keys to the metric checklist and global bindings.
	FocusList Focus = iota
	// FocusQuery sends keys to the query prompt.
	FocusQuery
	// FocusFlag sends keys to the flag prompt.
	FocusFlag
)

// AppModel is the root BubbleTea model. It drives a session and draws the
// frames the session produces.
type AppModel struct {
	Session   *session.Session
	Keys      KeyMap
	Width     int
	Height    int
	Category  int // index into the session's categories
	Cursor    int // row in the metric checklist
	SkyTab    int
	Focus     Focus
	QueryIn   textinput.Model
	FlagIn    textinput.Model
	Board     *status.Board
	Now       func() time.Time
	LastFrame session.Frame

	ctx context.Context
}

// NewAppModel creates a dashboard over sess.
func NewAppModel(ctx context.Context, sess *session.Session) AppModel {
	q := textinput.New()
	q.Prompt = stylePrompt.Render("query> ")
	q.Placeholder = "psfMag < 23 & abs(`CModel-PSF_magDiff_mmag`) < 50"

	f := textinput.New()
	f.Prompt = stylePrompt.Render("flag> ")
	f.Placeholder = "qaBad_flag=False, or -qaBad_flag to remove"

	return AppModel{
		Session: sess,
		Keys:    DefaultKeyMap(),
		QueryIn: q,
		FlagIn:  f,
		Board:   &status.Board{},
		Now:     time.Now,
		ctx:     ctx,
	}
}

// Init starts the toast timer.
func (m AppModel) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return MsgTick{Time: t}
	})
}

// Update handles all messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.QueryIn.Width = max(msg.Width-12, 10)
		m.FlagIn.Width = max(msg.Width-12, 10)

	case tea.KeyMsg:
		var next tea.Model
		next, cmd = m.handleKey(msg)
		m = next.(AppModel)

	case MsgTick:
		m.Board.Active(msg.Time)
		cmd = tickCmd()

	case MsgReload:
		m.reload(msg.Path)

	default:
		m, cmd = m.updateInput(msg)
	}

	m.drain()
	return m, cmd
}

// drain moves the session's pending messages onto the toast board, oldest
// first, and keeps the frame for drawing.
func (m *AppModel) drain() {
	f := m.Session.Render()
	for i := len(f.Messages) - 1; i >= 0; i-- {
		m.Board.Add(f.Messages[i])
	}
	m.LastFrame = f
}

// reload loads path into the session, or reloads the current repository
// when path is empty. Nothing happens before a repository has been named.
func (m *AppModel) reload(path string) {
	if path == "" {
		path = m.Session.Path()
	}
	if path == "" {
		return
	}
	_ = m.Session.LoadRepository(m.ctx, path)
	m.clampCursor()
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Focus != FocusList {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}

	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(m.metrics())-1 {
			m.Cursor++
		}

	case key.Matches(msg, m.Keys.Toggle):
		m.toggleMetric()

	case key.Matches(msg, m.Keys.NextCat):
		m.selectCategory(m.tabs().Next(m.Category))

	case key.Matches(msg, m.Keys.PrevCat):
		m.selectCategory(m.tabs().Prev(m.Category))

	case key.Matches(msg, m.Keys.NextTab):
		m.moveSkyTab(1)

	case key.Matches(msg, m.Keys.PrevTab):
		m.moveSkyTab(-1)

	case key.Matches(msg, m.Keys.View):
		m.Session.ToggleViewMode()
		m.SkyTab = 0

	case key.Matches(msg, m.Keys.Query):
		m.QueryIn.SetValue(m.Session.Query())
		m.QueryIn.CursorEnd()
		return m.focus(FocusQuery)

	case key.Matches(msg, m.Keys.Flag):
		m.FlagIn.SetValue("")
		return m.focus(FocusFlag)

	case key.Matches(msg, m.Keys.Clear):
		_ = m.Session.ClearQuery()

	case key.Matches(msg, m.Keys.Reload):
		m.reload("")

	case key.Matches(msg, m.Keys.Dismiss):
		if active := m.Board.Active(m.Now()); len(active) > 0 {
			m.Board.Dismiss(active[len(active)-1].ID)
		}

	default:
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); i < len(m.Session.Categories()) {
				m.selectCategory(i)
			}
		}
	}
	return m, nil
}

func (m AppModel) focus(f Focus) (tea.Model, tea.Cmd) {
	m.Focus = f
	m.Keys = InputKeyMap()
	if f == FocusQuery {
		return m, m.QueryIn.Focus()
	}
	return m, m.FlagIn.Focus()
}

func (m AppModel) blur() AppModel {
	m.Focus = FocusList
	m.Keys = DefaultKeyMap()
	m.QueryIn.Blur()
	m.FlagIn.Blur()
	return m
}

func (m AppModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Cancel):
		return m.blur(), nil

	case key.Matches(msg, m.Keys.Submit):
		if m.Focus == FocusQuery {
			_ = m.Session.SetQuery(m.QueryIn.Value())
		} else {
			m.applyFlag(m.FlagIn.Value())
		}
		return m.blur(), nil
	}
	return m.updateInput(msg)
}

func (m AppModel) updateInput(msg tea.Msg) (AppModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.Focus {
	case FocusQuery:
		m.QueryIn, cmd = m.QueryIn.Update(msg)
	case FocusFlag:
		m.FlagIn, cmd = m.FlagIn.Update(msg)
	}
	return m, cmd
}

// applyFlag handles a flag prompt entry: "name", "name=value", or "-name"
// to remove the flag from every band.
func (m AppModel) applyFlag(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if name, ok := strings.CutPrefix(text, "-"); ok {
		_ = m.Session.RemoveFlag(strings.TrimSpace(name))
		return
	}
	clause, err := query.ParseFlagClause(text)
	if err != nil {
		m.Session.Post(status.Warning("Invalid Flag Filter", err.Error()))
		return
	}
	_ = m.Session.AddFlag(clause.Name, clause.Value)
}

// category returns the band the checklist edits.
func (m AppModel) category() catalog.Category {
	cats := m.Session.Categories()
	if len(cats) == 0 {
		return ""
	}
	return cats[min(m.Category, len(cats)-1)]
}

func (m AppModel) metrics() []string {
	return m.Session.AvailableMetrics(m.category())
}

func (m AppModel) tabs() CategoryTabs {
	filtered := make(map[catalog.Category]bool)
	for c := range m.LastFrame.Predicates {
		filtered[c] = true
	}
	return CategoryTabs{
		Categories: m.Session.Categories(),
		Active:     m.Category,
		Filtered:   filtered,
		Width:      m.Width,
	}
}

func (m *AppModel) selectCategory(i int) {
	m.Category = i
	m.Cursor = 0
}

func (m *AppModel) clampCursor() {
	if n := len(m.Session.Categories()); m.Category >= n {
		m.Category = max(n-1, 0)
	}
	if n := len(m.metrics()); m.Cursor >= n {
		m.Cursor = max(n-1, 0)
	}
}

func (m *AppModel) moveSkyTab(delta int) {
	if m.Session.Mode() != viewmode.SkyGrid {
		return
	}
	n := len(m.Session.Layout().Tabs)
	if n == 0 {
		return
	}
	m.SkyTab = (m.SkyTab + delta + n) % n
}

// toggleMetric adds or removes the metric under the cursor. The selection
// is kept in checklist order.
func (m AppModel) toggleMetric() {
	avail := m.metrics()
	if m.Cursor >= len(avail) {
		return
	}
	cat := m.category()
	picked := avail[m.Cursor]
	current := m.Session.SelectedMetrics(cat)

	var next []string
	for _, name := range avail {
		on := slices.Contains(current, name)
		if name == picked {
			on = !on
		}
		if on {
			next = append(next, name)
		}
	}
	_ = m.Session.SelectMetrics(cat, next)
}
