package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/session"
	"github.com/papapumpkin/qadash/internal/status"
	"github.com/papapumpkin/qadash/internal/viewmode"
)

func newTestAppModel(t *testing.T) AppModel {
	t.Helper()
	sess := session.New(session.Options{})
	sess.Install(catalog.Sample(4, 50), "/repo/sample")
	m := NewAppModel(context.Background(), sess)
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func update(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(AppModel)
	require.True(t, ok)
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m AppModel, s string) AppModel {
	t.Helper()
	for _, r := range s {
		m = update(t, m, runes(string(r)))
	}
	return m
}

func boardTitles(m AppModel) []string {
	var out []string
	for _, msg := range m.Board.Active(m.Now()) {
		out = append(out, msg.Title)
	}
	return out
}

func TestToggleMetric(t *testing.T) {
	t.Parallel()

	m := newTestAppModel(t)
	avail := m.Session.AvailableMetrics("HSC-R")

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	require.Equal(t, []string{avail[0]}, m.Session.SelectedMetrics("HSC-R"))
	require.Len(t, m.Session.Layout().List, 1)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	require.Equal(t, avail[:2], m.Session.SelectedMetrics("HSC-R"))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	require.Equal(t, []string{avail[1]}, m.Session.SelectedMetrics("HSC-R"))
}

func TestCategoryNavigation(t *testing.T) {
	t.Parallel()

	m := newTestAppModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, catalog.Category("HSC-Z"), m.category())
	require.Zero(t, m.Cursor)

	m = update(t, m, runes("4"))
	require.Equal(t, catalog.Category("HSC-G"), m.category())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, catalog.Category("HSC-R"), m.category())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, catalog.Category("HSC-G"), m.category())

	m = update(t, m, runes("9"))
	require.Equal(t, catalog.Category("HSC-G"), m.category())
}

func TestToggleViewAndSkyTabs(t *testing.T) {
	t.Parallel()

	m := newTestAppModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})

	m = update(t, m, runes("v"))
	require.Equal(t, viewmode.SkyGrid, m.Session.Mode())
	require.Len(t, m.Session.Layout().Tabs, 2)

	m = update(t, m, runes("]"))
	require.Equal(t, 1, m.SkyTab)
	m = update(t, m, runes("]"))
	require.Equal(t, 0, m.SkyTab)
	m = update(t, m, runes("["))
	require.Equal(t, 1, m.SkyTab)

	m = update(t, m, runes("v"))
	require.Equal(t, viewmode.Aggregated, m.Session.Mode())
	require.Zero(t, m.SkyTab)
}

func TestQueryPrompt(t *testing.T) {
	t.Parallel()

	m := newTestAppModel(t)
	m = update(t, m, runes("/"))
	require.Equal(t, FocusQuery, m.Focus)

	// Keys bound in list focus are typed into the prompt.
	m = typeText(t, m, "psfMag < 22 and not qaBad_flag")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, FocusList, m.Focus)
	require.Equal(t, "psfMag < 22 and not qaBad_flag", m.Session.Query())
	require.Equal(t, "psfMag < 22 and not qaBad_flag", m.Session.PredicateText("HSC-R"))
	require.Contains(t, m.LastFrame.Predicates, catalog.Category("HSC-I"))

	m = update(t, m, runes("c"))
	require.Empty(t, m.Session.Query())
	require.Empty(t, m.LastFrame.Predicates)
}

func TestQueryPromptCancel(t *testing.T) {
	t.Parallel()

	m := newTestAppModel(t)
	m = update(t, m, runes("/"))
	m = typeText(t, m, "psfMag > 0")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	require.Equal(t, FocusList, m.Focus)
	require.Empty(t, m.Session.Query())
}

func TestQuerySyntaxErrorShowsToast(t *testing.T) {
	t.Parallel()

	m := newTestAppModel(t)
	m = update(t, m, runes("/"))
	m = typeText(t, m, "psfMag >")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Contains(t, boardTitles(m), "Filtering Error")
}

func TestFlagPrompt(t *testing.T) {
	t.Parallel()

	m := newTestAppModel(t)
	m = update(t, m, runes("f"))
	require.Equal(t, FocusFlag, m.Focus)
	m = typeText(t, m, "qaBad_flag=false")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, "qaBad_flag==False", m.Session.PredicateText("HSC-G"))
	require.Contains(t, boardTitles(m), "Added Flag Filter")

	m = update(t, m, runes("f"))
	m = typeText(t, m, "-qaBad_flag")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Empty(t, m.Session.PredicateText("HSC-G"))
	require.Contains(t, boardTitles(m), "Removed Flag Filter")
}

func TestFlagPromptRejectsBadInput(t *testing.T) {
	t.Parallel()

	m := newTestAppModel(t)
	m = update(t, m, runes("f"))
	m = typeText(t, m, "qaBad_flag=maybe")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Contains(t, boardTitles(m), "Invalid Flag Filter")

	m = update(t, m, runes("f"))
	m = typeText(t, m, "-never_set")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Contains(t, boardTitles(m), "Flag Filter Not Set")
}

func TestDismissToast(t *testing.T) {
	t.Parallel()

	m := newTestAppModel(t)
	m = update(t, m, runes("f"))
	m = typeText(t, m, "qaBad_flag")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	before := len(m.Board.Active(m.Now()))
	require.NotZero(t, before)

	m = update(t, m, runes("x"))
	require.Len(t, m.Board.Active(m.Now()), before-1)
}

func TestQuitKey(t *testing.T) {
	t.Parallel()

	m := newTestAppModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}

func TestViewRendersDashboard(t *testing.T) {
	t.Parallel()

	m := newTestAppModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	out := m.View()

	for _, want := range []string{"QADASH", "tract", "9615", "[1] HSC-R", "Metrics · HSC-R", "Filters", "Detail View", "HSC-R - visits"} {
		require.True(t, strings.Contains(out, want), "missing %q in:\n%s", want, out)
	}
}

func TestViewSmallTerminal(t *testing.T) {
	t.Parallel()

	m := newTestAppModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 8})
	require.Contains(t, m.View(), "terminal too small")

	var zero AppModel
	require.Equal(t, "initializing...", zero.View())
}

func TestReloadLoadsRepository(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, catalog.Write(context.Background(), dir, catalog.Sample(9, 30)))

	sess := session.New(session.Options{})
	m := NewAppModel(context.Background(), sess)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	require.Nil(t, sess.Catalog())

	m = update(t, m, MsgReload{Path: dir})
	require.Equal(t, dir, m.Session.Path())
	require.NotNil(t, m.Session.Catalog())
	require.Contains(t, boardTitles(m), "Data Ready")
}

func TestReloadKeyReloadsCurrentRepository(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, catalog.Write(context.Background(), dir, catalog.Sample(9, 30)))

	sess := session.New(session.Options{})
	require.NoError(t, sess.LoadRepository(context.Background(), dir))
	m := NewAppModel(context.Background(), sess)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Board = &status.Board{}

	m = update(t, m, runes("r"))
	require.Equal(t, dir, m.Session.Path())
	require.Contains(t, boardTitles(m), "Data Ready")
}

func TestReloadKeyWithoutRepository(t *testing.T) {
	t.Parallel()

	m := NewAppModel(context.Background(), session.New(session.Options{}))
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, runes("r"))
	require.Nil(t, m.Session.Catalog())
	require.Empty(t, boardTitles(m))
}
