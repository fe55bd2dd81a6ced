package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/freakms/ha-firecalltracking/internal/model"
	"github.com/freakms/ha-firecalltracking/internal/render"
)

var testConfig = render.Config{
	EntityID:   "sensor.einsatz_monitor_letzte_einsaetze",
	Title:      "Letzte Einsätze",
	ShowHeader: true,
}

func listSnapshot(keywords ...string) SnapshotMsg {
	incidents := make([]model.Incident, len(keywords))
	for i, k := range keywords {
		incidents[i] = model.Incident{Keyword: k}
	}
	return SnapshotMsg{
		Snapshot: render.Snapshot{
			Title:       "Letzte Einsätze",
			SourceFound: true,
			Incidents:   incidents,
		},
	}
}

func TestAppSnapshotReplacesState(t *testing.T) {
	app := NewApp(testConfig, nil, nil)

	modelIface, _ := app.Update(listSnapshot("B2", "TH", "GSG"))
	app = modelIface.(App)

	view, ok := app.CurrentView()
	if !ok || view.Kind != render.ViewList || len(view.Rows) != 3 {
		t.Fatalf("view = %+v (ok=%v), want 3-row list", view, ok)
	}

	// A later snapshot fully replaces the previous one.
	modelIface, _ = app.Update(listSnapshot("B1"))
	app = modelIface.(App)

	view, _ = app.CurrentView()
	if len(view.Rows) != 1 {
		t.Errorf("rows = %d, want 1 after replacement", len(view.Rows))
	}
}

func TestAppCursorClampedOnShrink(t *testing.T) {
	app := NewApp(testConfig, nil, nil)

	modelIface, _ := app.Update(listSnapshot("a", "b", "c"))
	app = modelIface.(App)

	modelIface, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	app = modelIface.(App)
	modelIface, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	app = modelIface.(App)
	if app.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", app.Cursor())
	}

	modelIface, _ = app.Update(listSnapshot("only"))
	app = modelIface.(App)
	if app.Cursor() != 0 {
		t.Errorf("cursor = %d, want clamped to 0", app.Cursor())
	}
}

func TestAppNavigationBounds(t *testing.T) {
	app := NewApp(testConfig, nil, nil)

	modelIface, _ := app.Update(listSnapshot("a", "b"))
	app = modelIface.(App)

	// k at top stays at 0.
	modelIface, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	app = modelIface.(App)
	if app.Cursor() != 0 {
		t.Errorf("k at top moved cursor to %d", app.Cursor())
	}

	// j stops at the last row.
	for i := 0; i < 5; i++ {
		modelIface, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
		app = modelIface.(App)
	}
	if app.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", app.Cursor())
	}
}

func TestAppTriggerPoll(t *testing.T) {
	called := false
	app := NewApp(testConfig, func() tea.Cmd {
		called = true
		return nil
	}, nil)

	_, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	if !called {
		t.Error("r should trigger a poll")
	}
}

func TestAppPollErrorKeepsSnapshot(t *testing.T) {
	app := NewApp(testConfig, nil, nil)

	modelIface, _ := app.Update(listSnapshot("B2"))
	app = modelIface.(App)

	modelIface, _ = app.Update(PollErrorMsg{Err: errors.New("boom")})
	app = modelIface.(App)

	// The last good snapshot stays on screen.
	view, ok := app.CurrentView()
	if !ok || view.Kind != render.ViewList {
		t.Errorf("poll error should not drop the displayed snapshot, got %+v", view)
	}
}

func TestAppNewAlarmHook(t *testing.T) {
	var got model.Incident
	app := NewApp(testConfig, nil, func(msg NewAlarmMsg) tea.Cmd {
		got = msg.Alarm
		return nil
	})

	alarm := model.Incident{ID: "a1", Keyword: "B3"}
	_, _ = app.Update(NewAlarmMsg{Alarm: alarm})

	if got.ID != "a1" {
		t.Errorf("hook received %+v, want alarm a1", got)
	}
}

func TestAppViewStates(t *testing.T) {
	app := NewApp(testConfig, nil, nil)

	modelIface, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app = modelIface.(App)

	// No snapshot yet: idle, waiting for data.
	if out := app.View(); !strings.Contains(out, "Warte auf Daten") {
		t.Errorf("pre-snapshot view = %q, want waiting state", out)
	}

	// Source missing: error panel with the configured entity id.
	modelIface, _ = app.Update(SnapshotMsg{Snapshot: render.Snapshot{SourceFound: false}})
	app = modelIface.(App)
	if out := app.View(); !strings.Contains(out, testConfig.EntityID) {
		t.Errorf("error view should name the missing entity, got %q", out)
	}

	// Empty list: empty panel.
	modelIface, _ = app.Update(SnapshotMsg{Snapshot: render.Snapshot{SourceFound: true}})
	app = modelIface.(App)
	if out := app.View(); !strings.Contains(out, "Keine Einsätze") {
		t.Errorf("empty view = %q, want Keine Einsätze", out)
	}

	// List: rows with keyword and placeholder fallbacks.
	modelIface, _ = app.Update(listSnapshot("B2 Wohnungsbrand"))
	app = modelIface.(App)
	out := app.View()
	if !strings.Contains(out, "B2 Wohnungsbrand") {
		t.Errorf("list view = %q, want keyword", out)
	}
	if !strings.Contains(out, render.PlaceholderVehicles) {
		t.Errorf("list view = %q, want vehicles placeholder", out)
	}
}
