package render

import (
	"reflect"
	"testing"

	"github.com/freakms/ha-firecalltracking/internal/classify"
	"github.com/freakms/ha-firecalltracking/internal/model"
)

var testConfig = Config{
	EntityID:   "sensor.x",
	Title:      "Letzte Einsätze",
	ShowHeader: true,
}

func TestRenderSourceNotFound(t *testing.T) {
	// SourceFound=false wins regardless of incident content.
	snaps := []Snapshot{
		{SourceFound: false},
		{SourceFound: false, Incidents: []model.Incident{{Keyword: "B2"}}},
	}

	for _, snap := range snaps {
		view := Render(snap, testConfig)
		if view.Kind != ViewError {
			t.Errorf("Render(%+v) kind = %v, want ViewError", snap, view.Kind)
		}
		if view.MissingEntityID != "sensor.x" {
			t.Errorf("MissingEntityID = %q, want %q", view.MissingEntityID, "sensor.x")
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	view := Render(Snapshot{SourceFound: true}, testConfig)

	if view.Kind != ViewEmpty {
		t.Fatalf("kind = %v, want ViewEmpty", view.Kind)
	}
	if view.Title != "Letzte Einsätze" {
		t.Errorf("title = %q, want config default", view.Title)
	}
}

func TestRenderList(t *testing.T) {
	snap := Snapshot{
		Title:       "Letzte Einsätze",
		SourceFound: true,
		Incidents: []model.Incident{
			{
				Type:      "fire",
				Keyword:   "B2",
				Vehicles:  "HLF20, TLF",
				Unit:      "Wache1",
				Timestamp: "2026-03-14T18:30:00Z",
			},
		},
	}

	view := Render(snap, testConfig)

	if view.Kind != ViewList {
		t.Fatalf("kind = %v, want ViewList", view.Kind)
	}
	if len(view.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(view.Rows))
	}

	row := view.Rows[0]
	if row.Theme != classify.Classify("fire") {
		t.Errorf("theme = %+v, want fire theme", row.Theme)
	}
	if row.Keyword != "B2" {
		t.Errorf("keyword = %q, want B2", row.Keyword)
	}
	if row.Vehicles != "HLF20, TLF" {
		t.Errorf("vehicles = %q, want HLF20, TLF", row.Vehicles)
	}
	if !row.HasUnit || row.Unit != "Wache1" {
		t.Errorf("unit = %q (has=%v), want Wache1 present", row.Unit, row.HasUnit)
	}
	if row.Time != "14.03.2026, 18:30" {
		t.Errorf("time = %q, want 14.03.2026, 18:30", row.Time)
	}
}

func TestRenderPreservesOrder(t *testing.T) {
	snap := Snapshot{
		SourceFound: true,
		Incidents: []model.Incident{
			{Keyword: "third"},
			{Keyword: "first"},
			{Keyword: "second"},
		},
	}

	view := Render(snap, testConfig)

	if len(view.Rows) != len(snap.Incidents) {
		t.Fatalf("rows = %d, want %d", len(view.Rows), len(snap.Incidents))
	}
	for i, inc := range snap.Incidents {
		if view.Rows[i].Keyword != inc.Keyword {
			t.Errorf("row %d keyword = %q, want %q (input order preserved)",
				i, view.Rows[i].Keyword, inc.Keyword)
		}
	}
}

func TestRenderFieldFallbacks(t *testing.T) {
	snap := Snapshot{
		SourceFound: true,
		Incidents:   []model.Incident{{}},
	}

	row := Render(snap, testConfig).Rows[0]

	if row.Keyword != PlaceholderKeyword {
		t.Errorf("keyword = %q, want %q", row.Keyword, PlaceholderKeyword)
	}
	if row.Vehicles != PlaceholderVehicles {
		t.Errorf("vehicles = %q, want %q", row.Vehicles, PlaceholderVehicles)
	}
	if row.HasUnit {
		t.Error("absent unit should suppress the unit line, not render it empty")
	}
	if row.Time != "" {
		t.Errorf("time = %q, want empty for absent timestamp", row.Time)
	}
	if row.Theme != classify.Fallback() {
		t.Errorf("theme = %+v, want fallback theme", row.Theme)
	}
}

func TestRenderIdempotent(t *testing.T) {
	snap := Snapshot{
		SourceFound: true,
		Incidents: []model.Incident{
			{Type: "fire", Keyword: "B3", Timestamp: "2026-01-02T03:04:05Z"},
			{Type: "hazmat", Keyword: "GSG 2", Unit: "Wache2"},
		},
	}

	first := Render(snap, testConfig)
	second := Render(snap, testConfig)

	if !reflect.DeepEqual(first, second) {
		t.Error("rendering the same snapshot twice should yield identical views")
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"not-a-date", "not-a-date"},
		{"2026-03-14T18:30:00Z", "14.03.2026, 18:30"},
		{"2026-03-14T18:30:00+00:00", "14.03.2026, 18:30"},
		{"2026-03-14T18:30:00", "14.03.2026, 18:30"},
		{"2026-03-14 18:30:00", "14.03.2026, 18:30"},
		{"2026-12-01T07:05:00Z", "01.12.2026, 07:05"},
	}

	for _, tt := range tests {
		if got := FormatTime(tt.raw); got != tt.want {
			t.Errorf("FormatTime(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestRendererLifecycle(t *testing.T) {
	r := New(testConfig)

	// No snapshot yet: nothing to render.
	if _, ok := r.View(); ok {
		t.Fatal("View should report no output before the first snapshot")
	}

	r.SetSnapshot(Snapshot{SourceFound: true})
	view, ok := r.View()
	if !ok || view.Kind != ViewEmpty {
		t.Fatalf("got (%+v, %v), want empty view", view, ok)
	}

	// A new snapshot fully replaces the prior output.
	r.SetSnapshot(Snapshot{SourceFound: true, Incidents: []model.Incident{{Keyword: "B1"}}})
	view, ok = r.View()
	if !ok || view.Kind != ViewList || len(view.Rows) != 1 {
		t.Fatalf("got (%+v, %v), want single-row list view", view, ok)
	}

	// Config changes apply to subsequent renders.
	r.SetConfig(Config{EntityID: "sensor.other", Title: "Einsätze"})
	r.SetSnapshot(Snapshot{SourceFound: false})
	view, _ = r.View()
	if view.MissingEntityID != "sensor.other" {
		t.Errorf("MissingEntityID = %q, want sensor.other", view.MissingEntityID)
	}
}

func TestCardSize(t *testing.T) {
	if CardSize != 4 {
		t.Errorf("CardSize = %d, want 4", CardSize)
	}
}
