// Package render turns incident snapshots into display views.
//
// The renderer is a pure computation from a snapshot to a view value. It
// holds no history, performs no I/O, and has no failure path: every input,
// however malformed, maps to one of the three view kinds. Missing fields
// degrade to placeholders rather than aborting the render, so a transient
// or partially broken upstream snapshot never leaves the display blank.
package render

import (
	"time"

	"github.com/freakms/ha-firecalltracking/internal/classify"
	"github.com/freakms/ha-firecalltracking/internal/model"
)

// CardSize is the layout hint exposed to the host's layout system.
const CardSize = 4

// Placeholders substituted for absent incident fields.
const (
	PlaceholderKeyword  = "Unbekannt"
	PlaceholderVehicles = "Keine Fahrzeuge"
)

// timeDisplayLayout is the German display form: day.month.year, 24h clock.
const timeDisplayLayout = "02.01.2006, 15:04"

// Snapshot is the full state handed to the renderer at one point in time.
// Incident order is display order; the renderer never sorts or filters.
type Snapshot struct {
	Title       string
	SourceFound bool
	Incidents   []model.Incident
}

// ViewKind tags the three possible render outcomes.
type ViewKind int

const (
	// ViewError signals that the configured source entity did not resolve.
	ViewError ViewKind = iota
	// ViewEmpty signals a resolved source with no incidents.
	ViewEmpty
	// ViewList carries one row per incident.
	ViewList
)

// View is the rendered representation of a snapshot.
type View struct {
	Kind            ViewKind
	Title           string
	MissingEntityID string // set for ViewError
	Rows            []Row  // set for ViewList
}

// Row is the per-incident display row with its resolved theme.
type Row struct {
	Theme    classify.Theme
	Keyword  string
	Vehicles string
	Unit     string
	HasUnit  bool
	Time     string
}

// Config is the card configuration supplied by the host.
type Config struct {
	EntityID   string
	Title      string
	ShowHeader bool
}

// Renderer renders snapshots under the most recently supplied config.
// It is re-entrant: each snapshot produces a fresh, independent view that
// fully replaces any prior output.
type Renderer struct {
	cfg      Config
	snapshot *Snapshot
}

// New creates a Renderer with the given config.
func New(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// SetConfig replaces the renderer configuration wholesale.
func (r *Renderer) SetConfig(cfg Config) {
	r.cfg = cfg
}

// Config returns the current configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// SetSnapshot stores the latest snapshot, replacing any prior one.
func (r *Renderer) SetSnapshot(snap Snapshot) {
	r.snapshot = &snap
}

// View renders the most recently received snapshot. The second return is
// false while no snapshot has arrived yet (nothing to render).
func (r *Renderer) View() (View, bool) {
	if r.snapshot == nil {
		return View{}, false
	}
	return Render(*r.snapshot, r.cfg), true
}

// Render maps a snapshot to a view. Pure and total: the same snapshot and
// config always yield a structurally identical view.
func Render(snap Snapshot, cfg Config) View {
	title := snap.Title
	if title == "" {
		title = cfg.Title
	}

	if !snap.SourceFound {
		return View{
			Kind:            ViewError,
			Title:           title,
			MissingEntityID: cfg.EntityID,
		}
	}

	if len(snap.Incidents) == 0 {
		return View{Kind: ViewEmpty, Title: title}
	}

	rows := make([]Row, 0, len(snap.Incidents))
	for _, inc := range snap.Incidents {
		rows = append(rows, renderRow(inc))
	}

	return View{Kind: ViewList, Title: title, Rows: rows}
}

// renderRow assembles a single display row, substituting placeholders for
// absent fields.
func renderRow(inc model.Incident) Row {
	row := Row{
		Theme:    classify.Classify(inc.Type),
		Keyword:  inc.Keyword,
		Vehicles: inc.Vehicles,
		Time:     FormatTime(inc.Timestamp),
	}

	if row.Keyword == "" {
		row.Keyword = PlaceholderKeyword
	}
	if row.Vehicles == "" {
		row.Vehicles = PlaceholderVehicles
	}
	if inc.Unit != "" {
		row.Unit = inc.Unit
		row.HasUnit = true
	}

	return row
}

// timestampLayouts are the formats the upstream has been seen emitting.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// FormatTime formats an upstream timestamp for display. An absent value
// yields the empty string; an unparseable value is passed through raw.
// Parsing never fails the render.
func FormatTime(raw string) string {
	if raw == "" {
		return ""
	}

	// The upstream emits ISO timestamps with a bare Z suffix.
	candidate := raw
	if len(candidate) > 0 && candidate[len(candidate)-1] == 'Z' {
		candidate = candidate[:len(candidate)-1] + "+00:00"
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, candidate); err == nil {
			return ts.Format(timeDisplayLayout)
		}
	}

	return raw
}
