// Package ui provides the Bubble Tea TUI for the Einsatz-Monitor feed.
package ui

import (
	"github.com/freakms/ha-firecalltracking/internal/model"
	"github.com/freakms/ha-firecalltracking/internal/render"
)

// SnapshotMsg delivers a fresh feed snapshot. Each snapshot fully replaces
// the prior display state.
type SnapshotMsg struct {
	Snapshot render.Snapshot
	Count24h int
	Active   bool
}

// NewAlarmMsg is sent when the coordinator detects a previously unseen alarm.
type NewAlarmMsg struct {
	Alarm model.Incident
}

// PollErrorMsg is sent when a background poll fails. The display keeps the
// last good snapshot; the error only surfaces in the status bar.
type PollErrorMsg struct {
	Err error
}
