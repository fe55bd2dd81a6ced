// Package coord provides background alarm ingestion for the monitor.
package coord

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/freakms/ha-firecalltracking/internal/fetch"
	"github.com/freakms/ha-firecalltracking/internal/logging"
	"github.com/freakms/ha-firecalltracking/internal/model"
	"github.com/freakms/ha-firecalltracking/internal/observability"
	"github.com/freakms/ha-firecalltracking/internal/render"
	"github.com/freakms/ha-firecalltracking/internal/store"
	"github.com/freakms/ha-firecalltracking/internal/ui"
)

var logc = logging.ForComponent("coord")

// pollTimeout is the timeout for each individual poll.
const pollTimeout = 10 * time.Second

// activeWindow is how long after its timestamp an alarm counts as active.
const activeWindow = 30 * time.Minute

// countWindow is the lookback for the alarm counter.
const countWindow = 24 * time.Hour

// poller interface for dependency injection (testing).
type poller interface {
	Poll(ctx context.Context) ([]model.Incident, error)
}

// Sender receives messages for the UI. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Coordinator manages background polling and websocket ingestion.
// Uses context cancellation as the ONLY stop mechanism.
type Coordinator struct {
	store        *store.Store
	poller       poller // nil when no upstream is configured
	listener     *fetch.Listener
	metrics      *observability.Metrics
	clock        clockwork.Clock
	title        string
	maxIncidents int
	pollInterval time.Duration

	mu         sync.Mutex
	lastSeenID string

	wg sync.WaitGroup
}

// Options configure a Coordinator. Store is required; the other
// collaborators are optional.
type Options struct {
	Store        *store.Store
	Poller       poller
	Listener     *fetch.Listener
	Metrics      *observability.Metrics
	Clock        clockwork.Clock
	Title        string
	MaxIncidents int
	PollInterval time.Duration
}

// New creates a Coordinator. Options.Store must be non-nil. A nil Clock
// defaults to the real clock; a nil Poller marks the upstream as
// unresolvable (snapshots carry SourceFound=false).
func New(opts Options) *Coordinator {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	maxIncidents := opts.MaxIncidents
	if maxIncidents <= 0 {
		maxIncidents = 5
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	c := &Coordinator{
		store:        opts.Store,
		poller:       opts.Poller,
		listener:     opts.Listener,
		metrics:      opts.Metrics,
		clock:        clock,
		title:        opts.Title,
		maxIncidents: maxIncidents,
		pollInterval: interval,
	}

	// Seed new-alarm detection from the store so alarms persisted by a
	// previous run are not re-announced after a restart.
	if id, err := c.store.LatestID(); err == nil {
		c.lastSeenID = id
	}

	return c
}

// Start begins background polling. Call with a cancellable context.
// Performs an initial poll immediately, then on every tick.
func (c *Coordinator) Start(ctx context.Context, sender Sender) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.PollOnce(ctx, sender)

		ticker := c.clock.NewTicker(c.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				c.PollOnce(ctx, sender)
			}
		}
	}()
}

// StartWebsocket begins the websocket listener if one is configured.
// Alarms received over the socket are handled like freshly polled ones.
func (c *Coordinator) StartWebsocket(ctx context.Context, sender Sender) {
	if c.listener == nil {
		return
	}

	c.listener.OnAlarm = func(alarm model.Incident) {
		c.handleAlarms(ctx, sender, []model.Incident{alarm})
	}
	if c.metrics != nil {
		c.listener.OnReconnect = func() {
			c.metrics.WebsocketReconnects.Inc()
		}
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.listener.Run(ctx)
	}()
}

// Wait blocks until all background goroutines exit.
// Call after cancelling the context passed to Start.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// PollOnce performs a single poll cycle and pushes the resulting snapshot.
func (c *Coordinator) PollOnce(ctx context.Context, sender Sender) {
	if c.poller == nil {
		// No upstream configured: report the unresolvable source.
		c.send(sender, ui.SnapshotMsg{
			Snapshot: render.Snapshot{Title: c.title, SourceFound: false},
		})
		return
	}

	pollCtx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	alarms, err := c.poller.Poll(pollCtx)
	if err != nil {
		if c.metrics != nil {
			c.metrics.PollErrors.Inc()
		}
		logc.Warn("poll failed", "error", err)
		c.send(sender, ui.PollErrorMsg{Err: err})
		return
	}

	c.handleAlarms(ctx, sender, alarms)
}

// handleAlarms stores alarms, emits a new-alarm message when the latest id
// changes, and pushes a fresh snapshot.
func (c *Coordinator) handleAlarms(ctx context.Context, sender Sender, alarms []model.Incident) {
	now := c.clock.Now()

	if len(alarms) > 0 {
		saved, err := c.store.SaveIncidents(alarms, now)
		if err != nil {
			logc.Error("failed to store alarms", "error", err)
		} else if saved > 0 && c.metrics != nil {
			c.metrics.AlarmsIngested.Add(float64(saved))
		}

		if latest := alarms[0]; latest.ID != "" && c.markSeen(latest.ID) {
			logc.Info("new alarm", "keyword", latest.Keyword, "id", latest.ID)
			c.send(sender, ui.NewAlarmMsg{Alarm: latest})
		}
	}

	c.send(sender, c.buildSnapshot())
}

// markSeen records the latest alarm id, reporting whether it was new.
// The very first observed id is not treated as new: alarms that predate
// this process should not re-trigger notifications on startup.
func (c *Coordinator) markSeen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastSeenID == "" {
		c.lastSeenID = id
		return false
	}
	if c.lastSeenID == id {
		return false
	}
	c.lastSeenID = id
	return true
}

// buildSnapshot assembles the current feed snapshot from the store.
func (c *Coordinator) buildSnapshot() ui.SnapshotMsg {
	now := c.clock.Now()

	incidents, err := c.store.Recent(c.maxIncidents)
	if err != nil {
		logc.Error("failed to read incidents", "error", err)
		incidents = nil
	}

	count, err := c.store.CountSince(now.Add(-countWindow))
	if err != nil {
		count = 0
	}

	active := false
	if len(incidents) > 0 {
		active = alarmActive(incidents[0].Timestamp, now)
	}

	if c.metrics != nil {
		c.metrics.IncidentsDisplayed.Set(float64(len(incidents)))
		if active {
			c.metrics.AlarmActive.Set(1)
		} else {
			c.metrics.AlarmActive.Set(0)
		}
		if len(incidents) > 0 {
			if ts, ok := parseTimestamp(incidents[0].Timestamp); ok {
				c.metrics.LastAlarmTimestamp.Set(float64(ts.Unix()))
			}
		}
	}

	return ui.SnapshotMsg{
		Snapshot: render.Snapshot{
			Title:       c.title,
			SourceFound: true,
			Incidents:   incidents,
		},
		Count24h: count,
		Active:   active,
	}
}

// Notify runs notifier callbacks for a batch of targets in parallel.
// Errors are logged, never propagated: a failed notification must not
// disturb ingestion.
func Notify(ctx context.Context, targets []func(context.Context) error) {
	var g errgroup.Group
	for _, target := range targets {
		g.Go(func() error {
			if err := target(ctx); err != nil {
				logc.Warn("notification failed", "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// send delivers a message, tolerating a nil sender (testing).
func (c *Coordinator) send(sender Sender, msg tea.Msg) {
	if sender != nil {
		sender.Send(msg)
	}
}

// alarmActive reports whether an alarm timestamp falls inside the active
// window.
func alarmActive(raw string, now time.Time) bool {
	ts, ok := parseTimestamp(raw)
	if !ok {
		return false
	}
	age := now.Sub(ts)
	return age >= 0 && age < activeWindow
}

// parseTimestamp parses the upstream timestamp forms.
func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
