// Package notify delivers new-alarm notifications.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/freakms/ha-firecalltracking/internal/config"
	"github.com/freakms/ha-firecalltracking/internal/model"
)

const defaultTimeout = 10 * time.Second

// Notifier sends a webhook POST for every new alarm. The JSON payload
// carries the alarm fields plus a rendered announcement message.
type Notifier struct {
	client *http.Client
	cfg    config.NotifyConfig
}

// New creates a Notifier with the given settings.
func New(cfg config.NotifyConfig) *Notifier {
	return &Notifier{
		client: &http.Client{Timeout: defaultTimeout},
		cfg:    cfg,
	}
}

// Enabled reports whether notifications are configured to fire.
func (n *Notifier) Enabled() bool {
	return n.cfg.Enabled && n.cfg.WebhookURL != ""
}

// payload is the webhook body.
type payload struct {
	Keyword   string `json:"keyword"`
	Unit      string `json:"unit,omitempty"`
	Vehicles  string `json:"vehicles,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Type      string `json:"type,omitempty"`
	Message   string `json:"message"`
}

// Notify posts the alarm to the configured webhook.
func (n *Notifier) Notify(ctx context.Context, alarm model.Incident) error {
	if !n.Enabled() {
		return nil
	}

	body, err := json.Marshal(payload{
		Keyword:   alarm.Keyword,
		Unit:      alarm.Unit,
		Vehicles:  alarm.Vehicles,
		Timestamp: alarm.Timestamp,
		Type:      alarm.Type,
		Message:   Announcement(n.cfg.Message, alarm),
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected: %d %s", resp.StatusCode, resp.Status)
	}

	return nil
}

// placeholders supported in announcement templates.
var placeholders = []string{"keyword", "unit", "vehicles", "timestamp"}

// Announcement renders the message template for an alarm. Alarm fields fall
// back to their display placeholders; a template referencing an unknown
// placeholder degrades to a minimal message instead of failing.
func Announcement(template string, alarm model.Incident) string {
	if template == "" {
		template = config.DefaultMessage
	}

	keyword := alarm.Keyword
	if keyword == "" {
		keyword = "Unbekannt"
	}
	vehicles := alarm.Vehicles
	if vehicles == "" {
		vehicles = "Keine Fahrzeuge"
	}

	values := map[string]string{
		"keyword":   keyword,
		"unit":      alarm.Unit,
		"vehicles":  vehicles,
		"timestamp": alarm.Timestamp,
	}

	msg := template
	for _, p := range placeholders {
		msg = strings.ReplaceAll(msg, "{"+p+"}", values[p])
	}

	// Leftover braces mean the template used a placeholder we don't know.
	if strings.Contains(msg, "{") && strings.Contains(msg, "}") {
		return "Alarm: " + keyword
	}

	return msg
}
