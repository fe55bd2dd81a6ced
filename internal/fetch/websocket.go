package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/freakms/ha-firecalltracking/internal/classify"
	"github.com/freakms/ha-firecalltracking/internal/logging"
	"github.com/freakms/ha-firecalltracking/internal/model"
)

var logws = logging.ForComponent("websocket")

// reconnectInterval paces websocket reconnection attempts.
const reconnectInterval = 30 * time.Second

// wsFrame is the envelope the upstream sends over the websocket.
type wsFrame struct {
	Type string         `json:"type"`
	Data model.Incident `json:"data"`
}

// Listener maintains a websocket connection to the alarm server and invokes
// OnAlarm for every alarm frame. Reconnects forever until the context is
// cancelled; reconnect attempts are paced by a rate limiter so a flapping
// server is not hammered.
type Listener struct {
	url     string
	dialer  *websocket.Dialer
	limiter *rate.Limiter
	// OnAlarm is called for each received alarm. Must be non-nil before Run.
	OnAlarm func(model.Incident)
	// OnReconnect, if set, is called before each (re)connection attempt.
	OnReconnect func()
}

// NewListener creates a Listener for the given server URL and token.
// The HTTP(S) base URL is rewritten to its ws(s) equivalent.
func NewListener(baseURL, token string) *Listener {
	wsURL := strings.TrimRight(baseURL, "/")
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	wsURL = fmt.Sprintf("%s/api/ha/ws/%s", wsURL, token)

	return &Listener{
		url:    wsURL,
		dialer: websocket.DefaultDialer,
		// One connection attempt every 30 seconds, first one immediate.
		limiter: rate.NewLimiter(rate.Every(reconnectInterval), 1),
	}
}

// URL returns the websocket endpoint (for logging and tests).
func (l *Listener) URL() string {
	return l.url
}

// Run connects and listens until ctx is cancelled. Each connection failure
// or drop waits for the reconnect limiter before trying again.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.limiter.Wait(ctx); err != nil {
			return // context cancelled
		}

		if l.OnReconnect != nil {
			l.OnReconnect()
		}

		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logws.Warn("websocket disconnected", "error", err)
		}
	}
}

// listen runs a single connection until it drops or ctx is cancelled.
func (l *Listener) listen(ctx context.Context) error {
	conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	logws.Info("websocket connected", "url", l.url)

	// Close the connection when the context is cancelled so ReadMessage
	// unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		var frame wsFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			logws.Warn("websocket frame not parseable", "error", err)
			continue
		}

		switch frame.Type {
		case "alarm":
			alarm := frame.Data
			if alarm.Type == "" {
				alarm.Type = classify.DeriveType(alarm.Keyword)
			}
			if l.OnAlarm != nil {
				l.OnAlarm(alarm)
			}
		case "ping":
			if err := conn.WriteMessage(websocket.TextMessage, []byte("pong")); err != nil {
				return fmt.Errorf("pong: %w", err)
			}
		}
	}
}
