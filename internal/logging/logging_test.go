package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestComponentPrefixesMessages(t *testing.T) {
	var buf bytes.Buffer
	Logger = log.New(&buf)
	t.Cleanup(func() { Logger = nil })

	ForComponent("websocket").Info("connected", "url", "wss://example")

	out := buf.String()
	if !strings.Contains(out, "websocket") {
		t.Errorf("output missing component prefix: %q", out)
	}
	if !strings.Contains(out, "connected") {
		t.Errorf("output missing message: %q", out)
	}
}

func TestComponentSafeBeforeInit(t *testing.T) {
	Logger = nil

	// Must not panic; messages are dropped until Init.
	c := ForComponent("coord")
	c.Info("msg")
	c.Debug("msg")
	c.Warn("msg")
	c.Error("msg")
}
