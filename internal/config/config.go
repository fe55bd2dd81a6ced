package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Defaults applied when a field is absent or invalid. Invalid config never
// errors; it falls back.
const (
	DefaultEntityID     = "sensor.einsatz_monitor_letzte_einsaetze"
	DefaultTitle        = "Letzte Einsätze"
	DefaultPollInterval = 30 * time.Second
	DefaultMaxIncidents = 5
)

// DefaultMessage is the announcement template used when none is configured.
const DefaultMessage = "Achtung Alarm! {keyword}. Fahrzeuge: {vehicles}"

// Config is the persistent application configuration
type Config struct {
	// Upstream alarm API
	Server ServerConfig `json:"server"`

	// Card / feed display preferences
	Card CardConfig `json:"card"`

	// New-alarm notification settings
	Notify NotifyConfig `json:"notify"`

	// MetricsAddr exposes a Prometheus /metrics listener when non-empty,
	// e.g. ":9137". Empty disables the listener.
	MetricsAddr string `json:"metrics_addr,omitempty"`
}

// ServerConfig holds the upstream connection settings
type ServerConfig struct {
	URL          string `json:"url"`
	Token        string `json:"token,omitempty"`
	PollSeconds  int    `json:"poll_seconds"`
	UseWebsocket bool   `json:"use_websocket"`
}

// CardConfig holds the feed card preferences
type CardConfig struct {
	EntityID     string `json:"entity_id"`
	Title        string `json:"title"`
	ShowHeader   bool   `json:"show_header"`
	MaxIncidents int    `json:"max_incidents"`
}

// NotifyConfig holds new-alarm notification preferences
type NotifyConfig struct {
	Enabled    bool   `json:"enabled"`
	WebhookURL string `json:"webhook_url,omitempty"`
	// Announcement template; {keyword}, {vehicles}, {unit} and {timestamp}
	// are substituted from the alarm.
	Message string `json:"message,omitempty"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			PollSeconds:  int(DefaultPollInterval / time.Second),
			UseWebsocket: true,
		},
		Card: CardConfig{
			EntityID:     DefaultEntityID,
			Title:        DefaultTitle,
			ShowHeader:   true,
			MaxIncidents: DefaultMaxIncidents,
		},
		Notify: NotifyConfig{
			Message: DefaultMessage,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".einsatzmonitor", "config.json")
}

// Load reads config from disk, or returns defaults. A corrupt file is
// treated the same as a missing one.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from the given path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	// Unmarshal over a prefilled config so fields absent from the file keep
	// their defaults. This is the only way booleans like show_header can
	// distinguish "absent" from an explicit false.
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), nil
	}

	cfg.applyDefaults()
	cfg.AutoPopulateFromEnv()
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes config to the given path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for the API token
}

// applyDefaults fills in zero-valued fields so a partial config file still
// yields a usable configuration.
func (c *Config) applyDefaults() {
	if c.Server.PollSeconds <= 0 {
		c.Server.PollSeconds = int(DefaultPollInterval / time.Second)
	}
	if c.Card.EntityID == "" {
		c.Card.EntityID = DefaultEntityID
	}
	if c.Card.Title == "" {
		c.Card.Title = DefaultTitle
	}
	if c.Card.MaxIncidents <= 0 {
		c.Card.MaxIncidents = DefaultMaxIncidents
	}
	if c.Notify.Message == "" {
		c.Notify.Message = DefaultMessage
	}
}

// AutoPopulateFromEnv fills in connection settings from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if url := os.Getenv("EINSATZ_MONITOR_URL"); url != "" {
		c.Server.URL = url
	}
	if token := os.Getenv("EINSATZ_MONITOR_TOKEN"); token != "" {
		c.Server.Token = token
	}
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Server.PollSeconds) * time.Second
}
