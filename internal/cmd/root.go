// Package cmd wires the CLI for the Einsatz-Monitor TUI.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/freakms/ha-firecalltracking/internal/config"
	"github.com/freakms/ha-firecalltracking/internal/coord"
	"github.com/freakms/ha-firecalltracking/internal/fetch"
	"github.com/freakms/ha-firecalltracking/internal/logging"
	"github.com/freakms/ha-firecalltracking/internal/notify"
	"github.com/freakms/ha-firecalltracking/internal/observability"
	"github.com/freakms/ha-firecalltracking/internal/render"
	"github.com/freakms/ha-firecalltracking/internal/store"
	"github.com/freakms/ha-firecalltracking/internal/ui"
)

var (
	cfgFile     string
	serverURL   string
	serverToken string
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "einsatzmonitor",
	Short: "Einsatz-Monitor live fire/rescue dispatch feed",
	Long: `Einsatz-Monitor renders incoming fire and rescue dispatch alarms as a
color-coded live feed in your terminal. Alarms are polled from the
Einsatz-Monitor cloud API and optionally pushed over a websocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.einsatzmonitor/config.json)")
	rootCmd.Flags().StringVar(&serverURL, "url", "", "alarm server URL (overrides config)")
	rootCmd.Flags().StringVar(&serverToken, "token", "", "alarm server API token (overrides config)")
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	if serverToken != "" {
		cfg.Server.Token = serverToken
	}
	return cfg, nil
}

func run() error {
	if err := logging.Init(); err != nil {
		return err
	}
	defer logging.Close()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Data directory: ~/.einsatzmonitor/
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get home directory: %w", err)
	}
	dataDir := filepath.Join(homeDir, ".einsatzmonitor")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.Open(filepath.Join(dataDir, "einsatzmonitor.db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	metrics := observability.NewMetrics()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := observability.Serve(cfg.MetricsAddr); err != nil {
				logging.Error("metrics listener failed", "error", err)
			}
		}()
	}

	// Upstream: nil client when no URL is configured, which renders the
	// source-not-found panel instead of erroring out.
	var opts coord.Options
	opts.Store = st
	opts.Metrics = metrics
	opts.Title = cfg.Card.Title
	opts.MaxIncidents = cfg.Card.MaxIncidents
	opts.PollInterval = cfg.PollInterval()
	if cfg.Server.URL != "" {
		opts.Poller = fetch.NewClient(cfg.Server.URL, cfg.Server.Token, 10*time.Second)
		if cfg.Server.UseWebsocket {
			opts.Listener = fetch.NewListener(cfg.Server.URL, cfg.Server.Token)
		}
	}

	coordinator := coord.New(opts)

	notifier := notify.New(cfg.Notify)

	var program *tea.Program

	triggerPoll := func() tea.Cmd {
		return func() tea.Msg {
			coordinator.PollOnce(ctx, program)
			return nil
		}
	}

	onNewAlarm := func(msg ui.NewAlarmMsg) tea.Cmd {
		if !notifier.Enabled() {
			return nil
		}
		return func() tea.Msg {
			coord.Notify(ctx, []func(context.Context) error{
				func(ctx context.Context) error {
					err := notifier.Notify(ctx, msg.Alarm)
					if err != nil {
						metrics.NotificationsSent.WithLabelValues("error").Inc()
					} else {
						metrics.NotificationsSent.WithLabelValues("success").Inc()
					}
					return err
				},
			})
			return nil
		}
	}

	app := ui.NewApp(render.Config{
		EntityID:   cfg.Card.EntityID,
		Title:      cfg.Card.Title,
		ShowHeader: cfg.Card.ShowHeader,
	}, triggerPoll, onNewAlarm)

	program = tea.NewProgram(app, tea.WithAltScreen())

	coordinator.Start(ctx, program)
	coordinator.StartWebsocket(ctx, program)

	// Run UI (blocks until quit)
	if _, err := program.Run(); err != nil {
		logging.Error("program failed", "error", err)
	}

	// Graceful shutdown
	cancel()
	coordinator.Wait()
	return nil
}
