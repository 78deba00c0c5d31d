package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/h0rv/pacfront/internal/config"
	"github.com/h0rv/pacfront/internal/pacdb"
	"github.com/h0rv/pacfront/internal/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pacfront",
		Short: "Terminal browser for the pacman package database",
		Long: `pacfront is a terminal user interface for browsing installed and
repository packages of a pacman-based system.

Packages open in tabs that can be split, moved between panes and detached
into separate windows. Dependencies, reverse dependencies and file lists
link to the packages that satisfy them.

Settings are read from settings.yaml in the config directory, PACFRONT_*
environment variables and the flags below, in increasing priority.`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Define CLI flags
	flags := rootCmd.PersistentFlags()
	flags.String("dbpath", "", "pacman database directory (default /var/lib/pacman)")
	flags.String("pacman-conf", "", "pacman.conf used to order sync repositories (default /etc/pacman.conf)")
	flags.String("config", "", "file the colour theme is saved to")
	flags.String("log-file", "", "log file (default in the user cache directory)")
	flags.Bool("debug", false, "log at debug level")
	rootCmd.Flags().Bool("no-watch", false, "do not watch the local database for changes")

	rootCmd.AddCommand(newInfoCmd(), newFilesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(cmd.Flags())
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(settings)
	if err != nil {
		return err
	}
	defer closeLog()
	for _, w := range settings.Warnings {
		log.WithError(w).Warn("settings")
	}

	db, err := pacdb.Load(pacdb.Options{
		DBPath:     settings.DBPath,
		PacmanConf: settings.PacmanConf,
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("loading package database: %w", err)
	}

	cfg := config.LoadOrDefault(settings.ConfigFile, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes <-chan struct{}
	if settings.Watch {
		changes, err = pacdb.Watch(ctx, settings.DBPath, log)
		if err != nil {
			log.WithError(err).Warn("database changes will not be noticed")
		}
	}

	app := tui.NewAppModel(tui.Options{
		DB:       db,
		Config:   cfg,
		Settings: settings,
		Logger:   log,
		Changes:  changes,
	})

	// Run Bubble Tea program
	p := tea.NewProgram(app, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	if m, ok := final.(tui.AppModel); ok {
		saveConfig(m.Config(), settings.ConfigFile, log)
	}
	return nil
}

// saveConfig persists cfg to path. A session that ended normally still
// exits cleanly when the config cannot be written.
func saveConfig(cfg config.Config, path string, log logrus.FieldLogger) {
	if path == "" {
		log.Warn("no config file location; theme not saved")
		return
	}
	if err := cfg.Save(path); err != nil {
		log.WithError(err).WithField("path", path).Warn("saving config")
		return
	}
	log.WithField("path", path).Debug("saved config")
}

// newLogger logs to the configured file; the terminal belongs to the UI.
func newLogger(settings config.Settings) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetLevel(settings.Level())
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	if settings.LogFile == "" {
		log.SetOutput(io.Discard)
		return log, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(settings.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(f)
	return log, func() { f.Close() }, nil
}
