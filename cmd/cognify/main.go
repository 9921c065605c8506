// cognify is a shape-matching puzzle game for the terminal.
//
// Usage:
//
//	cognify play                 - Pick a difficulty and play
//	cognify serve                - Start SSH server for remote play
//	cognify scores [difficulty]  - Show high scores
//	cognify profile ...          - Show or edit the local profile
//	cognify sync ...             - Sync the profile with a remote database
//	cognify difficulties         - List difficulties
//
// Global flags:
//
//	--seed <value>     - Set RNG seed for reproducible puzzles
//	--db <path>        - Set database path (default: ~/.cognify/cognify.db)
//	--config <path>    - Use a custom config YAML
//	--user <name>      - Profile name (default: $USER)
//	--remote-dsn <dsn> - Postgres DSN for profile sync
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cognify-quest/internal/cloudsync"
	"github.com/vovakirdan/cognify-quest/internal/config"
	"github.com/vovakirdan/cognify-quest/internal/platform/tui"
	"github.com/vovakirdan/cognify-quest/internal/storage"
)

var (
	// Global flags
	flagSeed      int64
	flagDBPath    string
	flagConfig    string
	flagUser      string
	flagLogLevel  string
	flagRemoteDSN string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cognify",
	Short: "Cognify Quest - match shapes against the clock",
	Long: `Cognify Quest is a shape-matching puzzle game for the terminal.

Move and rotate the scattered pieces onto their outlines before the
timer runs out. Solving levels in a row builds a streak bonus.

Available commands:
  play          - Play in this terminal
  serve         - Start SSH server for remote play
  scores        - View high scores
  profile       - Show or edit your profile
  sync          - Push or pull your profile to a remote database
  difficulties  - List difficulties

Examples:
  cognify play
  cognify play --difficulty hard
  cognify serve --ssh :2222
  cognify scores expert`,
}

func init() {
	defaultUser := os.Getenv("USER")

	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.cognify/cognify.db", "Path to the profile and score database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", defaultUser, "Profile name")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagRemoteDSN, "remote-dsn", os.Getenv("COGNIFY_REMOTE_DSN"), "Postgres DSN for profile sync (empty disables sync)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(listCmd)
}

// newLogger creates the command logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "cognify",
	})
	level, err := log.ParseLevel(strings.ToLower(flagLogLevel))
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// mustLoadConfig loads the configuration or exits.
func mustLoadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// mustOpenStore opens the local database or exits.
func mustOpenStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return store
}

// openSyncer connects to the remote database when --remote-dsn is set.
// The returned close function is never nil.
func openSyncer(logger *log.Logger) (*cloudsync.Syncer, func()) {
	if flagRemoteDSN == "" {
		return nil, func() {}
	}
	db, err := cloudsync.Open(flagRemoteDSN)
	if err != nil {
		logger.Warn("remote sync disabled", "err", err)
		return nil, func() {}
	}
	remote := cloudsync.NewPostgresStore(db)
	return cloudsync.NewSyncer(remote, logger), func() {
		if err := remote.Close(); err != nil {
			logger.Warn("cannot close remote database", "err", err)
		}
	}
}

// stateDir returns the directory holding the database, for log files.
func stateDir() string {
	path := flagDBPath
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return filepath.Dir(path)
}

// deps bundles the services every front end needs.
func deps(store *storage.Store, syncer *cloudsync.Syncer, cfg config.Config, logger *log.Logger) tui.Deps {
	return tui.Deps{
		Store:  store,
		Syncer: syncer,
		Config: cfg,
		Logger: logger,
		Seed:   flagSeed,
	}
}
