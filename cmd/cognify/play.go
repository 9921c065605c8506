package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/cognify-quest/internal/core"
	"github.com/vovakirdan/cognify-quest/internal/platform/tui"
	"github.com/vovakirdan/cognify-quest/internal/puzzle"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal.

Pick a difficulty from the menu, or pass --difficulty to start right away.
Your profile, streak and scores are stored in the local database.

Controls:
  Arrows/WASD   - Move the selected piece
  Space/R       - Rotate the selected piece by 45 degrees
  Tab/Shift+Tab - Select next/previous piece
  H             - Highlight a piece that is still far from its outline
  P             - Pause
  Enter         - Next level / retry after a result
  Esc/B         - Back to menu
  Q/Ctrl+C      - Quit

Logs are written to cognify.log next to the database.

Examples:
  cognify play
  cognify play --difficulty hard
  cognify play --seed 42 --user ada`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Start at difficulty: easy, medium, hard, expert")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()

	// Without --difficulty the menu opens on the resolved preference.
	var start puzzle.Difficulty
	if flagDifficulty != "" {
		d, err := cfg.ResolveDifficulty(flagDifficulty, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'cognify difficulties' to see the options.")
			os.Exit(1)
		}
		start = d
	}

	// The board owns the terminal, so logs go to a file.
	if err := os.MkdirAll(stateDir(), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(filepath.Join(stateDir(), "cognify.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := newLogger(logFile)

	store := mustOpenStore()
	defer store.Close()

	syncer, closeSyncer := openSyncer(logger)
	defer closeSyncer()

	d := deps(store, syncer, cfg, logger)
	prof, err := tui.LoadProfile(d, flagUser)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profile: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	if width < tui.ScreenWidth || height < tui.ScreenHeight {
		fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, the board needs %dx%d\n",
			width, height, tui.ScreenWidth, tui.ScreenHeight)
	}

	rc := core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    flagSeed,
	}

	logger.Info("session starting", "user", prof.Username, "difficulty", start)
	if err := tui.Run(tui.NewApp(d, prof), rc, start); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
