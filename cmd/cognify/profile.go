package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cognify-quest/internal/profile"
	"github.com/vovakirdan/cognify-quest/internal/puzzle"
	"github.com/vovakirdan/cognify-quest/internal/storage"
)

var flagHistoryLimit int

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your profile",
	Long: `Inspect and edit the profile selected by --user.

Examples:
  cognify profile show
  cognify profile history --limit 5
  cognify profile set-difficulty hard
  cognify profile rename ada
  cognify profile reset`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show profile and statistics",
	Args:  cobra.NoArgs,
	Run:   runProfileShow,
}

var profileHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent level results",
	Args:  cobra.NoArgs,
	Run:   runProfileHistory,
}

var profileResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear scores, streaks and statistics (settings are kept)",
	Args:  cobra.NoArgs,
	Run:   runProfileReset,
}

var profileDifficultyCmd = &cobra.Command{
	Use:   "set-difficulty <difficulty>",
	Short: "Set the preferred difficulty",
	Args:  cobra.ExactArgs(1),
	Run:   runProfileSetDifficulty,
}

var profileRenameCmd = &cobra.Command{
	Use:   "rename <name>",
	Short: "Change the profile name",
	Args:  cobra.ExactArgs(1),
	Run:   runProfileRename,
}

var profileHintsCmd = &cobra.Command{
	Use:   "hints <on|off>",
	Short: "Turn the hint key on or off",
	Args:  cobra.ExactArgs(1),
	Run:   runProfileHints,
}

func init() {
	profileHistoryCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of results to show")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileHistoryCmd)
	profileCmd.AddCommand(profileResetCmd)
	profileCmd.AddCommand(profileDifficultyCmd)
	profileCmd.AddCommand(profileRenameCmd)
	profileCmd.AddCommand(profileHintsCmd)
}

// withProfile opens the store, loads the --user profile and runs fn.
func withProfile(fn func(*storage.Store, *profile.Profile)) {
	store := mustOpenStore()
	defer store.Close()

	p, err := store.LoadOrCreateProfile(flagUser)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profile: %v\n", err)
		os.Exit(1)
	}
	fn(store, p)
}

// mustSave saves p or exits.
func mustSave(store *storage.Store, p *profile.Profile) {
	if err := store.SaveProfile(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving profile: %v\n", err)
		os.Exit(1)
	}
}

func runProfileShow(_ *cobra.Command, _ []string) {
	withProfile(func(store *storage.Store, p *profile.Profile) {
		fmt.Printf("%s %s\n", p.AvatarEmoji, p.Username)
		fmt.Printf("  ID:              %s\n", p.ID)
		fmt.Printf("  Created:         %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
		if p.LastPlayedAt != nil {
			fmt.Printf("  Last played:     %s\n", p.LastPlayedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Println()
		fmt.Printf("  Total score:     %d\n", p.TotalScore)
		fmt.Printf("  High score:      %d\n", p.HighScore)
		fmt.Printf("  Levels solved:   %d\n", p.LevelsCompleted)
		fmt.Printf("  Streak:          %d (longest %d)\n", p.CurrentStreak, p.LongestStreak)
		fmt.Printf("  Win rate:        %.0f%% of %d levels\n", p.WinRate()*100, p.Statistics.GamesPlayed)
		fmt.Printf("  Perfect levels:  %d\n", p.Statistics.PerfectGames)
		fmt.Printf("  Time played:     %s\n", seconds(p.Statistics.TotalTimePlayed))
		fmt.Printf("  Avg solve time:  %s\n", seconds(p.Statistics.AverageCompletionTime))
		fmt.Println()
		if p.Settings.DifficultyPreference.Valid() {
			fmt.Printf("  Difficulty:      %s\n", p.Settings.DifficultyPreference)
		} else {
			d, _ := mustLoadConfig().ResolveDifficulty("", "")
			fmt.Printf("  Difficulty:      %s (default)\n", d)
		}
		fmt.Printf("  Hints:           %s\n", onOff(p.Settings.ShowHints))

		stats, err := store.ProfileStats(p.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			return
		}
		if stats.Games > 0 {
			fmt.Println()
			fmt.Printf("  Stored results:  %d (%d solved, avg %.0f points)\n", stats.Games, stats.Wins, stats.AvgScore)
		}
	})
}

func runProfileHistory(_ *cobra.Command, _ []string) {
	withProfile(func(store *storage.Store, p *profile.Profile) {
		results, err := store.History(p.ID, flagHistoryLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
			os.Exit(1)
		}
		if len(results) == 0 {
			fmt.Println("No levels played yet.")
			return
		}

		fmt.Printf("  %-16s  %-5s  %-7s  %-6s  %-7s  %s\n", "Date", "Level", "Mode", "Result", "Score", "Time")
		for _, r := range results {
			outcome := "lost"
			if r.Success {
				outcome = "solved"
			}
			fmt.Printf("  %-16s  %-5d  %-7s  %-6s  %-7d  %s\n",
				r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Level, r.Difficulty.DisplayName(),
				outcome, r.Score(), r.Elapsed.Round(time.Second))
		}
	})
}

func runProfileReset(_ *cobra.Command, _ []string) {
	withProfile(func(store *storage.Store, p *profile.Profile) {
		p.Reset()
		mustSave(store, p)
		if err := store.ClearResults(p.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing results: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Profile %s reset.\n", p.Username)
	})
}

func runProfileSetDifficulty(_ *cobra.Command, args []string) {
	d, err := puzzle.ParseDifficulty(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	withProfile(func(store *storage.Store, p *profile.Profile) {
		p.Settings.DifficultyPreference = d
		mustSave(store, p)
		fmt.Printf("Preferred difficulty set to %s.\n", d)
	})
}

func runProfileRename(_ *cobra.Command, args []string) {
	name := strings.TrimSpace(args[0])
	if name == "" {
		fmt.Fprintln(os.Stderr, "Error: name cannot be empty")
		os.Exit(1)
	}
	withProfile(func(store *storage.Store, p *profile.Profile) {
		old := p.Username
		p.Username = name
		mustSave(store, p)
		fmt.Printf("Renamed %s to %s.\n", old, name)
	})
}

func runProfileHints(_ *cobra.Command, args []string) {
	var on bool
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes":
		on = true
	case "off", "false", "no":
		on = false
	default:
		fmt.Fprintf(os.Stderr, "Error: expected on or off, got %q\n", args[0])
		os.Exit(1)
	}
	withProfile(func(store *storage.Store, p *profile.Profile) {
		p.Settings.ShowHints = on
		mustSave(store, p)
		fmt.Printf("Hints turned %s.\n", onOff(on))
	})
}

func seconds(s float64) string {
	return (time.Duration(s * float64(time.Second))).Round(time.Second).String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
