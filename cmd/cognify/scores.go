package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cognify-quest/internal/puzzle"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [difficulty]",
	Short: "Show high scores",
	Long: `Display the best solved levels, across all difficulties or for one.

Examples:
  cognify scores
  cognify scores hard
  cognify scores --limit 25`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
}

func runScores(_ *cobra.Command, args []string) {
	var difficulty puzzle.Difficulty
	title := "All difficulties"
	if len(args) == 1 {
		d, err := puzzle.ParseDifficulty(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'cognify difficulties' to see the options.")
			os.Exit(1)
		}
		difficulty = d
		title = d.DisplayName()
	}

	store := mustOpenStore()
	defer store.Close()

	scores, err := store.TopScores(difficulty, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'cognify play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-12s  %-7s  %-5s  %-7s  %s\n", "Rank", "Player", "Score", "Level", "Mode", "Date")
	fmt.Printf("  %-4s  %-12s  %-7s  %-5s  %-7s  %s\n", "----", "------", "-----", "-----", "----", "----")

	for i, e := range scores {
		fmt.Printf("  %-4d  %-12s  %-7d  %-5d  %-7s  %s\n",
			i+1, e.Username, e.Score(), e.Level, e.Difficulty.DisplayName(), e.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(difficulty); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
}
