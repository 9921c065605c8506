package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cognify-quest/internal/config"
)

var listCmd = &cobra.Command{
	Use:     "difficulties",
	Aliases: []string{"list"},
	Short:   "List difficulties",
	Long:    `Shows every difficulty with its piece count and time limit.`,
	Run:     runList,
}

func runList(_ *cobra.Command, _ []string) {
	fmt.Println("Difficulties:")
	fmt.Println()

	fmt.Printf("  %-8s  %-6s  %-10s  %s\n", "Name", "Pieces", "Multiplier", "Time")
	fmt.Printf("  %-8s  %-6s  %-10s  %s\n", "----", "------", "----------", "----")

	for _, d := range config.Difficulties() {
		fmt.Printf("  %-8s  %-6d  x%-9.2f  %.0fs\n", d.Difficulty, d.Pieces, d.TimeMultiplier, d.TimeLimit)
	}

	fmt.Println()
	fmt.Println("Run 'cognify play --difficulty <name>' to start at one.")
}
