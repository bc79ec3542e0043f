package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Ponder.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Subtle indigo-to-rose gradient, one color per row.
	s1 := termenv.String("  ____                 _           ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String(" |  _ \\ ___  _ __   __| | ___ _ __ ").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" | |_) / _ \\| '_ \\ / _` |/ _ \\ '__|").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" |  __/ (_) | | | | (_| |  __/ |   ").Foreground(p.Color("#e879f9"))
	s5 := termenv.String(" |_|   \\___/|_| |_|\\__,_|\\___|_|   ").Foreground(p.Color("#f472b6"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
