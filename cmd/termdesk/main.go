package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stylith/termdesk/internal/config"
	"github.com/stylith/termdesk/internal/desktop"
)

func main() {
	os.Exit(run())
}

func run() int {
	debug := flag.Bool("debug", false, "write a debug log to termdesk.log")
	flag.Parse()

	if *debug {
		f, err := tea.LogToFile("termdesk.log", "termdesk")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	p := tea.NewProgram(desktop.New(cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
