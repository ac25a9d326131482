package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lao-tseu-is-alive/go-boids-clock/internal/terminal"
)

var (
	configFile  string
	connections bool
	trail       bool
	updateMode  string
	verbose     bool
	logFile     string
	seed        uint64
	// Terminal cell size in canvas pixels
	cellWidth  float64
	cellHeight float64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "boidsclock",
		Short:        "the current time, written in flocking characters",
		SilenceUsage: true,
		RunE:         runWindow,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "JSON or YAML config file")
	flags.BoolVar(&connections, "connections", true, "draw lines between nearby characters")
	flags.BoolVar(&trail, "trail", true, "fade previous frames instead of clearing them")
	flags.StringVar(&updateMode, "update-mode", "", "sequential or simultaneous")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log epochs and frame rate")
	flags.StringVar(&logFile, "log-file", "", "write logs to this file")
	flags.Uint64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	termCmd := &cobra.Command{
		Use:   "term",
		Short: "run the clock in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTerminal,
	}
	termCmd.Flags().Float64Var(&cellWidth, "cell-width", terminal.DefaultCellWidth, "canvas pixels per terminal column")
	termCmd.Flags().Float64Var(&cellHeight, "cell-height", terminal.DefaultCellHeight, "canvas pixels per terminal row")

	rootCmd.AddCommand(termCmd)
	return rootCmd
}
