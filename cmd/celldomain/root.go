package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/celldomain/logging"
	"github.com/lixenwraith/celldomain/parameter"
	"github.com/lixenwraith/celldomain/scenario"
)

var rootCmd = &cobra.Command{
	Use:   "celldomain",
	Short: "Incremental connectivity domains over a blocking grid",
	Long: `celldomain partitions a grid into maximal 4-connected domains of open or
blocked cells and keeps the partition current as actors move and terrain changes.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringP("scenario", "s", "", "Scenario file, empty grid when omitted")
}

func newLogger(cmd *cobra.Command, w io.Writer) (*slog.Logger, error) {
	name, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	return logging.New(level, w), nil
}

func loadScenario(cmd *cobra.Command) (*scenario.Scenario, error) {
	path, _ := cmd.Flags().GetString("scenario")
	if path == "" {
		return &scenario.Scenario{
			Name:   "empty",
			Width:  parameter.DefaultGridWidth,
			Height: parameter.DefaultGridHeight,
		}, nil
	}
	return scenario.Load(path)
}
