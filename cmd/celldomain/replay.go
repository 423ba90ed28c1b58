package main

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/celldomain/scenario"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Run a scenario headlessly and print the domain count per tick",
	RunE: func(cmd *cobra.Command, args []string) error {
		ticks, _ := cmd.Flags().GetUint64("ticks")
		quiet, _ := cmd.Flags().GetBool("quiet")

		log, err := newLogger(cmd, os.Stderr)
		if err != nil {
			return err
		}
		sc, err := loadScenario(cmd)
		if err != nil {
			return err
		}
		r, err := scenario.NewRunner(sc, log)
		if err != nil {
			return err
		}

		out := termenv.NewOutput(os.Stdout)
		header := out.String(fmt.Sprintf("%s %dx%d", sc.Name, sc.Width, sc.Height)).Bold()
		fmt.Fprintln(out, header)
		fmt.Fprintf(out, "%6s %8s %6s\n", "tick", "domains", "edges")
		fmt.Fprintf(out, "%6d %8d %6d\n", 0, r.Manager.DomainCount(), r.Manager.EdgeCount())

		prev := r.Manager.DomainCount()
		err = r.Replay(ticks, func(rep scenario.TickReport) {
			if quiet && rep.Domains == prev {
				return
			}
			line := fmt.Sprintf("%6d %8d %6d", rep.Tick, rep.Domains, rep.Edges)
			switch {
			case rep.Domains > prev:
				fmt.Fprintln(out, out.String(line).Foreground(out.Color("#a78bfa")))
			case rep.Domains < prev:
				fmt.Fprintln(out, out.String(line).Foreground(out.Color("#f472b6")))
			default:
				fmt.Fprintln(out, line)
			}
			prev = rep.Domains
		})
		if err != nil {
			fmt.Fprintln(out, out.String("invalid").Foreground(out.Color("#fb7185")).Bold())
			return err
		}
		fmt.Fprintln(out, out.String("valid").Foreground(out.Color("#34d399")).Bold())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Uint64P("ticks", "t", 0, "Ticks to run, 0 runs to the end of the timeline")
	replayCmd.Flags().BoolP("quiet", "q", false, "Only print ticks where the domain count changed")
}
