// Package main is the ivcp demonstration CLI: it wires csp.Builder and
// csp.Driver together for the four canned scenarios of spec.md §8, so
// the solver can be exercised from a terminal instead of only from Go
// tests.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ivcp",
		Short: "ivcp",
		Long:  `ivcp runs the interval branch-and-bound constraint solver against a small set of demonstration problems.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newSolveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
