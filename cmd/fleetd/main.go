// Command fleetd probes a fleet of experimental compute nodes for
// reachability, SSH accessibility, and platform fingerprint, maintaining
// their health profile in a local embedded store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fleetd",
	Short: "fleetd probes and tracks the health of a fleet of nodes",
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "configuration file (required for start)")
	rootCmd.PersistentFlags().StringP("log", "l", "fleetd.log", "log file basename")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "debug log verbosity")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose status: histogram over usable nodes")
	rootCmd.PersistentFlags().Bool("vv", false, "very-verbose status: histogram over all nodes")
	rootCmd.PersistentFlags().BoolP("names", "n", false, "print node names rather than addresses")
	rootCmd.PersistentFlags().Bool("by-authority", false, "group status output by authority")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(statusCmd)
}
