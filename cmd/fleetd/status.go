package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sliceops/fleetd/internal/daemon"
	"github.com/sliceops/fleetd/internal/log"
	"github.com/sliceops/fleetd/internal/statusreader"
	"github.com/sliceops/fleetd/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "print fleet health without engaging the probe pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		sup := supervisorFor(cfg, nil)
		live, pid := sup.Status()
		if !live {
			fmt.Println("fleetd is not running")
			return &daemon.SupervisorError{Op: "status", Err: daemon.ErrNotRunning}
		}
		fmt.Printf("fleetd is running (pid %d)\n", pid)

		// The status path must not mutate the configured log file while
		// it reads the store.
		log.InitNull()

		st, err := store.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer st.Close()

		opts := readerOptions(cmd)
		return statusreader.Read(st, opts, os.Stdout)
	},
}

func readerOptions(cmd *cobra.Command) statusreader.Options {
	verbose, _ := cmd.Flags().GetBool("verbose")
	veryVerbose, _ := cmd.Flags().GetBool("vv")
	names, _ := cmd.Flags().GetBool("names")
	byAuthority, _ := cmd.Flags().GetBool("by-authority")

	v := statusreader.Default
	switch {
	case veryVerbose:
		v = statusreader.VeryVerbose
	case verbose:
		v = statusreader.Verbose
	}
	return statusreader.Options{Verbosity: v, Names: names, ByAuthority: byAuthority}
}
