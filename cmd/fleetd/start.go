package main

import (
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "start the daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := initLogging(cmd, cfg); err != nil {
			return err
		}

		debug, _ := cmd.Flags().GetBool("debug")
		sup := supervisorFor(cfg, runDaemon(cfg, debug))
		return sup.Start()
	},
}
