package main

import (
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "stop the running daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		sup := supervisorFor(cfg, nil)
		return sup.Stop()
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "stop then start the daemon",
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
		return sup.Restart()
	},
}
