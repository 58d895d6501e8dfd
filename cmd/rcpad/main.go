// Package main starts the RCPad server.
package main

import (
	"github.com/spf13/cobra"
)

// main is the entrypoint for the RCPad CLI.
func main() {
	var debug bool

	rootCmd := &cobra.Command{
		Use:           "rcpad",
		Short:         "browser remote control for a networked RC car",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(debug)
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable verbose debug logging")
	rootCmd.AddCommand(newSendCmd())

	if err := rootCmd.Execute(); err != nil {
		logFatal(err)
	}
}
