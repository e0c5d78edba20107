package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dhun",
	Short: "dhun is a music catalog and streaming service.",
	Run: func(cmd *cobra.Command, args []string) {
		// Running with no subcommand starts the server.
		serverCmd.Run(cmd, args)
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
