package cmd

import (
	"dhun/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the dhun HTTP server",
	Long:  `Start the dhun music service: catalog API, approval workflow endpoints and media streaming.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
