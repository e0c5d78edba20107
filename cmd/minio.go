package cmd

import (
	"fmt"
	"log"

	"dhun/storage"

	"github.com/spf13/cobra"
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Check the MinIO connection",
	Long:  `Connect to the configured MinIO endpoint and verify the media bucket exists.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := storage.InitMinio(); err != nil {
			log.Fatalf("Failed to initialize MinIO: %v", err)
		}
		fmt.Println("MinIO connection OK.")
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)
}
