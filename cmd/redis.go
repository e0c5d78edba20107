package cmd

import (
	"fmt"
	"log"

	"dhun/cache"
	"dhun/config"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the Redis connection",
	Long:  `Connect to Redis with the configured address and run a set/get/del round trip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("Redis: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		if err := cache.ConnectRedis(cfg); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		if err := cache.PingRoundTrip(); err != nil {
			log.Fatalf("Redis round trip failed: %v", err)
		}
		if err := cache.CloseRedis(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
		fmt.Println("Redis connection OK.")
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
