package main

import (
	"context"
	"os"

	"custmaker/cmd"
	"custmaker/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Initialize logger early; commands reconfigure it from the loaded config
	logger.Init(logger.Config{
		Level:   logger.LevelInfo,
		Service: "custmaker",
	})

	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	if err := cmd.RootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
