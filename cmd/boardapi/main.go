// Command boardapi serves the reference REST backend for the board.
package main

import (
	"context"
	"log"

	"crowdfix/configs"
	"crowdfix/internal/logger"
	"crowdfix/internal/server"
)

func main() {
	config := configs.LoadConfig()

	logger.InitLogger(config.LogLevel)
	defer logger.SyncLogger()

	if err := server.StartGinServer(context.Background(), config); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
