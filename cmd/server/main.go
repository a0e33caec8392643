package main

import (
	"flag"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/olympiad/internal/app"
	"github.com/shrimpsizemoose/olympiad/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	router := handlers.NewRouter(service)

	logger.Info.Printf("Starting olympiad server on %s", service.Config.Server.Port)
	if service.Config.Server.EnableAuth {
		logger.Debug.Printf("Auth enabled, tokens read from %s", service.Config.Auth.TokenHeader)
	} else {
		logger.Debug.Printf("Auth disabled, user id read from %s", service.Config.API.UserIDHeader)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, router); err != nil {
		logger.Error.Fatalf("Olympiad server failed: %v", err)
	}
}
