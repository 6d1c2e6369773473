package main

import (
	"log"
	"net/http"
	"time"

	"github.com/aforsberg/qadeck/internal/broker"
	"github.com/aforsberg/qadeck/internal/config"
	"github.com/aforsberg/qadeck/internal/logger"
)

func main() {
	logger.EnsureInit()

	cfg := config.LoadBroker()
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		log.Printf("Warning: GITHUB_CLIENT_ID / GITHUB_CLIENT_SECRET not set; token exchange will be rejected")
	}

	mux := http.NewServeMux()
	mux.Handle("/", broker.New(cfg))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Authorization broker listening on port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Broker server failed: %v", err)
	}
}
