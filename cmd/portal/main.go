package main

import (
	"net/http"
	"os"
	"time"

	"case-portal/internal/adapters/gateway"
	"case-portal/internal/platform/logger"
	"case-portal/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		backendURL = "http://localhost:8000"
	}

	gw, err := gateway.NewClient(gateway.Config{
		BaseURL: backendURL,
		Timeout: 15 * time.Second,
	})
	if err != nil {
		log.Error("gateway init failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	r := router.NewRouter(router.Options{Gateway: gw, Log: log})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("starting portal", map[string]any{"addr": addr, "backend": backendURL})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
