package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/reactflix/reactflix-server/internal/api"
	"github.com/reactflix/reactflix-server/internal/config"
	"github.com/reactflix/reactflix-server/internal/version"
)

func main() {
	ver := version.Load()
	log.Printf("reactflix %s starting...", ver.Version)

	cfg := config.Load()

	srv, err := api.NewServer(cfg, ver)
	if err != nil {
		log.Fatalf("server init failed: %v", err)
	}
	srv.Start()
	defer srv.Stop()

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%d (library root %s)", cfg.Port, cfg.LibraryRoot)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}
