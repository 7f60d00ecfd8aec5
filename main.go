package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/handlers"
	"taskboard/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Initialize database
	store, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	pages, err := handlers.NewRenderer(web.FS)
	if err != nil {
		log.Fatalf("templates: %v", err)
	}
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		log.Fatalf("static files: %v", err)
	}

	sessions := auth.NewManager(store, cfg.Secret, cfg.SessionTTL, cfg.SecureCookies)
	h := handlers.New(store, sessions, pages)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handlers.NewRouter(h, static),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Server starting on %s", cfg.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Shutdown complete.")
}
