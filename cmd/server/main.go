package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cloudlocker/file-vault/internal/api"
	"github.com/cloudlocker/file-vault/internal/api/handlers"
	"github.com/cloudlocker/file-vault/internal/blob"
	"github.com/cloudlocker/file-vault/internal/configuration"
	"github.com/cloudlocker/file-vault/internal/services"
	"github.com/cloudlocker/file-vault/internal/storage"
)

func main() {
	cfg := configuration.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewPostgres(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}
	defer store.Close()

	blobs, err := blob.New(cfg.MinIO, cfg.Upload.Namespace)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}

	// NATS and ClamAV are optional; the services treat nil as disabled.
	var events *services.EventPublisher
	if cfg.NATSURL != "" {
		events, err = services.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Printf("Warning: NATS unavailable, events disabled: %v", err)
		} else {
			defer events.Close()
		}
	}

	var scanner *services.Scanner
	if cfg.CLAMAVURL != "" {
		scanner = services.NewScanner(cfg.CLAMAVURL, blobs, store)
	}

	authService := services.NewAuthService(store, store, cfg.Session.TTL)
	fileService := services.NewFileService(store, store, blobs, cfg.Upload, events, scanner)
	folderService := services.NewFolderService(store, blobs, events)

	go authService.SweepExpiredSessions(ctx, cfg.Session.SweepInterval)

	r := gin.Default()
	r.MaxMultipartMemory = cfg.Upload.MaxBytes

	h := handlers.New(authService, fileService, folderService, cfg.Session.CookieName)
	api.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
