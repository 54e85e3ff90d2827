package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"virtual-budtender-be/internal/bootstrap"
	"virtual-budtender-be/internal/config"
	"virtual-budtender-be/internal/server"
	"virtual-budtender-be/internal/tracer"
	"virtual-budtender-be/pkg/catalog"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Initial Catalog Load (fatal: the service is useless without it)
	if _, err := container.CatalogService.Load(context.Background()); err != nil {
		var loadErr *catalog.LoadError
		if errors.As(err, &loadErr) {
			log.Panicf("Unable to load catalog: %v", loadErr)
		}
		log.Panicf("Unable to load catalog: %v", err)
	}

	// 4. Restore sessions from the previous run, if a snapshot exists
	if restored, err := container.SessionStore.RestoreFile(cfg.Session.SnapshotPath); err != nil {
		log.Printf("[WARN] Failed to restore session snapshot: %v", err)
	} else if restored > 0 {
		log.Printf("[INFO] Restored %d sessions from snapshot", restored)
	}

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Analytics Service...")
		if err := container.AnalyticsService.Consume(context.Background()); err != nil {
			log.Printf("Background Analytics Error: %v", err)
		}
	}()

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Graceful shutdown: snapshot sessions before exiting
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down, snapshotting sessions...")
		if err := container.SessionStore.SnapshotFile(cfg.Session.SnapshotPath); err != nil {
			log.Printf("[WARN] Failed to snapshot sessions: %v", err)
		}
		if container.NatsPub != nil {
			container.NatsPub.Close()
		}
		_ = container.Logger.Sync()
		_ = srv.Shutdown()
	}()

	// 8. Run Server
	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
