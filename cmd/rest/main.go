package main

import (
	"context"
	"log"

	"github.com/Hirdyansh9/priv-lens/internal/bootstrap"
	"github.com/Hirdyansh9/priv-lens/internal/config"
	"github.com/Hirdyansh9/priv-lens/internal/server"
	"github.com/Hirdyansh9/priv-lens/internal/tracer"
	"github.com/Hirdyansh9/priv-lens/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// Seed the legal knowledge base on first boot; subsequent boots skip it.
	go func() {
		ctx := context.Background()
		seeded, err := container.LegalSeeder.Initialized(ctx)
		if err != nil {
			log.Printf("Background: Legal KB check failed: %v", err)
			return
		}
		if seeded {
			return
		}
		log.Println("Background: Seeding legal knowledge base...")
		if err := container.LegalSeeder.SeedAll(ctx); err != nil {
			log.Printf("Background: Legal KB seeding failed: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
