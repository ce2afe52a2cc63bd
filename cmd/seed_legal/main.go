package main

import (
	"context"
	"log"
	"os"

	"github.com/Hirdyansh9/priv-lens/internal/config"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/internal/repository/implementation"
	"github.com/Hirdyansh9/priv-lens/pkg/database"
	"github.com/Hirdyansh9/priv-lens/pkg/embedding"
	"github.com/Hirdyansh9/priv-lens/pkg/legal"
)

// Re-embeds the legal regulation corpus from scratch. Run after changing the
// corpus documents or switching embedding models.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, false)
	defer sysLogger.Sync()

	embedder := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	seeder := legal.NewSeeder(implementation.NewLegalChunkRepository(db), embedder, sysLogger)

	ctx := context.Background()
	if len(os.Args) > 1 {
		for _, source := range os.Args[1:] {
			if err := seeder.Seed(ctx, source); err != nil {
				log.Fatalf("Error: Failed to seed %s: %v", source, err)
			}
		}
	} else if err := seeder.SeedAll(ctx); err != nil {
		log.Fatalf("Error: Failed to seed legal knowledge base: %v", err)
	}

	log.Println("✅ Legal knowledge base seeded")
}
