package legal

import (
	"context"
	"fmt"

	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/internal/repository/contract"
	"github.com/Hirdyansh9/priv-lens/pkg/embedding"
	"github.com/Hirdyansh9/priv-lens/pkg/utils"

	"github.com/google/uuid"
)

const (
	chunkSize    = 1000
	chunkOverlap = 150
)

// Seeder populates the legal knowledge base from the embedded regulation
// corpus. Seeding a source replaces its existing chunks, so it is safe to
// run repeatedly.
type Seeder struct {
	legalRepo contract.LegalChunkRepository
	embedder  embedding.EmbeddingProvider
	logger    logger.ILogger
}

func NewSeeder(
	legalRepo contract.LegalChunkRepository,
	embedder embedding.EmbeddingProvider,
	log logger.ILogger,
) *Seeder {
	return &Seeder{
		legalRepo: legalRepo,
		embedder:  embedder,
		logger:    log,
	}
}

// SeedAll ingests every regulation corpus.
func (s *Seeder) SeedAll(ctx context.Context) error {
	for _, source := range Sources() {
		if err := s.Seed(ctx, source); err != nil {
			return err
		}
	}
	return nil
}

// Seed ingests one regulation corpus, replacing any previous chunks for it.
func (s *Seeder) Seed(ctx context.Context, source string) error {
	content, err := loadCorpus(source)
	if err != nil {
		return err
	}

	var chunks []*entity.LegalChunk
	for _, sec := range splitSections(content) {
		for _, piece := range utils.SplitText(sec.Body, chunkSize, chunkOverlap) {
			resp, err := s.embedder.Generate(piece, embedding.TaskDocument)
			if err != nil {
				return fmt.Errorf("embed %s chunk: %w", source, err)
			}
			chunks = append(chunks, &entity.LegalChunk{
				Id:             uuid.New(),
				Source:         source,
				Article:        sec.Title,
				Document:       piece,
				EmbeddingValue: resp.Embedding.Values,
			})
		}
	}

	if err := s.legalRepo.DeleteBySource(ctx, source); err != nil {
		return fmt.Errorf("clear %s corpus: %w", source, err)
	}
	if err := s.legalRepo.CreateBulk(ctx, chunks); err != nil {
		return fmt.Errorf("store %s corpus: %w", source, err)
	}

	s.logger.Info("Legal", "corpus seeded", map[string]interface{}{
		"source": source,
		"chunks": len(chunks),
	})
	return nil
}

// Initialized reports whether the knowledge base already holds any chunks.
func (s *Seeder) Initialized(ctx context.Context) (bool, error) {
	count, err := s.legalRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
