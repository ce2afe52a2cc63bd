package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/internal/repository/contract"
	"github.com/Hirdyansh9/priv-lens/pkg/embedding"
)

// Full regulation names keyed by corpus source tag.
var regulationNames = map[string]string{
	"GDPR":  "General Data Protection Regulation",
	"COPPA": "Children's Online Privacy Protection Act",
	"CCPA":  "California Consumer Privacy Act",
}

// LegalRetriever searches the legal knowledge base of indexed regulation
// texts. A source filter restricts the search to one regulation; an empty
// source searches all corpora.
type LegalRetriever struct {
	legalRepo contract.LegalChunkRepository
	embedder  embedding.EmbeddingProvider
	logger    logger.ILogger
}

func NewLegalRetriever(
	legalRepo contract.LegalChunkRepository,
	embedder embedding.EmbeddingProvider,
	log logger.ILogger,
) *LegalRetriever {
	return &LegalRetriever{
		legalRepo: legalRepo,
		embedder:  embedder,
		logger:    log,
	}
}

func (r *LegalRetriever) Search(ctx context.Context, source, query string, k int) ([]*entity.LegalChunk, error) {
	resp, err := r.embedder.Generate(query, embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := r.legalRepo.SearchSimilar(ctx, resp.Embedding.Values, k, source)
	if err != nil {
		return nil, fmt.Errorf("search legal chunks: %w", err)
	}

	chunks := make([]*entity.LegalChunk, 0, len(scored))
	for _, s := range scored {
		chunks = append(chunks, s.Chunk)
	}

	r.logger.Debug("Retrieval", "legal search complete", map[string]interface{}{
		"source": source,
		"k":      k,
		"hits":   len(chunks),
	})

	return chunks, nil
}

// FormatLegalContext renders legal chunks as numbered, attributed references
// for inclusion in an LLM prompt.
func FormatLegalContext(chunks []*entity.LegalChunk) string {
	if len(chunks) == 0 {
		return "No specific legal references found."
	}

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		fullName := regulationNames[chunk.Source]
		if fullName == "" {
			fullName = chunk.Source
		}
		parts = append(parts, fmt.Sprintf(
			"Legal Reference %d (%s):\nSource: %s\n%s\n",
			i+1, chunk.Source, fullName, chunk.Document,
		))
	}
	return strings.Join(parts, "\n---\n\n")
}
