package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/internal/repository/contract"
	"github.com/Hirdyansh9/priv-lens/pkg/embedding"
)

// PolicyRetriever runs semantic search over the chunked text of a single
// stored policy. Queries are embedded with the query task type so that
// asymmetric embedding models score them correctly against document chunks.
type PolicyRetriever struct {
	chunkRepo contract.PolicyChunkRepository
	embedder  embedding.EmbeddingProvider
	logger    logger.ILogger
}

func NewPolicyRetriever(
	chunkRepo contract.PolicyChunkRepository,
	embedder embedding.EmbeddingProvider,
	log logger.ILogger,
) *PolicyRetriever {
	return &PolicyRetriever{
		chunkRepo: chunkRepo,
		embedder:  embedder,
		logger:    log,
	}
}

// Search returns the top-k chunk texts of the given policy ranked by
// similarity to the query. An empty result is not an error: it simply means
// the policy has not been embedded yet.
func (r *PolicyRetriever) Search(ctx context.Context, policyId uint, query string, k int) ([]string, error) {
	resp, err := r.embedder.Generate(query, embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := r.chunkRepo.SearchSimilar(ctx, resp.Embedding.Values, k, policyId)
	if err != nil {
		return nil, fmt.Errorf("search policy chunks: %w", err)
	}

	docs := make([]string, 0, len(scored))
	for _, s := range scored {
		docs = append(docs, s.Chunk.Document)
	}

	r.logger.Debug("Retrieval", "policy search complete", map[string]interface{}{
		"policy_id": policyId,
		"k":         k,
		"hits":      len(docs),
	})

	return docs, nil
}

// FormatSections renders retrieved chunks as numbered sections for
// inclusion in an LLM prompt.
func FormatSections(docs []string) string {
	if len(docs) == 0 {
		return "No relevant policy sections found."
	}

	parts := make([]string, 0, len(docs))
	for i, doc := range docs {
		parts = append(parts, fmt.Sprintf("Section %d:\n%s", i+1, doc))
	}
	return strings.Join(parts, "\n\n---\n\n")
}
