package embedding

// TaskType hints the provider about the retrieval role of the text.
const (
	TaskDocument = "retrieval_document"
	TaskQuery    = "retrieval_query"
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider generates text embeddings.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}
