package rag

// MetadataText é a chave de metadata onde o texto original do documento fica
// guardado no índice. O gerador monta o contexto a partir dela.
const MetadataText = "text"

// DefaultTopK is the number of matches retrieved when the caller does not say.
const DefaultTopK = 2

// Document
// Unidade indexada: id único + texto livre. Imutável depois de criado.
type Document struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// IndexEntry
// O que vai para o índice vetorial: id, vetor e metadata (inclui o texto).
type IndexEntry struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
}

// Match
// Um resultado da busca por similaridade, na ordem devolvida pelo índice.
type Match struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Text returns the original document text stored alongside the vector.
func (m Match) Text() string {
	return m.Metadata[MetadataText]
}

type QueryResult struct {
	Matches []Match `json:"matches"`
}

// Answer
// Resposta final do pipeline: texto gerado + contexto usado.
type Answer struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Context  string  `json:"context"`
	Matches  []Match `json:"matches"`
}

// AskRequest
// Payload da API /ask.
type AskRequest struct {
	Question string `json:"question"`
}

// QueryRequest
// Payload da API /query.
type QueryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK,omitempty"` // opcional; default interno
}

// IndexRequest
// Payload da API /documents.
type IndexRequest struct {
	Documents []Document `json:"documents"`
}
