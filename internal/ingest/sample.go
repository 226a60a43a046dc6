package ingest

import "github.com/josinaldojr/gemini-rag/internal/rag"

// SampleDocuments returns the small coffee-company corpus used by the demo.
func SampleDocuments() []rag.Document {
	return []rag.Document{
		{ID: "doc1", Text: "Our company offers premium quality coffee beans."},
		{ID: "doc2", Text: "We source our coffee from sustainable farms in Ethiopia."},
		{ID: "doc3", Text: "Our flagship product is the Ethiopian Yirgacheffe."},
		{ID: "doc4", Text: "Customer service is available 24/7 via email and phone."},
		{ID: "doc5", Text: "Our mission is to provide the best coffee experience to our customers."},
	}
}

// DemoQuestions are asked by `ragctl demo` after seeding.
var DemoQuestions = []string{
	"What is our flagship coffee product?",
	"What is our customer service like?",
}
