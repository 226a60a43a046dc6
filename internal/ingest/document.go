// Package ingest turns local files, crawled pages and the built-in sample
// corpus into rag.Documents ready for indexing.
package ingest

import (
	"fmt"
	"strings"

	wl "github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
	"github.com/josinaldojr/gemini-rag/internal/rag"
)

const (
	MetadataSource = "source"
	MetadataTitle  = "title"
	MetadataLang   = "lang"
)

// documentsFor chunks content and builds one document per chunk. Ids are
// derived from source and chunk number, so re-ingesting overwrites.
func documentsFor(source, title, content string) []rag.Document {
	chunks := splitIntoChunks(content, MaxChunkLen)

	docs := make([]rag.Document, 0, len(chunks))
	for i, c := range chunks {
		chunkTitle := title
		if len(chunks) > 1 {
			chunkTitle = fmt.Sprintf("%s (part %d)", title, i+1)
		}
		docs = append(docs, rag.Document{
			ID:   DocumentID(source, i),
			Text: c,
			Metadata: map[string]string{
				MetadataSource: source,
				MetadataTitle:  chunkTitle,
				MetadataLang:   detectLang(c),
			},
		})
	}
	return docs
}

// DocumentID is a UUIDv5 of "source#chunk".
func DocumentID(source string, chunk int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", source, chunk))).String()
}

// detectLang returns the ISO 639-1 code of the most likely language, or "" when unknown.
func detectLang(s string) string {
	info := wl.Detect(s)
	return strings.ToLower(info.Lang.Iso6391())
}
