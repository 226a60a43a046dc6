package ingest

import (
	"strings"
	"testing"
)

func TestDocumentID_Deterministic(t *testing.T) {
	a := DocumentID("docs/intro.md", 0)
	if a != DocumentID("docs/intro.md", 0) {
		t.Error("ids must be stable for the same source and chunk")
	}
	if a == DocumentID("docs/intro.md", 1) || a == DocumentID("docs/other.md", 0) {
		t.Error("ids must differ across chunks and sources")
	}
}

func TestDocumentsFor_Metadata(t *testing.T) {
	text := "Our company offers premium quality coffee beans sourced from farms around the world."
	docs := documentsFor("coffee.md", "coffee", text)
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	d := docs[0]
	if d.Text != text {
		t.Errorf("unexpected text %q", d.Text)
	}
	if d.Metadata[MetadataSource] != "coffee.md" || d.Metadata[MetadataTitle] != "coffee" {
		t.Errorf("unexpected metadata %v", d.Metadata)
	}
	if d.Metadata[MetadataLang] != "en" {
		t.Errorf("expected english, got %q", d.Metadata[MetadataLang])
	}
}

func TestDocumentsFor_MultipleChunksGetPartTitles(t *testing.T) {
	var lines []string
	for i := 0; i < 300; i++ {
		lines = append(lines, "Customer service is available every day via email and phone.")
	}
	docs := documentsFor("support.txt", "support", strings.Join(lines, "\n"))
	if len(docs) < 2 {
		t.Fatalf("expected several chunks, got %d", len(docs))
	}
	if docs[1].Metadata[MetadataTitle] != "support (part 2)" {
		t.Errorf("unexpected title %q", docs[1].Metadata[MetadataTitle])
	}
	for _, d := range docs {
		if len(d.Text) > MaxChunkLen {
			t.Errorf("chunk %s exceeds %d bytes", d.ID, MaxChunkLen)
		}
	}
}

func TestSampleDocuments(t *testing.T) {
	docs := SampleDocuments()
	if len(docs) != 5 {
		t.Fatalf("expected 5 documents, got %d", len(docs))
	}
	for i, d := range docs {
		want := "doc" + string(rune('1'+i))
		if d.ID != want {
			t.Errorf("expected id %s, got %s", want, d.ID)
		}
	}
	if docs[2].Text != "Our flagship product is the Ethiopian Yirgacheffe." {
		t.Errorf("unexpected doc3 text %q", docs[2].Text)
	}

	// callers may mutate the slice they get
	docs[0].Text = "changed"
	if SampleDocuments()[0].Text == "changed" {
		t.Error("SampleDocuments must return a fresh slice")
	}
}
