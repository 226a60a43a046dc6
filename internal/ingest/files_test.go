package ingest

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFromFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "guide/getting-started.md", "# Getting started\nInstall the tool first.")
	writeFile(t, root, "notes.txt", "Plain notes about brewing.")
	writeFile(t, root, "page.html", "<html><head><script>var x=1;</script></head><body><p>Visible text</p></body></html>")
	writeFile(t, root, "empty.md", "   \n")
	writeFile(t, root, "image.png", "binary")
	writeFile(t, root, "node_modules/pkg/readme.md", "should be skipped")

	docs, err := FromFiles(root, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	var sources []string
	bySource := make(map[string]string)
	for _, d := range docs {
		sources = append(sources, d.Metadata[MetadataSource])
		bySource[d.Metadata[MetadataSource]] = d.Text
	}
	sort.Strings(sources)

	want := []string{"guide/getting-started.md", "notes.txt", "page.html"}
	if len(sources) != len(want) {
		t.Fatalf("expected sources %v, got %v", want, sources)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("expected %s, got %s", want[i], sources[i])
		}
	}

	if bySource["page.html"] != "Visible text" {
		t.Errorf("unexpected html text %q", bySource["page.html"])
	}
	for _, d := range docs {
		if d.Metadata[MetadataSource] == "guide/getting-started.md" && d.Metadata[MetadataTitle] != "getting started" {
			t.Errorf("unexpected title %q", d.Metadata[MetadataTitle])
		}
	}
}

func TestFromFiles_CustomPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/keep.md", "keep me")
	writeFile(t, root, "a/drop.md", "drop me")
	writeFile(t, root, "b/other.txt", "other")

	docs, err := FromFiles(root, []string{"a/*.md"}, []string{"**/drop.md"})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Metadata[MetadataSource] != "a/keep.md" {
		t.Errorf("unexpected documents %+v", docs)
	}
}

func TestFilenameToTitle(t *testing.T) {
	if got := filenameToTitle("/x/my_great-doc.md"); got != "my great doc" {
		t.Errorf("unexpected %q", got)
	}
}
