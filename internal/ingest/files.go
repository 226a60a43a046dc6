package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/josinaldojr/gemini-rag/internal/rag"
)

// DefaultIncludes are the file types FromFiles knows how to read.
var DefaultIncludes = []string{"**/*.md", "**/*.txt", "**/*.html", "**/*.htm", "**/*.pdf"}

var DefaultExcludes = []string{"**/.git/**", "**/node_modules/**", "**/vendor/**"}

// FromFiles walks root and returns the documents of every matching file.
// Patterns are doublestar globs relative to root.
func FromFiles(root string, includes, excludes []string) ([]rag.Document, error) {
	if len(includes) == 0 {
		includes = DefaultIncludes
	}
	if excludes == nil {
		excludes = DefaultExcludes
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var docs []rag.Document
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && matchAny(excludes, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !matchAny(includes, rel) || matchAny(excludes, rel) {
			return nil
		}

		content, err := readDocument(path)
		if err != nil {
			return err
		}
		content = sanitizeUTF8(strings.TrimSpace(content))
		if content == "" {
			return nil
		}

		docs = append(docs, documentsFor(rel, filenameToTitle(path), content)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

func readDocument(path string) (string, error) {
	lpath := strings.ToLower(path)

	switch {
	case strings.HasSuffix(lpath, ".pdf"):
		text, err := extractTextFromPDF(path)
		if err != nil {
			return "", fmt.Errorf("read pdf %s: %w", path, err)
		}
		return text, nil

	case strings.HasSuffix(lpath, ".html") || strings.HasSuffix(lpath, ".htm"):
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return extractMainText(string(data)), nil

	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	}
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

func filenameToTitle(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	return strings.TrimSpace(base)
}
