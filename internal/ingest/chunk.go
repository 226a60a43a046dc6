package ingest

import (
	"strings"
	"unicode/utf8"
)

// MaxChunkLen is the largest chunk, in bytes, produced by splitIntoChunks.
const MaxChunkLen = 2000

// splitIntoChunks groups non-empty lines into chunks of at most maxLen bytes.
// Lines longer than maxLen are cut.
func splitIntoChunks(content string, maxLen int) []string {
	content = strings.TrimSpace(content)
	content = sanitizeUTF8(content)
	if content == "" {
		return nil
	}
	if len(content) <= maxLen {
		return []string{content}
	}

	var chunks []string
	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		chunk := strings.TrimSpace(buf.String())
		chunk = sanitizeUTF8(chunk)
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		buf.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if len(line) > maxLen {
			flush()
			for len(line) > maxLen {
				cut := runeBoundary(line, maxLen)
				buf.WriteString(line[:cut])
				line = line[cut:]
				flush()
			}
		}

		if buf.Len()+len(line)+1 > maxLen {
			flush()
		}

		buf.WriteString(line)
		buf.WriteRune('\n')
	}

	flush()
	return chunks
}

// runeBoundary returns the largest cut <= limit that does not split a rune.
// A single rune wider than limit is kept whole.
func runeBoundary(s string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		_, cut = utf8.DecodeRuneInString(s)
	}
	return cut
}

// sanitizeUTF8 drops invalid UTF-8 bytes.
func sanitizeUTF8(s string) string {
	if s == "" || utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		b.WriteRune(r)
		s = s[size:]
	}
	return b.String()
}
