package rag

import (
	"fmt"
	"strings"
)

const promptTemplate = `Answer the question based on the context below.
Context: %s
Question: %s
Answer:`

// BuildContext joins the text of every match with newlines, in the order given.
func BuildContext(matches []Match) string {
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Text())
	}
	return strings.Join(texts, "\n")
}

func BuildPrompt(context, question string) string {
	return fmt.Sprintf(promptTemplate, context, question)
}
