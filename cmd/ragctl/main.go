package main

import "github.com/josinaldojr/gemini-rag/internal/cli"

func main() {
	cli.Execute()
}
