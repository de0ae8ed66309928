package main

import (
	"fmt"
	"os"

	"github.com/haneul-labs/toss-docs-mcp/cmd/toss-docs-mcp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
