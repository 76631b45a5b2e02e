// tripchat is a terminal chat client for a travel assistant agent served by
// a Mastra agent server.
package main

import (
	"fmt"
	"os"

	"github.com/wethinkt/go-tripchat/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
