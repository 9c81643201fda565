package main

import (
	"fmt"
	"os"

	"github.com/fanchat/fanchat/cmd/fanchat"
)

func main() {
	if err := fanchat.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
