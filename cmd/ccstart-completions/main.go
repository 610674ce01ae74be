package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/ccstart/cmd/ccstart"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <bash|zsh|fish|powershell>\n", os.Args[0])
		os.Exit(1)
	}

	shell := os.Args[1]
	if err := ccstart.GenCompletion(ccstart.NewRootCmd(), os.Stdout, shell); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating %s completion: %v\n", shell, err)
		os.Exit(1)
	}
}
