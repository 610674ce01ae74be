package main

import (
	"os"

	"github.com/arthur-debert/ccstart/cmd/ccstart"
)

func main() {
	os.Exit(ccstart.Execute())
}
