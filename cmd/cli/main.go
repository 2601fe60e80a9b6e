// Command cli is the entry point for the secex admin binary.
package main

import (
	"os"

	cli "secex-api/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
