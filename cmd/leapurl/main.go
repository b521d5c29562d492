// Command leapurl parses, builds and validates URLs and runs SQL with the
// url functions loaded.
package main

import (
	"os"

	"github.com/leapstack-labs/leapurl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
