// Command typewriter plays, checks and traces typewriter scripts.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/typewriter/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
