// specgate - documentation convention governance

package main

import (
	"fmt"
	"os"

	"github.com/specgate/specgate/internal/cli"
)

func main() {
	err := cli.Execute()
	if msg := cli.UserMessage(err); msg != "" {
		fmt.Fprintln(os.Stderr, "specgate:", msg)
	}
	os.Exit(cli.ExitCode(err))
}
