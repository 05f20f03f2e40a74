package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/pulsenet/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "pulsenet:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
