package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bbct/bbct/cmd"
	"github.com/bbct/bbct/internal/cli"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || !exitErr.Reported {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
