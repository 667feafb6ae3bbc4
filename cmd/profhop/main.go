package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/profhop/profhop/internal/cli"
	"github.com/profhop/profhop/pkg/version"
)

func main() {
	cmd := cli.NewRootCmd()

	err := fang.Execute(context.Background(), cmd,
		fang.WithVersion(version.GetVersion()),
		fang.WithErrorHandler(cli.ErrorHandler),
	)
	if err != nil {
		os.Exit(1)
	}
}
