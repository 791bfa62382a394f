package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/labelfmt/cli"
	"github.com/ardnew/labelfmt/cli/cmd"
	"github.com/ardnew/labelfmt/log"
)

func main() {
	err := cli.Run(context.Background(), cmd.StdStreams(), os.Exit, os.Args[1:]...)
	if err != nil {
		log.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}
