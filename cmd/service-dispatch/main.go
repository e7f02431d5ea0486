package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Pranav452/delivery/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	container := app.MustBuildContainer(ctx, os.Args[1:])
	app.MustRun(container)
}
