package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/mateconpizza/llyfrau/cmd"
	_ "github.com/mateconpizza/llyfrau/cmd/imports"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd.Execute(ctx)
}
