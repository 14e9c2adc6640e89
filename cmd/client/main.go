package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rolandocepedadev/ccat/internal/buildinfo"
	"github.com/rolandocepedadev/ccat/internal/client/cli"
	"github.com/rolandocepedadev/ccat/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
