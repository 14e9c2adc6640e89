package main

import (
	"context"
	"log"
	"os"

	"github.com/rolandocepedadev/ccat/internal/buildinfo"
	"github.com/rolandocepedadev/ccat/internal/server"
	"github.com/rolandocepedadev/ccat/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
