// Package main запускает терминальный клиент платформы Market Scout.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mmeshcher/marketscout-client/internal/api"
	"github.com/mmeshcher/marketscout-client/internal/catalog"
	"github.com/mmeshcher/marketscout-client/internal/cli"
	"github.com/mmeshcher/marketscout-client/internal/config"
	"github.com/mmeshcher/marketscout-client/internal/ranking"
	"github.com/mmeshcher/marketscout-client/internal/review"
	"github.com/mmeshcher/marketscout-client/internal/session"
	"github.com/mmeshcher/marketscout-client/internal/tokenstore"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	store := tokenstore.NewFileStore(cfg.SessionFile)
	client := api.NewClient(cfg.APIAddress, store, cfg.RequestTimeout, logger)

	sess := session.NewController(client, logger)
	cat := catalog.New(client, logger)
	board := ranking.NewBoard(client, logger)
	engine := ranking.NewEngine()
	rev := review.NewSubmitter(client, logger)

	app := cli.New(sess, cat, board, engine, rev, client, logger, os.Stdin, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sugar.Infow("starting market scout client", "api", cfg.APIAddress)

	if err := app.Run(ctx); err != nil {
		sugar.Fatalw("client terminated with error", "error", err)
	}
}
