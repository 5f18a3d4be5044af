package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"campusledger/config"
	"campusledger/core"
	"campusledger/core/events"
	"campusledger/observability/logging"
	"campusledger/rpc"
	"campusledger/storage"
)

func main() {
	configPath := flag.String("config", "./config.toml", "path to the node configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Setup("campusd", "", logging.Options{}).Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := logging.Setup("campusd", cfg.Env, logging.Options{FilePath: cfg.LogFile})

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open database", "dir", cfg.DataDir, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	feed := events.NewFeed()
	node, err := core.NewNode(db, cfg, logger, feed)
	if err != nil {
		logger.Error("failed to initialise node", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Drain the event feed into the structured log; durable indexing is an
	// external collaborator concern.
	go func() {
		sub := feed.Subscribe(256)
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-sub:
				logger.Info("ledger event", "type", evt.EventType())
			}
		}
	}()

	server := rpc.NewServer(node, logger)
	logger.Info("campus ledger listening", "addr", cfg.ListenAddress, "campus", cfg.CampusName)
	if err := server.Listen(ctx, cfg.ListenAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("rpc server stopped", "err", err)
		os.Exit(1)
	}
}
