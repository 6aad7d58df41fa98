package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/delayed-notifier-client/internal/client/notification"
	"github.com/aliskhannn/delayed-notifier-client/internal/config"
)

const usage = `usage: notifier-client <command> [flags]

commands:
  create   schedule a new notification
  list     print all notifications
  cancel   cancel a pending notification by id
  watch    poll the backend and print every change
  serve    run the synchronizer behind a local HTTP API
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	zlog.Init()
	cfg := config.Must()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		zlog.Logger.Warn().Err(err).Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	val := validator.New()
	httpClient := &http.Client{Timeout: cfg.Backend.Timeout}
	client := notification.NewClient(cfg.Backend.BaseURL, httpClient, val, cfg.Retry)

	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "create":
		err = runCreate(ctx, client, args, os.Stdout)
	case "list":
		err = runList(ctx, client, args, os.Stdout)
	case "cancel":
		err = runCancel(ctx, client, args, os.Stdout)
	case "watch":
		err = runWatch(ctx, cfg, client, args, os.Stdout)
	case "serve":
		err = runServe(ctx, cfg, client, val, args)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		zlog.Logger.Error().Err(err).Str("command", cmd).Msg("command failed")
		os.Exit(1)
	}
}
