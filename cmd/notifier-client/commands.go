package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/wb-go/wbf/zlog"

	notifhandler "github.com/aliskhannn/delayed-notifier-client/internal/api/handlers/notification"
	"github.com/aliskhannn/delayed-notifier-client/internal/api/router"
	"github.com/aliskhannn/delayed-notifier-client/internal/api/server"
	"github.com/aliskhannn/delayed-notifier-client/internal/client/notification"
	"github.com/aliskhannn/delayed-notifier-client/internal/config"
	"github.com/aliskhannn/delayed-notifier-client/internal/model"
	"github.com/aliskhannn/delayed-notifier-client/internal/sendat"
	"github.com/aliskhannn/delayed-notifier-client/internal/synchronizer"
)

const shutdownTimeout = 5 * time.Second

func runCreate(ctx context.Context, c *notification.Client, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
	message := fs.StringP("message", "m", "", "notification text")
	at := fs.StringP("send-at", "s", "", `local send time, e.g. "2030-01-01T10:00"`)
	retries := fs.IntP("retries", "r", 3, "maximum re-attempts on delivery failure")
	to := fs.StringP("to", "t", "", "telegram chat id or email address")
	channel := fs.StringP("channel", "c", string(model.ChannelTelegram), "delivery channel: telegram or email")
	tz := fs.String("tz", "", "IANA time zone of --send-at (default: local)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	loc := time.Local
	if *tz != "" {
		var err error
		if loc, err = time.LoadLocation(*tz); err != nil {
			return fmt.Errorf("load time zone: %w", err)
		}
	}

	sendAt, err := sendat.ParseLocal(*at, loc)
	if err != nil {
		return err
	}

	err = c.Create(ctx, notification.CreateRequest{
		Message: *message,
		SendAt:  sendAt,
		Retries: *retries,
		To:      *to,
		Channel: model.Channel(*channel),
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "notification scheduled for %s via %s\n", sendat.Encode(sendAt), *channel)
	return err
}

func runList(ctx context.Context, c *notification.Client, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	status := fs.String("status", "", "only show notifications in this status")

	if err := fs.Parse(args); err != nil {
		return err
	}

	items, err := c.List(ctx)
	if err != nil {
		return err
	}

	if *status != "" {
		items = slices.DeleteFunc(items, func(n model.Notification) bool {
			return n.Status != model.Status(*status)
		})
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	return printTable(out, items)
}

// runCancel cancels through the synchronizer so that notifications already
// in a terminal state are refused locally.
func runCancel(ctx context.Context, c *notification.Client, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("cancel", pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return errors.New("cancel: expected exactly one notification id")
	}
	id := fs.Arg(0)

	s := synchronizer.New(c, 0)
	s.Refresh(ctx)
	if v := s.View(); v.Err != nil {
		zlog.Logger.Warn().Err(v.Err).Msg("could not load notifications, cancelling without local check")
	}

	if err := s.Cancel(ctx, id); err != nil {
		return err
	}

	status := "unknown"
	if n, ok := s.Get(id); ok {
		status = string(n.Status)
	}

	_, err := fmt.Fprintf(out, "notification %s cancelled (status: %s)\n", id, status)
	return err
}

func runWatch(ctx context.Context, cfg *config.Config, c *notification.Client, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("watch", pflag.ContinueOnError)
	interval := fs.Duration("interval", cfg.Sync.Interval, "polling interval")

	if err := fs.Parse(args); err != nil {
		return err
	}

	s := synchronizer.New(c, *interval)

	var (
		last    []model.Notification
		lastErr string
		printed bool
	)

	s.SetOnUpdate(func(v synchronizer.View) {
		if v.State == synchronizer.StateRefreshing {
			return
		}

		errText := ""
		if v.Err != nil {
			errText = v.Err.Error()
		}

		if printed && slices.Equal(last, v.Items) && errText == lastErr {
			return
		}
		last, lastErr, printed = v.Items, errText, true

		fmt.Fprintf(out, "\n%s  state=%s\n", time.Now().Format(sendat.Layout), v.State)
		if errText != "" {
			fmt.Fprintf(out, "error: %s\n", errText)
		}

		if err := printTable(out, v.Items); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to print notifications")
		}
	})

	s.Run(ctx)
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, c *notification.Client, val *validator.Validate, args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	addr := fs.String("addr", cfg.Server.HTTPPort, "address for the local API")
	interval := fs.Duration("interval", cfg.Sync.Interval, "polling interval")

	if err := fs.Parse(args); err != nil {
		return err
	}

	s := synchronizer.New(c, *interval)
	go s.Run(ctx)

	h := notifhandler.NewHandler(s, val, time.Local)
	srv := server.New(*addr, router.New(h))

	errCh := make(chan error, 1)
	go func() {
		zlog.Logger.Info().Str("addr", *addr).Msg("local API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("start server: %w", err)
	case <-ctx.Done():
	}

	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	return nil
}

func printTable(out io.Writer, items []model.Notification) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(out, "no notifications")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCHANNEL\tTO\tSEND AT\tRETRIES\tMESSAGE")

	for _, n := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n", n.ID, n.Status, n.Channel, n.To, n.SendAt, n.Retries, n.Message)
	}

	return tw.Flush()
}
