// Command shopview is a terminal storefront. It lists the catalog, opens
// product pages and sends cart and wishlist intents to the storefront API.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/go-coder/storefront/apiclient"
	"github.com/go-coder/storefront/config"
	"github.com/go-coder/storefront/effects"
	"github.com/go-coder/storefront/eventloop"
	"github.com/go-coder/storefront/loader"
	"github.com/go-coder/storefront/state"
	"github.com/go-coder/storefront/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := apiclient.New(cfg.APIURL, cfg.UserID)
	ld := loader.NewCoalescing(loader.New(client, cfg.LoadTimeout, logger.Named("loader")))

	st := state.NewStore(state.WithLogger(logger.Named("state")))
	remote := effects.NewRemote(ctx, client, st,
		effects.WithTimeout(cfg.LoadTimeout),
		effects.WithLogger(logger.Named("sync")))
	st.Use(remote)

	loop := eventloop.New(logger.Named("loop"))
	a := &app{
		ctx:     ctx,
		out:     os.Stdout,
		logger:  logger,
		store:   st,
		loop:    loop,
		catalog: client,
		detail:  view.NewDetailView(ctx, st, ld, loop, view.WithDetailLogger(logger.Named("detail"))),
		quit:    stop,
	}
	unsubscribe := st.Subscribe(func(s state.Snapshot) {
		loop.Post(func() { a.onChange(s) })
	})
	defer unsubscribe()

	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			line := sc.Text()
			loop.Post(func() { a.exec(line) })
		}
		loop.Post(a.quit)
	}()

	fmt.Printf("storefront at %s as %s, type help\n", cfg.APIURL, cfg.UserID)
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("event loop stopped", zap.Error(err))
	}
	remote.Wait()
}
