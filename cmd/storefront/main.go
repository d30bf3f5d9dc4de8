package main

// GET  /ping
// POST /products          - Create a product
// GET  /products/list     - List all products
// GET  /products/{id}     - Product detail record
// POST /cart/add          - Add a line (product, size, color) to a cart
// POST /cart/remove       - Remove a line from a cart
// GET  /cart/list         - Priced cart for ?user_id=
// POST /wishlist/add      - Add a product to a wishlist
// POST /wishlist/remove   - Remove a product from a wishlist
// GET  /wishlist/list     - Wishlist for ?user_id=

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/go-coder/storefront/config"
	"github.com/go-coder/storefront/handler"
	"github.com/go-coder/storefront/service"
	"github.com/go-coder/storefront/store"
)

//go:embed migrations.sql
var migrationSQL string

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

	if err := run(cfg, logger); err != nil {
		logger.Fatal("storefront stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	dsn, err := cfg.DSN()
	if err != nil {
		return err
	}

	// --- Store ---
	st, err := store.NewPostgresStore(dsn)
	if err != nil {
		return fmt.Errorf("DB connection failed: %w", err)
	}
	defer st.Close()

	// --- Migrations ---
	if _, err := st.DB.Exec(migrationSQL); err != nil {
		return fmt.Errorf("failed running migrations: %w", err)
	}
	logger.Info("database migrations executed successfully")

	// --- Service / Handlers ---
	svc := service.NewService(st, logger.Named("service"))
	var serviceInterface service.ServiceInterface = svc
	h := handler.NewHandler(serviceInterface, logger.Named("http"))

	r := mux.NewRouter()
	h.RegisterRoutes(r)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", zap.Stringer("signal", sig))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}
