package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fastprodman/keyshop/internal/api"
	"github.com/fastprodman/keyshop/internal/infra/logging"
	"github.com/fastprodman/keyshop/internal/infra/pgutils"
	pgpricing "github.com/fastprodman/keyshop/internal/repos/pricing/postgres"
	pgviews "github.com/fastprodman/keyshop/internal/repos/views/postgres"
	"github.com/fastprodman/keyshop/internal/services/issuance"
	"github.com/fastprodman/keyshop/internal/services/ledger"
	"github.com/fastprodman/keyshop/internal/services/payments"
	"github.com/fastprodman/keyshop/internal/services/pricing"
	"github.com/fastprodman/keyshop/internal/services/queries"
	"github.com/fastprodman/keyshop/pkg/envconf"
	"github.com/fastprodman/keyshop/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	// .env is optional; real environment variables win.
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg := new(apiConfig)

	err = envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logger := logging.SetupJSON(cfg.LogLevel)
	shutdownqueue.SetLogger(logger)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add("database", func(context.Context) error {
		return db.Close()
	})

	// --- Services ---
	engine := pricing.Engine{Base: cfg.Pricing.Base, Increment: cfg.Pricing.Increment}

	ledgerSrv := ledger.New(db, logger)

	paymentsSrv, err := payments.New(db, ledgerSrv, logger)
	if err != nil {
		return fmt.Errorf("init payments: %w", err)
	}

	issuanceSrv, err := issuance.New(db, ledgerSrv, engine, logger)
	if err != nil {
		return fmt.Errorf("init issuance: %w", err)
	}

	queriesSrv := queries.New(ledgerSrv, pgviews.New(db), pgpricing.New(db), engine)

	// --- HTTP server ---
	h := api.NewHandler(queriesSrv, paymentsSrv, issuanceSrv, logger)
	router := api.NewRouter(h, api.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		AdminToken:     cfg.AdminToken,
	})
	srv := api.NewServer(cfg.Port, router)

	shutdownqueue.Add("http server", func(c context.Context) error {
		slog.Info("Shut down server")

		return srv.Shutdown(c)
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started",
		slog.Int("port", int(cfg.Port)),
		slog.Bool("admin_routes", cfg.AdminToken != ""),
		slog.Int64("price_base", engine.Base),
		slog.Int64("price_increment", engine.Increment),
	)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
