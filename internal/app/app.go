package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/sweeplab/minesweeper-server/internal/config"
	"github.com/sweeplab/minesweeper-server/internal/database"
	"github.com/sweeplab/minesweeper-server/internal/middleware"
)

type App struct {
	logger  *slog.Logger
	router  *http.ServeMux
	db      *pgxpool.Pool
	cookies *config.Cookies
	jwt     *config.JWT
	ws      *config.WebSocket
}

func New(logger *slog.Logger) *App {
	return &App{
		logger: logger,
		router: http.NewServeMux(),
	}
}

// Start blocks until ctx is canceled or the server fails. Schema
// migrations are the migrator binary's job, not ours.
func (a *App) Start(ctx context.Context) error {
	db, err := database.Connect(ctx)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()
	a.db = db

	jwt, err := config.NewJWT()
	if err != nil {
		return fmt.Errorf("unable to load jwt keys: %w", err)
	}
	a.jwt = jwt

	cookies, err := config.NewCookies(jwt)
	if err != nil {
		return fmt.Errorf("unable to load cookie config: %w", err)
	}
	a.cookies = cookies

	a.ws = config.NewWebSocket()

	a.loadRoutes()

	addr := config.Addr()
	server := &http.Server{
		Addr: addr,
		Handler: middleware.Wrap(
			a.router,
			middleware.Auth(a.logger, cookies),
			middleware.Cors(),
			middleware.Logging(a.logger),
		),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), time.Second*30,
		)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
