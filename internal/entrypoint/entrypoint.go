package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/mongostore"
	"github.com/mrlokans/bookshelf/internal/database/sqlstore"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/services"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// OpenStore connects the backend selected by cfg.Database.Driver.
func OpenStore(ctx context.Context, cfg *config.Config) (database.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo, "":
		timeout := cfg.Database.MongoConnectTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		store, err := mongostore.Connect(ctx, cfg.Database.MongoURL, cfg.Database.MongoDatabase, timeout)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.DriverSQLite:
		log.Printf("Opening SQLite database at %s", cfg.Database.Path)
		store, err := sqlstore.New(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// within the configured timeout.
func Serve(ctx context.Context, router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutdown Server, waiting %v before killing", timeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Stop background jobs and release the store once no request is in flight
	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	log.Println("Server exiting")
	return nil
}

// Run wires the store, catalog service, router and reconcile scheduler, and
// serves until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, version string) error {
	log.Printf("Starting Bookshelf v%s", version)

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}

	catalog := services.NewCatalogService(store)

	reconciler := scheduler.NewReconcileScheduler(catalog, cfg.Reconcile.Schedule)
	if err := reconciler.Start(ctx); err != nil {
		_ = store.Close(context.Background())
		return err
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Catalog: catalog,
		Store:   store,
		Version: version,
	})

	onShutdown := func(ctx context.Context) {
		reconciler.Stop()
		if err := store.Close(ctx); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}

	return Serve(ctx, router, cfg, onShutdown)
}

// RunReconcile performs one back-reference repair pass and closes the store.
func RunReconcile(ctx context.Context, cfg *config.Config) (services.ReconcileResult, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return services.ReconcileResult{}, err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	return services.NewCatalogService(store).RebuildBackReferences(ctx)
}
