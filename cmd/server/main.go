package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiwari-pos/dinein/internal/config"
	"github.com/kiwari-pos/dinein/internal/database"
	"github.com/kiwari-pos/dinein/internal/logger"
	"github.com/kiwari-pos/dinein/internal/metrics"
	"github.com/kiwari-pos/dinein/internal/router"
	"github.com/kiwari-pos/dinein/internal/service"
	"github.com/kiwari-pos/dinein/internal/ws"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	log.Info("connected to database")

	queries := database.New(pool)
	m := metrics.New()
	timeline := service.NewTimeline(pool, func(db database.DBTX) service.TimelineStore {
		return database.New(db)
	}, log, m)

	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}, service.NewStoreCatalog(queries), timeline, m)
	floorService := service.NewFloorService(pool, func(db database.DBTX) service.FloorStore {
		return database.New(db)
	}, timeline, m)
	reassignService := service.NewReassignService(pool, func(db database.DBTX) service.ReassignStore {
		return database.New(db)
	}, floorService, timeline, m)

	hub := ws.NewHub(m.SnapshotSubscribers, log)
	refresher := service.NewRefresher(floorService, hub, log, cfg.RefreshInterval)
	hub.OnJoin(refresher.Trigger)
	orderService.SetNotifier(refresher)
	floorService.SetNotifier(refresher)
	reassignService.SetNotifier(refresher)

	go hub.Run()
	go refresher.Start(ctx)

	r := router.New(cfg, router.Deps{
		Auth:     queries,
		Orders:   orderService,
		Reassign: reassignService,
		Floor:    floorService,
		Active:   floorService,
		History:  timeline,
		Hub:      hub,
		Metrics:  m,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	refresher.Stop()
	return srv.Shutdown(shutdownCtx)
}
