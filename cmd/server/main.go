package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/logger"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/router"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(database.Options{
		Driver: cfg.DBDriver,
		User:   cfg.DBUser,
		Pass:   cfg.DBPass,
		Host:   cfg.DBHost,
		Port:   cfg.DBPort,
		Name:   cfg.DBName,
		Path:   cfg.DBPath,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, log.Named("migrate")); err != nil {
		return err
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	hotels := repository.NewHotelRepo(db)
	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)

	ready := map[string]handler.PingFunc{"db": db.PingContext}

	var locker service.RoomLocker = service.NewLocalLocker()
	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
		locker = service.ChainLocker{locker, service.NewRedisLocker(rdb, cfg.RoomLockTTL, cfg.RoomLockTries)}
		ready["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("redis connected; cache, rate limit and distributed room lock enabled")
	} else {
		log.Warn("redis unavailable; using in-process room lock, cache and rate limit disabled")
	}

	var (
		events queue.Publisher = queue.NopPublisher{}
		wg     sync.WaitGroup
	)
	if cfg.EventsEnabled {
		pub := queue.NewAMQPPublisher(cfg.AMQPURL, log.Named("events"))
		defer pub.Close()
		events = pub

		consumer := &queue.Consumer{URL: cfg.AMQPURL, LogFile: cfg.EventsLogFile, Log: log.Named("booking-consumer")}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("booking consumer exited", zap.Error(err))
			}
		}()
	}

	seeder := service.NewSeeder(hotels, rooms, nil, log.Named("seed"))
	if cfg.SeedOnStart {
		if _, err := seeder.Seed(ctx); err != nil {
			return err
		}
	}

	deps := router.Deps{
		Log: log,
		Auth: service.NewAuthService(service.AuthSettings{
			JWTSecret:      cfg.JWTSecret,
			AccessTTLMin:   cfg.AccessTTLMin,
			RefreshTTLDays: cfg.RefreshTTLDays,
			BcryptCost:     cfg.BcryptCost,
		}, users, tokens, log.Named("auth")),
		Catalog:      service.NewCatalog(hotels, rooms, log.Named("catalog")),
		Availability: service.NewAvailability(rooms, bookings, log.Named("availability")),
		Bookings:     service.NewBookingService(db, rooms, bookings, locker, events, log.Named("booking")),
		Redis:        rdb,
		Cache:        config.LoadCacheConfig(),
		RateLimit:    config.LoadRateLimitConfig(),
		Ready:        ready,
		Prefix:       cfg.APIPrefix,
	}
	if cfg.IsDev() {
		deps.Seeder = seeder
	}
	e := router.New(deps)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("db", cfg.DBDriver))
		errCh <- e.Start(addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	stop()
	wg.Wait()
	return nil
}
