package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	config "github.com/shoplite/pos-backend/internal/cfg"
	v1Http "github.com/shoplite/pos-backend/internal/delivery/v1/http"
	"github.com/shoplite/pos-backend/internal/infrastructure/kafka"
	"github.com/shoplite/pos-backend/internal/repository/pgdb"
	pgdbConv "github.com/shoplite/pos-backend/internal/repository/pgdb/converter"
	redisRepo "github.com/shoplite/pos-backend/internal/repository/redis"
	redisConv "github.com/shoplite/pos-backend/internal/repository/redis/converter"
	"github.com/shoplite/pos-backend/internal/usecase"
	"github.com/shoplite/pos-backend/pkg/closer"
	"github.com/shoplite/pos-backend/pkg/e"
	"github.com/shoplite/pos-backend/pkg/logger"
	"github.com/shoplite/pos-backend/pkg/postgres"
)

// Run собирает зависимости, поднимает HTTP-сервер и outbox-воркер
// и блокируется до сигнала остановки.
func Run() {
	logger := logger.NewSlogLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	db, err := initPGDB(logger, cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize database")
		os.Exit(1)
	}

	cl := closer.NewCloser(0)
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	trManager := manager.Must(trmpgx.NewDefaultFactory(db.Pool))
	ctxGetter := trmpgx.DefaultCtxGetter

	productRepo := pgdb.NewProductRepo(db.Pool, ctxGetter, pgdbConv.NewProductConverterImpl())
	saleRepo := pgdb.NewSaleRepo(db.Pool, ctxGetter, pgdbConv.NewSaleConverterImpl())
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, ctxGetter, pgdbConv.NewOutboxEventConverterImpl())

	redisClient := redisRepo.NewClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(redisCtx).Err(); err != nil {
		redisCancel()
		logger.Errorf(err, "failed to connect to redis")
		os.Exit(1)
	}
	redisCancel()
	cl.Add(func(ctx context.Context) error {
		return redisClient.Close()
	})

	cacheRepo := redisRepo.NewCacheRepo(redisClient, redisConv.NewStatsConverterImpl(), cfg.Redis, logger)

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		logger.Errorf(err, "failed to initialize kafka producer")
		os.Exit(1)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		logger.Errorf(err, "failed to ensure kafka topic")
		os.Exit(1)
	}

	worker := kafka.NewOutboxWorker(outboxRepo, producer, cfg.Outbox, logger)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	go worker.Run(workerCtx)
	cl.Add(func(ctx context.Context) error {
		workerCancel()
		return worker.Wait(ctx)
	})

	productUC := usecase.NewProductUC(productRepo, saleRepo, cacheRepo, logger)
	saleUC := usecase.NewSaleUC(productRepo, saleRepo, outboxRepo, cacheRepo, trManager, logger)
	statsUC := usecase.NewStatsUC(productRepo, saleRepo, cacheRepo, logger)
	seedUC := usecase.NewSeedUC(productRepo, saleRepo, cacheRepo, trManager, logger)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(productUC, saleUC, statsUC, seedUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := cl.Close(shutdownCtx); err != nil {
		logger.Warnf("Shutdown finished with errors: %v", err)
	} else {
		logger.Infof("Application shutdown complete")
	}

	if appErr != nil {
		os.Exit(1)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
