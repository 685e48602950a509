package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "library-circulation/internal/adapter/http"
	"library-circulation/internal/adapter/middleware"
	"library-circulation/internal/adapter/repository/mysql"
	"library-circulation/internal/config"
	"library-circulation/internal/infrastructure/cache"
	"library-circulation/internal/infrastructure/db"
	"library-circulation/internal/infrastructure/logging"
	"library-circulation/internal/scheduler"
	"library-circulation/internal/usecase/activity"
	"library-circulation/internal/usecase/catalog"
	"library-circulation/internal/usecase/circulation"
	"library-circulation/internal/usecase/fine"
	"library-circulation/pkg/clock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), log, db.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		log.WithError(err).Fatal("mysql connect")
	}
	if cfg.AutoMigrate {
		if err := gdb.AutoMigrate(mysql.Models()...); err != nil {
			log.WithError(err).Fatal("auto-migrate")
		}
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.WithError(err).Fatal("mysql pool")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("redis connect")
	}
	locker := cache.NewLocker(rdb)

	// wiring
	tx := mysql.NewGormUoW(gdb)
	rec := activity.NewRecorder(mysql.NewAuditRepository(gdb), log)
	clk := clock.NewSystem(cfg.Location())
	policy := circulation.Policy{DailyRate: cfg.DailyFineRate, LoanDays: cfg.LoanDays}

	circ := circulation.NewUsecase(tx, mysql.NewTransactionRepository(gdb), rec, clk, policy, log)
	books := catalog.NewUsecase(tx, mysql.NewBookRepository(gdb), rec)
	fines := fine.NewUsecase(tx, mysql.NewFineRepository(gdb), rec, clk)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), middleware.RequestID(), middleware.RequestLogger(log), middleware.Actor())

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health: httpadp.NewHandler(map[string]httpadp.Pinger{
			"database": sqlDB.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Books:        httpadp.NewBookHandler(books, log),
		Transactions: httpadp.NewTransactionHandler(circ, log),
		Fines:        httpadp.NewFineHandler(fines, log),
	}, middleware.Idempotency(rdb, cfg.IdempotencyTTL(), log))

	job := scheduler.NewOverdueJob(circ, locker, log)
	if cfg.SweepOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if _, err := job.Run(ctx); err != nil {
			log.WithError(err).Warn("startup sweep failed")
		}
		cancel()
	}
	sched, err := job.Start(cfg.SweepCron, cfg.Location())
	if err != nil {
		log.WithError(err).Fatal("schedule overdue sweep")
	}

	go func() {
		addr := ":" + cfg.AppPort
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	<-sched.Stop().Done()
	_ = rdb.Close()
	_ = sqlDB.Close()
}
