package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/MikeRez0/tgshop/docs"
	"github.com/MikeRez0/tgshop/internal/adapter/audit"
	"github.com/MikeRez0/tgshop/internal/adapter/auth"
	"github.com/MikeRez0/tgshop/internal/adapter/client/catalog"
	"github.com/MikeRez0/tgshop/internal/adapter/client/pickup"
	"github.com/MikeRez0/tgshop/internal/adapter/client/telegram"
	"github.com/MikeRez0/tgshop/internal/adapter/config"
	"github.com/MikeRez0/tgshop/internal/adapter/events"
	"github.com/MikeRez0/tgshop/internal/adapter/handler/http"
	"github.com/MikeRez0/tgshop/internal/adapter/logger"
	"github.com/MikeRez0/tgshop/internal/adapter/ratelimit"
	"github.com/MikeRez0/tgshop/internal/adapter/storage"
	"github.com/MikeRez0/tgshop/internal/adapter/storage/memory"
	"github.com/MikeRez0/tgshop/internal/adapter/storage/repository"
	"github.com/MikeRez0/tgshop/internal/core/port"
	"github.com/MikeRez0/tgshop/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error: %s\n", err)
		return err
	}

	log, err := logger.NewLogger(conf.App)
	if err != nil {
		fmt.Printf("error creating log: %s\n", err)
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo port.Repository
	var health http.HealthChecker
	if conf.Database.DSN != "" {
		db, err := storage.NewDBStorage(ctx, conf.Database)
		if err != nil {
			log.Error("database error", zap.Error(err))
			return err
		}
		defer db.Close()

		err = db.RunMigrations()
		if err != nil {
			log.Error("database migration error", zap.Error(err))
			return err
		}

		repo, err = repository.NewRepository(db)
		if err != nil {
			log.Error("order repo creating error", zap.Error(err))
			return err
		}
		health = db
	} else {
		log.Warn("DATABASE_URI is not set, orders are kept in memory")
		repo = memory.NewRepository()
	}

	var auditLog port.AuditLog
	if conf.Audit.RedisURL != "" {
		redisLog, err := audit.NewRedisLog(ctx, conf.Audit.RedisURL, conf.Audit.RedisKey,
			conf.Audit.MaxEntries, log.Named("Audit"))
		if err != nil {
			log.Error("audit log creating error", zap.Error(err))
			return err
		}
		defer redisLog.Close()
		auditLog = redisLog
	} else {
		auditLog = audit.NewRing(conf.Audit.MaxEntries)
	}

	linker, err := auth.NewPaymentLinker(conf.Payment)
	if err != nil {
		log.Error("payment linker creating error", zap.Error(err))
		return err
	}
	if conf.Payment.LinkKey == "" {
		log.Warn("PAYMENT_LINK_KEY is not set, payment links will not survive a restart")
	}

	var resolver port.PickupResolver = pickup.Stub{}
	if conf.Pickup.Enabled {
		resolver = pickup.NewCDEKClient(conf.Pickup, log.Named("CDEK"))
	}

	publisher := events.NewPublisher(conf.Kafka, log.Named("Events"))
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("event publisher close error", zap.Error(err))
		}
	}()

	svc, err := service.NewService(
		repo,
		catalog.NewFile(conf.Catalog.Path),
		resolver,
		linker,
		telegram.NewNotifier(conf.Notifier, conf.Payment.Currency, log.Named("Telegram")),
		publisher,
		auditLog,
		service.Options{
			Provider:       conf.Payment.Provider,
			Currency:       conf.Payment.Currency,
			WebhookSecret:  conf.Payment.WebhookSecret,
			SigningKey:     conf.Payment.SigningKey,
			CatalogTimeout: conf.Catalog.Timeout,
			NotifyTimeout:  conf.Notifier.Timeout,
		},
		log.Named("Service"))
	if err != nil {
		log.Error("order service creating error", zap.Error(err))
		return err
	}

	orderHandler, err := http.NewOrderHandler(svc, conf.Payment.Provider, conf.Payment.Currency, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return err
	}
	paymentHandler, err := http.NewPaymentHandler(svc, log.Named("Payment handler"))
	if err != nil {
		log.Error("payment handler creating error", zap.Error(err))
		return err
	}

	r, err := http.NewRouter(
		conf.Admin,
		ratelimit.NewSlidingWindow(conf.RateLimit.Window, conf.RateLimit.Max),
		health,
		orderHandler,
		paymentHandler,
		log.Named("Router"))
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return err
	}

	err = r.Serve(ctx, conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return err
	}

	log.Info("Stopped")
	return nil
}
