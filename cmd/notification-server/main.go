// cmd/notification-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ats-notifications/internal/common/aws"
	"ats-notifications/internal/common/config"
	"ats-notifications/internal/common/database"
	"ats-notifications/internal/common/logger"
	"ats-notifications/internal/common/observability"
	"ats-notifications/internal/notify/audit"
	"ats-notifications/internal/notify/dispatch"
	"ats-notifications/internal/notify/event"
	"ats-notifications/internal/notify/recipients"
	"ats-notifications/internal/notify/settings"
	"ats-notifications/internal/notify/template"
	"ats-notifications/internal/server"
	"ats-notifications/pkg/catalog"
)

const eventCatalogPath = "configs/events.json"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting notification server...",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch (optional, audit mirror only) ---
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 5, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Warn("elasticsearch unavailable, audit mirror disabled", zap.Error(err))
			esClient = nil
		} else {
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	// --- Init AWS delivery clients ---
	var mailer dispatch.Mailer
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		mailer = sesClient
		zapLog.Info("SES client initialized")
	}

	var smser dispatch.SMSer
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		smser = snsClient
		zapLog.Info("SNS client initialized")
	}

	// --- Assemble the dispatch pipeline ---
	templateTTL := config.GetDuration(cfg.Notifications.TemplateCacheTTL * 1000)
	settingsTTL := config.GetDuration(cfg.Notifications.SettingsCacheTTL * 1000)

	eventStore := event.NewStore(pg.DB)
	templateStore := template.NewStore(pg.DB, redis.Client, templateTTL, log)
	settingsStore := settings.NewStore(pg.DB, redis.Client, settingsTTL, log)
	orgStore := dispatch.NewOrgStore(pg.DB)
	auditWriter := audit.NewWriter(pg.DB, esClient, cfg.Database.Elasticsearch.LogIndex, log)
	teamResolver := recipients.NewResolver(pg.DB, log)

	emailSender := dispatch.NewEmailSender(templateStore, mailer, cfg.Notifications.Email.FromEmail, log)
	inAppSender := dispatch.NewInAppSender(pg.DB, log)
	smsSender := dispatch.NewSMSSender(smser, cfg.Notifications.SMS.Enabled, log)

	dispatcher := dispatch.NewDispatcher(
		eventStore, settingsStore, orgStore,
		emailSender, inAppSender, smsSender,
		auditWriter, log,
	)

	entities := server.NewEntityStore(pg.DB)
	contexts := server.NewContextBuilder(entities, teamResolver)

	eventCatalog, err := catalog.Load(eventCatalogPath)
	if err != nil {
		zapLog.Warn("event catalog not loaded, building from embedded events", zap.Error(err))
		eventCatalog = &catalog.EventCatalog{Version: cfg.App.Version}
		for _, ev := range event.Builtin() {
			eventCatalog.Events = append(eventCatalog.Events, catalog.Event{
				Code:            ev.Code,
				DefaultChannels: ev.DefaultChannels,
			})
		}
	}

	srv := server.NewServer(cfg, server.Dependencies{
		Dispatcher: dispatcher,
		Contexts:   contexts,
		Events:     eventStore,
		Settings:   settingsStore,
		Templates:  templateStore,
		Catalog:    eventCatalog,
		DB:         pg,
		Cache:      redis,
	}, log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Run()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, draining requests...", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error during shutdown", zap.Error(err))
		}
	}

	zapLog.Info("Notification server stopped gracefully")
}
