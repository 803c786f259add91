package protocal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moranda/configs"
	httpAdapter "moranda/internal/adapters/input/http"
	"moranda/internal/adapters/output/events"
	"moranda/internal/adapters/output/memory"
	"moranda/internal/adapters/output/postgres"
	slackAdapter "moranda/internal/adapters/output/slack"
	"moranda/internal/application"
	"moranda/internal/domain"
	"moranda/internal/ports/output"
	"moranda/pkg/database_driver/gorm"
	"moranda/pkg/validator"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

// Options struct - settings shared by every command
type Options struct {
	ConfigPath string
	Env        string
}

// loadConfig reads the configuration and applies the log level
func loadConfig(opts Options) *configs.Config {
	configs.InitViper(opts.ConfigPath, opts.Env)
	cfg := configs.GetViper()
	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.Info(cfg.App.Env)
	return cfg
}

// ServeHTTP func
func ServeHTTP(opts Options) error {
	cfg := loadConfig(opts)
	ctx := context.Background()

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept,Authorization",
	}))

	// Output adapters
	docs, closeDocs, err := newDocumentStore(cfg)
	if err != nil {
		return err
	}
	slackClient, err := slackAdapter.NewSlackClientAdapter(ctx, cfg.Slack.BotToken)
	if err != nil {
		closeDocs()
		return fmt.Errorf("failed to create Slack client: %w", err)
	}
	publisher := newEventPublisher(cfg)
	router := memory.NewMemoryReplyRouter(time.Duration(cfg.Dialogue.IdleTimeout) * time.Second)

	// Application services (use cases)
	sessions := application.NewSessionStore(docs, validator.New())
	closeOut := application.NewCloseOutService(sessions, slackClient, router, publisher, cfg.Dialogue.MaxParallelPosts)
	slackEvents := application.NewSlackEventService(router, closeOut, cfg.Dialogue.ClosePhrase, slackClient.BotUserID())
	roster := application.NewRosterService(slackClient, sessions)

	if cfg.Dialogue.SyncRosterOnStart {
		if err := roster.SyncFromPlatform(ctx); err != nil {
			logrus.Warnf("Roster sync on start failed: %v", err)
		}
	}

	// Input adapters
	hdl := httpAdapter.New(sessions, roster, docs)
	slackHdl := httpAdapter.NewSlackEventsHandler(slackEvents, cfg.Slack.SigningSecret)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range c {
			logrus.Println("Gracefull shut down ...")
			if active := closeOut.ActiveDialogues(); active > 0 {
				logrus.Warnf("Abandoning %d running dialogues", active)
			}
			if err := app.Shutdown(); err != nil {
				logrus.Println("Error when shutdown server: ", err)
			}
			if err := publisher.Close(); err != nil {
				logrus.Println("Error when closing event publisher: ", err)
			}
			closeDocs()
		}
	}()

	app.Get("/swagger/*", swagger.HandlerDefault) // default
	app.Get("/health", hdl.HealthCheck)

	moranda := app.Group("/v1/api", httpAdapter.AdminAuth(cfg.App.AdminToken))
	{
		moranda.Get("/asides/:team/:channel", hdl.GetSession)
		moranda.Post("/roster", hdl.SyncRoster)
		moranda.Post("/roster/sync", hdl.SyncRosterFromSlack)
		moranda.Post("/mentions", hdl.ResolveMentions)
	}

	// Slack Events API endpoint
	webhook := app.Group("/webhook")
	{
		webhook.Post("/slack", slackHdl.HandleEvents)
	}

	logrus.Println("Listerning on port: ", cfg.App.Port)
	return app.Listen(":" + cfg.App.Port)
}

// Migrate func - creates the documents table
func Migrate(opts Options) error {
	cfg := loadConfig(opts)
	dbConGorm, err := connectPostgres(cfg)
	if err != nil {
		return err
	}
	defer gorm.DisconnectPostgres(dbConGorm.Postgres)

	domain.MigrateDatabase(dbConGorm.Postgres)
	return nil
}

// SyncRoster func - one-off roster sync from Slack into the configured store
func SyncRoster(ctx context.Context, opts Options) error {
	cfg := loadConfig(opts)
	docs, closeDocs, err := newDocumentStore(cfg)
	if err != nil {
		return err
	}
	defer closeDocs()

	slackClient, err := slackAdapter.NewSlackClientAdapter(ctx, cfg.Slack.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create Slack client: %w", err)
	}
	sessions := application.NewSessionStore(docs, validator.New())
	return application.NewRosterService(slackClient, sessions).SyncFromPlatform(ctx)
}

// newDocumentStore builds the configured document store and the func that releases it
func newDocumentStore(cfg *configs.Config) (output.DocumentStore, func(), error) {
	switch cfg.Storage.Driver {
	case configs.StorageDriverMemory, "":
		logrus.Warn("Using in-memory document store; asides are lost on restart")
		return memory.NewMemoryDocumentStore(), func() {}, nil
	case configs.StorageDriverPostgres:
		dbConGorm, err := connectPostgres(cfg)
		if err != nil {
			return nil, nil, err
		}
		domain.MigrateDatabase(dbConGorm.Postgres)
		return postgres.NewDocumentRepository(dbConGorm.Postgres), func() {
			gorm.DisconnectPostgres(dbConGorm.Postgres)
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func connectPostgres(cfg *configs.Config) (*gorm.DB, error) {
	return gorm.ConnectToPostgreSQL(gorm.Options{
		Host:         cfg.Postgres.Host,
		Port:         cfg.Postgres.Port,
		Username:     cfg.Postgres.Username,
		Password:     cfg.Postgres.Password,
		DbName:       cfg.Postgres.DbName,
		SSLMode:      cfg.Postgres.SSLMode,
		Debug:        cfg.App.Debug,
		MaxOpenConns: cfg.Postgres.MaxConns,
	})
}

// newEventPublisher publishes to NATS when a url is configured and only logs otherwise
func newEventPublisher(cfg *configs.Config) output.EventPublisher {
	if cfg.Nats.URL == "" {
		return events.NoopPublisher{}
	}
	publisher, err := events.NewNATSPublisher(cfg.Nats.URL)
	if err != nil {
		logrus.Warnf("Event publishing disabled: %v", err)
		return events.NoopPublisher{}
	}
	return publisher
}
