package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/vipulgupta2048/poll-activity/internal/app"
	"github.com/vipulgupta2048/poll-activity/internal/config"
	"github.com/vipulgupta2048/poll-activity/internal/logger"
	"github.com/vipulgupta2048/poll-activity/internal/mesh"
	"github.com/vipulgupta2048/poll-activity/internal/poll"
	"github.com/vipulgupta2048/poll-activity/internal/session"
	"github.com/vipulgupta2048/poll-activity/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	logg := logger.New(level)
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			log.Fatalf("Failed to init sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
		logg = logger.NewWithSentry(level)
	}

	logg.Info("config loaded",
		"nickname", cfg.Nickname,
		"db_path", cfg.DBPath,
		"initiator", cfg.Initiator,
	)

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	pollRepo := storage.NewPollRepository(db)
	settingsRepo := storage.NewSettingsRepository(db)

	activity := app.New(cfg.Nickname, logg)
	activity.OnNotify(func(title, message string) {
		logg.Info("notification", "title", title, "message", message)
	})

	if settings, ok, err := settingsRepo.Load(); err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	} else if ok {
		activity.SetSettings(settings)
	}

	records, err := pollRepo.List()
	if err != nil {
		log.Fatalf("Failed to load polls: %v", err)
	}
	for _, rec := range records {
		activity.AddPoll(poll.FromRecord(rec))
	}
	logg.Info("polls restored", "count", len(records))

	// The shared session runs over an in-process bus here; a networked
	// channel plugs in through the same session.Transport contract.
	bus := mesh.NewBus()
	endpoint := bus.Join(cfg.Nickname)
	session.New(endpoint, cfg.Initiator, activity, logg)
	logg.Info("session started", "self_id", endpoint.SelfID())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("shutting down, saving state")
	for _, p := range activity.Polls() {
		if err := pollRepo.Save(p.Snapshot()); err != nil {
			logg.Error("failed to save poll", "title", p.Title, "error", err)
		}
	}
	if err := settingsRepo.Save(activity.Settings()); err != nil {
		logg.Error("failed to save settings", "error", err)
	}
}
