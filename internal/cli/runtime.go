package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/pitchlog/internal/config"
	"github.com/terraincognita07/pitchlog/internal/db"
	"github.com/terraincognita07/pitchlog/internal/i18n"
	"github.com/terraincognita07/pitchlog/internal/journal"
	"github.com/terraincognita07/pitchlog/internal/logger"
	"github.com/terraincognita07/pitchlog/internal/notify"
	"github.com/terraincognita07/pitchlog/internal/reminders"
	"github.com/terraincognita07/pitchlog/internal/services"
	"gorm.io/gorm"
)

// appRuntime is the wired core every command works against: the store, the
// journal writer, the notification center and the reminder scheduler.
type appRuntime struct {
	cfg       config.Config
	log       logrus.FieldLogger
	database  *gorm.DB
	store     *services.EntityStore
	journal   *journal.Synchronizer
	passcodes *services.PasscodeService
	center    notify.Queue
	scheduler *reminders.Scheduler

	closeCenter func() error
	writerDone  chan struct{}
}

func openRuntime(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*appRuntime, error) {
	database, err := db.OpenSQLite(cfg.DBPath, log)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	center, closeCenter, err := openCenter(ctx, cfg)
	if err != nil {
		_ = db.Close(database)
		return nil, err
	}

	messages, err := i18n.NewManager(cfg.DefaultLanguage)
	if err != nil {
		_ = closeCenter()
		_ = db.Close(database)
		return nil, fmt.Errorf("i18n init failed: %w", err)
	}

	repos := db.NewRepositories(database)
	store := services.NewEntityStore(services.EntityRepositoriesFrom(repos))
	rt := &appRuntime{
		cfg:         cfg,
		log:         log,
		database:    database,
		store:       store,
		journal:     journal.New(journal.GormTransactor(database), journal.WithLogger(log)),
		passcodes:   services.NewPasscodeService(repos.Settings),
		center:      center,
		closeCenter: closeCenter,
		writerDone:  make(chan struct{}),
	}
	composer := reminders.NewComposer(messages, cfg.DefaultLanguage, cfg.Location())
	rt.scheduler = reminders.NewScheduler(center, store, composer, reminders.WithLogger(log))

	go func() {
		defer close(rt.writerDone)
		if err := rt.journal.Run(context.Background()); err != nil {
			log.WithError(err).Error("journal writer exited")
		}
	}()
	return rt, nil
}

// openCenter picks the Redis center when REDIS_URL is set and the in-process
// one otherwise.
func openCenter(ctx context.Context, cfg config.Config) (notify.Queue, func() error, error) {
	if cfg.RedisURL == "" {
		return notify.NewMemoryCenter(cfg.NotificationsEnabled), func() error { return nil }, nil
	}
	center, err := notify.NewRedisCenter(ctx, cfg.RedisURL, cfg.NotificationsEnabled)
	if err != nil {
		return nil, nil, fmt.Errorf("notification center init failed: %w", err)
	}
	return center, center.Close, nil
}

// Close lets the journal writer commit what is queued, then releases the
// center and the database.
func (rt *appRuntime) Close() error {
	rt.journal.Stop()
	<-rt.writerDone
	return errors.Join(rt.closeCenter(), db.Close(rt.database))
}

// withRuntime opens the runtime for one command and closes it afterwards.
// checks run against the loaded config before anything is opened.
func withRuntime(cmd *cobra.Command, opts *RootOptions, run func(rt *appRuntime) error, checks ...func(config.Config) error) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return err
		}
	}

	rt, err := openRuntime(commandContext(cmd), cfg, logger.NewLogger(cfg.LogLevel))
	if err != nil {
		return err
	}
	return errors.Join(run(rt), rt.Close())
}
