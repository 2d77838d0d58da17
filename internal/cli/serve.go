package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	requestlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/pitchlog/internal/api"
	"github.com/terraincognita07/pitchlog/internal/config"
	"github.com/terraincognita07/pitchlog/internal/logger"
	"github.com/terraincognita07/pitchlog/internal/notify"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the journal API with reminder delivery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}
	secretKey, _ := config.ResolveSecretKey(cfg.SecretKey)
	port, _ := config.ResolvePort(cfg.Port)

	log := logger.NewLogger(cfg.LogLevel)
	location := cfg.Location()
	time.Local = location

	ctx, stopSignals := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	rt, err := openRuntime(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.WithError(err).Warn("runtime close failed")
		}
	}()

	overview, err := api.NewOverview(ctx, rt.journal, rt.store)
	if err != nil {
		return err
	}
	defer overview.Close()

	handler, err := api.NewHandler(api.Dependencies{
		Store:        rt.store,
		Journal:      rt.journal,
		Reminders:    rt.scheduler,
		Passcodes:    rt.passcodes,
		Overview:     overview,
		SecretKey:    secretKey,
		Location:     location,
		CookieSecure: cfg.CookieSecure,
		ReminderLead: cfg.DefaultReminderLead,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	dispatcher := notify.NewDispatcher(rt.center, newDeliverer(cfg, log),
		notify.WithInterval(cfg.DispatchInterval),
		notify.WithDispatchLogger(log),
		notify.OnFired(rt.scheduler.MarkFired),
	)
	dispatcher.Start(ctx)
	defer dispatcher.Wait()
	rt.scheduler.StartReconciler(ctx, cfg.ReconcileInterval)

	app := fiber.New(fiber.Config{
		AppName:               "pitchlog",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestlogger.New())
	api.RegisterRoutes(app, handler)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Warn("server shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":     port,
		"db":       cfg.DBPath,
		"tz":       location.String(),
		"redis":    cfg.RedisURL != "",
		"telegram": cfg.TelegramConfigured(),
	}).Info("pitchlog listening")
	// Stopping the signal context also stops the dispatcher before the
	// deferred Wait.
	listenErr := app.Listen(":" + port)
	stopSignals()
	return listenErr
}

// newDeliverer sends reminders to Telegram when configured and only logs
// them otherwise.
func newDeliverer(cfg config.Config, log logrus.FieldLogger) notify.Deliverer {
	if cfg.TelegramConfigured() {
		return notify.NewTelegramDeliverer(cfg.TelegramBotToken, cfg.TelegramChatID, nil)
	}
	return notify.NewLogDeliverer(log)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
