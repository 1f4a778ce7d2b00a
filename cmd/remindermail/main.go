package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event_reminder_mailer/internal/app"
	"event_reminder_mailer/internal/domain/mail"
	"event_reminder_mailer/internal/infra/config"
	"event_reminder_mailer/internal/infra/logger"
	imail "event_reminder_mailer/internal/infra/mail"
	"event_reminder_mailer/internal/infra/scheduler"

	"github.com/goodsign/monday"
)

func main() {
	var dryRun, daemon bool
	flag.BoolVar(&dryRun, "n", false, "render and print reminders instead of sending them")
	flag.BoolVar(&dryRun, "dry-run", false, "render and print reminders instead of sending them")
	flag.BoolVar(&daemon, "daemon", false, "keep running and fire the reminder check on a cron schedule")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [config.toml ...]\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Without positional arguments every *.toml file in the data directory is evaluated.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Debugf("Configuration loaded. Transport: %s, DataDir: %s", cfg.MailTransport, cfg.DataDir)

	var dispatcher mail.Dispatcher
	switch {
	case dryRun:
		dispatcher = imail.NewPreviewDispatcher(os.Stdout)
		log.Info("Dry run: reminders will be printed, not sent.")
	case cfg.MailTransport == config.TransportResend:
		dispatcher = imail.NewResendDispatcher(cfg.ResendAPIKey)
	case cfg.MailTransport == config.TransportPreview:
		dispatcher = imail.NewPreviewDispatcher(os.Stdout)
	default:
		dispatcher = imail.NewSMTPDispatcher(imail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		})
	}

	service := app.NewReminderServiceImpl(dispatcher, log, monday.Locale(cfg.DateLocale))

	if daemon {
		remScheduler := scheduler.NewReminderScheduler(service, log, cfg.DataDir, cfg.CronSpecDaily)
		if err := remScheduler.Start(); err != nil {
			log.Fatalf("FATAL: Could not start scheduler: %v", err)
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		remScheduler.Stop()
		log.Info("Shut down gracefully.")
		return
	}

	paths, err := config.DiscoverConfigFiles(flag.Args(), cfg.DataDir)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if len(paths) == 0 {
		log.Errorf("No configuration files found in %s and none given on the command line.", cfg.DataDir)
		os.Exit(1)
	}

	service.ProcessAll(context.Background(), paths, time.Now())
}
