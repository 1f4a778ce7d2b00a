package scheduler

import (
	"context"
	"time"

	"event_reminder_mailer/internal/app"
	"event_reminder_mailer/internal/infra/config"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderScheduler runs the full reminder check on a cron schedule when
// the tool operates in daemon mode. The data directory is rescanned on
// every tick so dropping in a new configuration file needs no restart.
type ReminderScheduler struct {
	cronEngine *cron.Cron
	service    app.ReminderService
	logger     *logrus.Logger
	dataDir    string
	cronSpec   string
}

func NewReminderScheduler(
	service app.ReminderService,
	logger *logrus.Logger,
	dataDir string,
	cronSpec string, // e.g. "0 8 * * *" (8:00 AM daily)
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // reminder dates are local calendar dates
		service:    service,
		logger:     logger,
		dataDir:    dataDir,
		cronSpec:   cronSpec,
	}
}

func (s *ReminderScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Infof("Cron job triggered, scanning %s", s.dataDir)
		paths, err := config.DiscoverConfigFiles(nil, s.dataDir)
		if err != nil {
			s.logger.Errorf("Cannot discover configuration files: %v", err)
			return
		}
		if len(paths) == 0 {
			s.logger.Warnf("No configuration files found in %s", s.dataDir)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.service.ProcessAll(ctx, paths, time.Now())
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Infof("Reminder scheduler started with spec %q", s.cronSpec)
	return nil
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // waits for a running job to finish
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped.")
}
