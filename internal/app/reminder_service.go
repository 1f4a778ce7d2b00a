// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"event_reminder_mailer/internal/domain/event"
	"event_reminder_mailer/internal/domain/mail"
	"event_reminder_mailer/internal/domain/template"
	"event_reminder_mailer/internal/infra/config"

	"github.com/goodsign/monday"
	"github.com/sirupsen/logrus"
)

// ReminderService defines the operations for one reminder run.
type ReminderService interface {
	// ProcessAll loads every configuration file, evaluates its occurrences
	// against today and dispatches whatever is due. A failure in one
	// configuration never aborts the others.
	ProcessAll(ctx context.Context, configPaths []string, today time.Time) Summary
}

// Summary aggregates what a run did, for the closing log line.
type Summary struct {
	ConfigsProcessed int
	ConfigsFailed    int
	Sent             int
	SkippedAfterSend int
	DeliveryFailures int
}

// ReminderServiceImpl implements the ReminderService interface.
type ReminderServiceImpl struct {
	dispatcher mail.Dispatcher
	logger     *logrus.Logger
	locale     monday.Locale
}

func NewReminderServiceImpl(dispatcher mail.Dispatcher, logger *logrus.Logger, locale monday.Locale) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		dispatcher: dispatcher,
		logger:     logger,
		locale:     locale,
	}
}

// ProcessAll runs every configuration in order. Each file is loaded,
// resolved and dispatched independently; errors are logged and counted,
// never propagated across files.
func (s *ReminderServiceImpl) ProcessAll(ctx context.Context, configPaths []string, today time.Time) Summary {
	var sum Summary
	for _, path := range configPaths {
		cfg, err := config.LoadEventConfig(path)
		if err != nil {
			s.logger.Errorf("Skipping configuration %s: %v", path, err)
			sum.ConfigsFailed++
			continue
		}

		result, err := s.processConfig(ctx, cfg, today)
		sum.Sent += result.sent
		sum.SkippedAfterSend += result.skipped
		sum.DeliveryFailures += result.deliveryFailed
		if err != nil {
			s.logger.Errorf("Configuration %s failed: %v", cfg.Name, err)
			sum.ConfigsFailed++
			continue
		}
		sum.ConfigsProcessed++
	}

	s.logger.Infof("Run complete: %d configs processed, %d failed, %d mails sent, %d due occurrences skipped, %d delivery failures",
		sum.ConfigsProcessed, sum.ConfigsFailed, sum.Sent, sum.SkippedAfterSend, sum.DeliveryFailures)
	return sum
}

type runResult struct {
	sent           int
	skipped        int
	deliveryFailed int
}

// processConfig evaluates one configuration. The template is read once
// up front and every occurrence is rendered before the gate check, so a
// broken template surfaces even on days when nothing would be sent. At
// most one occurrence per run may actually go out; later occurrences
// that are also due are skipped with a warning.
func (s *ReminderServiceImpl) processConfig(ctx context.Context, cfg *config.EventConfig, today time.Time) (runResult, error) {
	var result runResult

	raw, err := os.ReadFile(cfg.TemplatePath)
	if err != nil {
		return result, fmt.Errorf("cannot read template %s: %w", cfg.TemplatePath, err)
	}

	occurrences := cfg.Rule.Resolve(today)
	s.logger.Debugf("Configuration %s resolved %d occurrence(s)", cfg.Name, len(occurrences))

	sent := false
	for _, occ := range occurrences {
		computed := template.EventVariables(occ.Date, occ.Description, s.locale)
		msg, err := template.Render(string(raw), template.MergeVariables(cfg.Variables, computed))
		if err != nil {
			return result, fmt.Errorf("rendering template %s: %w", cfg.TemplatePath, err)
		}

		sendDate := cfg.Offset.SendDate(occ.Date)
		if !event.SameDay(today, sendDate) {
			s.logger.Debugf("Configuration %s: occurrence %s is due on %s, not today",
				cfg.Name, occ.Date.Format("2006-01-02"), sendDate.Format("2006-01-02"))
			continue
		}

		if sent {
			s.logger.Warnf("Configuration %s: occurrence %s is also due today but a reminder was already sent this run, skipping",
				cfg.Name, occ.Date.Format("2006-01-02"))
			result.skipped++
			continue
		}

		if err := s.dispatcher.Deliver(ctx, msg); err != nil {
			s.logger.Errorf("Configuration %s: delivery for occurrence %s failed: %v",
				cfg.Name, occ.Date.Format("2006-01-02"), err)
			result.deliveryFailed++
			continue
		}
		s.logger.Infof("Configuration %s: reminder for occurrence %s sent to %v",
			cfg.Name, occ.Date.Format("2006-01-02"), msg.To)
		result.sent++
		sent = true
	}
	return result, nil
}
