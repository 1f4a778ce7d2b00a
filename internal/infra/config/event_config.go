package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"event_reminder_mailer/internal/domain/event"

	"github.com/pelletier/go-toml/v2"
)

// EventConfig is one fully validated event series, built from a single
// TOML document. Immutable after construction.
type EventConfig struct {
	Name         string // base filename without extension, used in logs
	Rule         *event.RecurrenceRule
	Offset       *event.Offset
	TemplatePath string            // absolute, existence-checked
	Variables    map[string]string // template_variables.* as configured
}

// eventConfigFile mirrors the on-disk TOML layout. Pointer fields keep
// "absent" distinguishable from zero so the domain validation can report
// the right error.
type eventConfigFile struct {
	Event struct {
		Type         string `toml:"type"`
		Day          *int   `toml:"day"`
		BiweeklyWeek *int   `toml:"biweekly_week"`
	} `toml:"event"`
	Mail struct {
		MailOnRelDays       *int   `toml:"mail_on_rel_days"`
		MailOnDayWeekBefore *int   `toml:"mail_on_day_week_before"`
		Template            string `toml:"template"`
	} `toml:"mail"`
	TemplateVariables map[string]string `toml:"template_variables"`
	Schedule          map[string]string `toml:"schedule"`
}

// LoadEventConfig reads and validates one event configuration document.
// Relative template paths are resolved against the document's directory.
// Every failure wraps event.ErrConfig so callers can recover per file.
func LoadEventConfig(path string) (*EventConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s: %v", event.ErrConfig, path, err)
	}

	var file eventConfigFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: cannot parse %s: %v", event.ErrConfig, path, err)
	}

	rule, err := event.NewRule(event.RuleSpec{
		Type:         file.Event.Type,
		Day:          file.Event.Day,
		BiweeklyWeek: file.Event.BiweeklyWeek,
		Schedule:     file.Schedule,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	offset, err := event.NewOffset(event.OffsetSpec{
		RelDays:         file.Mail.MailOnRelDays,
		DayOfWeekBefore: file.Mail.MailOnDayWeekBefore,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if file.Mail.Template == "" {
		return nil, fmt.Errorf("%w: %s: mail.template is required", event.ErrConfig, path)
	}
	templatePath := file.Mail.Template
	if !filepath.IsAbs(templatePath) {
		templatePath = filepath.Join(filepath.Dir(path), templatePath)
	}
	templatePath, err = filepath.Abs(templatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: cannot resolve template path: %v", event.ErrConfig, path, err)
	}
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("%w: %s: template %s does not exist", event.ErrConfig, path, templatePath)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &EventConfig{
		Name:         name,
		Rule:         rule,
		Offset:       offset,
		TemplatePath: templatePath,
		Variables:    file.TemplateVariables,
	}, nil
}

// DiscoverConfigFiles returns the configuration files for a run. With
// explicit paths those are used as given; otherwise every *.toml file in
// the data directory is picked up, sorted.
func DiscoverConfigFiles(paths []string, dataDir string) ([]string, error) {
	if len(paths) > 0 {
		return paths, nil
	}
	matches, err := filepath.Glob(filepath.Join(dataDir, "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("cannot scan data directory %s: %w", dataDir, err)
	}
	return matches, nil
}
