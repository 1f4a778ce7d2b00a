package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"event_reminder_mailer/internal/domain/template"

	"github.com/goodsign/monday"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDispatcher records delivered messages and can fail the first N
// attempts.
type fakeDispatcher struct {
	delivered []*template.Message
	failFirst int
	attempts  int
}

func (f *fakeDispatcher) Deliver(_ context.Context, msg *template.Message) error {
	f.attempts++
	if f.attempts <= f.failFirst {
		return errors.New("transport down")
	}
	f.delivered = append(f.delivered, msg)
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.PanicLevel)
	return log
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const testTemplate = "From: a@x\nTo: b@x\nSubject: %(description)s\n\nDue on %(date)s."

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Two schedule entries in the same occurrence week share a send date
// when the weekday-before policy is used; only the first may go out.
func TestProcessAll_OneSendPerRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "reminder.tmpl", testTemplate)
	path := writeFile(t, dir, "meetings.toml", `
[event]
type = "schedule"

[mail]
mail_on_day_week_before = 1
template = "reminder.tmpl"

[schedule]
2024-03-19 = "board meeting"
2024-03-20 = "budget review"
`)

	dispatcher := &fakeDispatcher{}
	service := NewReminderServiceImpl(dispatcher, testLogger(), monday.LocaleEnUS)

	sum := service.ProcessAll(context.Background(), []string{path}, date(2024, time.March, 11))
	assert.Equal(t, 1, sum.ConfigsProcessed)
	assert.Equal(t, 1, sum.Sent)
	assert.Equal(t, 1, sum.SkippedAfterSend)
	assert.Equal(t, 0, sum.DeliveryFailures)

	require.Len(t, dispatcher.delivered, 1)
	assert.Equal(t, "board meeting", dispatcher.delivered[0].Subject)
	assert.Contains(t, dispatcher.delivered[0].Body, "Tuesday, March 19, 2024")
}

// A failed delivery does not consume the one-send budget; the next due
// occurrence still goes out.
func TestProcessAll_DeliveryFailureDoesNotConsumeBudget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "reminder.tmpl", testTemplate)
	path := writeFile(t, dir, "meetings.toml", `
[event]
type = "schedule"

[mail]
mail_on_day_week_before = 1
template = "reminder.tmpl"

[schedule]
2024-03-19 = "board meeting"
2024-03-20 = "budget review"
`)

	dispatcher := &fakeDispatcher{failFirst: 1}
	service := NewReminderServiceImpl(dispatcher, testLogger(), monday.LocaleEnUS)

	sum := service.ProcessAll(context.Background(), []string{path}, date(2024, time.March, 11))
	assert.Equal(t, 1, sum.ConfigsProcessed)
	assert.Equal(t, 1, sum.DeliveryFailures)
	assert.Equal(t, 1, sum.Sent)
	require.Len(t, dispatcher.delivered, 1)
	assert.Equal(t, "budget review", dispatcher.delivered[0].Subject)
}

// Rendering happens before the gate check, so a broken template fails
// the configuration even on a day when nothing would be sent.
func TestProcessAll_BrokenTemplateReportedOffDay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "reminder.tmpl", "From: a@x\nTo: b@x\nSubject: %(nonexistent)s\n\nBody")
	path := writeFile(t, dir, "standup.toml", `
[event]
type = "weekly"
day = 5

[mail]
mail_on_rel_days = -1
template = "reminder.tmpl"
`)

	dispatcher := &fakeDispatcher{}
	service := NewReminderServiceImpl(dispatcher, testLogger(), monday.LocaleEnUS)

	// Monday: the weekly Friday occurrence is not due until Thursday.
	sum := service.ProcessAll(context.Background(), []string{path}, date(2024, time.March, 18))
	assert.Equal(t, 1, sum.ConfigsFailed)
	assert.Equal(t, 0, sum.ConfigsProcessed)
	assert.Empty(t, dispatcher.delivered)
}

// A bad configuration is skipped; the remaining ones still run.
func TestProcessAll_ContinuesAfterBadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "reminder.tmpl", testTemplate)
	bad := writeFile(t, dir, "bad.toml", `[event]`+"\n"+`type = "yearly"`)
	good := writeFile(t, dir, "good.toml", `
[event]
type = "weekly"
day = 5

[mail]
mail_on_rel_days = -1
template = "reminder.tmpl"
`)

	dispatcher := &fakeDispatcher{}
	service := NewReminderServiceImpl(dispatcher, testLogger(), monday.LocaleEnUS)

	// Thursday 2024-03-21: the Friday occurrence is due tomorrow.
	sum := service.ProcessAll(context.Background(), []string{bad, good}, date(2024, time.March, 21))
	assert.Equal(t, 1, sum.ConfigsFailed)
	assert.Equal(t, 1, sum.ConfigsProcessed)
	assert.Equal(t, 1, sum.Sent)
	require.Len(t, dispatcher.delivered, 1)
	assert.Equal(t, []string{"b@x"}, dispatcher.delivered[0].To)
}

// Off-day runs render fine but deliver nothing.
func TestProcessAll_NothingDue(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "reminder.tmpl", testTemplate)
	path := writeFile(t, dir, "monthly.toml", `
[event]
type = "monthly"
day = 31

[mail]
mail_on_rel_days = -3
template = "reminder.tmpl"
`)

	dispatcher := &fakeDispatcher{}
	service := NewReminderServiceImpl(dispatcher, testLogger(), monday.LocaleEnUS)

	sum := service.ProcessAll(context.Background(), []string{path}, date(2024, time.April, 10))
	assert.Equal(t, 1, sum.ConfigsProcessed)
	assert.Equal(t, 0, sum.Sent)
	assert.Empty(t, dispatcher.delivered)
}
