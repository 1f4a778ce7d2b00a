package event

import (
	"fmt"
	"time"
)

// Offset decides when, relative to an occurrence, the reminder mail has
// to go out. Exactly one of the two policies is set, enforced by
// NewOffset.
type Offset struct {
	relDays       int // -6..-1, days before the occurrence
	weekdayBefore int // ISO weekday 1..7 in the week preceding the occurrence's week
	useWeekday    bool
}

// OffsetSpec carries the raw offset values from an event configuration.
type OffsetSpec struct {
	RelDays         *int
	DayOfWeekBefore *int
}

// NewOffset validates an OffsetSpec. The two policies are mutually
// exclusive and one of them is required.
func NewOffset(spec OffsetSpec) (*Offset, error) {
	switch {
	case spec.RelDays != nil && spec.DayOfWeekBefore != nil:
		return nil, fmt.Errorf("%w: mail.mail_on_rel_days and mail.mail_on_day_week_before are mutually exclusive", ErrConfig)
	case spec.RelDays != nil:
		if *spec.RelDays < -6 || *spec.RelDays > -1 {
			return nil, fmt.Errorf("%w: mail.mail_on_rel_days %d is outside the range -6..-1", ErrConfig, *spec.RelDays)
		}
		return &Offset{relDays: *spec.RelDays}, nil
	case spec.DayOfWeekBefore != nil:
		if *spec.DayOfWeekBefore < 1 || *spec.DayOfWeekBefore > 7 {
			return nil, fmt.Errorf("%w: mail.mail_on_day_week_before %d is outside the weekday range 1..7", ErrConfig, *spec.DayOfWeekBefore)
		}
		return &Offset{weekdayBefore: *spec.DayOfWeekBefore, useWeekday: true}, nil
	default:
		return nil, fmt.Errorf("%w: one of mail.mail_on_rel_days or mail.mail_on_day_week_before is required", ErrConfig)
	}
}

// SendDate computes the calendar date the reminder for the given
// occurrence must be sent on. For the weekday policy that is the
// configured ISO weekday of the week immediately preceding the
// occurrence's week.
func (o *Offset) SendDate(occurrence time.Time) time.Time {
	occurrence = Day(occurrence)
	if o.useWeekday {
		return occurrence.AddDate(0, 0, o.weekdayBefore-isoWeekday(occurrence)-7)
	}
	return occurrence.AddDate(0, 0, o.relDays)
}

// ShouldSend reports whether today is the exact day the reminder for
// the given occurrence has to fire.
func (o *Offset) ShouldSend(today, occurrence time.Time) bool {
	return SameDay(today, o.SendDate(occurrence))
}
