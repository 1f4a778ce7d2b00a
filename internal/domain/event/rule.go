package event

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrConfig marks any failure to build a valid rule or offset from raw
// configuration input. Callers match it with errors.Is.
var ErrConfig = errors.New("invalid event configuration")

// Kind identifies the schedule policy of a recurring or scheduled event.
type Kind string

const (
	KindWeekly   Kind = "weekly"
	KindBiweekly Kind = "biweekly"
	KindMonthly  Kind = "monthly"
	KindSchedule Kind = "schedule"
)

// ScheduledEvent is one explicitly dated entry of a schedule-type rule.
type ScheduledEvent struct {
	Date        time.Time
	Description string
}

// RecurrenceRule is the validated schedule policy of one event series.
// Exactly one of DayOfWeek(+Parity), DayOfMonth or Events is populated,
// enforced by NewRule.
type RecurrenceRule struct {
	Kind       Kind
	DayOfWeek  int // ISO weekday 1..7, weekly and biweekly kinds
	DayOfMonth int // 1..31, monthly kind
	Parity     int // ISO week number mod 2, biweekly kind
	Events     []ScheduledEvent
}

// RuleSpec carries the raw, still unvalidated values extracted from an
// event configuration document. Pointer fields distinguish "absent" from
// a zero value.
type RuleSpec struct {
	Type         string
	Day          *int
	BiweeklyWeek *int
	Schedule     map[string]string // "YYYY-MM-DD" -> description
}

// NewRule validates a RuleSpec and builds the rule. Every violation is
// reported as a specific ErrConfig-wrapped error; no date arithmetic
// happens before all range and type checks have passed.
func NewRule(spec RuleSpec) (*RecurrenceRule, error) {
	switch Kind(spec.Type) {
	case KindWeekly, KindBiweekly, KindMonthly, KindSchedule:
	case "":
		return nil, fmt.Errorf("%w: event.type is required", ErrConfig)
	default:
		return nil, fmt.Errorf("%w: unknown event.type %q", ErrConfig, spec.Type)
	}
	kind := Kind(spec.Type)

	if kind != KindBiweekly && spec.BiweeklyWeek != nil {
		return nil, fmt.Errorf("%w: event.biweekly_week is only valid for biweekly events", ErrConfig)
	}

	switch kind {
	case KindWeekly, KindBiweekly:
		if len(spec.Schedule) > 0 {
			return nil, fmt.Errorf("%w: schedule entries are only valid for schedule-type events", ErrConfig)
		}
		if spec.Day == nil {
			return nil, fmt.Errorf("%w: event.day is required for %s events", ErrConfig, kind)
		}
		if *spec.Day < 1 || *spec.Day > 7 {
			return nil, fmt.Errorf("%w: event.day %d is outside the weekday range 1..7", ErrConfig, *spec.Day)
		}
		rule := &RecurrenceRule{Kind: kind, DayOfWeek: *spec.Day}
		if kind == KindBiweekly {
			if spec.BiweeklyWeek == nil {
				return nil, fmt.Errorf("%w: event.biweekly_week is required for biweekly events", ErrConfig)
			}
			if *spec.BiweeklyWeek != 0 && *spec.BiweeklyWeek != 1 {
				return nil, fmt.Errorf("%w: event.biweekly_week must be 0 or 1, got %d", ErrConfig, *spec.BiweeklyWeek)
			}
			rule.Parity = *spec.BiweeklyWeek
		}
		return rule, nil

	case KindMonthly:
		if len(spec.Schedule) > 0 {
			return nil, fmt.Errorf("%w: schedule entries are only valid for schedule-type events", ErrConfig)
		}
		if spec.Day == nil {
			return nil, fmt.Errorf("%w: event.day is required for monthly events", ErrConfig)
		}
		if *spec.Day < 1 || *spec.Day > 31 {
			return nil, fmt.Errorf("%w: event.day %d is outside the day-of-month range 1..31", ErrConfig, *spec.Day)
		}
		return &RecurrenceRule{Kind: kind, DayOfMonth: *spec.Day}, nil

	default: // KindSchedule
		if spec.Day != nil {
			return nil, fmt.Errorf("%w: event.day is not valid for schedule-type events", ErrConfig)
		}
		if len(spec.Schedule) == 0 {
			return nil, fmt.Errorf("%w: schedule-type events need at least one schedule entry", ErrConfig)
		}
		events := make([]ScheduledEvent, 0, len(spec.Schedule))
		for key, desc := range spec.Schedule {
			if desc == "" {
				return nil, fmt.Errorf("%w: schedule entry %s has an empty description", ErrConfig, key)
			}
			date, err := time.ParseInLocation("2006-01-02", key, time.Local)
			if err != nil {
				return nil, fmt.Errorf("%w: schedule key %q is not a YYYY-MM-DD date", ErrConfig, key)
			}
			events = append(events, ScheduledEvent{Date: date, Description: desc})
		}
		sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
		return &RecurrenceRule{Kind: kind, Events: events}, nil
	}
}
