package event

import "time"

// Occurrence is a concrete calendar date an event happens on, plus the
// description attached to it (empty for the periodic kinds).
type Occurrence struct {
	Date        time.Time
	Description string
}

// isoWeekday maps time.Weekday (Sunday=0) onto ISO numbering, Monday=1
// through Sunday=7.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}

// Day truncates a time to its local calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same local calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Resolve maps the rule and today's date onto the occurrences the caller
// must evaluate this run. Periodic kinds yield exactly one occurrence,
// the next one on or after today; schedule-type rules yield their full
// stored list and leave the filtering to the notification gate.
func (r *RecurrenceRule) Resolve(today time.Time) []Occurrence {
	today = Day(today)

	switch r.Kind {
	case KindWeekly:
		w := isoWeekday(today)
		delta := 7 + r.DayOfWeek - w
		if w < r.DayOfWeek {
			delta = r.DayOfWeek - w
		}
		return []Occurrence{{Date: today.AddDate(0, 0, delta)}}

	case KindBiweekly:
		_, week := today.ISOWeek()
		w := isoWeekday(today)
		rightWeek := week%2 == r.Parity
		var delta int
		switch {
		case w < r.DayOfWeek && rightWeek:
			delta = r.DayOfWeek - w
		case w < r.DayOfWeek && !rightWeek:
			delta = 7 + r.DayOfWeek - w
		case w >= r.DayOfWeek && rightWeek:
			delta = 14 + r.DayOfWeek - w
		default:
			delta = 7 + r.DayOfWeek - w
		}
		return []Occurrence{{Date: today.AddDate(0, 0, delta)}}

	case KindMonthly:
		year, month := today.Year(), int(today.Month())
		if today.Day() >= r.DayOfMonth {
			month++
			if month > 12 {
				month = 1
				year++
			}
		}
		day := r.DayOfMonth
		for day > 28 && !dateExists(year, month, day) {
			day--
		}
		return []Occurrence{{Date: time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location())}}

	default: // KindSchedule
		occurrences := make([]Occurrence, len(r.Events))
		for i, ev := range r.Events {
			occurrences[i] = Occurrence{Date: ev.Date, Description: ev.Description}
		}
		return occurrences
	}
}

// dateExists reports whether the given day number is valid in that month.
// time.Date normalizes overflow (April 31 becomes May 1), which is what
// makes the check work.
func dateExists(year, month, day int) bool {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	return t.Day() == day && int(t.Month()) == month
}
