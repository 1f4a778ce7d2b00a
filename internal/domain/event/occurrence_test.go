package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestResolve_Weekly(t *testing.T) {
	today := date(2024, time.March, 20) // Wednesday, ISO weekday 3

	tests := []struct {
		name string
		day  int
		want time.Time
	}{
		{"later this week", 5, date(2024, time.March, 22)},
		{"already passed, next week", 1, date(2024, time.March, 25)},
		{"same weekday rolls a full week", 3, date(2024, time.March, 27)},
		{"sunday", 7, date(2024, time.March, 24)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := NewRule(RuleSpec{Type: "weekly", Day: intPtr(tt.day)})
			require.NoError(t, err)
			occs := rule.Resolve(today)
			require.Len(t, occs, 1)
			assert.Equal(t, tt.want, occs[0].Date)
			assert.Equal(t, tt.day, isoWeekday(occs[0].Date))
			assert.Empty(t, occs[0].Description)
		})
	}
}

func TestResolve_Biweekly(t *testing.T) {
	tests := []struct {
		name   string
		today  time.Time
		day    int
		parity int
		want   time.Time
	}{
		// 2024-03-18..24 is ISO week 12 (parity 0), 2024-03-25..31 week 13.
		{"this week matches parity", date(2024, time.March, 19), 4, 0, date(2024, time.March, 21)},
		{"this week wrong parity", date(2024, time.March, 19), 4, 1, date(2024, time.March, 28)},
		{"day passed, matching parity two weeks out", date(2024, time.March, 22), 4, 0, date(2024, time.April, 4)},
		{"day passed, next week has right parity", date(2024, time.March, 22), 4, 1, date(2024, time.March, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := NewRule(RuleSpec{Type: "biweekly", Day: intPtr(tt.day), BiweeklyWeek: intPtr(tt.parity)})
			require.NoError(t, err)
			occs := rule.Resolve(tt.today)
			require.Len(t, occs, 1)
			assert.Equal(t, tt.want, occs[0].Date)
			assert.Equal(t, tt.day, isoWeekday(occs[0].Date))
			_, week := occs[0].Date.ISOWeek()
			assert.Equal(t, tt.parity, week%2)
		})
	}
}

func TestResolve_Monthly(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		day   int
		want  time.Time
	}{
		{"later this month", date(2024, time.April, 10), 20, date(2024, time.April, 20)},
		{"passed, next month", date(2024, time.April, 25), 20, date(2024, time.May, 20)},
		{"same day rolls to next month", date(2024, time.April, 10), 10, date(2024, time.May, 10)},
		{"day 31 clamps to 30-day month", date(2024, time.April, 15), 31, date(2024, time.April, 30)},
		{"day 31 passed in may clamps in june", date(2024, time.May, 31), 31, date(2024, time.June, 30)},
		{"day 30 clamps to leap february", date(2024, time.February, 10), 30, date(2024, time.February, 29)},
		{"day 30 clamps to plain february", date(2025, time.February, 10), 30, date(2025, time.February, 28)},
		{"december rolls into next year", date(2024, time.December, 20), 10, date(2025, time.January, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := NewRule(RuleSpec{Type: "monthly", Day: intPtr(tt.day)})
			require.NoError(t, err)
			occs := rule.Resolve(tt.today)
			require.Len(t, occs, 1)
			assert.Equal(t, tt.want, occs[0].Date)
		})
	}
}

func TestResolve_Schedule(t *testing.T) {
	rule, err := NewRule(RuleSpec{Type: "schedule", Schedule: map[string]string{
		"2024-03-15": "board meeting",
		"2023-01-01": "long gone",
	}})
	require.NoError(t, err)

	// The full list comes back regardless of today; filtering is the
	// notification gate's job.
	occs := rule.Resolve(date(2024, time.June, 1))
	require.Len(t, occs, 2)
	assert.Equal(t, "long gone", occs[0].Description)
	assert.Equal(t, "board meeting", occs[1].Description)
	assert.Equal(t, date(2024, time.March, 15), occs[1].Date)
}

func TestOffset_ShouldSend(t *testing.T) {
	t.Run("relative days fires exactly one day", func(t *testing.T) {
		off, err := NewOffset(OffsetSpec{RelDays: intPtr(-1)})
		require.NoError(t, err)
		occ := date(2024, time.March, 15)
		assert.True(t, off.ShouldSend(date(2024, time.March, 14), occ))
		assert.False(t, off.ShouldSend(date(2024, time.March, 15), occ))
		assert.False(t, off.ShouldSend(date(2024, time.March, 13), occ))
	})

	t.Run("weekday before uses the preceding week", func(t *testing.T) {
		off, err := NewOffset(OffsetSpec{DayOfWeekBefore: intPtr(1)})
		require.NoError(t, err)
		occ := date(2024, time.March, 20) // Wednesday
		assert.True(t, off.ShouldSend(date(2024, time.March, 11), occ))
		// Monday of the occurrence's own week must not fire.
		assert.False(t, off.ShouldSend(date(2024, time.March, 18), occ))
	})

	t.Run("sunday of preceding week", func(t *testing.T) {
		off, err := NewOffset(OffsetSpec{DayOfWeekBefore: intPtr(7)})
		require.NoError(t, err)
		occ := date(2024, time.March, 20)
		assert.Equal(t, date(2024, time.March, 17), off.SendDate(occ))
	})
}

func TestIsoWeekday(t *testing.T) {
	assert.Equal(t, 1, isoWeekday(date(2024, time.March, 18))) // Monday
	assert.Equal(t, 3, isoWeekday(date(2024, time.March, 20))) // Wednesday
	assert.Equal(t, 7, isoWeekday(date(2024, time.March, 24))) // Sunday
}
