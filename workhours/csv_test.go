package workhours_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/warp/hours-estimator/generic"
	"github.com/warp/hours-estimator/workhours"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

const header = "日付,曜日,出勤時刻,退勤時刻,労働時間\n"

func day(y int, m time.Month, d int) generic.TimePoint {
	return generic.NewTimePoint(y, m, d)
}

// buildCSV writes one row per day in [from, to]. Weekdays up to
// workedThrough are worked with the given duration; later days and weekends
// have no clock-in. It returns the number of worked rows.
func buildCSV(from, to, workedThrough generic.TimePoint, duration string) (string, int) {
	var b strings.Builder
	b.WriteString(header)
	worked := 0
	for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
		date := d.Time.Format(generic.LayoutSlash)
		if d.IsWeekend() || d.After(workedThrough) {
			fmt.Fprintf(&b, "%s,%s,,,00:00\n", date, d.Weekday())
			continue
		}
		fmt.Fprintf(&b, "%s,%s,09:00,18:00,%s\n", date, d.Weekday(), duration)
		worked++
	}
	return b.String(), worked
}

func requireFieldError(t *testing.T, err error, field string, sentinel error) *generic.FieldError {
	t.Helper()
	require.Error(t, err)
	var fe *generic.FieldError
	require.True(t, errors.As(err, &fe), "want *generic.FieldError, got %T", err)
	assert.Equal(t, field, fe.Field)
	assert.True(t, errors.Is(err, sentinel), "want %v, got %v", sentinel, err)
	return fe
}

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParseCSV_Basic(t *testing.T) {
	input := header +
		"2024/03/22,金,09:00,18:00,08:00\n" +
		"2024/03/21,木,09:30,19:00,08:30\n" +
		"2024/03/23,土,,,\n"

	records, err := workhours.ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Sorted by date regardless of file order.
	assert.Equal(t, "2024-03-21", records[0].Date.String())
	assert.Equal(t, 8*time.Hour+30*time.Minute, records[0].WorkDuration)
	assert.Equal(t, "09:30", records[0].ClockIn)
	assert.Equal(t, 3, records[0].Line)

	assert.True(t, records[1].Worked())
	assert.False(t, records[2].Worked())
	assert.Zero(t, records[2].WorkDuration)
	assert.Len(t, records.Worked(), 2)
}

func TestParseCSV_BOMAndShiftJIS(t *testing.T) {
	input := header + "2024/03/21,木,09:00,18:00,07:45\n"

	t.Run("utf8 bom", func(t *testing.T) {
		records, err := workhours.ParseCSV(strings.NewReader("\ufeff" + input))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 7*time.Hour+45*time.Minute, records[0].WorkDuration)
	})

	t.Run("shift_jis", func(t *testing.T) {
		sjis, err := japanese.ShiftJIS.NewEncoder().String(input)
		require.NoError(t, err)

		records, err := workhours.ParseCSV(strings.NewReader(sjis))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "2024-03-21", records[0].Date.String())
	})
}

func TestParseCSV_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"empty file", "", "file is empty"},
		{"missing columns", "日付,出勤時刻\n2024/03/21,09:00\n", "missing columns: 労働時間"},
		{"bad date", header + "2024-03-21,木,09:00,18:00,08:00\n", "line 2: column 日付"},
		{"bad duration on worked day", header + "2024/03/21,木,09:00,18:00,8h\n", "invalid duration"},
		{"minutes out of range", header + "2024/03/21,木,09:00,18:00,08:75\n", "invalid duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := workhours.ParseCSV(strings.NewReader(tt.input))
			fe := requireFieldError(t, err, workhours.FieldCSV, generic.ErrFormat)
			assert.Contains(t, fe.Message, tt.message)

			var formatErr *workhours.FormatError
			assert.True(t, errors.As(err, &formatErr))
		})
	}
}

func TestParseCSV_IgnoresDurationOnDaysOff(t *testing.T) {
	input := header +
		"2024/03/20,水,,,有休\n" +
		"\n" +
		"2024/03/21,木,09:00,18:00,\n"

	records, err := workhours.ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.False(t, records[0].Worked())
	assert.True(t, records[1].Worked())
	assert.Zero(t, records[1].WorkDuration)
}

func TestParseWorkDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"08:00", 8 * time.Hour, true},
		{"00:05", 5 * time.Minute, true},
		{"26:30", 26*time.Hour + 30*time.Minute, true},
		{"8:00", 8 * time.Hour, true},
		{"08:5", 0, false},
		{"08", 0, false},
		{"-1:00", 0, false},
		{"ab:cd", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := workhours.ParseWorkDuration(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, generic.ErrFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
