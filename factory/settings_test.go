package factory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hours-estimator/factory"
	"github.com/warp/hours-estimator/generic"
	"github.com/warp/hours-estimator/workhours"
)

func TestParseSettings(t *testing.T) {
	s, err := factory.ParseSettings(`{
		"period_type": "monthly_cycle",
		"cycle_start_day": 16,
		"rounding": "half_even",
		"decimal_places": 1
	}`)
	require.NoError(t, err)

	assert.Equal(t, generic.PeriodMonthlyCycle, s.Period.Type)
	assert.Equal(t, 16, s.Period.CycleStartDay)
	assert.Equal(t, generic.RoundHalfEven, s.Rounding)
	assert.Equal(t, int32(1), s.Places)
}

func TestParseSettings_DefaultsForOmittedFields(t *testing.T) {
	s, err := factory.ParseSettings(`{"period_type": "calendar_month"}`)
	require.NoError(t, err)

	want := workhours.DefaultSettings()
	want.Period.Type = generic.PeriodCalendarMonth
	assert.Equal(t, want, s)
}

func TestParseSettings_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad json":        `{`,
		"period type":     `{"period_type": "weekly"}`,
		"start day":       `{"cycle_start_day": 31}`,
		"rounding":        `{"rounding": "ceil"}`,
		"decimal places":  `{"decimal_places": 9}`,
		"negative places": `{"decimal_places": -1}`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := factory.ParseSettings(input)
			assert.Error(t, err)
		})
	}
}

func TestLoadSettings(t *testing.T) {
	s, err := factory.LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, workhours.DefaultSettings(), s)

	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rounding": "half_even"}`), 0o600))

	s, err = factory.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, generic.RoundHalfEven, s.Rounding)

	_, err = factory.LoadSettings(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
