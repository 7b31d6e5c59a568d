/*
Package factory provides JSON to Go settings conversion.

PURPOSE:
  Converts a JSON description of the reporting convention into
  workhours.Settings. Teams with a different billing cycle or rounding rule
  change a file instead of code.

JSON SCHEMA:
  {
    "period_type": "monthly_cycle",
    "cycle_start_day": 21,
    "rounding": "half_up",
    "decimal_places": 2
  }

  Every field is optional; omitted fields keep workhours.DefaultSettings.

USAGE:
  settings, err := factory.LoadSettings("./settings.json")
  service.Settings = settings

SEE ALSO:
  - workhours/types.go: Settings
  - generic/period.go: PeriodConfig
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/warp/hours-estimator/generic"
	"github.com/warp/hours-estimator/workhours"
)

// SettingsJSON is the JSON representation of workhours.Settings.
type SettingsJSON struct {
	PeriodType    string `json:"period_type,omitempty"`     // monthly_cycle, calendar_month
	CycleStartDay *int   `json:"cycle_start_day,omitempty"` // 1-28
	Rounding      string `json:"rounding,omitempty"`        // half_up, half_even
	DecimalPlaces *int   `json:"decimal_places,omitempty"`  // 0-6
}

// ParseSettings parses a JSON string into Settings.
func ParseSettings(jsonStr string) (workhours.Settings, error) {
	var sj SettingsJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return workhours.Settings{}, fmt.Errorf("failed to parse settings JSON: %w", err)
	}
	return FromJSON(sj)
}

// LoadSettings reads settings from a file. An empty path yields the defaults.
func LoadSettings(path string) (workhours.Settings, error) {
	if path == "" {
		return workhours.DefaultSettings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return workhours.Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	return ParseSettings(string(data))
}

// FromJSON converts SettingsJSON, applying defaults for omitted fields.
func FromJSON(sj SettingsJSON) (workhours.Settings, error) {
	s := workhours.DefaultSettings()

	switch generic.PeriodType(sj.PeriodType) {
	case "":
	case generic.PeriodMonthlyCycle, generic.PeriodCalendarMonth:
		s.Period.Type = generic.PeriodType(sj.PeriodType)
	default:
		return workhours.Settings{}, fmt.Errorf("unknown period_type %q", sj.PeriodType)
	}

	if sj.CycleStartDay != nil {
		if *sj.CycleStartDay < 1 || *sj.CycleStartDay > 28 {
			return workhours.Settings{}, fmt.Errorf("cycle_start_day must be 1-28, got %d", *sj.CycleStartDay)
		}
		s.Period.CycleStartDay = *sj.CycleStartDay
	}

	if sj.Rounding != "" {
		r := generic.Rounding(sj.Rounding)
		if !r.Valid() {
			return workhours.Settings{}, fmt.Errorf("unknown rounding %q", sj.Rounding)
		}
		s.Rounding = r
	}

	if sj.DecimalPlaces != nil {
		if *sj.DecimalPlaces < 0 || *sj.DecimalPlaces > 6 {
			return workhours.Settings{}, fmt.Errorf("decimal_places must be 0-6, got %d", *sj.DecimalPlaces)
		}
		s.Places = int32(*sj.DecimalPlaces)
	}

	return s, nil
}
