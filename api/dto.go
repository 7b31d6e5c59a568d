/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract:
  - Decimal amounts become JSON numbers
  - Days become YYYY-MM-DD strings

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Form / *Request: Request types from clients
  - *Response: Wrappers

TYPES:
  Estimate:
    EstimateForm, ReportDTO

  Form defaults:
    FormDTO, FormFieldDTO

  Calendar:
    PeriodDTO, HolidayDTO, CreateClosureRequest

VALIDATION:
  EstimateForm carries go-playground/validator tags. Its `field` tag holds
  the form field id that errors are keyed by.

SEE ALSO:
  - handlers.go: Uses these types
  - workhours/types.go: Field identifiers
*/
package api

import (
	"github.com/warp/hours-estimator/generic"
	"github.com/warp/hours-estimator/workhours"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// EstimateForm is the typed form payload of POST /api/estimates. The CSV
// file travels next to it in the same multipart body.
type EstimateForm struct {
	StartDate         string  `field:"start-date" validate:"required,datetime=2006-01-02"`
	EndDate           string  `field:"end-date" validate:"required,datetime=2006-01-02"`
	NonProjectHours   float64 `field:"non-project-work-hours" validate:"gte=0,lte=1000"`
	ScheduledHolidays float64 `field:"scheduled-holidays" validate:"gte=0,lte=31"`
	UserID            string  `field:"user-id" validate:"max=128"`
}

// CreateClosureRequest is the body of POST /api/closures.
type CreateClosureRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Name      string `json:"name" validate:"required,max=100"`
	Recurring bool   `json:"recurring"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ReportDTO is one computed estimate.
type ReportDTO struct {
	ID                 string       `json:"id"`
	UserID             string       `json:"user_id,omitempty"`
	StartDate          string       `json:"start_date"`
	EndDate            string       `json:"end_date"`
	AsOf               string       `json:"as_of"`
	TotalHours         float64      `json:"total_hours"`
	EstimatedHours     float64      `json:"estimated_hours"`
	AverageHoursPerDay float64      `json:"average_hours_per_day"`
	RealWorkDays       int          `json:"real_work_days"`
	RemainingWorkDays  float64      `json:"remaining_work_days"`
	NonProjectHours    float64      `json:"non_project_hours"`
	ScheduledHolidays  float64      `json:"scheduled_holidays"`
	Holidays           []HolidayDTO `json:"holidays"`
}

func toReportDTO(r *workhours.Report) ReportDTO {
	return ReportDTO{
		ID:                 r.ID,
		UserID:             r.UserID,
		StartDate:          r.Period.Start.String(),
		EndDate:            r.Period.End.String(),
		AsOf:               r.AsOf.String(),
		TotalHours:         r.Aggregation.TotalHours.Float64(),
		EstimatedHours:     r.EstimatedHours.Float64(),
		AverageHoursPerDay: r.Aggregation.AverageHoursPerDay.Float64(),
		RealWorkDays:       r.Aggregation.RealWorkDays,
		RemainingWorkDays:  r.RemainingWorkDays.Float64(),
		NonProjectHours:    r.NonProjectHours.Float64(),
		ScheduledHolidays:  r.ScheduledHolidays.Float64(),
		Holidays:           toHolidayDTOs(r.Holidays),
	}
}

// PeriodDTO is a reporting period.
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func toPeriodDTO(p generic.Period) PeriodDTO {
	return PeriodDTO{StartDate: p.Start.String(), EndDate: p.End.String()}
}

// HolidayDTO is a national holiday or company closure.
type HolidayDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Source    string `json:"source"`
	Recurring bool   `json:"recurring,omitempty"`
}

func toHolidayDTOs(holidays []generic.Holiday) []HolidayDTO {
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, h := range holidays {
		dtos = append(dtos, HolidayDTO{
			ID:        h.ID,
			Date:      h.Date.String(),
			Name:      h.Name,
			Source:    string(h.Source),
			Recurring: h.Recurring,
		})
	}
	return dtos
}

// FormFieldDTO describes one input of the estimate form.
type FormFieldDTO struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"` // date, number, file
	Label          string   `json:"label"`
	Initial        string   `json:"initial,omitempty"`
	Min            string   `json:"min,omitempty"`
	DecimalAllowed bool     `json:"decimal_allowed,omitempty"`
	FileTypes      []string `json:"file_types,omitempty"`
}

// FormDTO is the estimate form with its defaults filled in.
type FormDTO struct {
	Title  string         `json:"title"`
	Submit string         `json:"submit"`
	Fields []FormFieldDTO `json:"fields"`
}

func newFormDTO(p generic.Period) FormDTO {
	return FormDTO{
		Title:  "Billable hours estimate",
		Submit: "Estimate",
		Fields: []FormFieldDTO{
			{ID: workhours.FieldStartDate, Type: "date", Label: "Start date", Initial: p.Start.String()},
			{ID: workhours.FieldEndDate, Type: "date", Label: "End date", Initial: p.End.String()},
			{ID: workhours.FieldNonProjectHours, Type: "number", Label: "Non-project hours (e.g. 1h15m = 1.25)", Initial: "0", Min: "0", DecimalAllowed: true},
			{ID: workhours.FieldScheduledHolidays, Type: "number", Label: "Scheduled days off not yet taken (e.g. half day = 0.5)", Initial: "0", Min: "0", DecimalAllowed: true},
			{ID: workhours.FieldCSV, Type: "file", Label: "Attendance CSV export", FileTypes: []string{"csv"}},
		},
	}
}

// ErrorResponse is returned for non-field errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// FieldErrorsResponse is returned with 422 for user-correctable input.
type FieldErrorsResponse struct {
	Errors map[string]string `json:"errors"`
}
