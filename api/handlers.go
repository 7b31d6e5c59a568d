/*
handlers.go - HTTP API handlers for the hours estimator

PURPOSE:
  Exposes the estimation pipeline via REST API. Handles HTTP
  request/response, form decoding and validation, and delegates to the
  workhours service.

ENDPOINTS:
  Estimate:
    GET    /api/form                 Form fields with default period filled in
    GET    /api/period               Default reporting period (?date=YYYY-MM-DD)
    POST   /api/estimates            Multipart form + CSV -> estimate report

  Calendar:
    GET    /api/holidays             Holidays in ?from=&to= (default: current period)
    GET    /api/closures             List company closures
    POST   /api/closures             Create company closure
    GET    /api/closures/{id}        Get company closure
    DELETE /api/closures/{id}        Delete company closure

REQUEST FLOW:
  1. Decode the request into a typed form
  2. Validate at the boundary (validator tags, date order)
  3. Call the service
  4. Serialize response

ERROR HANDLING:
  - 400: Malformed request (bad query, unreadable body)
  - 404: Closure not found
  - 422: User-correctable input, as {"errors": {field: message}}
  - 500: Internal errors, logged with details, answered generically

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v3"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/hours-estimator/generic"
	"github.com/warp/hours-estimator/holiday"
	"github.com/warp/hours-estimator/workhours"
)

// maxUploadBytes bounds the multipart body. A month of rows is a few KB.
const maxUploadBytes = 2 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *workhours.Service
	Closures generic.ClosureStore
	Logger   *slog.Logger

	validate *validator.Validate
}

// NewHandler creates a new handler. closures may be nil, in which case the
// closure endpoints answer 404.
func NewHandler(service *workhours.Service, closures generic.ClosureStore, logger *slog.Logger) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" {
			return name
		}
		return f.Name
	})
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Service:  service,
		Closures: closures,
		Logger:   logger,
		validate: v,
	}
}

// =============================================================================
// ESTIMATE HANDLERS
// =============================================================================

// GetForm returns the estimate form with the default period.
// GET /api/form
func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	period, ok := h.periodFromQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newFormDTO(period))
}

// GetPeriod returns the reporting period containing ?date= (default: today).
// GET /api/period
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	period, ok := h.periodFromQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(period))
}

func (h *Handler) periodFromQuery(w http.ResponseWriter, r *http.Request) (generic.Period, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return h.Service.DefaultPeriod(), true
	}
	date, err := generic.ParseTimePoint(generic.LayoutISO, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return generic.Period{}, false
	}
	return h.Service.Settings.Period.PeriodFor(date), true
}

// CreateEstimate runs the estimation for one uploaded CSV.
// POST /api/estimates
func (h *Handler) CreateEstimate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}

	sub, fieldErrs := h.decodeSubmission(r)
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, FieldErrorsResponse{Errors: fieldErrs})
		return
	}

	report, err := h.Service.Run(r.Context(), sub)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httplog.SetAttrs(r.Context(), slog.String("report_id", report.ID))
	writeJSON(w, http.StatusOK, toReportDTO(report))
}

// decodeSubmission reads the multipart form into a Submission. It returns
// field-keyed messages for anything the user has to fix.
func (h *Handler) decodeSubmission(r *http.Request) (workhours.Submission, map[string]string) {
	errs := make(map[string]string)

	form := EstimateForm{
		StartDate: strings.TrimSpace(r.FormValue(workhours.FieldStartDate)),
		EndDate:   strings.TrimSpace(r.FormValue(workhours.FieldEndDate)),
		UserID:    strings.TrimSpace(r.FormValue("user-id")),
	}
	if uid := userIDFromContext(r.Context()); uid != "" {
		form.UserID = uid
	}

	nonProject, err := parseDecimalField(r, workhours.FieldNonProjectHours)
	if err != nil {
		errs[workhours.FieldNonProjectHours] = "Enter a number."
	}
	scheduled, err := parseDecimalField(r, workhours.FieldScheduledHolidays)
	if err != nil {
		errs[workhours.FieldScheduledHolidays] = "Enter a number."
	}
	form.NonProjectHours = nonProject.InexactFloat64()
	form.ScheduledHolidays = scheduled.InexactFloat64()

	if err := h.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if _, seen := errs[fe.Field()]; !seen {
					errs[fe.Field()] = validationMessage(fe)
				}
			}
		}
	}

	csvData, err := readUpload(r, workhours.FieldCSV)
	if err != nil {
		errs[workhours.FieldCSV] = "Attach the attendance CSV file."
	}

	if len(errs) > 0 {
		return workhours.Submission{}, errs
	}

	start, _ := generic.ParseTimePoint(generic.LayoutISO, form.StartDate)
	end, _ := generic.ParseTimePoint(generic.LayoutISO, form.EndDate)
	period, err := generic.NewPeriod(start, end)
	if err != nil {
		return workhours.Submission{}, map[string]string{
			workhours.FieldEndDate: "The end date must not be before the start date.",
		}
	}

	return workhours.Submission{
		UserID:            form.UserID,
		Period:            period,
		NonProjectHours:   generic.Amount{Value: nonProject, Unit: generic.UnitHours},
		ScheduledHolidays: generic.Amount{Value: scheduled, Unit: generic.UnitDays},
		CSV:               csvData,
	}, nil
}

// parseDecimalField parses a number input. Empty means 0, like the form's
// initial value.
func parseDecimalField(r *http.Request, field string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func readUpload(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "datetime":
		return "Enter a date as YYYY-MM-DD."
	case "gte":
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be at most %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *generic.FieldError
	if generic.IsClientError(err) && errors.As(err, &fieldErr) {
		writeJSON(w, http.StatusUnprocessableEntity, FieldErrorsResponse{Errors: fieldErr.Fields()})
		return
	}
	h.internalError(w, r, "Failed to compute estimate", err)
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// ListHolidays returns national holidays and closures in a range.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	period := h.Service.DefaultPeriod()
	q := r.URL.Query()
	if raw := q.Get("from"); raw != "" {
		from, err := generic.ParseTimePoint(generic.LayoutISO, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
		period.Start = from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := generic.ParseTimePoint(generic.LayoutISO, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
			return
		}
		period.End = to
	}
	if err := period.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "to must not be before from", err)
		return
	}

	calendar, err := h.Service.Calendar(r.Context(), period.Start, period.End)
	if err != nil {
		h.internalError(w, r, "Failed to load closures", err)
		return
	}
	holidays, err := calendar.HolidaysBetween(period.Start, period.End)
	if errors.Is(err, generic.ErrCalendarUnsupported) {
		writeError(w, http.StatusBadRequest, "Range outside holiday calendar", err)
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to list holidays", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"from":          period.Start.String(),
		"to":            period.End.String(),
		"rules_version": holiday.RulesVersion,
		"holidays":      toHolidayDTOs(holidays),
	})
}

// ListClosures returns all company closures.
// GET /api/closures
func (h *Handler) ListClosures(w http.ResponseWriter, r *http.Request) {
	if h.Closures == nil {
		writeError(w, http.StatusNotFound, "Closures are not configured", nil)
		return
	}
	closures, err := h.Closures.ListClosures(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to list closures", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"closures": toHolidayDTOs(closures)})
}

// CreateClosure creates a company closure day.
// POST /api/closures
func (h *Handler) CreateClosure(w http.ResponseWriter, r *http.Request) {
	if h.Closures == nil {
		writeError(w, http.StatusNotFound, "Closures are not configured", nil)
		return
	}

	var req CreateClosureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		errs := make(map[string]string)
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs[fe.Field()] = validationMessage(fe)
			}
		}
		writeJSON(w, http.StatusUnprocessableEntity, FieldErrorsResponse{Errors: errs})
		return
	}

	date, _ := generic.ParseTimePoint(generic.LayoutISO, req.Date)
	closure := generic.Holiday{
		ID:        uuid.NewString(),
		Date:      date,
		Name:      req.Name,
		Source:    generic.SourceCompany,
		Recurring: req.Recurring,
	}
	id, err := h.Closures.SaveClosure(r.Context(), closure)
	if err != nil {
		h.internalError(w, r, "Failed to create closure", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "created",
		"closure": id,
	})
}

// GetClosure returns one company closure.
// GET /api/closures/{id}
func (h *Handler) GetClosure(w http.ResponseWriter, r *http.Request) {
	if h.Closures == nil {
		writeError(w, http.StatusNotFound, "Closures are not configured", nil)
		return
	}
	closure, err := h.Closures.GetClosure(r.Context(), chi.URLParam(r, "id"))
	if generic.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Closure not found", nil)
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to get closure", err)
		return
	}
	writeJSON(w, http.StatusOK, toHolidayDTOs([]generic.Holiday{*closure})[0])
}

// DeleteClosure deletes a company closure.
// DELETE /api/closures/{id}
func (h *Handler) DeleteClosure(w http.ResponseWriter, r *http.Request) {
	if h.Closures == nil {
		writeError(w, http.StatusNotFound, "Closures are not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")

	err := h.Closures.DeleteClosure(r.Context(), id)
	if generic.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Closure not found", nil)
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to delete closure", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// internalError logs err and answers 500 without exposing it to the client.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.Logger.ErrorContext(r.Context(), message, "error", err, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, message, nil)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

