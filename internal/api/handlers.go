package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/worldsmith/almanac/internal/config"
	"github.com/worldsmith/almanac/internal/database"
	"github.com/worldsmith/almanac/internal/engine"
	"github.com/worldsmith/almanac/internal/interchange"
	"github.com/worldsmith/almanac/internal/model"
	"github.com/worldsmith/almanac/internal/timekeeper"
)

// maxBodyBytes bounds request bodies; calendar documents are small.
const maxBodyBytes = 1 << 20

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	keeper *timekeeper.Keeper
	db     *database.DB
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(keeper *timekeeper.Keeper, db *database.DB, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		keeper: keeper,
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// decodeJSON reads a bounded request body into v.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parse body: %w", err)
	}
	return nil
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// GetCalendar handles GET /api/v1/calendar
func (h *Handlers) GetCalendar(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.keeper.Shape())
}

// PutCalendar handles PUT /api/v1/calendar
//
// The body is a bare CalendarShape. A shape that fails validation is
// rejected and the previously active shape stays in effect.
func (h *Handlers) PutCalendar(w http.ResponseWriter, r *http.Request) {
	var shape model.CalendarShape
	if err := decodeJSON(r, &shape); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	if err := h.keeper.InstallShape(r.Context(), &shape); err != nil {
		WriteUnprocessable(w, err.Error())
		return
	}

	WriteSuccess(w, h.keeper.Shape())
}

// momentPayload is the full description of the current calendar moment.
type momentPayload struct {
	DateTime    model.DateTime     `json:"dateTime"`
	Weekday     int                `json:"weekday"`
	WeekdayName string             `json:"weekdayName"`
	MonthName   string             `json:"monthName"`
	YearDisplay string             `json:"yearDisplay"`
	Season      *model.Season      `json:"season"`
	Moons       []engine.PhaseInfo `json:"moons"`
	LinearTime  float64            `json:"linearTime"`
	SyncEnabled bool               `json:"syncEnabled"`
}

// GetNow handles GET /api/v1/now
func (h *Handlers) GetNow(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.moment())
}

func (h *Handlers) moment() momentPayload {
	shape := h.keeper.Shape()
	state := h.keeper.State()
	dt := state.DateTime

	p := momentPayload{
		DateTime:    dt,
		Weekday:     state.Weekday,
		YearDisplay: formatYear(dt.Year, shape),
		Season:      engine.CurrentSeason(dt, shape),
		Moons:       engine.MoonPhases(dt, shape),
		LinearTime:  engine.ToLinearTime(dt, shape),
		SyncEnabled: state.SyncEnabled,
	}
	if state.Weekday >= 0 && state.Weekday < len(shape.Weekdays) {
		p.WeekdayName = shape.Weekdays[state.Weekday].Name
	}
	if dt.Month >= 0 && dt.Month < len(shape.Months) {
		p.MonthName = shape.Months[dt.Month].Name
	}
	return p
}

// formatYear renders a year number for display. When the calendar has no
// year zero, non-positive years shift down by one so the year before 1
// reads as -1, never 0. Arithmetic never sees this adjustment.
func formatYear(year int, shape *model.CalendarShape) string {
	display := year
	if !shape.Year.YearZeroExists && year <= 0 {
		display = year - 1
	}
	return shape.Year.Prefix + strconv.Itoa(display) + shape.Year.Suffix
}

// advanceRequest is the body for POST /api/v1/advance.
type advanceRequest struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"`
}

// Advance handles POST /api/v1/advance
func (h *Handlers) Advance(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	unit, err := timekeeper.ParseUnit(req.Unit)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	if err := h.keeper.Advance(r.Context(), req.Amount, unit); err != nil {
		h.logger.Error("advance failed", slog.Any("error", err))
		WriteInternalError(w, "Failed to advance calendar")
		return
	}

	WriteSuccess(w, h.moment())
}

// SetDate handles POST /api/v1/date
//
// Out-of-range values are not rejected; they normalize by the carry rules,
// so day 40 of a 30-day month rolls into the next month.
func (h *Handlers) SetDate(w http.ResponseWriter, r *http.Request) {
	var in timekeeper.DateInput
	if err := decodeJSON(r, &in); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	if err := h.keeper.SetDate(r.Context(), in); err != nil {
		h.logger.Error("set date failed", slog.Any("error", err))
		WriteInternalError(w, "Failed to set date")
		return
	}

	WriteSuccess(w, h.moment())
}

// SetTime handles POST /api/v1/time
func (h *Handlers) SetTime(w http.ResponseWriter, r *http.Request) {
	var in timekeeper.TimeInput
	if err := decodeJSON(r, &in); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	if err := h.keeper.SetTime(r.Context(), in); err != nil {
		h.logger.Error("set time failed", slog.Any("error", err))
		WriteInternalError(w, "Failed to set time")
		return
	}

	WriteSuccess(w, h.moment())
}

// syncRequest is the body for POST /api/v1/sync.
type syncRequest struct {
	Enabled bool `json:"enabled"`
}

// SetSync handles POST /api/v1/sync
func (h *Handlers) SetSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	if err := h.keeper.SetSyncEnabled(r.Context(), req.Enabled); err != nil {
		h.logger.Error("set sync failed", slog.Any("error", err))
		WriteInternalError(w, "Failed to toggle sync")
		return
	}

	WriteSuccess(w, map[string]bool{"syncEnabled": h.keeper.State().SyncEnabled})
}

// ConvertFromLinear handles GET /api/v1/convert?seconds=N
func (h *Handlers) ConvertFromLinear(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("seconds")
	if raw == "" {
		WriteBadRequest(w, "seconds query parameter is required")
		return
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("invalid seconds value %q", raw))
		return
	}

	shape := h.keeper.Shape()
	dt := engine.FromLinearTime(seconds, shape)
	WriteSuccess(w, map[string]any{
		"seconds":  seconds,
		"dateTime": dt,
		"weekday":  engine.Weekday(dt.Year, dt.Month, dt.Day, shape, 0),
	})
}

// ConvertToLinear handles POST /api/v1/convert
//
// The body is a DateTime; it is normalized under the active shape before
// conversion so out-of-range components behave exactly like explicit sets.
func (h *Handlers) ConvertToLinear(w http.ResponseWriter, r *http.Request) {
	var dt model.DateTime
	if err := decodeJSON(r, &dt); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	shape := h.keeper.Shape()
	normalized := engine.Normalize(dt, shape)
	WriteSuccess(w, map[string]any{
		"dateTime": normalized,
		"seconds":  engine.ToLinearTime(normalized, shape),
	})
}

// Import handles POST /api/v1/import
//
// Accepts either the native export document or a foreign calendars export
// and installs the translated shape. Import is all-or-nothing: a document
// that fails parsing or validation changes nothing.
func (h *Handlers) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("read body: %v", err))
		return
	}

	res, err := interchange.Import(body)
	if err != nil {
		WriteUnprocessable(w, err.Error())
		return
	}

	ctx := r.Context()
	if err := h.keeper.InstallShape(ctx, res.Shape); err != nil {
		WriteUnprocessable(w, err.Error())
		return
	}

	if res.State != nil {
		st := res.State
		if err := h.keeper.SetDate(ctx, timekeeper.DateInput{Year: &st.Year, Month: &st.Month, Day: &st.Day}); err != nil {
			h.logger.Error("import set date failed", slog.Any("error", err))
			WriteInternalError(w, "Imported calendar installed but date could not be applied")
			return
		}
		if err := h.keeper.SetTime(ctx, timekeeper.TimeInput{Hour: &st.Hour, Minute: &st.Minute, Second: &st.Second}); err != nil {
			h.logger.Error("import set time failed", slog.Any("error", err))
			WriteInternalError(w, "Imported calendar installed but time could not be applied")
			return
		}
	}

	WriteSuccess(w, h.moment())
}

// Export handles GET /api/v1/export
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	state := h.keeper.State()
	WriteSuccess(w, interchange.Export(h.keeper.Shape(), &state))
}
