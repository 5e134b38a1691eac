package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/checklist"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/nova-maldives/the-hub/backend/internal/guestrequest"
)

type dashboard struct {
	Shift            shiftView                `json:"shift"`
	Forecast         []checklist.ForecastDay  `json:"forecast"`
	AverageOccupancy int                      `json:"averageOccupancy"`
	GuestRequests    guestrequest.Summary     `json:"guestRequests"`
	OnDuty           []domain.ShiftAssignment `json:"onDuty"`
	Weather          string                   `json:"weather"`
	Suggestion       string                   `json:"suggestion"`
}

// GetDashboard 汇总首页数据，任何一部分读取失败都只记录日志并返回空数据
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	_, shift := h.activeShift(r)

	result := dashboard{
		Shift:         h.newShiftView(shift),
		Forecast:      []checklist.ForecastDay{},
		OnDuty:        []domain.ShiftAssignment{},
		GuestRequests: guestrequest.Summary{},
	}

	start := h.operationalDay()
	if week, err := h.loadWeek(start); err != nil {
		slog.Warn("读取入住率失败", "error", &checklist.ReadError{Op: "get occupancy", Err: err})
		result.Forecast = checklist.WeeklyForecast(nil, start)
	} else {
		result.Forecast = week.Forecast
		result.AverageOccupancy = week.Average
	}

	if reqs, err := h.repository.GetGuestRequests(""); err != nil {
		slog.Warn("读取客人请求失败", "error", &checklist.ReadError{Op: "get guest requests", Err: err})
	} else {
		result.GuestRequests = guestrequest.Summarize(reqs)
	}

	today := start.Format(time.DateOnly)
	if onDuty, err := h.repository.GetShiftAssignmentsBetween(today, today); err != nil {
		slog.Warn("读取排班失败", "error", &checklist.ReadError{Op: "get shift assignments", Err: err})
	} else {
		result.OnDuty = onDuty
	}

	result.Weather = h.weather.Current(r.Context())
	result.Suggestion = h.assistant.SmartSuggestion(r.Context(), result.Weather, shift.Type)

	h.successResponse(w, r, "Dashboard loaded", result)
}
