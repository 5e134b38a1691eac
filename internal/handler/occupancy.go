package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/checklist"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/nova-maldives/the-hub/backend/internal/sheet"
	"github.com/nova-maldives/the-hub/backend/internal/utils"
)

// 上传文件的大小上限
const maxImportSize = 10 << 20

type occupancyWeek struct {
	WeekStart string                  `json:"weekStart"`
	Records   []domain.DailyOccupancy `json:"records"`
	Forecast  []checklist.ForecastDay `json:"forecast"`
	Average   int                     `json:"average"`
}

// operationalDay 返回当前营业日零点
func (h *Handler) operationalDay() time.Time {
	now := h.now()
	day, err := time.ParseInLocation(time.DateOnly, checklist.OperationalDate(now), now.Location())
	if err != nil {
		return now
	}
	return day
}

// loadWeek 读取从 start 开始 7 天的入住率，读取失败时返回错误
func (h *Handler) loadWeek(start time.Time) (*occupancyWeek, error) {
	from := start.Format(time.DateOnly)
	to := start.AddDate(0, 0, 6).Format(time.DateOnly)

	records, err := h.repository.GetOccupancyBetween(from, to)
	if err != nil {
		return nil, err
	}

	forecast := checklist.WeeklyForecast(records, start)
	return &occupancyWeek{
		WeekStart: from,
		Records:   records,
		Forecast:  forecast,
		Average:   checklist.AverageOccupancy(forecast),
	}, nil
}

func (h *Handler) GetOccupancyWeek(w http.ResponseWriter, r *http.Request) {
	day, err := utils.ParseWeek(r.URL.Query().Get("week"), h.operationalDay())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	week, err := h.loadWeek(checklist.WeekStart(day))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Occupancy loaded", week)
}

func (h *Handler) GetOccupancyForecast(w http.ResponseWriter, r *http.Request) {
	week, err := h.loadWeek(h.operationalDay())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Forecast loaded", week)
}

func (h *Handler) UpdateOccupancy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Records []domain.DailyOccupancy `json:"records" validate:"required,max=366"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateOccupancy(req.Records); err != nil {
		h.badRequest(w, r, err)
		return
	}

	for i := range req.Records {
		req.Records[i].Percentage = checklist.ClampPercentage(req.Records[i].Percentage)
	}

	if err := h.repository.UpsertOccupancy(req.Records); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Occupancy saved", req.Records)
}

func (h *Handler) ImportOccupancy(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		h.errorResponse(w, r, "Invalid upload, please attach a file under 10 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorResponse(w, r, "No file uploaded")
		return
	}
	defer file.Close()

	records, err := sheet.ImportOccupancy(file, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, sheet.ErrNoValidRows), errors.Is(err, sheet.ErrUnsupportedFormat):
			h.errorResponse(w, r, err.Error())
		default:
			slog.Warn("无法解析入住率文件", "filename", header.Filename, "error", err)
			h.errorResponse(w, r, "Failed to parse file: "+err.Error())
		}
		return
	}

	if err := h.repository.ImportOccupancy(records); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Occupancy imported", map[string]int{"imported": len(records)})
}
