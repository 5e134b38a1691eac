package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nova-maldives/the-hub/backend/internal/checklist"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/nova-maldives/the-hub/backend/internal/utils"
)

type rosterWeek struct {
	WeekStart   string                   `json:"weekStart"`
	ShiftTypes  []string                 `json:"shiftTypes"`
	Assignments []domain.ShiftAssignment `json:"assignments"`
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	day, err := utils.ParseWeek(r.URL.Query().Get("week"), h.operationalDay())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	start := checklist.WeekStart(day)
	assignments, err := h.repository.GetShiftAssignmentsBetween(start.Format(time.DateOnly), start.AddDate(0, 0, 6).Format(time.DateOnly))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Roster loaded", rosterWeek{
		WeekStart:   start.Format(time.DateOnly),
		ShiftTypes:  checklist.ShiftTypes(),
		Assignments: assignments,
	})
}

func (h *Handler) CreateShiftAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date      string `json:"date" validate:"required"`
		ShiftType string `json:"shiftType" validate:"required"`
		UserID    int64  `json:"userId" validate:"required,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	assignment := &domain.ShiftAssignment{Date: req.Date, ShiftType: req.ShiftType, UserID: req.UserID}
	if err := utils.ValidateShiftAssignment(assignment, checklist.ShiftTypes()); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShiftAssignment(assignment); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.ConstraintName {
			case "shift_assignments_user_id_fkey":
				h.errorResponse(w, r, "User not found")
				return
			case "shift_assignments_date_shift_type_user_id_key":
				h.errorResponse(w, r, "User is already assigned to this shift")
				return
			}
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Shift assigned", assignment)
}

func (h *Handler) DeleteShiftAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "Invalid assignment ID")
		return
	}

	if err := h.repository.DeleteShiftAssignment(id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Assignment not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Assignment removed", nil)
}
