package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nova-maldives/the-hub/backend/internal/checklist"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

func (h *Handler) GetShiftTypes(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "Shift types loaded", checklist.ShiftTypes())
}

func (h *Handler) GetAllTaskTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.repository.GetAllTaskTemplates()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Task templates loaded", templates)
}

func (h *Handler) CreateTaskTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label     string `json:"label" validate:"required,max=256"`
		Category  string `json:"category" validate:"required,max=64"`
		ShiftType string `json:"shiftType" validate:"required,max=64"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	template := &domain.TaskTemplate{
		Label:     strings.TrimSpace(req.Label),
		Category:  strings.TrimSpace(req.Category),
		ShiftType: strings.TrimSpace(req.ShiftType),
	}

	if err := h.repository.CreateTaskTemplate(template); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Task template created", template)
}

func (h *Handler) DeleteTaskTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "Invalid template ID")
		return
	}

	if err := h.repository.DeleteTaskTemplate(id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Task template not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Task template deleted", nil)
}

func (h *Handler) GetTaskCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repository.GetTaskCategories()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Task categories loaded", categories)
}

func (h *Handler) CreateTaskCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required,max=64"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if err := h.repository.CreateTaskCategory(name); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "task_categories_pkey" {
			h.errorResponse(w, r, "Category already exists")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Category created", domain.TaskCategory{Name: name})
}

// DeleteTaskCategory 只删除类别本身，已有模板中的类别名称保持不变
func (h *Handler) DeleteTaskCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.repository.DeleteTaskCategory(name); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Category not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Category deleted", nil)
}
