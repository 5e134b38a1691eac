package handler

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/nova-maldives/the-hub/backend/internal/guestrequest"
)

var requestStatuses = []domain.RequestStatus{
	domain.RequestStatusPending,
	domain.RequestStatusInProgress,
	domain.RequestStatusCompleted,
	domain.RequestStatusCancelled,
}

func (h *Handler) GetGuestRequests(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !slices.Contains(requestStatuses, domain.RequestStatus(status)) {
		h.errorResponse(w, r, "Invalid status")
		return
	}

	reqs, err := h.repository.GetGuestRequests(status)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Guest requests loaded", reqs)
}

func (h *Handler) GetGuestRequest(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(GuestRequestCtx).(*domain.GuestRequest)
	h.successResponse(w, r, "Guest request loaded", req)
}

func (h *Handler) CreateGuestRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		RoomNumber  string `json:"roomNumber" validate:"required,max=16"`
		GuestName   string `json:"guestName" validate:"max=128"`
		Category    string `json:"category"`
		Description string `json:"description" validate:"required,max=2000"`
		Priority    string `json:"priority" validate:"omitempty,oneof=Low Medium High"`
		AssignedTo  *int64 `json:"assignedTo" validate:"omitempty,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Category != "" && !slices.Contains(guestrequest.Categories, req.Category) {
		h.errorResponse(w, r, "Invalid category")
		return
	}

	created, err := h.requests.Create(guestrequest.NewRequest{
		RoomNumber:  strings.TrimSpace(req.RoomNumber),
		GuestName:   strings.TrimSpace(req.GuestName),
		Category:    req.Category,
		Description: strings.TrimSpace(req.Description),
		Priority:    domain.RequestPriority(req.Priority),
		AssignedTo:  req.AssignedTo,
	}, myInfo.Name)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Guest request logged", created)
}

func (h *Handler) UpdateGuestRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	current := r.Context().Value(GuestRequestCtx).(*domain.GuestRequest)

	var req struct {
		Status     *string `json:"status"`
		Remarks    *string `json:"remarks" validate:"omitempty,max=2000"`
		AssignedTo *int64  `json:"assignedTo" validate:"omitempty,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Status == nil && req.Remarks == nil && req.AssignedTo == nil {
		h.errorResponse(w, r, "Nothing to update")
		return
	}

	// 先检查状态变更，被拒绝的请求不写入任何字段
	change := guestrequest.Change{}
	if req.Status != nil {
		to := domain.RequestStatus(*req.Status)
		if to != current.Status {
			if !guestrequest.CanTransition(current.Status, to) {
				h.errorResponse(w, r, fmt.Sprintf("Cannot change status from %s to %s", current.Status, to))
				return
			}
			change.Status = &to
		}
	}
	if req.Remarks != nil {
		change.Remarks = strings.TrimSpace(*req.Remarks)
	}
	if req.AssignedTo != nil {
		change.Assign = true
		change.AssignedTo = req.AssignedTo
	}

	updated, err := h.requests.Update(current, change, myInfo.Name)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Guest request updated", updated)
}
