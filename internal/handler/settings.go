package handler

import (
	"net/http"
	"strings"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repository.GetSettings()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Settings loaded", settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AppName        string `json:"appName" validate:"required,max=128"`
		LogoURL        string `json:"logoUrl" validate:"omitempty,url"`
		SupportMessage string `json:"supportMessage" validate:"max=512"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	settings := &domain.Settings{
		AppName:        strings.TrimSpace(req.AppName),
		LogoURL:        strings.TrimSpace(req.LogoURL),
		SupportMessage: strings.TrimSpace(req.SupportMessage),
	}

	if err := h.repository.SaveSettings(settings); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Settings saved", settings)
}
