package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/nova-maldives/the-hub/backend/internal/checklist"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/nova-maldives/the-hub/backend/internal/session"
	"github.com/nova-maldives/the-hub/backend/internal/sheet"
	"github.com/nova-maldives/the-hub/backend/internal/utils"
)

type shiftView struct {
	*domain.ShiftData
	CompletionPercent int      `json:"completionPercent"`
	Progress          string   `json:"progress"`
	SubmittedToday    []string `json:"submittedToday"`
}

func (h *Handler) newShiftView(shift *domain.ShiftData) shiftView {
	return shiftView{
		ShiftData:         shift,
		CompletionPercent: checklist.CompletionPercent(shift.Tasks),
		Progress:          checklist.ProgressStatus(shift.Tasks),
		SubmittedToday:    h.shifts.SubmittedShiftTypes(h.shifts.OperationalDate()),
	}
}

// initShift 读取模板和当天的入住率后生成班次，读取失败时降级为空列表
func (h *Handler) initShift(user *domain.User, shiftType string) *domain.ShiftData {
	templates, err := h.repository.GetAllTaskTemplates()
	if err != nil {
		slog.Warn("读取任务模板失败", "error", &checklist.ReadError{Op: "get task templates", Err: err})
	}

	date := h.shifts.OperationalDate()
	occupancy, err := h.repository.GetOccupancyBetween(date, date)
	if err != nil {
		slog.Warn("读取入住率失败", "date", date, "error", &checklist.ReadError{Op: "get occupancy", Err: err})
	}

	return h.shifts.LoadOrInit(shiftType, user, templates, occupancy)
}

// activeShift 返回会话中的班次，会话中没有班次时按当前时间生成并立即保存，
// 这样后续请求看到的任务 ID 保持一致
func (h *Handler) activeShift(r *http.Request) (*session.Session, *domain.ShiftData) {
	sess := r.Context().Value(SessionCtx).(*session.Session)
	if sess.Shift == nil {
		shift := h.initShift(sess.User, checklist.DefaultShiftType(h.now()))
		if err := h.saveSession(r, sess, shift); err != nil {
			slog.Warn("无法保存会话", "userID", sess.User.ID, "error", err)
		}
	}
	return sess, sess.Shift
}

func (h *Handler) saveSession(r *http.Request, sess *session.Session, shift *domain.ShiftData) error {
	sess.Shift = shift
	return h.sessions.Save(r.Context(), sess)
}

func (h *Handler) GetCurrentShift(w http.ResponseWriter, r *http.Request) {
	sess := r.Context().Value(SessionCtx).(*session.Session)
	shiftType := r.URL.Query().Get("type")

	var shift *domain.ShiftData
	switch {
	case shiftType != "":
		if !slices.Contains(checklist.ShiftTypes(), shiftType) {
			h.errorResponse(w, r, "Unknown shift type")
			return
		}
		shift = h.initShift(sess.User, shiftType)
	case sess.Shift != nil && sess.Shift.Date == h.shifts.OperationalDate():
		shift = sess.Shift
		// 已提交的班次可能已被经理重开，重新读取存储中的记录
		if shift.Status == domain.ShiftStatusSubmitted {
			shift = h.initShift(sess.User, shift.Type)
		}
	default:
		// 跨过营业日后重新按时间选择班次
		shift = h.initShift(sess.User, checklist.DefaultShiftType(h.now()))
	}

	if err := h.saveSession(r, sess, shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Shift loaded", h.newShiftView(shift))
}

func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	sess, shift := h.activeShift(r)
	if shift.Status == domain.ShiftStatusSubmitted {
		h.errorResponse(w, r, "Shift has already been submitted")
		return
	}

	taskID := chi.URLParam(r, "taskID")
	if !slices.ContainsFunc(shift.Tasks, func(t domain.Task) bool { return t.ID == taskID }) {
		h.errorResponse(w, r, "Task not found")
		return
	}

	next := checklist.ToggleTask(shift, taskID)
	if err := h.saveSession(r, sess, next); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Task updated", h.newShiftView(next))
}

func (h *Handler) UpdateShiftNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes" validate:"max=10000"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	sess, shift := h.activeShift(r)
	if shift.Status == domain.ShiftStatusSubmitted {
		h.errorResponse(w, r, "Shift has already been submitted")
		return
	}

	next := checklist.UpdateNotes(shift, req.Notes)
	if err := h.saveSession(r, sess, next); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Notes updated", h.newShiftView(next))
}

// shiftWriteError 处理保存和提交班次时的错误
func (h *Handler) shiftWriteError(w http.ResponseWriter, r *http.Request, err error) {
	var writeErr *checklist.WriteError
	switch {
	case errors.Is(err, checklist.ErrShiftSubmitted):
		h.errorResponse(w, r, "Shift has already been submitted")
	case errors.As(err, &writeErr):
		h.logInternalServerError(r, err)
		h.errorResponse(w, r, "Error saving: "+writeErr.Err.Error())
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) SaveShiftDraft(w http.ResponseWriter, r *http.Request) {
	sess, shift := h.activeShift(r)

	next, err := h.shifts.SaveDraft(shift, sess.User)
	if err != nil {
		h.shiftWriteError(w, r, err)
		return
	}

	if err := h.saveSession(r, sess, next); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Progress saved", h.newShiftView(next))
}

func (h *Handler) SubmitShift(w http.ResponseWriter, r *http.Request) {
	sess, shift := h.activeShift(r)

	next, err := h.shifts.Submit(shift, sess.User)
	if err != nil {
		h.shiftWriteError(w, r, err)
		return
	}

	if err := h.saveSession(r, sess, next); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notifyManagers(next, sess.User)

	h.successResponse(w, r, "Shift submitted", h.newShiftView(next))
}

// notifyManagers 给有邮箱的经理发送交班通知，失败只记录日志
func (h *Handler) notifyManagers(shift *domain.ShiftData, agent *domain.User) {
	managers, err := h.repository.GetManagersWithEmail()
	if err != nil {
		slog.Warn("读取经理列表失败，跳过交班通知", "error", err)
		return
	}

	for _, m := range managers {
		if err := h.mailer.Publish(domain.MailMessage{
			Type: domain.MailTypeShiftSubmitted,
			To:   m.Email,
			Data: domain.ShiftSubmittedMailData{
				ManagerName:    m.Name,
				AgentName:      agent.Name,
				Date:           sheet.ResortDate(shift.Date),
				ShiftType:      shift.Type,
				CompletedTasks: checklist.CompletedCount(shift.Tasks),
				TotalTasks:     len(shift.Tasks),
				Notes:          shift.Notes,
			},
		}); err != nil {
			slog.Warn("无法发送交班通知", "to", m.Email, "error", err)
		}
	}
}

func (h *Handler) ReopenShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date      string `json:"date" validate:"required"`
		ShiftType string `json:"shiftType" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateDate(req.Date); err != nil {
		h.badRequest(w, r, err)
		return
	}

	sess := r.Context().Value(SessionCtx).(*session.Session)

	if err := h.shifts.Reopen(sess.User, req.Date, req.ShiftType); err != nil {
		switch {
		case errors.Is(err, checklist.ErrNotManager):
			h.errorResponse(w, r, "Unauthorized. Manager access required.")
		case errors.Is(err, checklist.ErrShiftNotSubmitted):
			h.errorResponse(w, r, "Shift is not submitted")
		default:
			h.logInternalServerError(r, err)
			h.errorResponse(w, r, "Failed to reopen shift.")
		}
		return
	}

	// 只同步当前经理自己的会话，其他人的会话在下次加载班次时更新
	if sess.Shift != nil {
		if err := h.saveSession(r, sess, checklist.ApplyReopen(sess.Shift, req.Date, req.ShiftType)); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, fmt.Sprintf("Unlocked %s on %s", req.ShiftType, req.Date), nil)
}

type historyEntry struct {
	*domain.ShiftRecord
	CompletedTasks    int `json:"completedTasks"`
	TotalTasks        int `json:"totalTasks"`
	CompletionPercent int `json:"completionPercent"`
}

func (h *Handler) GetShiftHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.repository.GetShiftHistory(r.URL.Query().Get("search"), r.URL.Query().Get("shift"))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	entries := make([]historyEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, historyEntry{
			ShiftRecord:       record,
			CompletedTasks:    checklist.CompletedCount(record.Tasks),
			TotalTasks:        len(record.Tasks),
			CompletionPercent: checklist.CompletionPercent(record.Tasks),
		})
	}

	h.successResponse(w, r, "Shift history loaded", entries)
}

func (h *Handler) ExportShiftHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.repository.GetShiftHistory(r.URL.Query().Get("search"), r.URL.Query().Get("shift"))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	data, err := sheet.ExportShiftHistory(records, h.now().Location())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	filename := fmt.Sprintf("shift-history-%s.xlsx", h.shifts.OperationalDate())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Warn("写入导出文件失败", "error", err)
	}
}

func (h *Handler) GetHandoverSummary(w http.ResponseWriter, r *http.Request) {
	_, shift := h.activeShift(r)

	summary := h.assistant.HandoverSummary(r.Context(), shift)

	h.successResponse(w, r, "Handover summary generated", map[string]string{"summary": summary})
}
