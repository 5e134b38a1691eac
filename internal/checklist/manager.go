package checklist

import (
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

// ShiftStore 是 completed_shifts 表的最小读写接口
type ShiftStore interface {
	GetShiftRecord(date, shiftType string) (*domain.ShiftRecord, error)
	UpsertShiftRecord(record *domain.ShiftRecord) error
	// ReopenShiftRecord 把已提交的记录改回草稿，没有已提交记录时返回 sql.ErrNoRows
	ReopenShiftRecord(date, shiftType string) error
	GetSubmittedShiftTypes(date string) ([]string, error)
}

type Manager struct {
	store ShiftStore
	now   func() time.Time
}

func NewManager(store ShiftStore, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		store: store,
		now:   now,
	}
}

func (m *Manager) OperationalDate() string {
	return OperationalDate(m.now())
}

// LoadOrInit 根据模板生成当前营业日的班次，如果已有保存的记录则合并进来。
// 读取记录失败时只记录日志，退化为新生成的班次。
func (m *Manager) LoadOrInit(shiftType string, user *domain.User, templates []domain.TaskTemplate, occupancy []domain.DailyOccupancy) *domain.ShiftData {
	now := m.now()
	date := OperationalDate(now)
	if shiftType == "" {
		shiftType = MorningShift.Label()
	}

	shift := &domain.ShiftData{
		ID:        "s-" + uuid.NewString(),
		Type:      shiftType,
		Date:      date,
		Tasks:     ExpandTemplates(shiftType, templates, now),
		Status:    domain.ShiftStatusDraft,
		AgentName: user.Name,
		Occupancy: occupancyFor(date, occupancy),
	}

	record, err := m.store.GetShiftRecord(date, shiftType)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("读取班次记录失败，使用新生成的班次", "date", date, "shiftType", shiftType, "error", &ReadError{Op: "get shift record", Err: err})
		}
		return shift
	}

	// 保存的任务列表为空时保留模板生成的任务
	if len(record.Tasks) > 0 {
		shift.Tasks = record.Tasks
	}
	shift.Notes = record.Notes
	if record.AgentName != "" {
		shift.AgentName = record.AgentName
	}
	if record.Status == domain.ShiftStatusSubmitted {
		shift.Status = domain.ShiftStatusSubmitted
	} else {
		shift.Status = domain.ShiftStatusDraft
	}
	if record.Date != "" {
		shift.Date = record.Date
	}

	return shift
}

func (m *Manager) snapshot(shift *domain.ShiftData, user *domain.User, status domain.ShiftStatus) *domain.ShiftRecord {
	return &domain.ShiftRecord{
		Date:        shift.Date,
		ShiftType:   shift.Type,
		AgentName:   user.Name,
		Tasks:       shift.Tasks,
		Notes:       shift.Notes,
		Status:      status,
		SubmittedAt: m.now(),
	}
}

// SaveDraft 保存当前进度，状态保持草稿
func (m *Manager) SaveDraft(shift *domain.ShiftData, user *domain.User) (*domain.ShiftData, error) {
	if shift.Status != domain.ShiftStatusDraft {
		return nil, ErrShiftSubmitted
	}

	if err := m.store.UpsertShiftRecord(m.snapshot(shift, user, domain.ShiftStatusDraft)); err != nil {
		return nil, &WriteError{Op: "save draft", Err: err}
	}

	return cloneShift(shift), nil
}

// Submit 提交班次，只有写入成功后才修改内存中的状态
func (m *Manager) Submit(shift *domain.ShiftData, user *domain.User) (*domain.ShiftData, error) {
	if shift.Status != domain.ShiftStatusDraft {
		return nil, ErrShiftSubmitted
	}

	if err := m.store.UpsertShiftRecord(m.snapshot(shift, user, domain.ShiftStatusSubmitted)); err != nil {
		return nil, &WriteError{Op: "submit shift", Err: err}
	}

	next := cloneShift(shift)
	next.Status = domain.ShiftStatusSubmitted
	return next, nil
}

// Reopen 把已提交的班次改回草稿，权限检查先于任何存储操作
func (m *Manager) Reopen(user *domain.User, date, shiftType string) error {
	if user == nil || !user.Role.IsManager() {
		return ErrNotManager
	}

	if err := m.store.ReopenShiftRecord(date, shiftType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShiftNotSubmitted
		}
		return &WriteError{Op: "reopen shift", Err: err}
	}

	return nil
}

// SubmittedShiftTypes 返回营业日内已经提交的班次，读取失败时返回空列表
func (m *Manager) SubmittedShiftTypes(date string) []string {
	types, err := m.store.GetSubmittedShiftTypes(date)
	if err != nil {
		slog.Warn("读取已提交班次失败", "date", date, "error", &ReadError{Op: "get submitted shift types", Err: err})
		return []string{}
	}
	return types
}
