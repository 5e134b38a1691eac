package checklist

import (
	"slices"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

// 入住率表中没有当天记录时班次使用的默认入住率
const DefaultOccupancy = 75

func cloneShift(shift *domain.ShiftData) *domain.ShiftData {
	next := *shift
	next.Tasks = slices.Clone(shift.Tasks)
	return &next
}

// ToggleTask 切换任务的完成状态，班次已提交或找不到任务时原样返回
func ToggleTask(shift *domain.ShiftData, taskID string) *domain.ShiftData {
	if shift.Status == domain.ShiftStatusSubmitted {
		return shift
	}

	idx := slices.IndexFunc(shift.Tasks, func(t domain.Task) bool { return t.ID == taskID })
	if idx < 0 {
		return shift
	}

	next := cloneShift(shift)
	next.Tasks[idx].IsCompleted = !next.Tasks[idx].IsCompleted
	return next
}

// UpdateNotes 无条件替换备注，是否允许编辑由调用方根据 Status 判断
func UpdateNotes(shift *domain.ShiftData, notes string) *domain.ShiftData {
	next := cloneShift(shift)
	next.Notes = notes
	return next
}

// ApplyReopen 在调用者当前的班次正是被重开的班次时把它切换回草稿
func ApplyReopen(shift *domain.ShiftData, date, shiftType string) *domain.ShiftData {
	if shift == nil || shift.Date != date || shift.Type != shiftType {
		return shift
	}
	next := cloneShift(shift)
	next.Status = domain.ShiftStatusDraft
	return next
}

func occupancyFor(date string, records []domain.DailyOccupancy) int {
	for _, r := range records {
		if r.Date == date {
			return r.Percentage
		}
	}
	return DefaultOccupancy
}
