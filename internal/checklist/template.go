package checklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

// MatchesShiftType 判断模板的 shiftType 是否适用于给定班次。
// 同时兼容简称（Morning）和完整名称（Morning Shift (07:00 - 16:00)），
// 最后一条规则是子串包含，因此模板 shiftType 为空时匹配所有班次。
func MatchesShiftType(shiftType, templateShiftType string) bool {
	target := strings.ToUpper(templateShiftType)
	full := strings.ToUpper(shiftType)

	base := ""
	if fields := strings.Fields(shiftType); len(fields) > 0 {
		base = strings.ToUpper(fields[0])
	}

	return target == domain.ShiftTypeAll ||
		target == base ||
		target == full ||
		strings.Contains(full, target)
}

// ExpandTemplates 按模板顺序生成新的任务列表，没有匹配的模板时返回空列表
func ExpandTemplates(shiftType string, templates []domain.TaskTemplate, now time.Time) []domain.Task {
	tasks := make([]domain.Task, 0, len(templates))
	for _, t := range templates {
		if !MatchesShiftType(shiftType, t.ShiftType) {
			continue
		}
		tasks = append(tasks, domain.Task{
			ID:          fmt.Sprintf("t-%d-%d", now.UnixMilli(), t.ID),
			Label:       t.Label,
			Category:    t.Category,
			IsCompleted: false,
		})
	}
	return tasks
}
