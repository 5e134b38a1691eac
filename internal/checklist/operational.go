package checklist

import (
	"fmt"
	"time"
)

// 早上 8 点之前仍然算作前一天的营业日
const rolloverHour = 8

// OperationalDate 返回 now 所在的营业日（YYYY-MM-DD），每次调用都重新计算
func OperationalDate(now time.Time) string {
	if now.Hour() < rolloverHour {
		now = now.AddDate(0, 0, -1)
	}
	return now.Format(time.DateOnly)
}

type ShiftDefinition struct {
	Name  string
	Range string
}

func (d ShiftDefinition) Label() string {
	return fmt.Sprintf("%s Shift (%s)", d.Name, d.Range)
}

var (
	MorningShift   = ShiftDefinition{Name: "Morning", Range: "07:00 - 16:00"}
	AfternoonShift = ShiftDefinition{Name: "Afternoon", Range: "14:00 - 23:00"}
	NightShift     = ShiftDefinition{Name: "Night", Range: "23:00 - 07:00"}
)

var shiftDefinitions = []ShiftDefinition{MorningShift, AfternoonShift, NightShift}

// ShiftTypes 返回所有班次的完整显示名称
func ShiftTypes() []string {
	labels := make([]string, 0, len(shiftDefinitions))
	for _, d := range shiftDefinitions {
		labels = append(labels, d.Label())
	}
	return labels
}

// DefaultShiftType 根据当前小时选择默认班次
func DefaultShiftType(now time.Time) string {
	hour := now.Hour()
	switch {
	case hour >= 23 || hour < rolloverHour:
		return NightShift.Label()
	case hour >= 14:
		return AfternoonShift.Label()
	default:
		return MorningShift.Label()
	}
}
