package utils

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

func ValidateDate(date string) error {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return nil
}

// ValidateOccupancy 检查日期格式和重复日期
func ValidateOccupancy(records []domain.DailyOccupancy) error {
	if len(records) == 0 {
		return errors.New("no occupancy records provided")
	}

	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if err := ValidateDate(r.Date); err != nil {
			return err
		}
		if _, ok := seen[r.Date]; ok {
			return fmt.Errorf("duplicate date %s", r.Date)
		}
		seen[r.Date] = struct{}{}
	}

	return nil
}

// ValidateShiftAssignment 检查排班的日期和班次类型
func ValidateShiftAssignment(a *domain.ShiftAssignment, shiftTypes []string) error {
	if err := ValidateDate(a.Date); err != nil {
		return err
	}
	if !slices.Contains(shiftTypes, a.ShiftType) {
		return fmt.Errorf("unknown shift type %q", a.ShiftType)
	}
	return nil
}

// ParseWeek 解析 week 参数，为空时使用 now 所在的日期
func ParseWeek(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}
