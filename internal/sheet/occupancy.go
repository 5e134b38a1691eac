package sheet

import (
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/checklist"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

var ErrNoValidRows = errors.New("no valid data found, expected columns: YYYY-MM-DD, Percentage, Notes")

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	leadingInt     = regexp.MustCompile(`^[+-]?\d+`)
)

// parseDate 接受 YYYY-MM-DD 或 Excel 的日期序列号
func parseDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if isoDatePattern.MatchString(value) {
		if _, err := time.Parse(time.DateOnly, value); err != nil {
			return "", false
		}
		return value, true
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= 20000 && serial <= 80000 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format(time.DateOnly), true
		}
	}

	return "", false
}

// parsePercentage 只取开头的整数部分，"85%" 和 "85.6" 都按 85 处理
func parsePercentage(value string) (int, bool) {
	digits := leadingInt.FindString(strings.TrimSpace(value))
	if digits == "" {
		return 0, false
	}
	p, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return checklist.ClampPercentage(p), true
}

// ParseOccupancyRows 把表格行转换为每日入住率。
// 第一列不是日期或第二列不是数字的行（包括表头）会被跳过，同一日期后出现的行覆盖先出现的。
func ParseOccupancyRows(rows [][]string) []domain.DailyOccupancy {
	records := make([]domain.DailyOccupancy, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		if len(row) < 2 {
			continue
		}

		date, ok := parseDate(row[0])
		if !ok {
			continue
		}
		percentage, ok := parsePercentage(row[1])
		if !ok {
			continue
		}

		notes := ""
		if len(row) > 2 {
			notes = strings.TrimSpace(strings.ReplaceAll(strings.Join(row[2:], ","), `"`, ""))
			notes = strings.TrimRight(notes, ",")
		}

		o := domain.DailyOccupancy{Date: date, Percentage: percentage, Notes: notes}
		if i, ok := index[date]; ok {
			records[i] = o
			continue
		}
		index[date] = len(records)
		records = append(records, o)
	}

	return records
}

// ImportOccupancy 读取上传的文件并解析入住率，没有任何有效行时返回 ErrNoValidRows
func ImportOccupancy(r io.Reader, filename string) ([]domain.DailyOccupancy, error) {
	rows, err := ReadRows(r, filename)
	if err != nil {
		return nil, err
	}

	records := ParseOccupancyRows(rows)
	if len(records) == 0 {
		return nil, ErrNoValidRows
	}

	return records, nil
}
