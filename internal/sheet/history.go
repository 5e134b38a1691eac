package sheet

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/checklist"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	auditSheet = "Audit Log"
	tasksSheet = "Tasks"
)

var (
	auditHeader = []string{"Date", "Shift", "Agent", "Status", "Completion", "Submitted At", "Handover Notes"}
	tasksHeader = []string{"Date", "Shift", "Category", "Task", "Completed"}
)

// ResortDate 把 YYYY-MM-DD 格式化为 02-Jan-2006，无法解析时原样返回
func ResortDate(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("02-Jan-2006")
}

func shortShiftName(shiftType string) string {
	if fields := strings.Fields(shiftType); len(fields) > 0 {
		return fields[0]
	}
	return "Unknown"
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	values := make([]any, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// ExportShiftHistory 生成班次审计日志工作簿，第一个工作表是汇总，第二个工作表是任务明细
func ExportShiftHistory(records []*domain.ShiftRecord, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(auditSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(tasksSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#008B8B"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, auditSheet, auditHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := writeHeader(f, tasksSheet, tasksHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	taskRow := 2
	for i, r := range records {
		agent := r.AgentName
		if agent == "" {
			agent = "System"
		}
		notes := r.Notes
		if notes == "" {
			notes = "No notes"
		}
		submittedAt := ""
		if !r.SubmittedAt.IsZero() {
			at := r.SubmittedAt.In(loc)
			submittedAt = ResortDate(at.Format(time.DateOnly)) + ", " + at.Format("03:04 PM")
		}

		values := []any{
			ResortDate(r.Date),
			shortShiftName(r.ShiftType),
			agent,
			strings.ToUpper(string(r.Status)),
			fmt.Sprintf("%d / %d", checklist.CompletedCount(r.Tasks), len(r.Tasks)),
			submittedAt,
			notes,
		}
		if err := writeRow(f, auditSheet, i+2, values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}

		for _, t := range r.Tasks {
			completed := "No"
			if t.IsCompleted {
				completed = "Yes"
			}
			if err := writeRow(f, tasksSheet, taskRow, []any{ResortDate(r.Date), shortShiftName(r.ShiftType), t.Category, t.Label, completed}); err != nil {
				return nil, fmt.Errorf("failed to write task row %d: %w", taskRow, err)
			}
			taskRow++
		}
	}

	widths := map[string]float64{"A": 14, "B": 12, "C": 22, "D": 12, "E": 12, "F": 22, "G": 60}
	for col, width := range widths {
		if err := f.SetColWidth(auditSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if err := f.SetColWidth(tasksSheet, "D", "D", 48); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
