package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

// encodeTasks 把任务列表序列化为 tasks_json 列的内容
func encodeTasks(tasks []domain.Task) (string, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeTasks 解析 tasks_json，内容为空或格式错误时返回空列表
func decodeTasks(raw string) []domain.Task {
	tasks := make([]domain.Task, 0)
	if raw == "" {
		return tasks
	}
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		slog.Warn("无法解析 tasks_json，按空列表处理", "error", err)
		return make([]domain.Task, 0)
	}
	return tasks
}

const shiftRecordColumns = `id, date::text, shift_type, agent_name, tasks_json, notes, status, submitted_at`

func scanShiftRecord(scan func(dest ...any) error) (*domain.ShiftRecord, error) {
	record := &domain.ShiftRecord{}
	var tasksJSON string
	dst := []any{&record.ID, &record.Date, &record.ShiftType, &record.AgentName, &tasksJSON, &record.Notes, &record.Status, &record.SubmittedAt}
	if err := scan(dst...); err != nil {
		return nil, err
	}
	record.Tasks = decodeTasks(tasksJSON)
	return record, nil
}

func (r *Repository) GetShiftRecord(date, shiftType string) (*domain.ShiftRecord, error) {
	query := `SELECT ` + shiftRecordColumns + ` FROM completed_shifts WHERE date = $1 AND shift_type = $2`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanShiftRecord(r.dbpool.QueryRowContext(ctx, query, date, shiftType).Scan)
}

// UpsertShiftRecord 以 (date, shift_type) 为键写入班次快照。
// 没有版本号，多个会话同时保存同一班次时后写入的覆盖先写入的。
func (r *Repository) UpsertShiftRecord(record *domain.ShiftRecord) error {
	query := `
		INSERT INTO completed_shifts (date, shift_type, agent_name, tasks_json, notes, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (date, shift_type) DO UPDATE SET
			agent_name = EXCLUDED.agent_name,
			tasks_json = EXCLUDED.tasks_json,
			notes = EXCLUDED.notes,
			status = EXCLUDED.status,
			submitted_at = EXCLUDED.submitted_at
		RETURNING id
	`

	tasksJSON, err := encodeTasks(record.Tasks)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{record.Date, record.ShiftType, record.AgentName, tasksJSON, record.Notes, record.Status, record.SubmittedAt}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&record.ID)
}

// ReopenShiftRecord 把已提交的班次改回草稿，没有对应的已提交记录时返回 sql.ErrNoRows
func (r *Repository) ReopenShiftRecord(date, shiftType string) error {
	query := `
		UPDATE completed_shifts
		SET status = 'draft'
		WHERE date = $1 AND shift_type = $2 AND status = 'submitted'
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var id int64
	return r.dbpool.QueryRowContext(ctx, query, date, shiftType).Scan(&id)
}

func (r *Repository) GetSubmittedShiftTypes(date string) ([]string, error) {
	query := `SELECT shift_type FROM completed_shifts WHERE date = $1 AND status = 'submitted' ORDER BY shift_type`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return types, nil
}

// GetShiftHistory 返回班次历史，最新的在前。
// search 匹配值班人（不区分大小写）或日期，shift 按子串匹配班次名称，为空时不过滤。
func (r *Repository) GetShiftHistory(search, shift string) ([]*domain.ShiftRecord, error) {
	query := `
		SELECT ` + shiftRecordColumns + `
		FROM completed_shifts
		WHERE ($1::text = '' OR strpos(lower(agent_name), lower($1::text)) > 0 OR strpos(date::text, $1::text) > 0)
		  AND ($2::text = '' OR strpos(shift_type, $2::text) > 0)
		ORDER BY date DESC, submitted_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, search, shift)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.ShiftRecord, 0)
	for rows.Next() {
		record, err := scanShiftRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
