package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

func (r *Repository) GetAllTaskTemplates() ([]domain.TaskTemplate, error) {
	query := `SELECT id, label, category, shift_type FROM task_templates ORDER BY id`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]domain.TaskTemplate, 0)
	for rows.Next() {
		var t domain.TaskTemplate
		if err := rows.Scan(&t.ID, &t.Label, &t.Category, &t.ShiftType); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) CreateTaskTemplate(t *domain.TaskTemplate) error {
	query := `
		INSERT INTO task_templates (label, category, shift_type)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, t.Label, t.Category, t.ShiftType).Scan(&t.ID)
}

// DeleteTaskTemplate 删除模板，模板不存在时返回 sql.ErrNoRows
func (r *Repository) DeleteTaskTemplate(id int64) error {
	query := `DELETE FROM task_templates WHERE id = $1 RETURNING id`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, id).Scan(&id)
}

// ReplaceTaskTemplates 在一个事务中清空并重新写入整个模板目录
func (r *Repository) ReplaceTaskTemplates(templates []domain.TaskTemplate) error {
	return r.inTx(func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_templates`); err != nil {
			return err
		}

		for _, t := range templates {
			if _, err := tx.ExecContext(ctx, `INSERT INTO task_templates (label, category, shift_type) VALUES ($1, $2, $3)`, t.Label, t.Category, t.ShiftType); err != nil {
				return err
			}
		}
		return nil
	})
}
