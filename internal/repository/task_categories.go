package repository

import (
	"context"
	"time"
)

// 表为空时使用的默认任务类别
var DefaultTaskCategories = []string{"Arrivals", "Departures", "Operations", "Cashiering", "Concierge"}

// GetTaskCategories 按名称排序返回所有类别，表为空时返回默认类别
func (r *Repository) GetTaskCategories() ([]string, error) {
	query := `SELECT name FROM task_categories ORDER BY name`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		categories = append(categories, name)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(categories) == 0 {
		return append([]string(nil), DefaultTaskCategories...), nil
	}

	return categories, nil
}

func (r *Repository) CreateTaskCategory(name string) error {
	query := `INSERT INTO task_categories (name) VALUES ($1)`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, name)
	return err
}

// EnsureTaskCategories 插入缺失的类别，已存在的类别不受影响
func (r *Repository) EnsureTaskCategories(names []string) error {
	query := `INSERT INTO task_categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	for _, name := range names {
		if _, err := r.dbpool.ExecContext(ctx, query, name); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) DeleteTaskCategory(name string) error {
	query := `DELETE FROM task_categories WHERE name = $1 RETURNING name`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, name).Scan(&name)
}
