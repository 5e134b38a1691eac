package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

// GetOccupancyBetween 返回 [from, to] 之间的入住率记录，按日期升序
func (r *Repository) GetOccupancyBetween(from, to string) ([]domain.DailyOccupancy, error) {
	query := `
		SELECT date::text, percentage, notes
		FROM occupancy
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.DailyOccupancy, 0)
	for rows.Next() {
		var o domain.DailyOccupancy
		if err := rows.Scan(&o.Date, &o.Percentage, &o.Notes); err != nil {
			return nil, err
		}
		records = append(records, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

const upsertOccupancyQuery = `
	INSERT INTO occupancy (date, percentage, notes)
	VALUES ($1, $2, $3)
	ON CONFLICT (date) DO UPDATE SET
		percentage = EXCLUDED.percentage,
		notes = EXCLUDED.notes
`

// 导入文件中没有备注的行保留已有备注
const importOccupancyQuery = `
	INSERT INTO occupancy (date, percentage, notes)
	VALUES ($1, $2, $3)
	ON CONFLICT (date) DO UPDATE SET
		percentage = EXCLUDED.percentage,
		notes = COALESCE(NULLIF(EXCLUDED.notes, ''), occupancy.notes)
`

// UpsertOccupancy 按日期写入入住率，后写入的覆盖先写入的
func (r *Repository) UpsertOccupancy(records []domain.DailyOccupancy) error {
	return r.writeOccupancy(upsertOccupancyQuery, records)
}

func (r *Repository) ImportOccupancy(records []domain.DailyOccupancy) error {
	return r.writeOccupancy(importOccupancyQuery, records)
}

func (r *Repository) writeOccupancy(query string, records []domain.DailyOccupancy) error {
	return r.inTx(func(ctx context.Context, tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, o := range records {
			if _, err := stmt.ExecContext(ctx, o.Date, o.Percentage, o.Notes); err != nil {
				return err
			}
		}
		return nil
	})
}
