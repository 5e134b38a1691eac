package repository

import (
	"context"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

func (r *Repository) GetShiftAssignmentsBetween(from, to string) ([]domain.ShiftAssignment, error) {
	query := `
		SELECT id, date::text, shift_type, user_id
		FROM shift_assignments
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, shift_type, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]domain.ShiftAssignment, 0)
	for rows.Next() {
		var a domain.ShiftAssignment
		if err := rows.Scan(&a.ID, &a.Date, &a.ShiftType, &a.UserID); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) CreateShiftAssignment(a *domain.ShiftAssignment) error {
	query := `
		INSERT INTO shift_assignments (date, shift_type, user_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, a.Date, a.ShiftType, a.UserID).Scan(&a.ID)
}

func (r *Repository) DeleteShiftAssignment(id int64) error {
	query := `DELETE FROM shift_assignments WHERE id = $1 RETURNING id`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, id).Scan(&id)
}
