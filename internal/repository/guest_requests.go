package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

const guestRequestColumns = `id, room_number, guest_name, category, description, status, priority, created_at, updated_at, assigned_to, logged_by, COALESCE(remarks, ''), COALESCE(updated_by, '')`

func scanGuestRequest(scan func(dest ...any) error) (*domain.GuestRequest, error) {
	req := &domain.GuestRequest{}
	var assignedTo sql.NullInt64
	dst := []any{&req.ID, &req.RoomNumber, &req.GuestName, &req.Category, &req.Description, &req.Status, &req.Priority, &req.CreatedAt, &req.UpdatedAt, &assignedTo, &req.LoggedBy, &req.Remarks, &req.UpdatedBy}
	if err := scan(dst...); err != nil {
		return nil, err
	}
	if assignedTo.Valid {
		req.AssignedTo = &assignedTo.Int64
	}
	return req, nil
}

func (r *Repository) GetGuestRequestByID(id int64) (*domain.GuestRequest, error) {
	query := `SELECT ` + guestRequestColumns + ` FROM guest_requests WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanGuestRequest(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

// GetGuestRequests 按创建时间倒序返回请求，status 为空时返回全部
func (r *Repository) GetGuestRequests(status string) ([]*domain.GuestRequest, error) {
	query := `
		SELECT ` + guestRequestColumns + `
		FROM guest_requests
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]*domain.GuestRequest, 0)
	for rows.Next() {
		req, err := scanGuestRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reqs, nil
}

func (r *Repository) CreateGuestRequest(req *domain.GuestRequest) error {
	query := `
		INSERT INTO guest_requests (room_number, guest_name, category, description, status, priority, created_at, updated_at, assigned_to, logged_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{req.RoomNumber, req.GuestName, req.Category, req.Description, req.Status, req.Priority, req.CreatedAt, req.UpdatedAt, req.AssignedTo, req.LoggedBy}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&req.ID)
}

// UpdateGuestRequest 不做版本检查，并发修改时后写入的覆盖先写入的
func (r *Repository) UpdateGuestRequest(req *domain.GuestRequest) error {
	query := `
		UPDATE guest_requests
		SET
			status = $1,
			remarks = NULLIF($2, ''),
			updated_by = NULLIF($3, ''),
			updated_at = $4,
			assigned_to = $5
		WHERE id = $6
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{req.Status, req.Remarks, req.UpdatedBy, req.UpdatedAt, req.AssignedTo, req.ID}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&req.ID)
}
