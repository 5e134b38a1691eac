package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

// GetSettings 读取全局设置，还没有保存过时返回默认值
func (r *Repository) GetSettings() (*domain.Settings, error) {
	query := `SELECT app_name, logo_url, support_message FROM settings WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	s := &domain.Settings{}
	if err := r.dbpool.QueryRowContext(ctx, query, domain.SettingsID).Scan(&s.AppName, &s.LogoURL, &s.SupportMessage); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultSettings(), nil
		}
		return nil, err
	}

	return s, nil
}

func (r *Repository) SaveSettings(s *domain.Settings) error {
	query := `
		INSERT INTO settings (id, app_name, logo_url, support_message)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			app_name = EXCLUDED.app_name,
			logo_url = EXCLUDED.logo_url,
			support_message = EXCLUDED.support_message
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, domain.SettingsID, s.AppName, s.LogoURL, s.SupportMessage)
	return err
}
