package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/config"
)

// Repository 是 HUB 所有表的存储层，每个方法自己控制超时
type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// inTx 在 TransactionTimeout 内执行 fn，fn 返回错误时整个事务回滚
func (r *Repository) inTx(fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}
