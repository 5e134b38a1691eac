package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/config"
	"github.com/nova-maldives/the-hub/backend/internal/repository"
	"github.com/spf13/cobra"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "time/tzdata"
)

// app 在第一次需要数据库时才读取配置并建立连接
type app struct {
	logger *slog.Logger
	cfg    *config.Config
	db     *sql.DB
	repo   *repository.Repository
}

func (a *app) repository(ctx context.Context) (*repository.Repository, error) {
	if a.repo != nil {
		return a.repo, nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	a.cfg = cfg
	a.db = db
	a.repo = repository.NewRepository(cfg, db)
	return a.repo, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "hubctl",
		Short:         "Maintenance commands for The HUB front office backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSeedCmd(a), newOccupancyCmd(a), newHistoryCmd(a))
	return root
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	a := &app{logger: logger}
	defer a.close()

	if err := newRootCmd(a).Execute(); err != nil {
		logger.Error("命令执行失败", "error", err)
		a.close()
		os.Exit(1)
	}
}
