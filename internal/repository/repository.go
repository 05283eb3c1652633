package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Pro-fish0/my-shift/backend/internal/config"
	"github.com/Pro-fish0/my-shift/backend/internal/scheduling"
)

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

// RunInTx 实现 scheduling.Store。
// 预约引擎的整个检查加写入序列都在这一个事务里执行，
// fn 返回错误时全部回滚，不会留下部分写入
func (r *Repository) RunInTx(ctx context.Context, fn func(tx scheduling.TxStore) error) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}

	return tx.Commit()
}
