package db

import (
	"context"
	"fmt"
	"presale/internal/config"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// CreatePoolAndPing opens the pool backing the presale state store. Buys and
// owner operations hold one connection each for the length of their
// transaction, so MaxConns bounds concurrent settlements.
func CreatePoolAndPing(ctx context.Context, cfg config.DbServer) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("invalid db config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s:%s: %w", cfg.Host, cfg.Port, err)
	}
	logrus.WithFields(logrus.Fields{
		"host":      cfg.Host,
		"db":        cfg.Name,
		"max_conns": poolCfg.MaxConns,
	}).Info("✅ Connected to DB")
	return pool, nil
}
