// Package snapshotpersist mirrors the latest snapshot into Postgres and
// Redis for consumers that do not read the JSON artifact. Only the newest
// snapshot is kept; both tables are replaced wholesale on every run.
package snapshotpersist

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/zeromicro/go-zero/core/logx"
	gocache "github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	cachekeys "marketsnap/internal/cache"
	"marketsnap/pkg/market"
)

// Service implements snapshot persistence and caching hooks.
type Service struct {
	sqlConn sqlx.SqlConn
	cache   gocache.Cache
	ttl     cachekeys.TTLSet
}

// Config enumerates dependencies required to persist snapshots.
type Config struct {
	SQLConn sqlx.SqlConn
	Cache   gocache.Cache
	TTL     cachekeys.TTLSet
}

// NewService wires a snapshot persistence service. Returns nil when the
// database connection is missing so callers can treat the mirror as optional.
func NewService(cfg Config) market.Persistence {
	if cfg.SQLConn == nil {
		return nil
	}
	return &Service{
		sqlConn: cfg.SQLConn,
		cache:   cfg.Cache,
		ttl:     cfg.TTL,
	}
}

// RecordSnapshot replaces the mirrored snapshot in Postgres, then refreshes
// the Redis copies. Cache failures are logged and never fail the mirror.
func (s *Service) RecordSnapshot(ctx context.Context, snapshot *market.Snapshot) error {
	if s == nil || s.sqlConn == nil || snapshot == nil {
		return nil
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	snapshotStmt := `
INSERT INTO public.market_snapshot_latest (id, updated_at, payload)
VALUES (1, $1, $2)
ON CONFLICT (id) DO UPDATE SET
    updated_at = EXCLUDED.updated_at,
    payload = EXCLUDED.payload;`
	entryStmt := `
INSERT INTO public.market_entry_latest (
    position, name, symbol, price, change_1d_pct, change_5d_pct, change_20d_pct, error, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	err = s.sqlConn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		if _, err := session.ExecCtx(ctx, snapshotStmt, snapshot.UpdatedAt, string(payload)); err != nil {
			return err
		}
		if _, err := session.ExecCtx(ctx, `DELETE FROM public.market_entry_latest;`); err != nil {
			return err
		}
		for i, entry := range snapshot.Items {
			if _, err := session.ExecCtx(ctx, entryStmt,
				i,
				entry.Name,
				entry.Symbol,
				nullFloat(entry.Price),
				nullFloat(entry.Change1D),
				nullFloat(entry.Change5D),
				nullFloat(entry.Change20D),
				entry.Error,
				snapshot.UpdatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cacheSnapshot(ctx, snapshot)
	s.cacheEntries(ctx, snapshot)
	return nil
}

func (s *Service) cacheSnapshot(ctx context.Context, snapshot *market.Snapshot) {
	if s.cache == nil {
		return
	}
	ttl := cachekeys.SnapshotTTL(s.ttl)
	if ttl <= 0 {
		return
	}
	key := cachekeys.SnapshotLatestKey()
	if err := s.cache.SetWithExpireCtx(ctx, key, snapshot, ttl); err != nil {
		logx.WithContext(ctx).Errorf("snapshotpersist: cache snapshot key=%s err=%v", key, err)
	}
}

func (s *Service) cacheEntries(ctx context.Context, snapshot *market.Snapshot) {
	if s.cache == nil {
		return
	}
	ttl := cachekeys.EntryTTL(s.ttl)
	if ttl <= 0 {
		return
	}
	for _, entry := range snapshot.Items {
		key := cachekeys.EntryLatestKey(entry.Symbol)
		if err := s.cache.SetWithExpireCtx(ctx, key, entry, ttl); err != nil {
			logx.WithContext(ctx).Errorf("snapshotpersist: cache entry key=%s err=%v", key, err)
		}
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
