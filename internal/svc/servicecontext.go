package svc

import (
	"errors"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/logx"
	gocache "github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/syncx"

	cachekeys "marketsnap/internal/cache"
	"marketsnap/internal/config"
	"marketsnap/internal/metrics"
	snapshotpersist "marketsnap/internal/persistence/snapshot"
	"marketsnap/pkg/artifact"
	"marketsnap/pkg/instruments"
	marketpkg "marketsnap/pkg/market"
	_ "marketsnap/pkg/market/providers/alpaca"
	_ "marketsnap/pkg/market/providers/yahoo"
)

type ServiceContext struct {
	Config config.Config

	Instruments []instruments.Instrument

	MarketConfig    *marketpkg.Config
	MarketProviders map[string]marketpkg.Provider
	DefaultMarket   marketpkg.Provider
	Fetcher         *marketpkg.Fetcher
	Builder         *marketpkg.Builder

	Artifact *artifact.Writer
	Metrics  *metrics.Collector

	DBConn      sqlx.SqlConn
	Cache       gocache.Cache
	Persistence marketpkg.Persistence
}

// NewServiceContext wires the refresh pipeline. A broken market config does
// not abort startup: the pipeline runs against an unavailable fetcher so
// every scheduled snapshot still lands, fully marked.
func NewServiceContext(c *config.Config) *ServiceContext {
	svc := &ServiceContext{
		Config:      *c,
		Instruments: instruments.Load(c.Snapshot.InstrumentsPath),
		Artifact:    artifact.NewWriter(c.Snapshot.ArtifactPath),
		Metrics:     metrics.NewCollector(cachekeys.Namespace),
	}

	svc.Fetcher = buildFetcher(c, svc)

	pairs := make([]marketpkg.Instrument, 0, len(svc.Instruments))
	for _, inst := range svc.Instruments {
		pairs = append(pairs, marketpkg.Instrument{Name: inst.Name, Symbol: inst.Symbol})
	}
	svc.Builder = marketpkg.NewBuilder(svc.Fetcher, pairs)

	if c.Postgres.DSN != "" {
		svc.DBConn = sqlx.NewSqlConn("pgx", c.Postgres.DSN)
	}
	if strings.TrimSpace(c.Redis.Host) != "" {
		rds, err := redis.NewRedis(c.Redis)
		if err != nil {
			logx.Errorf("redis unavailable, running without cache: %v", err)
		} else {
			svc.Cache = gocache.NewNode(rds, syncx.NewSingleFlight(), gocache.NewStat(cachekeys.Namespace), cachekeys.ErrCacheMiss)
		}
	}
	svc.Persistence = snapshotpersist.NewService(snapshotpersist.Config{
		SQLConn: svc.DBConn,
		Cache:   svc.Cache,
		TTL:     cachekeys.NewTTLSet(c.TTL),
	})

	return svc
}

func buildFetcher(c *config.Config, svc *ServiceContext) *marketpkg.Fetcher {
	marketCfg := c.Market.Value
	if marketCfg == nil {
		err := errors.New("market config section is missing")
		logx.Errorf("market provider setup failed: %v", err)
		return marketpkg.NewUnavailableFetcher(err)
	}

	providers, err := marketCfg.BuildProviders()
	if err != nil {
		logx.Errorf("market provider setup failed: %v", err)
		return marketpkg.NewUnavailableFetcher(err)
	}

	svc.MarketConfig = marketCfg
	svc.MarketProviders = providers
	if marketCfg.Default == "" {
		err := errors.New("no default market provider configured")
		logx.Errorf("market provider setup failed: %v", err)
		return marketpkg.NewUnavailableFetcher(err)
	}
	svc.DefaultMarket = providers[marketCfg.Default]

	return marketpkg.NewFetcher(svc.DefaultMarket, marketpkg.WithWindows(marketCfg.Windows))
}
