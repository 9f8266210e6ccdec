package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"marketsnap/internal/cli"
	"marketsnap/internal/config"
	"marketsnap/internal/pipeline"
	"marketsnap/internal/svc"
)

const (
	shutdownTimeout   = 10 * time.Second // Grace period for shutdown
	readHeaderTimeout = 5 * time.Second
)

var configFile = flag.String("f", "etc/marketsnap.yaml", "the config file")

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting snapshot daemon...")

	flag.Parse()

	c, err := config.Load(*configFile)
	if err != nil {
		log.Printf("[main] Warning: failed to load app config: %v", err)
		log.Printf("[main] Using default configuration")
		c = &config.Config{Env: "test"}
		if verr := c.Validate(); verr != nil {
			log.Fatalf("[main] Invalid default configuration: %v", verr)
		}
	}
	c.MustSetUp()
	logx.DisableStat()

	// Log configuration information
	log.Printf("[main] Configuration loaded:")
	for _, line := range cli.ConfigSummaryLines(c) {
		log.Printf("  - %s", line)
	}

	if c.Market.Value == nil {
		log.Printf("[main] No market section configured, falling back to etc/market.yaml")
		c.Market.Value = config.MustLoadMarket()
	}

	svcCtx := svc.NewServiceContext(c)
	runner := pipeline.NewRunner(pipeline.Config{
		Builder:     svcCtx.Builder,
		Artifact:    svcCtx.Artifact,
		Persistence: svcCtx.Persistence,
		Metrics:     svcCtx.Metrics,
		RunTimeout:  c.Snapshot.RunBudget(),
	})

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	// Start the refresh loop
	wg.Add(1)
	go func() {
		defer wg.Done()
		runner.RunLoop(ctx, c.Snapshot.RefreshEvery())
	}()

	// Expose /metrics and /healthz alongside the loop
	metricsSrv := &http.Server{
		Addr:              c.Snapshot.MetricsAddr,
		Handler:           observabilityMux(svcCtx),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("[main] Metrics listening on %s", c.Snapshot.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Errorf("metrics listener: %v", err)
		}
	}()

	log.Printf("[main] Snapshot daemon started (refresh every %s). Press Ctrl+C to stop.", c.Snapshot.RefreshEvery())

	// Wait for signal
	<-ctx.Done()
	log.Println("[main] Shutdown signal received, stopping tasks...")

	// Give tasks time to complete current work
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logx.Errorf("metrics shutdown: %v", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[main] All tasks stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("[main] Shutdown timeout exceeded, forcing exit")
	}

	log.Println("[main] Snapshot daemon stopped")
}

func observabilityMux(svcCtx *svc.ServiceContext) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", svcCtx.Metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
