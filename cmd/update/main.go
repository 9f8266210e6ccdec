package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeromicro/go-zero/core/logx"

	"marketsnap/internal/cli"
	"marketsnap/internal/config"
	"marketsnap/internal/pipeline"
	"marketsnap/internal/svc"
)

var configFile = flag.String("f", "etc/marketsnap.yaml", "the config file")

// One-shot refresh: build a snapshot, replace the artifact, mirror it, exit.
// Intended to be driven by an external scheduler.
func main() {
	flag.Parse()

	c := config.MustLoad(*configFile)
	c.MustSetUp()
	logx.DisableStat()

	cli.LogConfigSummary(c)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcCtx := svc.NewServiceContext(c)
	runner := pipeline.NewRunner(pipeline.Config{
		Builder:     svcCtx.Builder,
		Artifact:    svcCtx.Artifact,
		Persistence: svcCtx.Persistence,
		Metrics:     svcCtx.Metrics,
		RunTimeout:  c.Snapshot.RunBudget(),
	})

	if err := runner.RunOnce(ctx); err != nil {
		logx.Errorf("update: refresh failed: %v", err)
		os.Exit(1)
	}
	logx.Infof("update: snapshot written to %s", svcCtx.Artifact.Path())
}
