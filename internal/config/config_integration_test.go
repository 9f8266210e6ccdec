package config_test

import (
	"os"
	"path/filepath"
	"testing"

	appconfig "marketsnap/internal/config"
	"marketsnap/internal/svc"
)

func TestMustLoadAndProviders(t *testing.T) {
	// Compose a minimal main config in a temp dir that references the real
	// etc/market.yaml via an absolute path.
	etcDir := filepath.Clean(filepath.Join("..", "..", "etc"))
	etcAbs, err := filepath.Abs(etcDir)
	if err != nil {
		t.Fatalf("Abs(%s) error: %v", etcDir, err)
	}
	mkt := filepath.Join(etcAbs, "market.yaml")

	mainYAML := []byte("" +
		"Name: test\n" +
		"Env: test\n" +
		"TTL:\n  Short: 10\n  Medium: 60\n  Long: 300\n\n" +
		"Snapshot:\n  ArtifactPath: data/market_snapshot.json\n" +
		"  InstrumentsPath: data/market_instruments.json\n\n" +
		"Market:\n  File: " + mkt + "\n")

	dir := t.TempDir()
	mainPath := filepath.Join(dir, "marketsnap.yaml")
	if err := os.WriteFile(mainPath, mainYAML, 0o600); err != nil {
		t.Fatalf("write temp main config: %v", err)
	}

	cfg, err := appconfig.Load(mainPath)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if cfg.Market.Value == nil {
		t.Fatalf("market section not hydrated")
	}

	// ServiceContext should build providers and the full pipeline wiring.
	sc := svc.NewServiceContext(cfg)

	if len(sc.MarketProviders) == 0 {
		t.Fatalf("no market providers built")
	}
	if sc.DefaultMarket == nil {
		t.Fatalf("default market provider not selected")
	}
	if sc.Fetcher == nil || sc.Builder == nil {
		t.Fatalf("pipeline wiring incomplete")
	}
	if len(sc.Instruments) == 0 {
		t.Fatalf("instrument registry empty")
	}
	if sc.Artifact == nil || sc.Metrics == nil {
		t.Fatalf("artifact writer or metrics collector missing")
	}
	if sc.DBConn != nil || sc.Cache != nil {
		t.Fatalf("optional mirror backends should stay unset without config")
	}
	if sc.Persistence != nil {
		t.Fatalf("persistence should be nil without a database connection")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := appconfig.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatalf("expected load error for missing config file")
	}
}
