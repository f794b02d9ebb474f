package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without a url")
	}
	if cfg.Upload.MaxBytes() != 20<<20 {
		t.Fatalf("unexpected upload limit %d", cfg.Upload.MaxBytes())
	}
	if cfg.Refresh.Interval != 5*time.Minute {
		t.Fatalf("expected default refresh interval 5m, got %v", cfg.Refresh.Interval)
	}
	if cfg.Policy.Resolver != "first-match" {
		t.Fatalf("unexpected default resolver %q", cfg.Policy.Resolver)
	}
	if len(cfg.App.CORSOrigins) != 1 || cfg.App.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins %v", cfg.App.CORSOrigins)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_S3RequiresBucket(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvSourcesBackend, "s3")

	if _, err := Load(); err == nil {
		t.Fatal("expected s3 backend without bucket to fail")
	}

	t.Setenv(EnvS3Bucket, "exports")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.Sources.IsS3() {
		t.Fatalf("expected s3 backend")
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvSourcesBackend, "ftp")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown backend to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvSourcesBackend, "file")
	t.Setenv(EnvS3Bucket, "")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}

func TestParsePolicy(t *testing.T) {
	doc := `
[reconcile]
tax_share = 0.25
resolver = "longest-match"

[costs]
default_shipping = 18.5
`
	p, err := ParsePolicy(doc)
	if err != nil {
		t.Fatalf("ParsePolicy returned error: %v", err)
	}
	if p.Reconcile.TaxShare == nil || *p.Reconcile.TaxShare != 0.25 {
		t.Fatalf("unexpected tax share %v", p.Reconcile.TaxShare)
	}
	if p.Reconcile.CommissionRatio != nil {
		t.Fatalf("absent keys must stay nil")
	}
	if p.Reconcile.Resolver != "longest-match" {
		t.Fatalf("unexpected resolver %q", p.Reconcile.Resolver)
	}
	if p.Costs.DefaultShipping == nil || *p.Costs.DefaultShipping != 18.5 {
		t.Fatalf("unexpected default shipping %v", p.Costs.DefaultShipping)
	}
}

func TestParsePolicyRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"unknown key":  "[reconcile]\ntax_rate = 0.3\n",
		"out of range": "[reconcile]\ntax_share = 1.5\n",
		"bad columns":  "[sales]\nmin_columns = 0\n",
		"syntax":       "[reconcile\n",
	}
	for name, doc := range cases {
		if _, err := ParsePolicy(doc); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadPolicyFile(t *testing.T) {
	if p, err := LoadPolicy(""); err != nil || p.Reconcile.TaxShare != nil {
		t.Fatalf("empty path should yield no overrides, got %+v %v", p, err)
	}

	path := filepath.Join(t.TempDir(), "policy.toml")
	if err := os.WriteFile(path, []byte("[sales]\nmin_columns = 18\n"), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	p, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy returned error: %v", err)
	}
	if p.Sales.MinColumns == nil || *p.Sales.MinColumns != 18 {
		t.Fatalf("unexpected min columns %v", p.Sales.MinColumns)
	}

	if _, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected missing file to fail")
	}
}
