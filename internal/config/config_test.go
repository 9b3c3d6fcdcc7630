package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// allEnvVars lists every TRUSTEED_* variable that must be cleared between
// tests.
var allEnvVars = []string{
	"TRUSTEED_CONFIG", "TRUSTEED_DATABASE_URL", "TRUSTEED_HTTP_ADDR",
	"TRUSTEED_GRPC_ADDR", "TRUSTEED_NATS_URL", "TRUSTEED_TRUSTEE_RPC_ADDR",
	"TRUSTEED_INSPECTION_RPC_ADDR", "TRUSTEED_TRUSTEE_HTTP_URL",
	"TRUSTEED_INSPECTION_HTTP_URL", "TRUSTEED_RPC_TIMEOUT",
	"TRUSTEED_EXPORT_INTERVAL", "TRUSTEED_EXPORT_S3_BUCKET",
	"TRUSTEED_EXPORT_S3_ENDPOINT", "TRUSTEED_EXPORT_S3_REGION",
	"TRUSTEED_EXPORT_S3_KEY",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoadTrustee(t *testing.T) {
	clearAllEnv(t)

	if _, err := LoadTrustee(); err == nil {
		t.Error("LoadTrustee succeeded without a database URL")
	}

	t.Setenv("TRUSTEED_DATABASE_URL", "postgres://localhost/trustees")
	cfg, err := LoadTrustee()
	if err != nil {
		t.Fatalf("LoadTrustee error: %v", err)
	}
	if cfg.HTTPAddr != ":8081" || cfg.GRPCAddr != ":9081" {
		t.Errorf("got defaults %q / %q", cfg.HTTPAddr, cfg.GRPCAddr)
	}
	if cfg.NATSURL != "" {
		t.Errorf("got NATS URL %q, want empty", cfg.NATSURL)
	}
	if cfg.Export.S3Key != "trusteed/trustees.jsonl" {
		t.Errorf("got export key %q", cfg.Export.S3Key)
	}
}

func TestLoadInspection(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("TRUSTEED_DATABASE_URL", "postgres://localhost/inspections")
	t.Setenv("TRUSTEED_TRUSTEE_RPC_ADDR", "trustee.internal:9081")
	t.Setenv("TRUSTEED_RPC_TIMEOUT", "500ms")

	cfg, err := LoadInspection()
	if err != nil {
		t.Fatalf("LoadInspection error: %v", err)
	}
	if cfg.TrusteeRPCAddr != "trustee.internal:9081" {
		t.Errorf("got trustee RPC addr %q", cfg.TrusteeRPCAddr)
	}
	if cfg.RPCTimeout != 500*time.Millisecond {
		t.Errorf("got RPC timeout %v", cfg.RPCTimeout)
	}
}

func TestLoadInspection_BadTimeout(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("TRUSTEED_DATABASE_URL", "postgres://localhost/inspections")
	t.Setenv("TRUSTEED_RPC_TIMEOUT", "soon")

	if _, err := LoadInspection(); err == nil {
		t.Error("LoadInspection accepted an invalid duration")
	}
}

func TestLoadGateway_Defaults(t *testing.T) {
	clearAllEnv(t)

	cfg, err := LoadGateway()
	if err != nil {
		t.Fatalf("LoadGateway error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("got HTTP addr %q", cfg.HTTPAddr)
	}
	if cfg.TrusteeHTTPURL != "http://localhost:8081" || cfg.InspectionHTTPURL != "http://localhost:8082" {
		t.Errorf("got upstream URLs %q / %q", cfg.TrusteeHTTPURL, cfg.InspectionHTTPURL)
	}
	if cfg.RPCTimeout != 3*time.Second {
		t.Errorf("got RPC timeout %v, want 3s", cfg.RPCTimeout)
	}
}

func TestConfigFile_EnvWins(t *testing.T) {
	clearAllEnv(t)

	path := filepath.Join(t.TempDir(), "trusteed.toml")
	content := `
database_url = "postgres://file-host/trustees"
http_addr = ":7000"

[export]
interval = "10m"
s3_bucket = "file-bucket"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("TRUSTEED_CONFIG", path)
	t.Setenv("TRUSTEED_HTTP_ADDR", ":7777")

	cfg, err := LoadTrustee()
	if err != nil {
		t.Fatalf("LoadTrustee error: %v", err)
	}
	if cfg.DatabaseURL != "postgres://file-host/trustees" {
		t.Errorf("got database URL %q from file", cfg.DatabaseURL)
	}
	if cfg.HTTPAddr != ":7777" {
		t.Errorf("got HTTP addr %q, want env to win", cfg.HTTPAddr)
	}
	if cfg.Export.Interval != 10*time.Minute || cfg.Export.S3Bucket != "file-bucket" {
		t.Errorf("got export %+v", cfg.Export)
	}
}
