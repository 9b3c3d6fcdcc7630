// Package config loads per-service configuration. Values come from
// TRUSTEED_* environment variables, with an optional TOML file
// (TRUSTEED_CONFIG) supplying defaults for anything the environment does not
// set.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Trustee is the trustee service configuration.
type Trustee struct {
	DatabaseURL string // TRUSTEED_DATABASE_URL (required)
	HTTPAddr    string // TRUSTEED_HTTP_ADDR (default ":8081")
	GRPCAddr    string // TRUSTEED_GRPC_ADDR (default ":9081")
	NATSURL     string // TRUSTEED_NATS_URL (optional, empty = no events)

	Export Export
}

// Inspection is the inspection service configuration.
type Inspection struct {
	DatabaseURL    string        // TRUSTEED_DATABASE_URL (required)
	HTTPAddr       string        // TRUSTEED_HTTP_ADDR (default ":8082")
	GRPCAddr       string        // TRUSTEED_GRPC_ADDR (default ":9082")
	NATSURL        string        // TRUSTEED_NATS_URL (optional, empty = no events)
	TrusteeRPCAddr string        // TRUSTEED_TRUSTEE_RPC_ADDR (default "localhost:9081")
	RPCTimeout     time.Duration // TRUSTEED_RPC_TIMEOUT (default 3s)

	Export Export
}

// Gateway is the aggregation gateway configuration.
type Gateway struct {
	HTTPAddr          string        // TRUSTEED_HTTP_ADDR (default ":8080")
	TrusteeRPCAddr    string        // TRUSTEED_TRUSTEE_RPC_ADDR (default "localhost:9081")
	InspectionRPCAddr string        // TRUSTEED_INSPECTION_RPC_ADDR (default "localhost:9082")
	TrusteeHTTPURL    string        // TRUSTEED_TRUSTEE_HTTP_URL (default "http://localhost:8081")
	InspectionHTTPURL string        // TRUSTEED_INSPECTION_HTTP_URL (default "http://localhost:8082")
	RPCTimeout        time.Duration // TRUSTEED_RPC_TIMEOUT (default 3s)
}

// Export holds snapshot export settings.
type Export struct {
	Interval   time.Duration // TRUSTEED_EXPORT_INTERVAL (default 0 = disabled)
	S3Bucket   string        // TRUSTEED_EXPORT_S3_BUCKET (enables S3 when set)
	S3Endpoint string        // TRUSTEED_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	S3Region   string        // TRUSTEED_EXPORT_S3_REGION (default "us-east-1")
	S3Key      string        // TRUSTEED_EXPORT_S3_KEY (per-service default)
}

// fileConfig is the optional TOML file shape. Environment variables override
// anything set here.
type fileConfig struct {
	DatabaseURL       string `toml:"database_url"`
	HTTPAddr          string `toml:"http_addr"`
	GRPCAddr          string `toml:"grpc_addr"`
	NATSURL           string `toml:"nats_url"`
	TrusteeRPCAddr    string `toml:"trustee_rpc_addr"`
	InspectionRPCAddr string `toml:"inspection_rpc_addr"`
	TrusteeHTTPURL    string `toml:"trustee_http_url"`
	InspectionHTTPURL string `toml:"inspection_http_url"`
	RPCTimeout        string `toml:"rpc_timeout"`

	Export struct {
		Interval   string `toml:"interval"`
		S3Bucket   string `toml:"s3_bucket"`
		S3Endpoint string `toml:"s3_endpoint"`
		S3Region   string `toml:"s3_region"`
		S3Key      string `toml:"s3_key"`
	} `toml:"export"`
}

func loadFile() (*fileConfig, error) {
	path := os.Getenv("TRUSTEED_CONFIG")
	if path == "" {
		return &fileConfig{}, nil
	}
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &fc, nil
}

// LoadTrustee loads the trustee service configuration.
func LoadTrustee() (*Trustee, error) {
	fc, err := loadFile()
	if err != nil {
		return nil, err
	}
	c := &Trustee{
		DatabaseURL: value("TRUSTEED_DATABASE_URL", fc.DatabaseURL, ""),
		HTTPAddr:    value("TRUSTEED_HTTP_ADDR", fc.HTTPAddr, ":8081"),
		GRPCAddr:    value("TRUSTEED_GRPC_ADDR", fc.GRPCAddr, ":9081"),
		NATSURL:     value("TRUSTEED_NATS_URL", fc.NATSURL, ""),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("TRUSTEED_DATABASE_URL is required")
	}
	c.Export, err = loadExport(fc, "trusteed/trustees.jsonl")
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadInspection loads the inspection service configuration.
func LoadInspection() (*Inspection, error) {
	fc, err := loadFile()
	if err != nil {
		return nil, err
	}
	c := &Inspection{
		DatabaseURL:    value("TRUSTEED_DATABASE_URL", fc.DatabaseURL, ""),
		HTTPAddr:       value("TRUSTEED_HTTP_ADDR", fc.HTTPAddr, ":8082"),
		GRPCAddr:       value("TRUSTEED_GRPC_ADDR", fc.GRPCAddr, ":9082"),
		NATSURL:        value("TRUSTEED_NATS_URL", fc.NATSURL, ""),
		TrusteeRPCAddr: value("TRUSTEED_TRUSTEE_RPC_ADDR", fc.TrusteeRPCAddr, "localhost:9081"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("TRUSTEED_DATABASE_URL is required")
	}
	c.RPCTimeout, err = duration("TRUSTEED_RPC_TIMEOUT", fc.RPCTimeout, 3*time.Second)
	if err != nil {
		return nil, err
	}
	c.Export, err = loadExport(fc, "trusteed/inspections.jsonl")
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadGateway loads the gateway configuration.
func LoadGateway() (*Gateway, error) {
	fc, err := loadFile()
	if err != nil {
		return nil, err
	}
	c := &Gateway{
		HTTPAddr:          value("TRUSTEED_HTTP_ADDR", fc.HTTPAddr, ":8080"),
		TrusteeRPCAddr:    value("TRUSTEED_TRUSTEE_RPC_ADDR", fc.TrusteeRPCAddr, "localhost:9081"),
		InspectionRPCAddr: value("TRUSTEED_INSPECTION_RPC_ADDR", fc.InspectionRPCAddr, "localhost:9082"),
		TrusteeHTTPURL:    value("TRUSTEED_TRUSTEE_HTTP_URL", fc.TrusteeHTTPURL, "http://localhost:8081"),
		InspectionHTTPURL: value("TRUSTEED_INSPECTION_HTTP_URL", fc.InspectionHTTPURL, "http://localhost:8082"),
	}
	c.RPCTimeout, err = duration("TRUSTEED_RPC_TIMEOUT", fc.RPCTimeout, 3*time.Second)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func loadExport(fc *fileConfig, defaultKey string) (Export, error) {
	e := Export{
		S3Bucket:   value("TRUSTEED_EXPORT_S3_BUCKET", fc.Export.S3Bucket, ""),
		S3Endpoint: value("TRUSTEED_EXPORT_S3_ENDPOINT", fc.Export.S3Endpoint, ""),
		S3Region:   value("TRUSTEED_EXPORT_S3_REGION", fc.Export.S3Region, "us-east-1"),
		S3Key:      value("TRUSTEED_EXPORT_S3_KEY", fc.Export.S3Key, defaultKey),
	}
	var err error
	e.Interval, err = duration("TRUSTEED_EXPORT_INTERVAL", fc.Export.Interval, 0)
	if err != nil {
		return Export{}, err
	}
	return e, nil
}

// value resolves a setting: environment first, then the config file, then
// the default.
func value(envKey, fileVal, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if fileVal != "" {
		return fileVal
	}
	return fallback
}

func duration(envKey, fileVal string, fallback time.Duration) (time.Duration, error) {
	raw := value(envKey, fileVal, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", envKey, err)
	}
	return d, nil
}
