package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host               string        `env:"HOST,default=0.0.0.0"`
	Port               int           `env:"PORT,default=3000"`
	GrpcPort           int           `env:"GRPC_PORT,default=50051"`
	BadgerFilepath     string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel           string        `env:"LOG_LEVEL,default=INFO"`
	DebugInspectorPort int           `env:"DEBUG_INSPECTOR_PORT,default=8081"`
	ProviderBaseURL    string        `env:"PROVIDER_BASE_URL,required=true"`
	ProviderAPIKey     string        `env:"PROVIDER_API_KEY,required=true"`
	ProviderAPISecret  string        `env:"PROVIDER_API_SECRET,required=true"`
	ProviderCallType   string        `env:"PROVIDER_CALL_TYPE,default=default"`
	ProviderChanType   string        `env:"PROVIDER_CHANNEL_TYPE,default=messaging"`
	StoreCallTimeout   time.Duration `env:"STORE_CALL_TIMEOUT,default=5s"`
	ProviderTimeout    time.Duration `env:"PROVIDER_CALL_TIMEOUT,default=10s"`
	CredentialTTL      time.Duration `env:"CREDENTIAL_TTL,default=1h"`
	AuthSecret         string        `env:"AUTH_SECRET,required=true"`
	ActiveListLimit    int           `env:"ACTIVE_LIST_LIMIT,default=20"`
	RecentListLimit    int           `env:"RECENT_LIST_LIMIT,default=20"`
	OrphanSweepEvery   time.Duration `env:"ORPHAN_SWEEP_INTERVAL,default=0s"`
	ReportInterval     time.Duration `env:"REPORT_INTERVAL,default=1m"`
	RestartInterval    time.Duration `env:"RESTART_INTERVAL,default=1s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Validate catches values the env decoder accepts but the server cannot run with.
func (c Config) Validate() error {
	if c.StoreCallTimeout <= 0 || c.ProviderTimeout <= 0 {
		return fmt.Errorf("STORE_CALL_TIMEOUT and PROVIDER_CALL_TIMEOUT must be positive")
	}
	if c.CredentialTTL <= 0 {
		return fmt.Errorf("CREDENTIAL_TTL must be positive, got %s", c.CredentialTTL)
	}
	if len(c.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be at least 32 bytes")
	}
	if c.ActiveListLimit <= 0 || c.RecentListLimit <= 0 {
		return fmt.Errorf("list limits must be positive")
	}
	return nil
}
