package redis

import (
	"testing"
	"time"

	"github.com/Alijeyrad/medbook_backend/config"
)

func TestFromCentralConfig_FillsDefaults(t *testing.T) {
	cfg := FromCentralConfig(config.RedisConfig{Addr: "cache:6379", PoolSize: 40})

	if cfg.PoolSize != 40 {
		t.Errorf("PoolSize = %d, want 40", cfg.PoolSize)
	}
	if cfg.MinIdleConns != DefaultConfig().MinIdleConns {
		t.Errorf("MinIdleConns = %d, want default", cfg.MinIdleConns)
	}

	opts := Options(cfg)
	if opts.Addr != "cache:6379" || opts.DialTimeout != 5*time.Second || opts.ReadTimeout != 3*time.Second {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestNewRedis_EmptyAddr(t *testing.T) {
	if _, err := NewRedis(Config{}); err == nil {
		t.Fatal("expected error for empty addr")
	}
}
