// Package config 配置管理单元测试
package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobalConfig 重置包级单例，保证各测试互不影响
func resetGlobalConfig() {
	globalConfig = nil
	once = sync.Once{}
}

// ==================== Load 测试 ====================

func TestLoad_FromFile(t *testing.T) {
	resetGlobalConfig()
	defer resetGlobalConfig()

	content := `
server:
  name: club-admin-test
  mode: test
  port: 9090
database:
  host: db.internal
  port: 5433
  name: club_test
jwt:
  secret: file-secret
  access_token_expire: 2
  refresh_token_expire: 48
business:
  order:
    pay_timeout_minutes: 15
  distribution:
    refund_deadline_hours: 1.5
    auto_settle_hours: 12
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "club-admin-test", cfg.Server.Name)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 15, cfg.Business.Order.PayTimeoutMinutes)
	assert.Equal(t, 1.5, cfg.Business.Distribution.RefundDeadlineHours)
	assert.Equal(t, 12.0, cfg.Business.Distribution.AutoSettleHours)

	// 未覆盖的字段保留默认值
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 30, cfg.Business.Distribution.SettleSweepMinutes)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	resetGlobalConfig()
	defer resetGlobalConfig()

	// 切到空目录，避免读到仓库内的配置文件
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(oldWd)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "club-admin-backend", cfg.Server.Name)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "club_admin", cfg.Database.Name)
	assert.Equal(t, 24, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, 168, cfg.JWT.RefreshTokenExpire)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 30, cfg.Business.Order.PayTimeoutMinutes)
	assert.Equal(t, 2.0, cfg.Business.Distribution.RefundDeadlineHours)
	assert.Equal(t, 24.0, cfg.Business.Distribution.AutoSettleHours)
}

func TestLoad_OnlyOnce(t *testing.T) {
	resetGlobalConfig()
	defer resetGlobalConfig()

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(oldWd)

	first, err := Load("")
	require.NoError(t, err)

	second, err := Load("some-other-path.yaml")
	require.NoError(t, err)

	// 单例：第二次加载返回同一实例
	assert.Same(t, first, second)
}

// ==================== Get 测试 ====================

func TestGet_WithoutLoad(t *testing.T) {
	resetGlobalConfig()
	defer resetGlobalConfig()

	cfg := Get()
	require.NotNil(t, cfg)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "club-admin", cfg.JWT.Issuer)
}

// ==================== 派生方法测试 ====================

func TestDatabaseConfig_DSN(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		Name:     "club_admin",
		SSLMode:  "disable",
		Timezone: "Asia/Shanghai",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "user=postgres")
	assert.Contains(t, dsn, "password=secret")
	assert.Contains(t, dsn, "dbname=club_admin")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "TimeZone=Asia/Shanghai")
}

func TestRedisConfig_Addr(t *testing.T) {
	r := &RedisConfig{Host: "redis.internal", Port: 6380}
	assert.Equal(t, "redis.internal:6380", r.Addr())
}

func TestJWTConfig_Durations(t *testing.T) {
	j := &JWTConfig{AccessTokenExpire: 24, RefreshTokenExpire: 168}
	assert.Equal(t, 24*time.Hour, j.AccessTokenDuration())
	assert.Equal(t, 168*time.Hour, j.RefreshTokenDuration())
}
