// Package logger 结构化日志单元测试
package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/linchen2024/club-admin-backend/internal/common/config"
)

// ==================== Init 测试 ====================

func TestInit_JSONToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	cfg := &config.LoggerConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
		MaxSize:  10,
	}
	require.NoError(t, Init(cfg))

	Info("test message", zap.String("key", "value"))
	require.NoError(t, Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Contains(t, entry, "time")
}

func TestInit_LevelFiltering(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	cfg := &config.LoggerConfig{
		Level:    "warn",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}
	require.NoError(t, Init(cfg))

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	require.NoError(t, Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	content := string(data)
	assert.NotContains(t, content, "debug message")
	assert.NotContains(t, content, "info message")
	assert.Contains(t, content, "warn message")
}

func TestInit_ConsoleFormat(t *testing.T) {
	cfg := &config.LoggerConfig{
		Level:  "debug",
		Format: "console",
		Output: "stdout",
	}
	require.NoError(t, Init(cfg))
	assert.NotNil(t, GetLogger())
}

// ==================== 级别解析测试 ====================

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, getLogLevel(tt.level))
		})
	}
}

// ==================== 获取器测试 ====================

func TestGetLogger_WithoutInit(t *testing.T) {
	log = nil
	sugar = nil

	l := GetLogger()
	require.NotNil(t, l)

	s := GetSugar()
	require.NotNil(t, s)
}

func TestWith(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	cfg := &config.LoggerConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}
	require.NoError(t, Init(cfg))

	child := With(zap.String("request_id", "req-123"))
	child.Info("with fields")
	require.NoError(t, Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "req-123")
}

// ==================== 格式化日志测试 ====================

func TestSugaredLogging(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	cfg := &config.LoggerConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}
	require.NoError(t, Init(cfg))

	Infof("order %s created", "ORD20260828000001")
	Warnf("retry %d failed", 3)
	require.NoError(t, Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "order ORD20260828000001 created")
	assert.Contains(t, content, "retry 3 failed")
}
