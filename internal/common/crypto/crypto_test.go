// Package crypto 加密工具单元测试
package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ==================== HashPassword 测试 ====================

func TestHashPassword(t *testing.T) {
	password := "my-secret-password"

	hash, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// 同一密码两次哈希结果不同
	hash2, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestHashPasswordWithCost(t *testing.T) {
	t.Run("合法代价", func(t *testing.T) {
		hash, err := HashPasswordWithCost("password", bcrypt.MinCost)
		require.NoError(t, err)
		assert.True(t, VerifyPassword("password", hash))
	})

	t.Run("代价越界回退默认值", func(t *testing.T) {
		hash, err := HashPasswordWithCost("password", 99)
		require.NoError(t, err)
		assert.True(t, VerifyPassword("password", hash))

		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, cost)
	})
}

// ==================== VerifyPassword 测试 ====================

func TestVerifyPassword(t *testing.T) {
	password := "correct-password"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"正确密码", password, hash, true},
		{"错误密码", "wrong-password", hash, false},
		{"空密码", "", hash, false},
		{"非法哈希", password, "not-a-bcrypt-hash", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.password, tt.hash))
		})
	}
}

// ==================== GenerateRandomString 测试 ====================

func TestGenerateRandomString(t *testing.T) {
	s1, err := GenerateRandomString(16)
	require.NoError(t, err)
	assert.Len(t, s1, 16)

	s2, err := GenerateRandomString(16)
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)

	s3, err := GenerateRandomString(32)
	require.NoError(t, err)
	assert.Len(t, s3, 32)
}

// ==================== 脱敏测试 ====================

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"标准手机号", "13812345678", "138****5678"},
		{"长度不足原样返回", "12345", "12345"},
		{"空字符串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskPhone(tt.phone))
		})
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"普通邮箱", "alice@example.com", "al***@example.com"},
		{"短用户名原样返回", "ab@example.com", "ab@example.com"},
		{"无@符号原样返回", "not-an-email", "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskEmail(tt.email))
		})
	}
}
