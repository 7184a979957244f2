// Package response API 响应格式单元测试
package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// performResponse 执行响应函数并解析结果
func performResponse(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, *Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	fn(c)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, &resp
}

// ==================== 成功响应测试 ====================

func TestSuccess(t *testing.T) {
	w, resp := performResponse(t, func(c *gin.Context) {
		Success(c, gin.H{"id": "u-0001"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "success", resp.Message)
	assert.NotNil(t, resp.Data)
}

func TestSuccess_NilData(t *testing.T) {
	w, resp := performResponse(t, func(c *gin.Context) {
		Success(c, nil)
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, resp.Code)
	assert.Nil(t, resp.Data)
}

func TestSuccessWithMessage(t *testing.T) {
	_, resp := performResponse(t, func(c *gin.Context) {
		SuccessWithMessage(c, "操作成功", "data")
	})

	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "操作成功", resp.Message)
	assert.Equal(t, "data", resp.Data)
}

func TestSuccessPage(t *testing.T) {
	w, resp := performResponse(t, func(c *gin.Context) {
		SuccessPage(c, []string{"a", "b"}, 42, 2, 10)
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(42), data["total"])
	assert.Equal(t, float64(2), data["page"])
	assert.Equal(t, float64(10), data["page_size"])
	assert.Len(t, data["list"], 2)
}

// ==================== 错误响应测试 ====================

func TestError(t *testing.T) {
	w, resp := performResponse(t, func(c *gin.Context) {
		Error(c, 5001, "订单状态异常")
	})

	// 业务错误以 200 返回
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5001, resp.Code)
	assert.Equal(t, "订单状态异常", resp.Message)
}

func TestAppError(t *testing.T) {
	t.Run("应用错误", func(t *testing.T) {
		w, resp := performResponse(t, func(c *gin.Context) {
			AppError(c, apperrors.ErrOrderNotFound)
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, apperrors.ErrOrderNotFound.Code, resp.Code)
		assert.Equal(t, apperrors.ErrOrderNotFound.Message, resp.Message)
	})

	t.Run("普通错误回退未知错误码", func(t *testing.T) {
		_, resp := performResponse(t, func(c *gin.Context) {
			AppError(c, assert.AnError)
		})

		assert.Equal(t, apperrors.ErrUnknown.Code, resp.Code)
	})
}

// ==================== HTTP 状态响应测试 ====================

func TestHTTPStatusResponses(t *testing.T) {
	tests := []struct {
		name       string
		fn         func(c *gin.Context)
		wantStatus int
		wantCode   int
		wantMsg    string
	}{
		{"BadRequest", func(c *gin.Context) { BadRequest(c, "参数错误") }, http.StatusBadRequest, 400, "参数错误"},
		{"Unauthorized", func(c *gin.Context) { Unauthorized(c, "") }, http.StatusUnauthorized, 401, "unauthorized"},
		{"Unauthorized自定义消息", func(c *gin.Context) { Unauthorized(c, "登录已过期") }, http.StatusUnauthorized, 401, "登录已过期"},
		{"Forbidden", func(c *gin.Context) { Forbidden(c, "") }, http.StatusForbidden, 403, "forbidden"},
		{"NotFound", func(c *gin.Context) { NotFound(c, "") }, http.StatusNotFound, 404, "not found"},
		{"TooManyRequests", func(c *gin.Context) { TooManyRequests(c, "") }, http.StatusTooManyRequests, 429, "too many requests"},
		{"InternalError", func(c *gin.Context) { InternalError(c, "") }, http.StatusInternalServerError, 500, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := performResponse(t, tt.fn)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}
