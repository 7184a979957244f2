// Package main 是应用程序入口
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// probeTimeout 单个依赖探测的超时时间
const probeTimeout = 3 * time.Second

// dependencyProbe 就绪检查的依赖探测
type dependencyProbe struct {
	name  string
	check func(ctx context.Context) error
}

// healthHandler 存活检查
func healthHandler(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   serviceName,
			"timestamp": time.Now().Unix(),
		})
	}
}

// pingHandler Ping 检查
func pingHandler(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// readyHandler 就绪检查
// 逐个探测订单库与会话缓存，任一不可用则返回 503
func readyHandler(db *gorm.DB, redisClient *redis.Client) gin.HandlerFunc {
	probes := []dependencyProbe{
		{
			name: "order_store",
			check: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		},
		{
			name: "session_cache",
			check: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
	}

	return func(c *gin.Context) {
		checks := make(map[string]string, len(probes))
		allReady := true

		for _, probe := range probes {
			ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
			err := probe.check(ctx)
			cancel()

			if err != nil {
				checks[probe.name] = "error: " + err.Error()
				allReady = false
				continue
			}
			checks[probe.name] = "ok"
		}

		status := http.StatusOK
		statusText := "ready"
		if !allReady {
			status = http.StatusServiceUnavailable
			statusText = "not ready"
		}

		c.JSON(status, gin.H{
			"status":    statusText,
			"timestamp": time.Now().Unix(),
			"checks":    checks,
		})
	}
}
