package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 公开上传口限流 ====================

// UploadRateLimiter 上传口限流器
// 上传口令是公开转发的，按 (口令, 来源IP) 做冷却，防脚本刷图
type UploadRateLimiter struct {
	locks sync.Map // key -> *limitEntry
}

type limitEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// NewUploadRateLimiter 创建限流器
func NewUploadRateLimiter() *UploadRateLimiter {
	return &UploadRateLimiter{}
}

// Check 检查是否允许执行，允许时顺带记录本次时间
func (r *UploadRateLimiter) Check(key string, interval time.Duration) (bool, time.Duration) {
	actual, _ := r.locks.LoadOrStore(key, &limitEntry{})
	entry := actual.(*limitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)
	if elapsed < interval {
		return false, interval - elapsed
	}

	entry.lastTime = now
	return true, 0
}

// LimitUpload 上传接口的 gin 中间件
func LimitUpload(limiter *UploadRateLimiter, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("upload:%s:%s", c.Param("token"), c.ClientIP())
		allowed, retryAfter := limiter.Check(key, interval)
		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": "上传太频繁，请稍后再试",
			})
			return
		}
		c.Next()
	}
}
