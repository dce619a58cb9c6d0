package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// luaRateLimit is a sliding-window limiter over a sorted set.
// KEYS[1]=limit key, ARGV[1]=now (ms), ARGV[2]=window start (ms),
// ARGV[3]=window seconds, ARGV[4]=member, ARGV[5]=limit.
// Returns the request count in the window, or -1 when the limit is reached.
const luaRateLimit = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowSec = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '0', windowStart)

local count = redis.call('ZCARD', key)
if count < tonumber(ARGV[5]) then
  redis.call('ZADD', key, now, ARGV[4])
  redis.call('EXPIRE', key, windowSec)
  return count + 1
end
return -1
`

// RateLimitKey is the Redis key counting submissions from one facility
func RateLimitKey(facilityID string) string {
	return fmt.Sprintf("reconcile:rate_limit:facility:%s", facilityID)
}

// FacilityRateLimit caps photo submissions per facility within window.
// When Redis is unreachable requests are let through.
func FacilityRateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	windowSec := max(int64(window.Seconds()), 1)

	return func(c *gin.Context) {
		key := RateLimitKey(c.Param("facilityId"))

		now := time.Now()
		nowMs := now.UnixMilli()
		windowStart := nowMs - windowSec*1000
		member := fmt.Sprintf("%d-%d", nowMs, now.UnixNano())

		res, err := rdb.Eval(c.Request.Context(), luaRateLimit, []string{key},
			nowMs, windowStart, windowSec, member, limit).Int()
		if err != nil {
			log.Printf("rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}

		if res < 0 {
			c.Header("Retry-After", fmt.Sprintf("%d", windowSec))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RATE_LIMITED",
					"message": "Too many photo submissions, please retry later",
				},
			})
			return
		}
		c.Next()
	}
}
