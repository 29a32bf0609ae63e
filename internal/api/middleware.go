package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/graphbus/graphbus-starter-project/internal/auth"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
// On success the user id is stored in the context under "userID".
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		userID, err := auth.ParseJWT(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

// RequestIDMiddleware ensures every request has an X-Request-ID. If absent, generate one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set("requestID", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

// Simple in-memory IP rate limiter (fixed window)
type clientWindow struct {
	count       int
	windowStart time.Time
}

type ipLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
	}
}

func (l *ipLimiter) allow(ip string) (bool, time.Duration) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	cw, ok := l.clients[ip]
	if !ok {
		l.clients[ip] = &clientWindow{count: 1, windowStart: now}
		return true, 0
	}
	if now.Sub(cw.windowStart) >= l.window {
		cw.count = 1
		cw.windowStart = now
		return true, 0
	}
	if cw.count < l.limit {
		cw.count++
		return true, 0
	}
	return false, l.window - now.Sub(cw.windowStart)
}

// RateLimitMiddleware limits requests per client IP. Applied to the
// public auth endpoints.
func RateLimitMiddleware(limitPerMinute int) gin.HandlerFunc {
	if limitPerMinute <= 0 {
		limitPerMinute = 60
	}
	limiter := newIPLimiter(limitPerMinute, time.Minute)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if net.ParseIP(ip) == nil {
			ip = "unknown"
		}
		ok, retryAfter := limiter.allow(ip)
		if !ok {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}

// RateLimitMiddlewareFromEnv builds a rate-limit middleware using env
// config. GRAPHBUS_AUTH_RPM (default 60). If REDIS_ADDR is set the
// counters live in Redis (minute-window keys per client IP) so the
// limit holds across replicas; otherwise in-memory.
func RateLimitMiddlewareFromEnv() gin.HandlerFunc {
	rpm := 60
	if v := os.Getenv("GRAPHBUS_AUTH_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rpm = n
		}
	}
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return RateLimitMiddleware(rpm)
	}
	rc := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       parseEnvInt("REDIS_DB", 0),
	})
	return redisRateLimit(rc, rpm)
}

func redisRateLimit(rc *redis.Client, rpm int) gin.HandlerFunc {
	fallback := RateLimitMiddleware(rpm)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if net.ParseIP(ip) == nil {
			ip = "unknown"
		}
		now := time.Now().UTC()
		key := fmt.Sprintf("rl:%s:%04d%02d%02d%02d%02d", ip, now.Year(), int(now.Month()), now.Day(), now.Hour(), now.Minute())
		ctx, cancel := context.WithTimeout(c.Request.Context(), 200*time.Millisecond)
		defer cancel()

		n, err := rc.Incr(ctx, key).Result()
		if err != nil {
			fallback(c)
			return
		}
		_ = rc.Expire(ctx, key, 61*time.Second).Err()
		if int(n) > rpm {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}

func parseEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
