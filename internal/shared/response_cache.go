package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ResponseCacheConfig is the per-path policy for the GET response cache.
type ResponseCacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// ResponseCache memoizes GET responses per user and path. Entries go to
// redis when REDIS_URL is set so replicas share the cache; otherwise an
// in-process go-cache holds them. Any redis failure degrades to a miss.
type ResponseCache struct {
	cache   *cache.Cache
	rdb     *redis.Client
	config  map[string]ResponseCacheConfig
	logger  *zap.Logger
	metrics *AppMetrics
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

func NewResponseCache(logger *zap.Logger, metrics *AppMetrics) *ResponseCache {
	rc := &ResponseCache{
		cache: cache.New(time.Minute, 5*time.Minute),
		config: map[string]ResponseCacheConfig{
			"/api/todos": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
			"/api/categories": {
				TTL:     30 * time.Second,
				Enabled: true,
			},
			"/api/tags": {
				TTL:     30 * time.Second,
				Enabled: true,
			},
			"default": {
				Enabled: false,
			},
		},
		logger:  logger,
		metrics: metrics,
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)

		if err != nil {
			logger.Warn("Invalid REDIS_URL, using in-process cache", zap.Error(err))
			return rc
		}

		rc.rdb = redis.NewClient(opts)
	}

	return rc
}

func (rc *ResponseCache) SetConfig(path string, config ResponseCacheConfig) {
	rc.config[path] = config
}

func (rc *ResponseCache) configFor(path string) ResponseCacheConfig {
	if config, ok := rc.config[path]; ok {
		return config
	}

	return rc.config["default"]
}

type cacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *cacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheMiddleware serves cached bodies for configured GET paths. The key
// includes the authenticated user so tenants never see each other's
// responses; only 200s are stored.
func (rc *ResponseCache) CacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "GET" {
			c.Next()
			return
		}

		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		config := rc.configFor(path)

		if !config.Enabled {
			c.Next()
			return
		}

		key := rc.cacheKey(c, path)

		if cached, found := rc.get(c.Request.Context(), key); found {
			if rc.metrics != nil {
				rc.metrics.RecordCacheHit(c.Request.Context(), path)
			}

			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(c.Request.Context(), path)
		}

		c.Header("X-Cache", "MISS")

		writer := &cacheWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		if writer.Status() == 200 {
			rc.set(c.Request.Context(), key, cachedResponse{
				Status:      writer.Status(),
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
			}, config.TTL)
		}
	}
}

// Invalidate drops every cached entry for a user on one path. Mutating
// handlers call this so stale listings never outlive a write by more than
// the TTL.
func (rc *ResponseCache) Invalidate(ctx context.Context, path string, userID int64) {
	prefix := fmt.Sprintf("response_cache:%s:user_%d", path, userID)

	if rc.rdb != nil {
		iter := rc.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()

		for iter.Next(ctx) {
			rc.rdb.Del(ctx, iter.Val())
		}

		return
	}

	for key := range rc.cache.Items() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			rc.cache.Delete(key)
		}
	}
}

func (rc *ResponseCache) cacheKey(c *gin.Context, path string) string {
	identity := "anon"

	if userID, exists := c.Get("x-user-id"); exists {
		identity = fmt.Sprintf("user_%v", userID)
	}

	return fmt.Sprintf("response_cache:%s:%s:%s", path, identity, c.Request.URL.RawQuery)
}

func (rc *ResponseCache) get(ctx context.Context, key string) (cachedResponse, bool) {
	if rc.rdb != nil {
		raw, err := rc.rdb.Get(ctx, key).Bytes()

		if err != nil {
			return cachedResponse{}, false
		}

		var cached cachedResponse

		if err := json.Unmarshal(raw, &cached); err != nil {
			return cachedResponse{}, false
		}

		return cached, true
	}

	if raw, found := rc.cache.Get(key); found {
		return raw.(cachedResponse), true
	}

	return cachedResponse{}, false
}

func (rc *ResponseCache) set(ctx context.Context, key string, resp cachedResponse, ttl time.Duration) {
	if rc.rdb != nil {
		raw, err := json.Marshal(resp)

		if err != nil {
			return
		}

		if err := rc.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
			rc.logger.Warn("Failed to store cached response", zap.Error(err))
		}

		return
	}

	rc.cache.Set(key, resp, ttl)
}
