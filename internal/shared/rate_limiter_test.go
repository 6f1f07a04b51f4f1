package shared

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func TestNewRateLimiter(t *testing.T) {
	RegisterTestingT(t)
	logger := zap.NewNop()
	metrics := NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(nil, logger, metrics)

	Expect(rl).ToNot(BeNil())
	Expect(rl.cache).ToNot(BeNil())
	Expect(rl.config).ToNot(BeNil())
	Expect(rl.logger).ToNot(BeNil())
	Expect(rl.metrics).ToNot(BeNil())
}

func TestRateLimitMiddleware_AllowedRequests(t *testing.T) {
	RegisterTestingT(t)
	logger := zap.NewNop()
	metrics := NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(nil, logger, metrics)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
		Expect(w.Header().Get("X-RateLimit-Limit")).ToNot(BeEmpty())
		Expect(w.Header().Get("X-RateLimit-Remaining")).ToNot(BeEmpty())
	}
}

func TestRateLimitMiddleware_ExceedLimit(t *testing.T) {
	RegisterTestingT(t)
	logger := zap.NewNop()
	metrics := NewAppMetrics(prometheus.NewRegistry())

	configs := map[string]RateLimitEndpointConfig{
		"default": {Requests: 3, Window: time.Minute, KeyFunc: GetClientIP},
	}
	rl := NewRateLimiter(configs, logger, metrics)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	for i := 0; i < 6; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		if i < 3 {
			Expect(w.Code).To(Equal(200))
		} else {
			Expect(w.Code).To(Equal(429))
			Expect(w.Body.String()).To(ContainSubstring("retry_after"))
		}
	}
}

func TestRateLimitMiddleware_AuthEndpointsAreStricter(t *testing.T) {
	RegisterTestingT(t)
	logger := zap.NewNop()
	metrics := NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(nil, logger, metrics)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.POST("/api/auth/register", func(c *gin.Context) {
		c.JSON(201, gin.H{"status": "created"})
	})

	// Register allows 5 per minute per IP; the sixth is rejected.
	for i := 0; i < 6; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/auth/register", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if i < 5 {
			Expect(w.Code).To(Equal(201))
		} else {
			Expect(w.Code).To(Equal(429))
		}
	}
}

func TestRateLimitMiddleware_UserBasedLimiting(t *testing.T) {
	RegisterTestingT(t)
	logger := zap.NewNop()
	metrics := NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(nil, logger, metrics)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("x-user-id", int64(123))
		c.Next()
	})
	router.Use(rl.RateLimitMiddleware())

	callCount := 0
	router.POST("/api/todos", func(c *gin.Context) {
		callCount++
		c.JSON(201, gin.H{"method": "POST", "count": callCount})
	})

	// POST /api/todos counts per user with a limit of 60.
	expectedRemaining := []int{59, 58, 57, 56, 55}

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/todos", strings.NewReader(`{"title":"test"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(201))
		Expect(callCount).To(Equal(i + 1))

		remaining := w.Header().Get("X-RateLimit-Remaining")
		expectedRemainingStr := strconv.Itoa(expectedRemaining[i])
		Expect(remaining).To(Equal(expectedRemainingStr),
			"POST Request %d: Expected remaining %s, got %s",
			i+1, expectedRemainingStr, remaining)
	}
}

func TestRateLimitMiddleware_WindowReset(t *testing.T) {
	RegisterTestingT(t)
	logger := zap.NewNop()
	metrics := NewAppMetrics(prometheus.NewRegistry())

	configs := map[string]RateLimitEndpointConfig{
		"default": {Requests: 1, Window: 50 * time.Millisecond, KeyFunc: GetClientIP},
	}
	rl := NewRateLimiter(configs, logger, metrics)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w1, req1)
	Expect(w1.Code).To(Equal(200))

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w2, req2)
	Expect(w2.Code).To(Equal(429))

	time.Sleep(60 * time.Millisecond)

	w3 := httptest.NewRecorder()
	req3, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w3, req3)
	Expect(w3.Code).To(Equal(200))
}

func TestRateLimiterStats(t *testing.T) {
	RegisterTestingT(t)
	logger := zap.NewNop()
	metrics := NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(nil, logger, metrics)

	stats := rl.Stats()
	Expect(stats).ToNot(BeNil())
	Expect(stats["active_entries"]).ToNot(BeNil())
	Expect(stats["configs"]).ToNot(BeNil())
}

func TestRateLimiterSetConfig(t *testing.T) {
	RegisterTestingT(t)
	logger := zap.NewNop()
	metrics := NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(nil, logger, metrics)

	config := RateLimitEndpointConfig{
		Requests: 5,
		Window:   time.Minute,
		KeyFunc:  GetClientIP,
	}

	rl.SetConfig("/custom", config)

	Expect(rl.config["/custom"].Requests).To(Equal(config.Requests))
	Expect(rl.config["/custom"].Window).To(Equal(config.Window))
	Expect(rl.config["/custom"].KeyFunc).ToNot(BeNil())
}

func TestRateLimitMiddleware_NoDoubleCounting(t *testing.T) {
	RegisterTestingT(t)
	logger := zap.NewNop()
	metrics := NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(nil, logger, metrics)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("x-user-id", int64(123))
		c.Next()
	})
	router.Use(rl.RateLimitMiddleware())

	callCount := 0
	var callCountMutex sync.Mutex
	router.POST("/api/todos", func(c *gin.Context) {
		callCountMutex.Lock()
		callCount++
		callCountMutex.Unlock()
		c.JSON(201, gin.H{"method": "POST"})
	})

	numRequests := 10
	results := make([]int, numRequests)
	var wg sync.WaitGroup

	for i := 0; i < numRequests; i++ {
		index := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/todos", strings.NewReader(`{"title":"test"}`))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			remaining, _ := strconv.Atoi(w.Header().Get("X-RateLimit-Remaining"))
			results[index] = remaining
		}()
	}

	wg.Wait()

	Expect(callCount).To(Equal(numRequests))

	expectedRemaining := []int{59, 58, 57, 56, 55, 54, 53, 52, 51, 50}
	sort.Ints(results)
	sort.Ints(expectedRemaining)

	Expect(results).To(Equal(expectedRemaining),
		"Concurrent requests should each consume exactly one slot: %v", results)
}
