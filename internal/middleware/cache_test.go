package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-planner/voyage/internal/middleware"
)

// memCache mimics the two redis commands the response cache issues.
type memCache struct {
	mu     sync.Mutex
	data   map[string]string
	ttl    time.Duration
	getErr error
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (m *memCache) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memCache) SetEx(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = string(value.([]byte))
	m.ttl = ttl
	return redis.NewStatusResult("OK", nil)
}

func countingHandler(status int, body string, calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func TestResponseCache_MissThenHit(t *testing.T) {
	c := newMemCache()
	calls := 0
	h := middleware.NewResponseCache(c, time.Minute, "voyage:", nil)(countingHandler(http.StatusOK, `{"count":2}`, &calls))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hotels/search?destination=PAR", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, time.Minute, c.ttl)
	assert.Contains(t, c.data, "voyage:/hotels/search?destination=PAR")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hotels/search?destination=PAR", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":2}`, rec.Body.String())
	assert.Equal(t, 1, calls)
}

func TestResponseCache_QueryIsPartOfKey(t *testing.T) {
	c := newMemCache()
	calls := 0
	h := middleware.NewResponseCache(c, time.Minute, "", nil)(countingHandler(http.StatusOK, `{}`, &calls))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hotels/search?destination=PAR", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hotels/search?destination=LAX", nil))
	assert.Equal(t, 2, calls)
}

func TestResponseCache_SkipsNonOKAndNonGET(t *testing.T) {
	c := newMemCache()
	calls := 0
	h := middleware.NewResponseCache(c, time.Minute, "", nil)(countingHandler(http.StatusUnprocessableEntity, `{}`, &calls))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/flights/search", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/flights/search", nil))
	assert.Equal(t, 2, calls)
	assert.Empty(t, c.data)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/flights/search", nil))
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestResponseCache_RedisErrorServesUncached(t *testing.T) {
	c := newMemCache()
	c.getErr = errors.New("connection refused")
	calls := 0
	h := middleware.NewResponseCache(c, time.Minute, "", nil)(countingHandler(http.StatusOK, `{}`, &calls))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/flights/popular-destinations", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)
}

func TestResponseCache_NilCachePassesThrough(t *testing.T) {
	calls := 0
	h := middleware.NewResponseCache(nil, time.Minute, "", nil)(countingHandler(http.StatusOK, `{}`, &calls))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hotels/search", nil))
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
