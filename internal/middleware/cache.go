package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheHeader = "X-Cache"

// Cache is the subset of *redis.Client the response cache uses.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// captureWriter buffers the response so it can be stored after the handler returns.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// NewResponseCache caches successful GET responses in Redis for ttl, keyed by
// prefix, path and raw query. Responses carry X-Cache: HIT or MISS. A nil
// cache disables caching. Redis errors are logged and the request is served
// uncached.
//
// Only mount it on routes whose responses do not depend on the caller.
func NewResponseCache(c Cache, ttl time.Duration, prefix string, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		if c == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			key := prefix + r.URL.Path + "?" + r.URL.RawQuery

			if raw, err := c.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(raw, &cached) == nil {
					for k, v := range cached.Header {
						w.Header()[k] = v
					}
					w.Header().Set(cacheHeader, "HIT")
					w.WriteHeader(cached.Status)
					_, _ = w.Write(cached.Body)
					return
				}
			} else if err != redis.Nil {
				log.WarnContext(ctx, "cache get failed", "key", key, "error", err)
			}

			w.Header().Set(cacheHeader, "MISS")
			cw := &captureWriter{ResponseWriter: w}
			next.ServeHTTP(cw, r)
			if cw.status != http.StatusOK {
				return
			}

			header := w.Header().Clone()
			header.Del(cacheHeader)
			payload, err := json.Marshal(cachedResponse{Status: cw.status, Header: header, Body: cw.buf.Bytes()})
			if err != nil {
				return
			}
			if err := c.SetEx(ctx, key, payload, ttl).Err(); err != nil {
				log.WarnContext(ctx, "cache set failed", "key", key, "error", err)
			}
		})
	}
}
