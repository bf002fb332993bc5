package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agridirect/marketplace/internal/clock"
	"github.com/agridirect/marketplace/internal/config"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryBucketRefills(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	bucket := NewMemoryBucket(fake.Now)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := bucket.Allow(ctx, "k", 1, 2)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, err := bucket.Allow(ctx, "k", 1, 2)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Second, res.RetryAfter)

	other, err := bucket.Allow(ctx, "other", 1, 2)
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	fake.Advance(time.Second)
	res, err = bucket.Allow(ctx, "k", 1, 2)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryBucketEvictsIdleKeys(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	bucket := NewMemoryBucket(fake.Now)
	ctx := context.Background()

	_, err := bucket.Allow(ctx, "a", 1, 1)
	require.NoError(t, err)
	fake.Advance(memoryIdleTTL + time.Minute)
	_, err = bucket.Allow(ctx, "b", 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, bucket.size())
}

func TestMemoryBucketRejectsBadInput(t *testing.T) {
	bucket := NewMemoryBucket(nil)
	_, err := bucket.Allow(context.Background(), "", 1, 1)
	assert.Error(t, err)
	_, err = bucket.Allow(context.Background(), "k", 0, 1)
	assert.Error(t, err)
}

func TestMiddlewareDeniesOverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := clock.NewFakeClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	limit := func() config.RouteLimit { return config.RouteLimit{Rate: 0.5, Burst: 1} }

	r := gin.New()
	r.GET("/x", Middleware(NewMemoryBucket(fake.Now), "certificate", limit, nil, zap.NewNop()), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "2", second.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"status":"error","message":"Too many requests"}`, second.Body.String())
}

type scriptedRedis struct {
	redis.Scripter
	reply []interface{}
	err   error
	keys  []string
	args  []interface{}
}

func (s *scriptedRedis) EvalSha(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	s.keys = keys
	s.args = args
	return redis.NewCmdResult(s.reply, s.err)
}

func TestRedisBucketReadsScriptReply(t *testing.T) {
	client := &scriptedRedis{reply: []interface{}{int64(1), int64(4), int64(0), int64(1717232400000)}}
	bucket := NewRedisBucket(client)

	res, err := bucket.Allow(context.Background(), "agridirect:rl:farmer_login:10.0.0.1", 0.5, 5)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 5, res.Limit)
	assert.Equal(t, 4, res.Remaining)
	assert.Zero(t, res.RetryAfter)
	assert.True(t, res.ResetTime.Equal(time.UnixMilli(1717232400000)))

	assert.Equal(t, []string{"agridirect:rl:farmer_login:10.0.0.1"}, client.keys)
	assert.Equal(t, []interface{}{0.5, 5, int64(20000)}, client.args)
}

func TestRedisBucketDenied(t *testing.T) {
	client := &scriptedRedis{reply: []interface{}{int64(0), int64(0), int64(1500), int64(1717232400000)}}

	res, err := NewRedisBucket(client).Allow(context.Background(), "k", 1, 2)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 1500*time.Millisecond, res.RetryAfter)
	assert.True(t, res.ResetTime.Equal(time.UnixMilli(1717232401500)))
}

func TestRedisBucketErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewRedisBucket(&scriptedRedis{reply: []interface{}{int64(1)}}).Allow(ctx, "k", 1, 1)
	assert.ErrorIs(t, err, errBadReply)

	down := errors.New("connection refused")
	_, err = NewRedisBucket(&scriptedRedis{err: down}).Allow(ctx, "k", 1, 1)
	assert.ErrorIs(t, err, down)

	_, err = NewRedisBucket(&scriptedRedis{}).Allow(ctx, "", 1, 1)
	assert.Error(t, err)
	_, err = NewRedisBucket(nil).Allow(ctx, "k", 1, 1)
	assert.Error(t, err)
}

func TestMiddlewareFailsOpenWhenRedisErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limit := func() config.RouteLimit { return config.RouteLimit{Rate: 1, Burst: 1} }
	bucket := NewRedisBucket(&scriptedRedis{err: errors.New("timeout")})

	r := gin.New()
	r.GET("/x", Middleware(bucket, "qrcode", limit, nil, zap.NewNop()), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBucketTTL(t *testing.T) {
	assert.Equal(t, 60*time.Second, bucketTTL(1, 30))
	assert.Equal(t, time.Second, bucketTTL(100, 1))
	assert.Equal(t, time.Second, bucketTTL(0, 0))
}
