package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles REST calls with one global budget shared by every call
// and one budget per named bucket (MAX limits public and private routes
// separately).
type Limiter struct {
	global   *rate.Limiter
	buckets  sync.Map
	requests int
	period   time.Duration

	waited  atomic.Int64
	allowed atomic.Int64
	denied  atomic.Int64
}

// New allows requests per period, with a burst equal to requests.
func New(requests int, period time.Duration) *Limiter {
	return &Limiter{
		global:   newLimiter(requests, period),
		requests: requests,
		period:   period,
	}
}

func newLimiter(requests int, period time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(float64(requests)/period.Seconds()), requests)
}

// Wait blocks until weight tokens are available in both the global budget
// and the bucket, or ctx is done. An empty bucket only uses the global budget.
func (l *Limiter) Wait(ctx context.Context, bucket string, weight int) error {
	l.waited.Add(1)
	weight = max(1, min(weight, l.requests))

	if err := l.global.WaitN(ctx, weight); err != nil {
		l.denied.Add(1)
		return err
	}
	if bucket != "" {
		if err := l.bucket(bucket).WaitN(ctx, weight); err != nil {
			l.denied.Add(1)
			return err
		}
	}
	l.allowed.Add(1)
	return nil
}

// SetBucketLimit replaces a bucket's budget, creating the bucket if needed.
func (l *Limiter) SetBucketLimit(bucket string, requests int, period time.Duration) {
	l.buckets.Store(bucket, newLimiter(requests, period))
}

func (l *Limiter) bucket(name string) *rate.Limiter {
	if v, ok := l.buckets.Load(name); ok {
		return v.(*rate.Limiter)
	}
	actual, _ := l.buckets.LoadOrStore(name, newLimiter(l.requests, l.period))
	return actual.(*rate.Limiter)
}

// Metrics returns a snapshot of the limiter counters.
func (l *Limiter) Metrics() MetricsSnapshot {
	var buckets int
	l.buckets.Range(func(_, _ any) bool {
		buckets++
		return true
	})
	return MetricsSnapshot{
		TotalRequests:   l.waited.Load(),
		AllowedRequests: l.allowed.Load(),
		DeniedRequests:  l.denied.Load(),
		BucketCount:     buckets,
	}
}

// MetricsSnapshot is a point-in-time capture of limiter statistics.
type MetricsSnapshot struct {
	TotalRequests   int64
	AllowedRequests int64
	DeniedRequests  int64
	BucketCount     int
}
