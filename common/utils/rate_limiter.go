package utils

import (
	"sync"
	"time"
)

// SubjectLimiter 按发布主题分桶的令牌桶，每个主题每秒补充 rate 个令牌，最多攒 burst 个。
// 豁免的主题不限流
type SubjectLimiter struct {
	rate   float64
	burst  float64
	now    func() time.Time
	mu     sync.Mutex
	bucket map[string]*tokenBucket
	exempt map[string]bool
}

type tokenBucket struct {
	tokens float64
	last   time.Time
}

func NewSubjectLimiter(rate, burst int) *SubjectLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &SubjectLimiter{
		rate:   float64(rate),
		burst:  float64(burst),
		now:    time.Now,
		bucket: make(map[string]*tokenBucket),
		exempt: make(map[string]bool),
	}
}

// Exempt 这些主题的消息总是放行，例如整场结束的排名
func (l *SubjectLimiter) Exempt(subjects ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range subjects {
		l.exempt[s] = true
	}
}

// Allow 主题 subject 此刻能否再发一条
func (l *SubjectLimiter) Allow(subject string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.exempt[subject] {
		return true
	}
	now := l.now()
	b, ok := l.bucket[subject]
	if !ok {
		b = &tokenBucket{tokens: l.burst, last: now}
		l.bucket[subject] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(l.burst, b.tokens+elapsed*l.rate)
	}
	b.last = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
