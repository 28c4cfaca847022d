package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/securematch/securematch/application/port/inbound"
)

// memoryRateLimitService is the single-process limiter used with the memory
// storage driver, where no Redis is expected.
type memoryRateLimitService struct {
	mu       sync.Mutex
	counters map[string]window
	blocked  map[string]time.Time
	now      func() time.Time
}

type window struct {
	count   int
	expires time.Time
}

func NewMemoryRateLimitService() inbound.RateLimitService {
	return &memoryRateLimitService{
		counters: make(map[string]window),
		blocked:  make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *memoryRateLimitService) current(key string) int {
	w, ok := s.counters[key]
	if !ok || !s.now().Before(w.expires) {
		delete(s.counters, key)
		return 0
	}
	return w.count
}

func (s *memoryRateLimitService) CheckLimit(ctx context.Context, key string, limit int, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(key) < limit, nil
}

func (s *memoryRateLimitService) Increment(ctx context.Context, key string, win time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current(key) == 0 {
		s.counters[key] = window{count: 1, expires: s.now().Add(win)}
		return nil
	}
	w := s.counters[key]
	w.count++
	s.counters[key] = w
	return nil
}

func (s *memoryRateLimitService) Block(ctx context.Context, key string, duration time.Duration, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocked[key] = s.now().Add(duration)
	return nil
}

func (s *memoryRateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.blocked[key]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.blocked, key)
		return false, nil
	}
	return true, nil
}

func (s *memoryRateLimitService) GetAttempts(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(key), nil
}
