package service

import (
	"sync"
	"time"
)

// RateLimiter limita la cantidad de solicitudes por clave en una ventana fija.
type RateLimiter interface {
	Allow(key string) bool
}

type fixedWindow struct {
	start time.Time
	count int
}

type memoryRateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	buckets map[string]*fixedWindow
	now     func() time.Time
}

// sweepThreshold es el tamaño a partir del cual se purgan ventanas vencidas.
const sweepThreshold = 10000

// NewMemoryRateLimiter crea un rate limiter en memoria, local al proceso.
func NewMemoryRateLimiter(window time.Duration, max int) RateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryRateLimiter{
		window:  window,
		max:     max,
		buckets: make(map[string]*fixedWindow),
		now:     time.Now,
	}
}

func (l *memoryRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.buckets) >= sweepThreshold {
		for k, b := range l.buckets {
			if now.Sub(b.start) >= l.window {
				delete(l.buckets, k)
			}
		}
	}

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.start) >= l.window {
		l.buckets[key] = &fixedWindow{start: now, count: 1}
		return true
	}
	if b.count >= l.max {
		return false
	}
	b.count++
	return true
}
