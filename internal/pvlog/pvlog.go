// Package pvlog provides the structured logger used by the engine and its
// analyzer. The analyzer logs from the background worker goroutine, so
// logging must never block or allocate on a hot path beyond what slog
// itself does. The DSP renderer does not log.
package pvlog

import (
	"log/slog"
	"os"
	"sync"
)

var (
	defaultOnce   sync.Once
	defaultLogger *slog.Logger
)

// Default returns the package-wide fallback logger, writing text-formatted
// records to stderr at Info level. The engine and its analyzer use this
// when no *slog.Logger is supplied via an option.
func Default() *slog.Logger {
	defaultOnce.Do(func() {
		defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	})
	return defaultLogger
}

// Or returns l if non-nil, else Default().
func Or(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return Default()
}

// RateLimiter emits a warning for a given key at most once, used to flag a
// non-finite RT60 once per grid cell per analyzer without spamming the log
// from the worker's per-iteration analysis pass.
type RateLimiter struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{seen: make(map[string]struct{})}
}

// Once runs fn the first time it is called with a given key, and is a no-op
// on every subsequent call with that same key.
func (r *RateLimiter) Once(key string, fn func()) {
	r.mu.Lock()
	_, already := r.seen[key]
	if !already {
		r.seen[key] = struct{}{}
	}
	r.mu.Unlock()
	if !already {
		fn()
	}
}
