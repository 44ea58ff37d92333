// Package throttle implements the brute-force defense for the admin login:
// a sliding-window failure counter with lockout escalation, keyed by client
// identity. The state is advisory — a restart resets counters — so it must
// never be the sole basis of a security decision beyond rate limiting.
package throttle

import (
	"context"
	"log/slog"
	"time"
)

// Entry is the per-identity throttle state. Entries are replaced whole on
// every update; readers never observe a partial write.
type Entry struct {
	Attempts        int
	WindowStartedAt time.Time
	LockedUntil     time.Time
	LastSeenAt      time.Time
}

// Store is the key-value persistence behind the limiter. The in-memory
// implementation is the default; a Postgres-backed one exists for
// multi-instance deployments.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
}

// Config holds the limiter tuning knobs.
type Config struct {
	Window      time.Duration // span over which failures accumulate
	MaxAttempts int           // failures within the window that trigger a lockout
	Lockout     time.Duration // how long a locked identity stays blocked
}

// DefaultConfig returns the production tuning: 5 failures per 10 minutes,
// 30 minute lockout.
func DefaultConfig() Config {
	return Config{
		Window:      10 * time.Minute,
		MaxAttempts: 5,
		Lockout:     30 * time.Minute,
	}
}

// Result is the limiter's decision for a single operation.
type Result struct {
	Blocked           bool
	RetryAfterSeconds int
}

// Limiter applies the window/lockout policy over a Store.
type Limiter struct {
	store  Store
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewLimiter creates a Limiter over the given store.
func NewLimiter(store Store, cfg Config, logger *slog.Logger) *Limiter {
	return &Limiter{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Check reports whether the identity is currently blocked. It rolls an
// expired window over in place and refreshes the entry's last-seen time.
// Store errors fail open: the limiter is a best-effort defense and must not
// lock legitimate users out on infrastructure trouble.
func (l *Limiter) Check(ctx context.Context, key string) Result {
	now := l.now()

	entry, ok, err := l.store.Get(ctx, key)
	if err != nil {
		l.logger.Error("throttle store read failed", slog.Any("error", err))
		return Result{}
	}
	if !ok {
		return Result{}
	}

	entry.LastSeenAt = now

	if entry.LockedUntil.After(now) {
		l.put(ctx, key, entry)
		return Result{
			Blocked:           true,
			RetryAfterSeconds: retryAfter(entry.LockedUntil.Sub(now)),
		}
	}

	if now.Sub(entry.WindowStartedAt) > l.cfg.Window {
		entry = Entry{WindowStartedAt: now, LastSeenAt: now}
	}

	l.put(ctx, key, entry)
	return Result{}
}

// RecordFailure counts a failed login. A failure after the window expired
// starts a fresh entry at one attempt; reaching the threshold locks the
// identity and reports how long the caller should tell the client to wait.
func (l *Limiter) RecordFailure(ctx context.Context, key string) Result {
	now := l.now()

	entry, ok, err := l.store.Get(ctx, key)
	if err != nil {
		l.logger.Error("throttle store read failed", slog.Any("error", err))
		ok = false
	}

	if !ok || now.Sub(entry.WindowStartedAt) > l.cfg.Window {
		entry = Entry{Attempts: 1, WindowStartedAt: now, LastSeenAt: now}
	} else {
		entry.Attempts++
		entry.LastSeenAt = now
	}

	if entry.Attempts >= l.cfg.MaxAttempts {
		entry.LockedUntil = now.Add(l.cfg.Lockout)
		l.put(ctx, key, entry)
		l.logger.Warn("login identity locked out",
			slog.Int("attempts", entry.Attempts),
			slog.Duration("lockout", l.cfg.Lockout))
		return Result{
			Blocked:           true,
			RetryAfterSeconds: int(l.cfg.Lockout / time.Second),
		}
	}

	l.put(ctx, key, entry)
	return Result{}
}

// Clear drops all throttle history for the identity (successful login).
func (l *Limiter) Clear(ctx context.Context, key string) {
	if err := l.store.Delete(ctx, key); err != nil {
		l.logger.Error("throttle store delete failed", slog.Any("error", err))
	}
}

func (l *Limiter) put(ctx context.Context, key string, entry Entry) {
	if err := l.store.Put(ctx, key, entry); err != nil {
		l.logger.Error("throttle store write failed", slog.Any("error", err))
	}
}

// retryAfter converts remaining lockout time to whole seconds, rounded up,
// never less than one.
func retryAfter(remaining time.Duration) int {
	secs := int((remaining + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
