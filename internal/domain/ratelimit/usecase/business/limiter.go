package business

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/ratelimit/deps"
)

// Config holds limiter settings
type Config struct {
	MaxCommands   int
	Window        time.Duration
	SweepInterval time.Duration
}

// Limiter implements deps.Limiter. Timestamps are kept per identity in
// ascending order.
type Limiter struct {
	cfg    Config
	now    func() time.Time
	logger zerolog.Logger

	mu      sync.Mutex
	windows map[string][]time.Time
}

var _ deps.Limiter = (*Limiter)(nil)

// NewLimiter creates a new sliding-window limiter
func NewLimiter(cfg Config, logger zerolog.Logger) *Limiter {
	if cfg.MaxCommands <= 0 {
		cfg.MaxCommands = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = cfg.Window
	}

	return &Limiter{
		cfg:     cfg,
		now:     time.Now,
		logger:  logger.With().Str("component", "rate_limiter").Logger(),
		windows: make(map[string][]time.Time),
	}
}

// prune drops timestamps at or before now-window
func (l *Limiter) prune(stamps []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-l.cfg.Window)
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	return stamps[i:]
}

// CheckAndRecord implements deps.Limiter
func (l *Limiter) CheckAndRecord(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	stamps := l.prune(l.windows[identity], now)

	if len(stamps) >= l.cfg.MaxCommands {
		l.windows[identity] = stamps
		l.logger.Debug().
			Str("identity", identity).
			Int("count", len(stamps)).
			Msg("rate limit exceeded")
		return true
	}

	l.windows[identity] = append(stamps, now)
	return false
}

// Reset forgets every timestamp of identity
func (l *Limiter) Reset(identity string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, identity)
}

// Remaining returns how many commands identity may still send in the window
func (l *Limiter) Remaining(identity string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	stamps := l.prune(l.windows[identity], l.now())
	if left := l.cfg.MaxCommands - len(stamps); left > 0 {
		return left
	}
	return 0
}

// Sweep removes identities with no timestamps left in the window
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for identity, stamps := range l.windows {
		stamps = l.prune(stamps, now)
		if len(stamps) == 0 {
			delete(l.windows, identity)
			removed++
			continue
		}
		l.windows[identity] = stamps
	}
	return removed
}

// Run implements deps.Limiter
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := l.Sweep(); removed > 0 {
				l.logger.Debug().Int("removed", removed).Msg("swept idle rate windows")
			}
		}
	}
}

func (l *Limiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
