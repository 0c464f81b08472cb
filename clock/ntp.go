package clock

import (
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/stsysd/koyomi/utc"
	"go.uber.org/zap"
)

const (
	defaultBackoffInitial = 5 * time.Second
	defaultBackoffMax     = 5 * time.Minute
)

// QueryFunc returns the offset of the local clock relative to server.
// A positive offset means the local clock is behind.
type QueryFunc func(server string) (time.Duration, error)

// NTPClock corrects a base clock by the offset reported by an NTP server.
// The offset is refreshed lazily from Now once the sync interval has passed;
// failed syncs are retried with exponential backoff and keep the last known
// offset.
type NTPClock struct {
	mu sync.Mutex

	server   string
	interval time.Duration
	query    QueryFunc
	base     utc.Clock
	logger   *zap.Logger

	offset      time.Duration
	lastSync    time.Time
	lastAttempt time.Time
	lastError   error

	backoff        time.Duration
	backoffInitial time.Duration
	backoffMax     time.Duration
	maxOffset      time.Duration
}

// NTPOption configures an NTPClock.
type NTPOption func(*NTPClock)

// WithQuery replaces the NTP query, mostly for tests.
func WithQuery(q QueryFunc) NTPOption {
	return func(c *NTPClock) { c.query = q }
}

// WithBase sets the clock the offset is applied to. Defaults to System.
func WithBase(base utc.Clock) NTPOption {
	return func(c *NTPClock) { c.base = base }
}

// WithLogger sets the logger used to report sync failures.
func WithLogger(logger *zap.Logger) NTPOption {
	return func(c *NTPClock) { c.logger = logger }
}

// WithMaxOffset marks the clock unhealthy when the absolute offset exceeds d.
// Zero disables the check.
func WithMaxOffset(d time.Duration) NTPOption {
	return func(c *NTPClock) { c.maxOffset = d }
}

// NewNTPClock creates a clock synced against server every interval. A failed
// initial sync is not fatal: the offset stays zero and the sync is retried.
func NewNTPClock(server string, interval time.Duration, opts ...NTPOption) *NTPClock {
	c := &NTPClock{
		server:         server,
		interval:       interval,
		query:          queryNTP,
		base:           System{},
		logger:         zap.NewNop(),
		backoffInitial: defaultBackoffInitial,
		backoffMax:     defaultBackoffMax,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu.Lock()
	c.attempt(c.base.Now())
	c.mu.Unlock()
	return c
}

func queryNTP(server string) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return 0, err
	}
	if err := resp.Validate(); err != nil {
		return 0, err
	}
	return resp.ClockOffset, nil
}

// Now returns the base clock corrected by the last known offset.
func (c *NTPClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.base.Now()
	c.maybeSync(now)
	return now.Add(c.offset)
}

// Health describes the state of an NTPClock.
type Health struct {
	Healthy  bool
	Offset   time.Duration
	LastSync time.Time
	Err      error
}

// Health reports whether the last sync succeeded and the offset is within
// the configured bound.
func (c *NTPClock) Health() Health {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := Health{
		Healthy:  c.lastError == nil && !c.lastSync.IsZero(),
		Offset:   c.offset,
		LastSync: c.lastSync,
		Err:      c.lastError,
	}
	if c.maxOffset > 0 && (c.offset < -c.maxOffset || c.offset > c.maxOffset) {
		h.Healthy = false
	}
	return h
}

// maybeSync must be called with c.mu held.
func (c *NTPClock) maybeSync(now time.Time) {
	effective := c.interval
	if c.backoff > 0 {
		effective = c.backoff
	}
	if now.Sub(c.lastAttempt) < effective {
		return
	}
	c.attempt(now)
}

// attempt must be called with c.mu held.
func (c *NTPClock) attempt(now time.Time) {
	c.lastAttempt = now

	offset, err := c.query(c.server)
	if err != nil {
		c.lastError = err
		if c.backoff == 0 {
			c.backoff = c.backoffInitial
		} else {
			c.backoff = min(c.backoff*2, c.backoffMax)
		}
		c.logger.Warn("ntp sync failed",
			zap.String("server", c.server),
			zap.Duration("retry_in", c.backoff),
			zap.Error(err))
		return
	}

	c.offset = offset
	c.lastSync = now
	c.lastError = nil
	c.backoff = 0
	c.logger.Debug("ntp synced",
		zap.String("server", c.server),
		zap.Duration("offset", offset))
}
