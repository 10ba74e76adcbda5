package credential

import (
	stderrors "errors"
	"math/rand/v2"
	"sync"
	"time"

	"foodvision-server-go/internal/platform/errors"
)

// Credential is an opaque API key for the generation service.
type Credential string

// ErrRejected marks upstream failures caused by a rejected credential.
// Provider clients wrap their authentication errors with it so callers can
// report the failure back to the pool.
var ErrRejected = stderrors.New("credential rejected by upstream")

// Pool holds a fixed set of equivalent credentials and spreads calls across
// them. Selection is uniformly random; credentials that recently failed are
// skipped for a cooldown window so a single bad key does not keep failing
// requests.
type Pool struct {
	credentials []Credential
	cooldown    time.Duration

	mu       sync.RWMutex
	failures map[Credential]time.Time

	now func() time.Time
}

// Option configures a Pool.
type Option func(*Pool)

// WithCooldown overrides the failure cooldown window.
func WithCooldown(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.cooldown = d
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPool builds a pool over the given credentials. The credential set is
// immutable after construction.
func NewPool(keys []string, opts ...Option) (*Pool, error) {
	credentials := make([]Credential, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			credentials = append(credentials, Credential(key))
		}
	}
	if len(credentials) == 0 {
		return nil, errors.New(errors.KindConfig, "credential.pool", "no API credentials configured")
	}

	pool := &Pool{
		credentials: credentials,
		cooldown:    30 * time.Second,
		failures:    make(map[Credential]time.Time),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(pool)
	}
	return pool, nil
}

// Size returns the number of configured credentials.
func (p *Pool) Size() int {
	return len(p.credentials)
}

// Select picks a credential uniformly at random among those not inside the
// failure cooldown window. When every credential is cooling down the pool
// degrades to the full set rather than failing the request.
func (p *Pool) Select() Credential {
	p.mu.RLock()
	healthy := make([]Credential, 0, len(p.credentials))
	now := p.now()
	for _, cred := range p.credentials {
		failedAt, failed := p.failures[cred]
		if !failed || now.Sub(failedAt) >= p.cooldown {
			healthy = append(healthy, cred)
		}
	}
	p.mu.RUnlock()

	if len(healthy) == 0 {
		healthy = p.credentials
	}
	return healthy[rand.IntN(len(healthy))]
}

// ReportFailure marks a credential as recently failed, excluding it from
// selection until the cooldown elapses.
func (p *Pool) ReportFailure(cred Credential) {
	p.mu.Lock()
	p.failures[cred] = p.now()
	p.mu.Unlock()
}
