package insights

import (
	"errors"
	"sync"
)

// RateLimitThreshold is the remaining budget below which the pool rotates to the next credential.
const RateLimitThreshold = 100

// CredentialPool rotates round-robin through a fixed list of access tokens.
//
// A rotation happens when a request reports a remaining budget below the threshold, and
// only once per drop: further low readings do not rotate again until a reading at or
// above the threshold re-arms the pool. A reading of zero always rotates.
type CredentialPool struct {
	mu        sync.Mutex
	tokens    []string
	index     int
	threshold int
	armed     bool
}

// NewCredentialPool ...
func NewCredentialPool(tokens []string) (*CredentialPool, error) {
	if len(tokens) == 0 {
		return nil, errors.New("credential pool requires at least one token")
	}
	for _, t := range tokens {
		if t == "" {
			return nil, errors.New("credential pool contains an empty token")
		}
	}
	return &CredentialPool{
		tokens:    tokens,
		threshold: RateLimitThreshold,
		armed:     true,
	}, nil
}

// Current returns the token to use for the next request.
func (p *CredentialPool) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tokens[p.index]
}

// Index of the current token.
func (p *CredentialPool) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// Rotate moves to the next token unconditionally. It is used when the API rejects a
// request because the current token has no budget left.
func (p *CredentialPool) Rotate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = (p.index + 1) % len(p.tokens)
	p.armed = false
}

// Observe records the remaining budget reported by the last request and reports whether
// the pool rotated. Negative values mean the budget is unknown and are ignored.
func (p *CredentialPool) Observe(remaining int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if remaining < 0 {
		return false
	}
	if remaining >= p.threshold {
		p.armed = true
		return false
	}
	if !p.armed && remaining > 0 {
		return false
	}
	p.index = (p.index + 1) % len(p.tokens)
	p.armed = false
	return true
}
