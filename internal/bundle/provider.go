package bundle

import "sync/atomic"

// Provider hands out the active bundle and lets the watcher swap in a
// replacement atomically. Readers never block.
type Provider struct {
	current atomic.Pointer[Bundle]
}

// NewProvider creates a provider serving the given bundle.
func NewProvider(b *Bundle) *Provider {
	p := &Provider{}
	p.current.Store(b)
	return p
}

// Current returns the active bundle.
func (p *Provider) Current() *Bundle {
	return p.current.Load()
}

// Swap replaces the active bundle.
func (p *Provider) Swap(b *Bundle) {
	p.current.Store(b)
}
