package storeclient

import "sync"

// cartCache holds the last server-confirmed cart. Every successful
// fetch or mutation response overwrites it wholesale; nothing is ever
// merged, so racing quantity updates cannot resurrect stale fields.
// The generation counter lets tests observe invalidation ordering.
type cartCache struct {
	mu    sync.Mutex
	cart  *Cart
	valid bool
	gen   uint64
}

// invalidate marks the cached cart stale. The next read refetches
// before returning, so invalidation happens-before any valid read.
func (cc *cartCache) invalidate() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.valid = false
	cc.gen++
}

// replace installs a server-authoritative cart.
func (cc *cartCache) replace(cart *Cart) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cart = cart
	cc.valid = true
	cc.gen++
}

// snapshot returns the cached cart and whether it is still valid. The
// returned pointer is shared; callers must not mutate it.
func (cc *cartCache) snapshot() (*Cart, bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.cart, cc.valid
}

func (cc *cartCache) generation() uint64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.gen
}
