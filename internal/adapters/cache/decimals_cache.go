package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/ethereum/go-ethereum/common"
)

// Key scopes of the values a DecimalsCache can hold.
const (
	TokenScope = "token"
	FeedScope  = "feed"
)

// RistrettoDecimalsCache caches token and feed precision, which never changes
// for a deployed contract. Prices are never cached.
type RistrettoDecimalsCache struct {
	cache *ristretto.Cache
	scope string
}

// NewDecimalsCache returns a cache in TokenScope. Use Scoped for other kinds
// of precision sharing the same memory.
func NewDecimalsCache(maxItems int64) (*RistrettoDecimalsCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        10 * maxItems,
		MaxCost:            maxItems,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create decimals cache failed: %w", err)
	}
	return &RistrettoDecimalsCache{cache: c, scope: TokenScope}, nil
}

// Scoped returns a view whose keys cannot collide with other scopes.
// Closing any view closes the shared cache.
func (c *RistrettoDecimalsCache) Scoped(scope string) *RistrettoDecimalsCache {
	return &RistrettoDecimalsCache{cache: c.cache, scope: scope}
}

func (c *RistrettoDecimalsCache) key(addr common.Address) string {
	return c.scope + ":" + addr.Hex()
}

func (c *RistrettoDecimalsCache) Get(addr common.Address) (uint8, bool) {
	if v, ok := c.cache.Get(c.key(addr)); ok {
		d, ok := v.(uint8)
		return d, ok
	}
	return 0, false
}

func (c *RistrettoDecimalsCache) Set(addr common.Address, decimals uint8) {
	c.cache.Set(c.key(addr), decimals, 1)
}

func (c *RistrettoDecimalsCache) Close() { c.cache.Close() }
