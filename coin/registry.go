package coin

import "fmt"

// backends is populated by chain packages at init time and read-only
// afterwards, so lookups need no locking.
var backends = map[Coin]Backend{}

// Register installs a backend for its coin. It panics on duplicate
// registration: two backends claiming one chain is a programmer error that
// must fail at process start, not at dispatch time.
func Register(b Backend) {
	c := b.Coin()
	if _, dup := backends[c]; dup {
		panic(fmt.Sprintf("coin: duplicate backend registration for %s (%d)", c, uint32(c)))
	}
	backends[c] = b
}

// Lookup returns the backend registered for c, if any.
func Lookup(c Coin) (Backend, bool) {
	b, ok := backends[c]
	return b, ok
}
