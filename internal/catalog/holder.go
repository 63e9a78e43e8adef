package catalog

import "sync/atomic"

// Holder publishes the current snapshot. Readers that loaded a catalog keep
// using it until they finish, even after a Swap.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder returns a holder serving c, which may be nil
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	if c != nil {
		h.current.Store(c)
	}
	return h
}

// Load returns the current snapshot, or nil before the first one is stored
func (h *Holder) Load() *Catalog {
	return h.current.Load()
}

// Swap installs next and returns the previous snapshot
func (h *Holder) Swap(next *Catalog) *Catalog {
	return h.current.Swap(next)
}
