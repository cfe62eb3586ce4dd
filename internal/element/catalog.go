package element

import (
	"sync/atomic"
	"time"
)

// Catalog provides thread-safe access to the current element dataset. The
// pipeline reads one immutable snapshot for a whole run; a reload swaps the
// snapshot atomically and never mutates a published one.
type Catalog struct {
	dataset atomic.Pointer[Dataset]
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Snapshot returns the current dataset, or nil if none has been loaded.
func (c *Catalog) Snapshot() *Dataset {
	return c.dataset.Load()
}

// Replace atomically publishes a new dataset.
func (c *Catalog) Replace(ds *Dataset) {
	c.dataset.Store(ds)
}

// AgeSeconds returns the age of the current dataset in seconds, or -1 if no
// dataset is loaded.
func (c *Catalog) AgeSeconds() float64 {
	ds := c.dataset.Load()
	if ds == nil {
		return -1
	}
	return time.Since(ds.LoadedAt).Seconds()
}
