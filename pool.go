package heartfall

import (
	"errors"
	"fmt"
)

// ErrPoolExhausted is returned by Pool.Acquire when the free list is empty
// and the allocation limit has been reached.
var ErrPoolExhausted = errors.New("heartfall: drawing resource pool exhausted")

// Resource is a reusable drawing handle backing one live particle on screen.
// A resource is owned by at most one particle at a time.
type Resource interface {
	// Attach places the resource on the drawing surface.
	Attach()
	// Update reflects the particle's current visual state.
	Update(p *Particle)
	// Detach removes the resource from the drawing surface. A detached
	// resource must leave no visual remnant.
	Detach()
}

// Allocator creates a new, detached Resource.
type Allocator func() (Resource, error)

// PoolStats is a snapshot of pool accounting. Free + InUse always equals
// Allocated.
type PoolStats struct {
	Allocated int
	Free      int
	InUse     int
}

// Pool recycles drawing resources. Released resources are reused (LIFO)
// before the allocator is asked for a new one.
type Pool struct {
	alloc     Allocator
	free      []Resource
	allocated int
	inUse     int
	limit     int
}

// NewPool creates a pool backed by alloc. A limit of 0 or less means the pool
// may allocate without bound; the engine's particle cap still bounds it.
func NewPool(alloc Allocator, limit int) *Pool {
	return &Pool{alloc: alloc, limit: limit}
}

// Acquire returns an attached resource, reusing a free one when possible.
func (p *Pool) Acquire() (Resource, error) {
	if n := len(p.free); n > 0 {
		r := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		p.inUse++
		r.Attach()
		return r, nil
	}
	if p.limit > 0 && p.allocated >= p.limit {
		return nil, ErrPoolExhausted
	}
	r, err := p.alloc()
	if err != nil {
		return nil, fmt.Errorf("allocate drawing resource: %w", err)
	}
	if r == nil {
		return nil, ErrPoolExhausted
	}
	p.allocated++
	p.inUse++
	r.Attach()
	return r, nil
}

// Release detaches r and returns it to the free list.
func (p *Pool) Release(r Resource) {
	if r == nil {
		return
	}
	r.Detach()
	p.inUse--
	p.free = append(p.free, r)
}

// Stats returns the current pool accounting.
func (p *Pool) Stats() PoolStats {
	return PoolStats{Allocated: p.allocated, Free: len(p.free), InUse: p.inUse}
}
