package docvalue

import (
	"maps"
	"reflect"
	"sync"
	"sync/atomic"
)

// typeCache maps Go types to compiled routines.
//
// Reads load an immutable map through an atomic pointer and never block.
// Writes copy the map under a mutex. Routines are built outside the lock,
// so builders may consult the cache themselves; when two goroutines race
// to build the same type, the first one stored wins and the other's work
// is dropped. A routine built across a reset is returned but not stored.
type typeCache[V any] struct {
	m   atomic.Pointer[map[reflect.Type]V]
	mu  sync.Mutex
	gen atomic.Uint64 // bumped by reset, under mu
}

func (c *typeCache[V]) load(t reflect.Type) (V, bool) {
	m := c.m.Load()
	if m == nil {
		var zero V
		return zero, false
	}
	v, ok := (*m)[t]
	return v, ok
}

// get returns the cached routine for t, building it on a miss.
func (c *typeCache[V]) get(t reflect.Type, build func(reflect.Type) V) (V, bool) {
	if v, ok := c.load(t); ok {
		return v, false
	}

	gen := c.gen.Load()
	v := build(t)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen.Load() != gen {
		return v, false
	}

	// Double-check: another goroutine might have stored it meanwhile
	old := c.m.Load()
	if old != nil {
		if existing, ok := (*old)[t]; ok {
			return existing, false
		}
	}

	// Copy-on-write: create new map with added entry
	size := 1
	if old != nil {
		size += len(*old)
	}
	newMap := make(map[reflect.Type]V, size)
	if old != nil {
		maps.Copy(newMap, *old)
	}
	newMap[t] = v
	c.m.Store(&newMap)

	return v, true
}

// len returns the number of cached types.
func (c *typeCache[V]) len() int {
	m := c.m.Load()
	if m == nil {
		return 0
	}
	return len(*m)
}

// reset drops every cached routine.
func (c *typeCache[V]) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen.Add(1)
	c.m.Store(nil)
}
