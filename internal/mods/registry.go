package mods

// Stats counts record allocations and releases over the registry's lifetime.
type Stats struct {
	Allocated int
	Released  int
}

// Live is the number of records currently owned by the registry.
func (s Stats) Live() int {
	return s.Allocated - s.Released
}

// Registry owns the records of a discovery pass.
//
// With a positive capacity it is a ring: allocating past the capacity
// releases the oldest slot and reuses it. With capacity 0 it grows.
type Registry struct {
	capacity int
	slots    []*Record
	next     int
	count    int
	stats    Stats
}

// NewRegistry creates a registry. capacity <= 0 means unbounded.
func NewRegistry(capacity int) *Registry {
	if capacity < 0 {
		capacity = 0
	}
	return &Registry{capacity: capacity}
}

// Allocate returns a zeroed record in the next slot, releasing whatever
// record occupied that slot before.
func (r *Registry) Allocate() *Record {
	rec := &Record{}
	if r.next < len(r.slots) {
		if r.slots[r.next] != nil {
			r.stats.Released++
		}
		r.slots[r.next] = rec
	} else {
		r.slots = append(r.slots, rec)
	}
	r.stats.Allocated++

	r.next++
	if r.next > r.count {
		r.count = r.next
	}
	if r.capacity > 0 && r.next == r.capacity {
		r.next = 0
	}
	return rec
}

// Reset marks every slot free. Old records are released lazily by the
// following Allocate calls.
func (r *Registry) Reset() {
	r.next = 0
	r.count = 0
}

// Lookup returns the first valid record with the given key.
func (r *Registry) Lookup(key string) (*Record, bool) {
	for _, rec := range r.slots[:r.count] {
		if rec.Key == key {
			return rec, true
		}
	}
	return nil, false
}

// Len returns the number of valid records.
func (r *Registry) Len() int {
	return r.count
}

// Capacity returns the ring size, 0 when unbounded.
func (r *Registry) Capacity() int {
	return r.capacity
}

// Records returns copies of the valid records in allocation order. Once a
// ring has wrapped, the oldest record sits at the next slot to be reused.
func (r *Registry) Records() []Record {
	start := 0
	if r.capacity > 0 && r.count == r.capacity {
		start = r.next
	}
	out := make([]Record, 0, r.count)
	for i := 0; i < r.count; i++ {
		out = append(out, *r.slots[(start+i)%r.count])
	}
	return out
}

// Stats returns the allocation counters.
func (r *Registry) Stats() Stats {
	return r.stats
}
