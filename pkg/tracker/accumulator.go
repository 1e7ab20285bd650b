package tracker

import "sync"

// accumulator is the ordered store of captured records. It only grows until
// a clear, which discards the whole sequence with no archive.
type accumulator struct {
	mu      sync.RWMutex
	records []*Record
}

func (a *accumulator) append(r *Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, r)
}

// list returns a fresh slice sharing the record pointers: callers can append
// to the result without affecting the live sequence, while edits to a record
// remain visible everywhere.
func (a *accumulator) list() []*Record {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*Record, len(a.records))
	copy(out, a.records)
	return out
}

func (a *accumulator) hasAny() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records) > 0
}

func (a *accumulator) clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = nil
}
