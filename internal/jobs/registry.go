package jobs

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/video-tools/server/pkg/log"
)

// DefaultRetention is how long finished jobs stay queryable after their
// last state change.
const DefaultRetention = 24 * time.Hour

// Registry is an in-memory job table keyed by task id. All state is lost on
// process exit; clients are expected to resubmit. Reads return snapshots, so
// callers never observe a job mid-update.
type Registry[T any] struct {
	retention time.Duration
	terminal  func(T) bool

	mu      sync.RWMutex
	entries map[string]entry[T]
}

type entry[T any] struct {
	value     T
	updatedAt time.Time
}

// NewRegistry builds a registry that sweeps entries for which terminal
// returns true once they have been idle for retention.
func NewRegistry[T any](retention time.Duration, terminal func(T) bool) *Registry[T] {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Registry[T]{
		retention: retention,
		terminal:  terminal,
		entries:   make(map[string]entry[T]),
	}
}

func (r *Registry[T]) Put(id string, value T) {
	r.mu.Lock()
	r.entries[id] = entry[T]{value: value, updatedAt: time.Now()}
	r.mu.Unlock()
}

func (r *Registry[T]) Get(id string) (T, bool) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	return e.value, ok
}

// Update mutates the stored value under the registry lock. Unknown ids are
// ignored; a job may have been swept between the caller's Get and Update.
func (r *Registry[T]) Update(id string, fn func(*T)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return
	}
	fn(&e.value)
	e.updatedAt = time.Now()
	r.entries[id] = e
}

func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Sweep removes terminal entries whose last update is older than the
// retention window and returns how many were removed. Running jobs are never
// swept regardless of age.
func (r *Registry[T]) Sweep(now time.Time) int {
	cutoff := now.Add(-r.retention)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if r.terminal != nil && !r.terminal(e.value) {
			continue
		}
		if e.updatedAt.After(cutoff) {
			continue
		}
		delete(r.entries, id)
		removed++
	}
	return removed
}

// ScheduleSweep registers a periodic sweep on the given scheduler.
func (r *Registry[T]) ScheduleSweep(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		if removed := r.Sweep(time.Now()); removed > 0 {
			log.Info("Swept %d expired jobs from registry", removed)
		}
	})
}
