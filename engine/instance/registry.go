package instance

import (
	"sync"

	"github.com/oxyengine/charanim/engine/asset"
)

// nullInstance occupies index 0 of every list so that a zero index
// unambiguously means "no instance" (§3 Instance lifecycle).
var nullInstance = newInstance()

// Registry maintains the index-position lifecycle invariant of §3/§8
// property 1: a global list and, per model, a per-model list, both kept
// consistent with the live instance set on every Add/Clone/Delete/
// RemoveAll. An instance's id is assigned once at Add/Clone and never
// changes; its index position shifts when the lists compact on Delete.
type Registry interface {
	// Add creates and registers a new instance bound to m, returning it.
	Add(m asset.Model) Instance

	// Clone duplicates src's full state (transform, animation, physics,
	// navigation, behavior attachment — everything but id/index) into a
	// freshly registered instance.
	Clone(src Instance) Instance

	// Delete removes inst from both the global and per-model lists and
	// reassigns index positions of the instances that shifted.
	Delete(inst Instance)

	// RemoveAll clears every non-null instance from the registry.
	RemoveAll()

	// Get returns the instance at global index idx, or the null
	// instance (index 0) if idx is out of range.
	Get(idx int) Instance

	// GetByID returns the instance with the given stable id, or the null
	// instance if no live instance has that id. Unlike indexPosition (which
	// the §8 property 1 invariant reassigns on every compaction), id never
	// changes for the lifetime of an instance — other subsystems (behavior
	// attachments, queued events, navigation targets) key off it instead of
	// a position that shifts under them.
	GetByID(id uint64) Instance

	// All returns the live (non-null) global list, in index order.
	All() []Instance

	// ForModel returns the live (non-null) per-model list for m.
	ForModel(m asset.Model) []Instance

	// Count returns the number of live (non-null) instances.
	Count() int
}

type registry struct {
	mu       sync.Mutex
	nextID   uint64
	global   []Instance // index 0 is always nullInstance
	perModel map[asset.Model][]Instance
	byID     map[uint64]Instance
}

var _ Registry = &registry{}

// NewRegistry creates an empty Registry with the sentinel null instance
// occupying global index 0.
func NewRegistry() Registry {
	return &registry{
		nextID:   1,
		global:   []Instance{nullInstance},
		perModel: make(map[asset.Model][]Instance),
		byID:     make(map[uint64]Instance),
	}
}

func (r *registry) Add(m asset.Model) Instance {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst := newInstance()
	inst.mdl = m
	inst.id = r.nextID
	r.nextID++
	inst.enabled.Store(true)

	r.global = append(r.global, inst)
	inst.indexPosition = len(r.global) - 1

	list := r.perModel[m]
	list = append(list, inst)
	r.perModel[m] = list
	inst.perModelIndexPosition = len(list) - 1

	r.byID[inst.id] = inst

	return inst
}

func (r *registry) Clone(src Instance) Instance {
	s, ok := src.(*instance)
	if !ok || s == nullInstance {
		return nullInstance
	}

	r.mu.Lock()
	clone := newInstance()
	*clone = *s
	clone.id = r.nextID
	r.nextID++
	clone.indexPosition = -1
	clone.perModelIndexPosition = -1
	clone.enabled.Store(s.Enabled())
	r.mu.Unlock()

	r.mu.Lock()
	r.global = append(r.global, clone)
	clone.indexPosition = len(r.global) - 1
	list := r.perModel[clone.mdl]
	list = append(list, clone)
	r.perModel[clone.mdl] = list
	clone.perModelIndexPosition = len(list) - 1
	r.byID[clone.id] = clone
	r.mu.Unlock()

	return clone
}

func (r *registry) Delete(inst Instance) {
	s, ok := inst.(*instance)
	if !ok || s == nullInstance || s.indexPosition <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeFromGlobalLocked(s)
	r.removeFromModelLocked(s)
	delete(r.byID, s.id)
}

func (r *registry) removeFromGlobalLocked(s *instance) {
	idx := s.indexPosition
	if idx <= 0 || idx >= len(r.global) {
		return
	}
	r.global = append(r.global[:idx], r.global[idx+1:]...)
	for i := idx; i < len(r.global); i++ {
		if o, ok := r.global[i].(*instance); ok {
			o.indexPosition = i
		}
	}
	s.indexPosition = -1
}

func (r *registry) removeFromModelLocked(s *instance) {
	list := r.perModel[s.mdl]
	idx := s.perModelIndexPosition
	if idx < 0 || idx >= len(list) {
		return
	}
	list = append(list[:idx], list[idx+1:]...)
	for i := idx; i < len(list); i++ {
		if o, ok := list[i].(*instance); ok {
			o.perModelIndexPosition = i
		}
	}
	if len(list) == 0 {
		delete(r.perModel, s.mdl)
	} else {
		r.perModel[s.mdl] = list
	}
	s.perModelIndexPosition = -1
}

func (r *registry) RemoveAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, inst := range r.global[1:] {
		if s, ok := inst.(*instance); ok {
			s.indexPosition = -1
			s.perModelIndexPosition = -1
		}
	}
	r.global = []Instance{nullInstance}
	r.perModel = make(map[asset.Model][]Instance)
	r.byID = make(map[uint64]Instance)
}

func (r *registry) GetByID(id uint64) Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst, ok := r.byID[id]; ok {
		return inst
	}
	return nullInstance
}

func (r *registry) Get(idx int) Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx <= 0 || idx >= len(r.global) {
		return nullInstance
	}
	return r.global[idx]
}

func (r *registry) All() []Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Instance, len(r.global)-1)
	copy(out, r.global[1:])
	return out
}

func (r *registry) ForModel(m asset.Model) []Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.perModel[m]
	out := make([]Instance, len(list))
	copy(out, list)
	return out
}

func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.global) - 1
}
