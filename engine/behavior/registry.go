package behavior

import "sync"

// Registry is the runtime home for loaded behavior graphs and their
// per-instance clones (§4.8 lifecycle: addInstance, removeInstance,
// addModelBehavior, and the event queue).
type Registry struct {
	mu sync.Mutex

	graphs     map[string]*Graph
	attached   map[uint64]*instanceState // instanceID -> cloned tick state
	eventQueue []Event
}

// NewRegistry creates an empty behavior registry.
func NewRegistry() *Registry {
	return &Registry{
		graphs:   make(map[string]*Graph),
		attached: make(map[uint64]*instanceState),
	}
}

// LoadGraph registers a graph by name after validating it (§7
// GraphIntegrity): an invalid graph is rejected and not stored.
func (r *Registry) LoadGraph(g *Graph) error {
	if err := g.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs[g.Name] = g
	return nil
}

// AddInstance attaches a named graph to an instance, cloning its tick
// state so execution is isolated from every other attached instance.
func (r *Registry) AddInstance(instanceID uint64, graphName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.graphs[graphName]
	if !ok {
		return false
	}
	r.attached[instanceID] = &instanceState{instanceID: instanceID, graph: g}
	return true
}

// RemoveInstance detaches any behavior from an instance.
func (r *Registry) RemoveInstance(instanceID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attached, instanceID)
}

// AddModelBehavior bulk-assigns a graph to every instance of a model
// (§4.8 "addModelBehavior(name) bulk-assigns a graph to every instance of
// a model").
func (r *Registry) AddModelBehavior(graphName string, instanceIDs []uint64) {
	for _, id := range instanceIDs {
		r.AddInstance(id, graphName)
	}
}

// RemoveGraph deletes a behavior name, removing it from every attached
// instance and stopping them (§4.8 "deleting a behavior name removes it
// from all instances and stops them").
func (r *Registry) RemoveGraph(graphName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.graphs, graphName)
	for id, st := range r.attached {
		if st.graph.Name == graphName {
			delete(r.attached, id)
		}
	}
}

// PostEvent enqueues an event to be consumed on the next tick (§4.8
// "external callers push events").
func (r *Registry) PostEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eventQueue = append(r.eventQueue, ev)
}

// Tick drains the event queue, routes each event to its instance's
// pending list, and ticks every attached instance once. isLive reports
// whether an instance id is still a valid (non-deleted) instance; a
// behavior attached to a deleted instance is silently dropped (§7
// StateViolation) rather than erroring.
func (r *Registry) Tick(isLive func(instanceID uint64) bool, cb ActionCallback) {
	r.mu.Lock()
	queue := r.eventQueue
	r.eventQueue = nil
	for _, ev := range queue {
		if st, ok := r.attached[ev.InstanceID]; ok {
			st.pending = append(st.pending, ev)
		}
	}
	live := make([]*instanceState, 0, len(r.attached))
	for id, st := range r.attached {
		if !isLive(id) {
			delete(r.attached, id)
			continue
		}
		live = append(live, st)
	}
	r.mu.Unlock()

	for _, st := range live {
		st.Tick(cb)
	}
}
