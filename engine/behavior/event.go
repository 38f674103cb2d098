// Package behavior implements the behavior graph interpreter of §4.8: a
// directed graph of typed nodes, cloned per attached instance so tick state
// is isolated, driven by an event queue that collision and navigation feed
// and that the orchestrator drains once per frame.
package behavior

// EventKind enumerates the node events §4.8 supports.
type EventKind int

const (
	EventNone EventKind = iota
	EventInstanceToInstanceCollision
	EventInstanceToEdgeCollision
	EventInteraction
	EventInstanceToLevelCollision
	EventNavTargetReached
)

// Event is one queued occurrence for a single instance (§4.8 "external
// callers push events {instanceId, nodeEvent}").
type Event struct {
	InstanceID uint64
	OtherID    uint64 // populated for instanceToInstanceCollision, else 0
	Kind       EventKind
}
