package behavior

// ActionCallback is invoked for every action-node output a tick produces;
// the orchestrator routes these into §3/Instance mutations (§4.8).
type ActionCallback func(instanceID uint64, nodeType NodeType, kind UpdateKind, value float32, flag bool)

// pinOut and pinTrue/pinFalse are the conventional output pin names a node
// fires on when its graph doesn't author an explicit FromPin (§4.8 "typed
// input/output pins"). A Link whose FromPin is empty matches whatever pin
// the source node fires, so ungated authoring keeps working unchanged.
const (
	pinOut   Pin = "out"
	pinTrue  Pin = "true"
	pinFalse Pin = "false"
)

// nodeHandler runs one node given its tick state and the active event (if
// any), returning the output pin it fired on and whether it fired at all. A
// node "suspends" when it returns fired=false: its outgoing links are not
// followed for the rest of this tick, matching §4.8's "until no more nodes
// fire or a node suspends". The next tick walks from the roots again and
// evaluates the node afresh.
type nodeHandler func(n Node, ev Event, cb ActionCallback, instanceID uint64) (firedPin Pin, fired bool)

// dispatch is the tagged small-table of node handlers, keyed by NodeType
// (grounded on the same small, explicit dispatch-table idiom the shader
// pre-processor uses for its annotation registry).
var dispatch = map[NodeType]nodeHandler{
	NodeInstance:         handleInstanceNode,
	NodeAction:           handleActionNode,
	NodeFaceAnim:         handleFaceAnimNode,
	NodeHeadAnim:         handleHeadAnimNode,
	NodeRandomNavigation: handleRandomNavigationNode,
	NodeLogic:            handleLogicNode,
}

// handleInstanceNode gates on the node's configured trigger event, mirroring
// how handleActionNode reads "kind" out of Params. A node with no "event"
// param is an unconditional root (e.g. a patrol entry point that should run
// every tick); a node with "event" set only propagates when the tick's
// active event matches, and when the node also pins an "otherId" it must
// match ev.OtherID too (instance-to-instance collision gating).
func handleInstanceNode(n Node, ev Event, cb ActionCallback, instanceID uint64) (Pin, bool) {
	wantEvent, gated := n.Params["event"]
	if !gated {
		return pinOut, true
	}
	if ev.Kind != EventKind(int(wantEvent)) {
		return pinOut, false
	}
	if wantOther, ok := n.Params["otherId"]; ok && uint64(wantOther) != ev.OtherID {
		return pinOut, false
	}
	return pinOut, true
}

func handleActionNode(n Node, ev Event, cb ActionCallback, instanceID uint64) (Pin, bool) {
	kind := UpdateKind(int(n.Params["kind"]))
	cb(instanceID, NodeAction, kind, n.Params["value"], n.Params["flag"] != 0)
	return pinOut, true
}

func handleFaceAnimNode(n Node, ev Event, cb ActionCallback, instanceID uint64) (Pin, bool) {
	cb(instanceID, NodeFaceAnim, UpdateFaceAnimSelect, n.Params["faceAnim"], false)
	cb(instanceID, NodeFaceAnim, UpdateFaceAnimWeight, n.Params["weight"], false)
	return pinOut, true
}

func handleHeadAnimNode(n Node, ev Event, cb ActionCallback, instanceID uint64) (Pin, bool) {
	cb(instanceID, NodeHeadAnim, UpdateHeadLook, n.Params["leftRight"], false)
	cb(instanceID, NodeHeadAnim, UpdateHeadLook, n.Params["upDown"], true)
	return pinOut, true
}

func handleRandomNavigationNode(n Node, ev Event, cb ActionCallback, instanceID uint64) (Pin, bool) {
	cb(instanceID, NodeRandomNavigation, UpdateRandomNavigation, 0, false)
	return pinOut, true
}

// handleLogicNode evaluates the editor-authored comparison "lhs op rhs"
// (op: 0 >=, 1 ==, 2 <=) and fires the "true" or "false" pin accordingly, so
// a graph can branch on it via two differently-pinned outgoing Links. A
// node with no comparison configured passes through on "true".
func handleLogicNode(n Node, ev Event, cb ActionCallback, instanceID uint64) (Pin, bool) {
	lhs, hasLhs := n.Params["lhs"]
	rhs, hasRhs := n.Params["rhs"]
	if !hasLhs || !hasRhs {
		return pinTrue, true
	}
	var result bool
	switch int(n.Params["op"]) {
	case 1:
		result = lhs == rhs
	case 2:
		result = lhs <= rhs
	default:
		result = lhs >= rhs
	}
	if result {
		return pinTrue, true
	}
	return pinFalse, true
}

// instanceState is the per-attached-instance tick state, cloned so that
// behavior execution for one instance never mutates another's state
// (§8 property 10).
type instanceState struct {
	instanceID uint64
	graph      *Graph
	pending    []Event
}

// Tick advances this instance's graph from its active roots, consuming
// events, until no more nodes fire (§4.8 "Tick (once per frame)").
func (s *instanceState) Tick(cb ActionCallback) {
	ev := Event{Kind: EventNone, InstanceID: s.instanceID}
	if len(s.pending) > 0 {
		ev = s.pending[0]
		s.pending = s.pending[1:]
	}

	frontier := append([]NodeID(nil), s.graph.Roots...)
	visited := make(map[NodeID]bool)

	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		node, ok := s.graph.Nodes[id]
		if !ok {
			continue
		}
		handler, ok := dispatch[node.Type]
		if !ok {
			continue
		}
		firedPin, fired := handler(node, ev, cb, s.instanceID)
		if !fired {
			continue // suspended
		}
		for _, l := range s.graph.Links {
			if l.FromNode != id || visited[l.ToNode] {
				continue
			}
			if l.FromPin != "" && l.FromPin != firedPin {
				continue // typed pin didn't fire, e.g. the unmatched branch of a logic node
			}
			frontier = append(frontier, l.ToNode)
		}
	}
}
