// Package mesh provides an in-process implementation of the session
// transport contract: one Bus stands in for the shared channel, one
// Endpoint per participant. Broadcasts loop back to the sender, exactly
// as the real group channel does, so the session's self-filtering is
// exercised for real.
package mesh

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vipulgupta2048/poll-activity/internal/session"
)

// Bus is an in-process group-messaging channel. Deliveries run
// synchronously on the caller's goroutine, which gives every handler the
// run-to-completion semantics the session expects.
type Bus struct {
	mu        sync.Mutex
	endpoints map[string]*Endpoint
	order     []string          // deterministic delivery order
	names     map[string]string // handle -> display name, survives Leave
}

func NewBus() *Bus {
	return &Bus{
		endpoints: make(map[string]*Endpoint),
		names:     make(map[string]string),
	}
}

// Endpoint is one participant's attachment to the bus. It implements
// session.Transport.
type Endpoint struct {
	bus  *Bus
	id   string
	name string

	onMembership func(added []session.Participant, removed []string)
	onMessage    func(session.Envelope)
}

// Join attaches a new participant with the given display name and fires
// membership callbacks: existing endpoints learn about the newcomer, the
// newcomer learns about everyone already present (itself included).
func (b *Bus) Join(name string) *Endpoint {
	e := &Endpoint{
		bus:  b,
		id:   uuid.NewString(),
		name: name,
	}

	b.mu.Lock()
	b.endpoints[e.id] = e
	b.order = append(b.order, e.id)
	b.names[e.id] = name
	others := b.snapshotLocked(e.id)
	b.mu.Unlock()

	newcomer := []session.Participant{{Handle: e.id, Name: name}}
	for _, other := range others {
		if other.onMembership != nil {
			other.onMembership(newcomer, nil)
		}
	}
	return e
}

// Leave detaches a participant and reports the removal to everyone still
// attached. The handle stays resolvable afterwards.
func (b *Bus) Leave(e *Endpoint) {
	b.mu.Lock()
	if _, ok := b.endpoints[e.id]; !ok {
		b.mu.Unlock()
		return
	}
	delete(b.endpoints, e.id)
	for i, id := range b.order {
		if id == e.id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	remaining := b.snapshotLocked("")
	b.mu.Unlock()

	for _, other := range remaining {
		if other.onMembership != nil {
			other.onMembership(nil, []string{e.id})
		}
	}
}

// snapshotLocked returns the attached endpoints in join order, skipping
// the one with the given id. Callers deliver outside the lock so a
// handler can send without deadlocking the bus.
func (b *Bus) snapshotLocked(skip string) []*Endpoint {
	out := make([]*Endpoint, 0, len(b.order))
	for _, id := range b.order {
		if id == skip {
			continue
		}
		out = append(out, b.endpoints[id])
	}
	return out
}

func (e *Endpoint) Broadcast(name string, payload any) error {
	raw, err := marshal(payload)
	if err != nil {
		return err
	}
	env := session.Envelope{Sender: e.id, Name: name, Payload: raw}

	e.bus.mu.Lock()
	targets := e.bus.snapshotLocked("")
	e.bus.mu.Unlock()

	for _, t := range targets {
		if t.onMessage != nil {
			t.onMessage(env)
		}
	}
	return nil
}

func (e *Endpoint) Call(target, method string, payload any) error {
	raw, err := marshal(payload)
	if err != nil {
		return err
	}

	e.bus.mu.Lock()
	t, ok := e.bus.endpoints[target]
	e.bus.mu.Unlock()
	if !ok {
		return fmt.Errorf("no participant %s", target)
	}

	if t.onMessage != nil {
		t.onMessage(session.Envelope{Sender: e.id, Name: method, Payload: raw})
	}
	return nil
}

// WatchMembership registers the callback and immediately replays the
// current roster as an initial change, the way a freshly watched channel
// reports its members. Registering after Join therefore still enters the
// session.
func (e *Endpoint) WatchMembership(fn func(added []session.Participant, removed []string)) {
	e.onMembership = fn

	e.bus.mu.Lock()
	var present []session.Participant
	for _, id := range e.bus.order {
		present = append(present, session.Participant{Handle: id, Name: e.bus.names[id]})
	}
	e.bus.mu.Unlock()

	if len(present) > 0 {
		fn(present, nil)
	}
}

func (e *Endpoint) HandleMessages(fn func(session.Envelope)) {
	e.onMessage = fn
}

func (e *Endpoint) SelfID() string { return e.id }

func (e *Endpoint) ResolveName(handle string) (string, error) {
	e.bus.mu.Lock()
	defer e.bus.mu.Unlock()
	name, ok := e.bus.names[handle]
	if !ok {
		return "", fmt.Errorf("unknown participant %s", handle)
	}
	return name, nil
}

func marshal(payload any) (json.RawMessage, error) {
	if payload == nil {
		return nil, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return raw, nil
}
