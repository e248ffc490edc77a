package session

import "encoding/json"

// Message and method names on the wire. Signals fan out to every
// participant (the sender included); methods go to exactly one.
const (
	MsgHello       = "Hello"
	MsgHelloBack   = "HelloBack"
	MsgVote        = "Vote"
	MsgUpdatedPoll = "UpdatedPoll"

	MethodUpdatePoll  = "UpdatePoll"
	MethodPollsWanted = "PollsWanted"
)

// Participant is one member of the shared session.
type Participant struct {
	Handle string
	Name   string
}

// Envelope is one inbound delivery from the transport. Payload stays raw
// until the handler for Name decodes it; a payload that does not decode
// is dropped at that boundary.
type Envelope struct {
	Sender  string
	Name    string
	Payload json.RawMessage
}

// Transport is the contract the session requires from the group-messaging
// channel: reliable ordered delivery of named messages to the session's
// participants, with the sender's own broadcasts looped back to it.
//
// Callbacks arrive one at a time on a single event loop; the session never
// needs locks around its state.
type Transport interface {
	// Broadcast sends a signal to every participant, including the sender.
	Broadcast(name string, payload any) error

	// Call invokes a method on exactly one participant.
	Call(target, method string, payload any) error

	// WatchMembership registers the callback for participants joining or
	// leaving. Removed participants are reported by handle only.
	WatchMembership(fn func(added []Participant, removed []string))

	// HandleMessages registers the callback for inbound signals and
	// method calls.
	HandleMessages(fn func(Envelope))

	// SelfID returns this participant's session-unique sender identity.
	SelfID() string

	// ResolveName maps a participant handle to its display name. It keeps
	// working for participants that have already left.
	ResolveName(handle string) (string, error)
}
