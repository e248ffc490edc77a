package session

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vipulgupta2048/poll-activity/internal/app"
	"github.com/vipulgupta2048/poll-activity/internal/poll"
)

// Session translates transport events into poll-collection mutations and
// local poll mutations into outbound messages. It keeps every
// participant's authored polls known to every other participant and
// propagates votes without echo.
//
// The join handshake: a newcomer broadcasts Hello; every peer pushes its
// authored polls to the newcomer with UpdatePoll calls and answers with a
// HelloBack addressed to the newcomer, which pushes the newcomer's polls
// back the same way. The session initiator sends nothing on entry and
// waits for others to announce themselves.
type Session struct {
	activity  *app.Activity
	transport Transport
	logger    *slog.Logger

	isInitiator bool
	entered     bool
	ownID       string
}

// New wires a session to a transport and starts watching membership.
// Message handlers go live on the first membership change, once.
func New(tr Transport, isInitiator bool, activity *app.Activity, logger *slog.Logger) *Session {
	s := &Session{
		activity:    activity,
		transport:   tr,
		logger:      logger,
		isInitiator: isInitiator,
	}
	tr.WatchMembership(s.onMembershipChange)
	return s
}

// Entered reports whether the one-time join handshake has run.
func (s *Session) Entered() bool { return s.entered }

func (s *Session) onMembershipChange(added []Participant, removed []string) {
	for _, p := range added {
		s.logger.Debug("participant joined", "handle", p.Handle, "name", p.Name)
	}

	for _, handle := range removed {
		name, err := s.transport.ResolveName(handle)
		if err != nil {
			s.logger.Warn("cannot resolve departed participant", "handle", handle, "error", err)
			continue
		}
		// The author is gone, so nobody can authoritatively close the
		// poll or answer votes on it anymore. Treat it as dead.
		for _, p := range s.activity.Polls() {
			if p.Author == name && p.Active {
				p.Active = false
				s.logger.Info("closing poll of departed author", "title", p.Title, "author", p.Author)
			}
		}
	}

	if s.entered {
		return
	}

	// Handlers and own identity must be in place before the Hello goes
	// out: replies can arrive the moment it is sent.
	s.ownID = s.transport.SelfID()
	s.transport.HandleMessages(s.handleEnvelope)
	s.entered = true
	s.activity.AttachSession(s)

	if s.isInitiator {
		s.logger.Debug("initiating the session, waiting for hellos")
		return
	}

	s.logger.Debug("joining, sending hello")
	if err := s.transport.Broadcast(MsgHello, nil); err != nil {
		s.logger.Error("hello broadcast failed", "error", err)
	}
}

// handleEnvelope dispatches one inbound delivery. Broadcast transports
// loop messages back to the sender, so anything self-originated is
// dropped first. Nothing a handler fails on escalates past this point.
func (s *Session) handleEnvelope(env Envelope) {
	if env.Sender == s.ownID {
		return
	}

	switch env.Name {
	case MsgHello:
		s.handleHello(env)
	case MsgHelloBack:
		s.handleHelloBack(env)
	case MsgVote:
		s.handleVote(env)
	case MsgUpdatedPoll, MethodUpdatePoll:
		s.handlePollUpdate(env)
	case MethodPollsWanted:
		s.handlePollsWanted(env)
	default:
		s.logger.Debug("ignoring unknown message", "name", env.Name, "sender", env.Sender)
	}
}

func (s *Session) handleHello(env Envelope) {
	s.logger.Debug("newcomer sent hello", "sender", env.Sender)

	s.sendMyPolls(env.Sender)

	// Ask for the newcomer's polls in return.
	err := s.transport.Broadcast(MsgHelloBack, HelloBackPayload{Recipient: env.Sender})
	if err != nil {
		s.logger.Error("helloback broadcast failed", "error", err)
	}
}

func (s *Session) handleHelloBack(env Envelope) {
	var pl HelloBackPayload
	if err := decode(env, &pl); err != nil {
		s.logger.Warn("dropping malformed helloback", "sender", env.Sender, "error", err)
		return
	}
	if pl.Recipient != s.ownID {
		return // not for me
	}

	s.logger.Debug("helloback for me, sending my polls", "sender", env.Sender)
	s.sendMyPolls(env.Sender)
}

func (s *Session) handleVote(env Envelope) {
	var pl VotePayload
	if err := decode(env, &pl); err != nil {
		s.logger.Warn("dropping malformed vote", "sender", env.Sender, "error", err)
		return
	}

	s.logger.Debug("mesh vote received",
		"voter", pl.VoterSHA, "choice", pl.Choice, "title", pl.Title, "author", pl.Author)

	s.activity.VoteOnPoll(pl.Author, pl.Title, pl.Choice, pl.VoterSHA)
}

func (s *Session) handlePollUpdate(env Envelope) {
	var pl PollPayload
	if err := decode(env, &pl); err != nil {
		s.logger.Warn("dropping malformed poll update", "sender", env.Sender, "error", err)
		return
	}

	p := pl.Poll()
	s.activity.AddPoll(p)

	s.logger.Info("poll received from mesh", "title", p.Title, "author", p.Author)
	s.activity.Notify("New Poll",
		fmt.Sprintf("%s shared a poll '%s' with you.", p.Author, p.Title))
}

func (s *Session) handlePollsWanted(env Envelope) {
	var pl PollsWantedPayload
	if err := decode(env, &pl); err != nil {
		s.logger.Warn("dropping malformed pollswanted", "sender", env.Sender, "error", err)
		return
	}
	s.sendMyPolls(pl.Sender)
}

// sendMyPolls pushes every locally authored poll to one participant.
func (s *Session) sendMyPolls(target string) {
	for _, p := range s.activity.MyPolls() {
		s.logger.Debug("telling participant about my poll", "target", target, "title", p.Title)
		if err := s.transport.Call(target, MethodUpdatePoll, pollPayloadFrom(p)); err != nil {
			s.logger.Error("updatepoll call failed", "target", target, "title", p.Title, "error", err)
		}
	}
}

// VoteCast broadcasts a locally cast vote. Part of poll.SessionLink.
func (s *Session) VoteCast(author, title string, choice int, voterSHA string) {
	err := s.transport.Broadcast(MsgVote, VotePayload{
		Author:   author,
		Title:    title,
		Choice:   choice,
		VoterSHA: voterSHA,
	})
	if err != nil {
		s.logger.Error("vote broadcast failed", "title", title, "error", err)
	}
}

// PollUpdated broadcasts a poll's full state. Part of poll.SessionLink.
func (s *Session) PollUpdated(p *poll.Poll) {
	if err := s.transport.Broadcast(MsgUpdatedPoll, pollPayloadFrom(p)); err != nil {
		s.logger.Error("updatedpoll broadcast failed", "title", p.Title, "error", err)
	}
}

// RequestPolls asks one participant to push its authored polls here.
func (s *Session) RequestPolls(target string) {
	err := s.transport.Call(target, MethodPollsWanted, PollsWantedPayload{Sender: s.ownID})
	if err != nil {
		s.logger.Error("pollswanted call failed", "target", target, "error", err)
	}
}

func decode(env Envelope, dst interface{ Validate() error }) error {
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		return err
	}
	return dst.Validate()
}
