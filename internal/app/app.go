package app

import (
	"errors"
	"log/slog"

	"github.com/vipulgupta2048/poll-activity/internal/poll"
)

var ErrUnknownPoll = errors.New("no poll with that sha")

// NotifyFunc surfaces a user-visible notification (title, message).
type NotifyFunc func(title, message string)

// Activity is the root collaborator owning the poll collection and the
// local user's identity. The session coordinator and the polls themselves
// mutate the collection only through it.
type Activity struct {
	nick    string
	nickSHA string

	polls   []*poll.Poll
	current *poll.Poll

	settings Settings

	link poll.SessionLink

	notify  NotifyFunc
	refresh func()
	logger  *slog.Logger
}

func New(nick string, logger *slog.Logger) *Activity {
	return &Activity{
		nick:     nick,
		nickSHA:  poll.VoterSHA(nick),
		settings: DefaultSettings(),
		logger:   logger,
	}
}

// Nick returns the local user's display name, the author key for polls.
func (a *Activity) Nick() string { return a.nick }

// NickSHA returns the local user's pseudonymous voter digest.
func (a *Activity) NickSHA() string { return a.nickSHA }

// OnNotify registers the notification surface (an alert in the UI).
func (a *Activity) OnNotify(fn NotifyFunc) { a.notify = fn }

// OnActivePollMutated registers the hook fired when the currently
// displayed poll changes under the user because of a remote vote.
func (a *Activity) OnActivePollMutated(fn func()) { a.refresh = fn }

// Notify surfaces a user-visible notification if a surface is registered.
func (a *Activity) Notify(title, message string) {
	if a.notify != nil {
		a.notify(title, message)
	}
}

// Polls returns the poll collection. Callers must not retain the slice
// across mutations of the collection.
func (a *Activity) Polls() []*poll.Poll { return a.polls }

// MyPolls returns the polls authored by the local user.
func (a *Activity) MyPolls() []*poll.Poll {
	var mine []*poll.Poll
	for _, p := range a.polls {
		if p.Author == a.nick {
			mine = append(mine, p)
		}
	}
	return mine
}

// AttachSession hands every poll, present and future, the link to the
// active shared session. Called by the session coordinator on entry.
func (a *Activity) AttachSession(link poll.SessionLink) {
	a.link = link
	for _, p := range a.polls {
		p.AttachSession(link, a.nickSHA)
	}
}

// AddPoll appends a poll to the collection. Deliberately no
// de-duplication: a remote announcement for an already known poll adds a
// second instance, matching the behavior this activity has always had.
func (a *Activity) AddPoll(p *poll.Poll) {
	if a.link != nil {
		p.AttachSession(a.link, a.nickSHA)
	}
	a.polls = append(a.polls, p)
}

// FindBySHA returns the first poll with the given identity digest.
func (a *Activity) FindBySHA(sha string) (*poll.Poll, bool) {
	for _, p := range a.polls {
		if p.SHA() == sha {
			return p, true
		}
	}
	return nil, false
}

// DeletePoll removes every poll with the given identity digest. The
// current poll is cleared if it is among them.
func (a *Activity) DeletePoll(sha string) error {
	kept := a.polls[:0]
	removed := false
	for _, p := range a.polls {
		if p.SHA() == sha {
			removed = true
			if a.current == p {
				a.current = nil
			}
			continue
		}
		kept = append(kept, p)
	}
	a.polls = kept
	if !removed {
		return ErrUnknownPoll
	}
	return nil
}

// SetCurrent marks the poll the user is looking at.
func (a *Activity) SetCurrent(p *poll.Poll) { a.current = p }

// Current returns the poll the user is looking at, or nil.
func (a *Activity) Current() *poll.Poll { return a.current }

// VoteOnPoll applies a remote-origin vote to every local poll matching
// the author and title. A vote for an unknown poll is a no-op. Votes
// refused because the poll is closed or full are logged and dropped; a
// late vote is not an error worth surfacing.
func (a *Activity) VoteOnPoll(author, title string, choice int, voterSHA string) {
	for _, p := range a.polls {
		if p.Author != author || p.Title != title {
			continue
		}
		if err := a.registerRemoteVote(p, choice, voterSHA); err != nil {
			continue
		}
		a.Notify("Vote", "Somebody voted on "+title)
		if p == a.current && a.refresh != nil {
			a.refresh()
		}
	}
}

func (a *Activity) registerRemoteVote(p *poll.Poll, choice int, voterSHA string) error {
	err := p.RegisterVote(choice, voterSHA)
	switch {
	case errors.Is(err, poll.ErrMaxVoters):
		a.logger.Debug("ignored mesh vote, poll reached maxvoters",
			"choice", choice, "voter", voterSHA, "title", p.Title)
	case errors.Is(err, poll.ErrPollClosed):
		a.logger.Debug("ignored mesh vote, poll closed",
			"choice", choice, "voter", voterSHA, "title", p.Title)
	case err != nil:
		a.logger.Debug("ignored mesh vote",
			"choice", choice, "voter", voterSHA, "title", p.Title, "error", err)
	}
	return err
}

// SavePoll validates and activates a freshly authored poll, adds it to
// the collection and announces it to the mesh if a session is active.
func (a *Activity) SavePoll(p *poll.Poll) ([]string, error) {
	if failed := p.Validate(); len(failed) != 0 {
		return failed, errors.New("poll failed validation")
	}
	p.Active = true
	a.AddPoll(p)
	p.BroadcastOnMesh()
	return nil, nil
}
