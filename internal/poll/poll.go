package poll

import (
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// MaxOptions is the fixed number of answer slots a poll carries.
// Polls with fewer answers leave the trailing slots empty.
const MaxOptions = 5

const (
	DefaultMaxVoters = 20
	MinOptions       = 2
)

// NoVote marks a poll on which the local user has not voted yet.
const NoVote = -1

// SessionLink is the outbound side of an active shared session. A poll uses
// it to announce locally cast votes and freshly saved polls to the mesh.
// Remote-origin mutations never go back out through it.
type SessionLink interface {
	VoteCast(author, title string, choice int, voterSHA string)
	PollUpdated(p *Poll)
}

// Poll holds one poll's configuration and its mutable tally.
type Poll struct {
	Title           string
	Author          string
	Active          bool
	CreateDate      time.Time
	MaxVoters       int
	Question        string
	NumberOfOptions int
	Options         [MaxOptions]string
	Data            [MaxOptions]int
	Votes           map[string]int // voter nick sha -> choice
	ImageIDs        [MaxOptions]string

	// LastVote remembers the local user's last choice so the UI can
	// preselect it. Not part of the shared state.
	LastVote int

	link   SessionLink
	ownSHA string
}

// New returns a blank poll owned by the given author, ready for editing.
// The poll stays inactive until it is saved.
func New(author string) *Poll {
	return &Poll{
		Author:          author,
		CreateDate:      time.Now(),
		MaxVoters:       DefaultMaxVoters,
		NumberOfOptions: MaxOptions,
		Votes:           make(map[string]int),
		LastVote:        NoVote,
	}
}

// AttachSession links the poll to an active shared session. ownSHA is the
// local user's voter digest; only votes cast under it are re-broadcast.
func (p *Poll) AttachSession(link SessionLink, ownSHA string) {
	p.link = link
	p.ownSHA = ownSHA
}

// DetachSession removes the session link, e.g. when the session ends.
func (p *Poll) DetachSession() {
	p.link = nil
	p.ownSHA = ""
}

// SHA returns the poll's identity digest, a sha1 of title and author.
// Two polls with the same title and author are the same poll as far as
// selection, deletion and mesh reconciliation are concerned.
func (p *Poll) SHA() string {
	return contentSHA(p.Title + p.Author)
}

// VoteCount returns the total number of votes tallied so far.
func (p *Poll) VoteCount() int {
	total := 0
	for _, n := range p.Data {
		total += n
	}
	return total
}

// RegisterVote records a vote for choice by the voter with the given nick
// digest. It returns ErrPollClosed if the poll is no longer active and
// ErrMaxVoters if the tally is already at capacity.
//
// A returning voter's entry in Votes is overwritten, but the tally for
// their previous choice is not decremented; multiple votes per voter are
// allowed and each one counts.
//
// When the poll reaches MaxVoters it closes itself. A vote cast by the
// local user on a session-linked poll is broadcast to the mesh; replayed
// remote votes are not, which is what keeps peers from echoing the same
// vote back and forth forever.
func (p *Poll) RegisterVote(choice int, voterSHA string) error {
	if !p.Active {
		return ErrPollClosed
	}
	if p.VoteCount() >= p.MaxVoters {
		return ErrMaxVoters
	}
	if choice < 0 || choice >= p.NumberOfOptions {
		return ErrBadChoice
	}

	if p.Votes == nil {
		p.Votes = make(map[string]int)
	}
	p.Votes[voterSHA] = choice
	p.Data[choice]++

	if p.VoteCount() >= p.MaxVoters {
		p.Active = false
	}

	if p.link != nil && voterSHA == p.ownSHA {
		p.link.VoteCast(p.Author, p.Title, choice, voterSHA)
	}
	return nil
}

// BroadcastOnMesh announces the poll's full state to the session, if one
// is attached. Called once when a freshly authored poll is saved.
func (p *Poll) BroadcastOnMesh() {
	if p.link != nil {
		p.link.PollUpdated(p)
	}
}

// VoterSHA returns the pseudonymous voter digest for a nickname.
func VoterSHA(nick string) string {
	return contentSHA(nick)
}

func contentSHA(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
