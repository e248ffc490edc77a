package session

import (
	"fmt"

	"github.com/vipulgupta2048/poll-activity/internal/poll"
)

// HelloBackPayload addresses a HelloBack to the participant whose Hello
// is being answered. Everyone else ignores it.
type HelloBackPayload struct {
	Recipient string `json:"recipient"`
}

func (h HelloBackPayload) Validate() error {
	if h.Recipient == "" {
		return fmt.Errorf("helloback without recipient")
	}
	return nil
}

// VotePayload announces one vote on the poll identified by author and
// title.
type VotePayload struct {
	Author   string `json:"author"`
	Title    string `json:"title"`
	Choice   int    `json:"choice"`
	VoterSHA string `json:"votersha"`
}

func (v VotePayload) Validate() error {
	if v.Author == "" || v.Title == "" {
		return fmt.Errorf("vote without poll identity")
	}
	if v.Choice < 0 || v.Choice >= poll.MaxOptions {
		return fmt.Errorf("choice %d out of range", v.Choice)
	}
	if v.VoterSHA == "" {
		return fmt.Errorf("vote without voter digest")
	}
	return nil
}

// PollsWantedPayload asks the receiver to push its authored polls to the
// named sender.
type PollsWantedPayload struct {
	Sender string `json:"sender"`
}

func (p PollsWantedPayload) Validate() error {
	if p.Sender == "" {
		return fmt.Errorf("pollswanted without sender")
	}
	return nil
}

// PollPayload carries full poll state, for UpdatedPoll broadcasts and
// UpdatePoll calls alike. Images travel as opaque per-choice strings.
type PollPayload struct {
	Title           string                  `json:"title"`
	Author          string                  `json:"author"`
	Active          bool                    `json:"active"`
	CreateDate      int                     `json:"createdate"`
	MaxVoters       int                     `json:"maxvoters"`
	Question        string                  `json:"question"`
	NumberOfOptions int                     `json:"number_of_options"`
	Options         [poll.MaxOptions]string `json:"options"`
	Data            [poll.MaxOptions]int    `json:"data"`
	Votes           map[string]int          `json:"votes"`
	Images          [poll.MaxOptions]string `json:"images"`
}

func (pl PollPayload) Validate() error {
	if pl.Title == "" || pl.Author == "" {
		return fmt.Errorf("poll without identity")
	}
	if pl.NumberOfOptions < poll.MinOptions || pl.NumberOfOptions > poll.MaxOptions {
		return fmt.Errorf("number_of_options %d out of range", pl.NumberOfOptions)
	}
	if pl.MaxVoters <= 0 {
		return fmt.Errorf("maxvoters %d out of range", pl.MaxVoters)
	}
	if pl.CreateDate <= 0 {
		return fmt.Errorf("createdate %d out of range", pl.CreateDate)
	}
	for i, n := range pl.Data {
		if n < 0 {
			return fmt.Errorf("negative tally %d for choice %d", n, i)
		}
	}
	for voter, choice := range pl.Votes {
		if choice < 0 || choice >= poll.MaxOptions {
			return fmt.Errorf("vote by %s for choice %d out of range", voter, choice)
		}
	}
	return nil
}

// Poll reconstructs a poll entity from the payload.
func (pl PollPayload) Poll() *poll.Poll {
	votes := make(map[string]int, len(pl.Votes))
	for voter, choice := range pl.Votes {
		votes[voter] = choice
	}
	return &poll.Poll{
		Title:           pl.Title,
		Author:          pl.Author,
		Active:          pl.Active,
		CreateDate:      poll.OrdinalToDate(pl.CreateDate),
		MaxVoters:       pl.MaxVoters,
		Question:        pl.Question,
		NumberOfOptions: pl.NumberOfOptions,
		Options:         pl.Options,
		Data:            pl.Data,
		Votes:           votes,
		ImageIDs:        pl.Images,
		LastVote:        poll.NoVote,
	}
}

func pollPayloadFrom(p *poll.Poll) PollPayload {
	votes := make(map[string]int, len(p.Votes))
	for voter, choice := range p.Votes {
		votes[voter] = choice
	}
	return PollPayload{
		Title:           p.Title,
		Author:          p.Author,
		Active:          p.Active,
		CreateDate:      poll.DateToOrdinal(p.CreateDate),
		MaxVoters:       p.MaxVoters,
		Question:        p.Question,
		NumberOfOptions: p.NumberOfOptions,
		Options:         p.Options,
		Data:            p.Data,
		Votes:           votes,
		Images:          p.ImageIDs,
	}
}
