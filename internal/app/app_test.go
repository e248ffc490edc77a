package app

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vipulgupta2048/poll-activity/internal/poll"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makePoll(title, author string, maxVoters int) *poll.Poll {
	return &poll.Poll{
		Title:           title,
		Author:          author,
		Active:          true,
		CreateDate:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		MaxVoters:       maxVoters,
		Question:        "?",
		NumberOfOptions: 2,
		Options:         [poll.MaxOptions]string{"Yes", "No"},
		Votes:           make(map[string]int),
	}
}

func TestMyPolls_FiltersByAuthor(t *testing.T) {
	a := New("Ana", discardLogger())
	a.AddPoll(makePoll("Colors", "Ana", 5))
	a.AddPoll(makePoll("Lunch", "Bea", 5))
	a.AddPoll(makePoll("Music", "Ana", 5))

	mine := a.MyPolls()
	if len(mine) != 2 {
		t.Fatalf("got %d polls, want 2", len(mine))
	}
	for _, p := range mine {
		if p.Author != "Ana" {
			t.Errorf("MyPolls returned poll by %s", p.Author)
		}
	}
}

func TestAddPoll_NoDeduplication(t *testing.T) {
	a := New("Ana", discardLogger())
	a.AddPoll(makePoll("Colors", "Ana", 5))
	a.AddPoll(makePoll("Colors", "Ana", 5))

	if len(a.Polls()) != 2 {
		t.Errorf("got %d polls, want 2 instances of the same poll", len(a.Polls()))
	}
}

func TestDeletePoll_RemovesEveryInstance(t *testing.T) {
	a := New("Ana", discardLogger())
	p := makePoll("Colors", "Ana", 5)
	a.AddPoll(p)
	a.AddPoll(makePoll("Colors", "Ana", 5))
	a.AddPoll(makePoll("Lunch", "Bea", 5))
	a.SetCurrent(p)

	if err := a.DeletePoll(p.SHA()); err != nil {
		t.Fatalf("DeletePoll failed: %v", err)
	}
	if len(a.Polls()) != 1 {
		t.Errorf("got %d polls, want 1", len(a.Polls()))
	}
	if a.Current() != nil {
		t.Error("deleted poll still current")
	}

	if err := a.DeletePoll(p.SHA()); err != ErrUnknownPoll {
		t.Errorf("got %v, want ErrUnknownPoll", err)
	}
}

func TestVoteOnPoll_AppliesAndNotifies(t *testing.T) {
	a := New("Ana", discardLogger())
	p := makePoll("Colors", "Bea", 5)
	a.AddPoll(p)

	var notified []string
	a.OnNotify(func(title, message string) {
		notified = append(notified, message)
	})

	a.VoteOnPoll("Bea", "Colors", 1, "v9")

	if p.Data[1] != 1 {
		t.Errorf("got data %v, want vote on choice 1", p.Data)
	}
	if len(notified) != 1 {
		t.Errorf("got %d notifications, want 1", len(notified))
	}
}

func TestVoteOnPoll_UnknownPollIsNoOp(t *testing.T) {
	a := New("Ana", discardLogger())
	a.AddPoll(makePoll("Lunch", "Bea", 5))

	notified := false
	a.OnNotify(func(title, message string) { notified = true })

	a.VoteOnPoll("Ana", "Colors", 1, "v9")

	if notified {
		t.Error("vote on unknown poll surfaced a notification")
	}
}

func TestVoteOnPoll_ClosedPollDroppedSilently(t *testing.T) {
	a := New("Ana", discardLogger())
	p := makePoll("Colors", "Bea", 5)
	p.Active = false
	a.AddPoll(p)

	notified := false
	a.OnNotify(func(title, message string) { notified = true })

	a.VoteOnPoll("Bea", "Colors", 0, "v9")

	if p.VoteCount() != 0 {
		t.Errorf("closed poll mutated: %v", p.Data)
	}
	if notified {
		t.Error("dropped vote surfaced a notification")
	}
}

func TestVoteOnPoll_RefreshesCurrentPoll(t *testing.T) {
	a := New("Ana", discardLogger())
	current := makePoll("Colors", "Bea", 5)
	other := makePoll("Lunch", "Bea", 5)
	a.AddPoll(current)
	a.AddPoll(other)
	a.SetCurrent(current)

	refreshed := 0
	a.OnActivePollMutated(func() { refreshed++ })

	a.VoteOnPoll("Bea", "Lunch", 0, "v1")
	if refreshed != 0 {
		t.Error("vote on a background poll triggered a refresh")
	}

	a.VoteOnPoll("Bea", "Colors", 0, "v1")
	if refreshed != 1 {
		t.Errorf("got %d refreshes, want 1", refreshed)
	}
}

type recordingLink struct {
	votes int
	polls int
}

func (l *recordingLink) VoteCast(author, title string, choice int, voterSHA string) { l.votes++ }
func (l *recordingLink) PollUpdated(p *poll.Poll)                                   { l.polls++ }

func TestAttachSession_LinksPresentAndFuturePolls(t *testing.T) {
	a := New("Ana", discardLogger())
	before := makePoll("Colors", "Ana", 5)
	a.AddPoll(before)

	link := &recordingLink{}
	a.AttachSession(link)

	after := makePoll("Music", "Ana", 5)
	a.AddPoll(after)

	if err := before.RegisterVote(0, a.NickSHA()); err != nil {
		t.Fatalf("RegisterVote failed: %v", err)
	}
	if err := after.RegisterVote(1, a.NickSHA()); err != nil {
		t.Fatalf("RegisterVote failed: %v", err)
	}
	if link.votes != 2 {
		t.Errorf("got %d vote broadcasts, want 2", link.votes)
	}
}

func TestSavePoll_ValidatesAndActivates(t *testing.T) {
	a := New("Ana", discardLogger())
	p := poll.New("Ana")
	p.Title = "Colors"
	p.Question = "Which one?"
	p.Options[0] = "Red"
	p.Options[1] = "Blue"

	failed, err := a.SavePoll(p)
	if err != nil {
		t.Fatalf("SavePoll failed: %v (fields %v)", err, failed)
	}
	if !p.Active {
		t.Error("saved poll not activated")
	}
	if len(a.Polls()) != 1 {
		t.Errorf("got %d polls, want 1", len(a.Polls()))
	}
}

func TestSavePoll_RejectsIncomplete(t *testing.T) {
	a := New("Ana", discardLogger())
	p := poll.New("Ana")

	failed, err := a.SavePoll(p)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if len(failed) == 0 {
		t.Error("expected failed field names")
	}
	if len(a.Polls()) != 0 {
		t.Error("invalid poll added to the collection")
	}
}
