package poll

import "time"

// Record is the structural snapshot of a poll used by the persistence
// layer. Dates travel as proleptic Gregorian ordinals (day 1 = 0001-01-01)
// so a record written by any implementation of the activity reads back the
// same everywhere.
type Record struct {
	Title           string             `json:"title"`
	Author          string             `json:"author"`
	Active          bool               `json:"active"`
	CreateDate      int                `json:"createdate"`
	MaxVoters       int                `json:"maxvoters"`
	Question        string             `json:"question"`
	NumberOfOptions int                `json:"number_of_options"`
	Options         [MaxOptions]string `json:"options"`
	Data            [MaxOptions]int    `json:"data"`
	Votes           map[string]int     `json:"votes"`
	ImageIDs        [MaxOptions]string `json:"images_ds_object_ids"`
}

// SHA returns the identity digest of the poll the record describes.
func (r Record) SHA() string {
	return contentSHA(r.Title + r.Author)
}

// Snapshot reduces the poll to its persistence record. Image attachments
// are reduced to their external datastore identifiers.
func (p *Poll) Snapshot() Record {
	votes := make(map[string]int, len(p.Votes))
	for voter, choice := range p.Votes {
		votes[voter] = choice
	}
	return Record{
		Title:           p.Title,
		Author:          p.Author,
		Active:          p.Active,
		CreateDate:      DateToOrdinal(p.CreateDate),
		MaxVoters:       p.MaxVoters,
		Question:        p.Question,
		NumberOfOptions: p.NumberOfOptions,
		Options:         p.Options,
		Data:            p.Data,
		Votes:           votes,
		ImageIDs:        p.ImageIDs,
	}
}

// FromRecord rebuilds a poll from its persistence record.
func FromRecord(r Record) *Poll {
	votes := make(map[string]int, len(r.Votes))
	for voter, choice := range r.Votes {
		votes[voter] = choice
	}
	return &Poll{
		Title:           r.Title,
		Author:          r.Author,
		Active:          r.Active,
		CreateDate:      OrdinalToDate(r.CreateDate),
		MaxVoters:       r.MaxVoters,
		Question:        r.Question,
		NumberOfOptions: r.NumberOfOptions,
		Options:         r.Options,
		Data:            r.Data,
		Votes:           votes,
		ImageIDs:        r.ImageIDs,
		LastVote:        NoVote,
	}
}

var ordinalEpoch = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateToOrdinal returns the proleptic Gregorian ordinal of t's calendar
// day, where 0001-01-01 is day 1.
func DateToOrdinal(t time.Time) int {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int((day.Unix()-ordinalEpoch.Unix())/86400) + 1
}

// OrdinalToDate is the inverse of DateToOrdinal.
func OrdinalToDate(n int) time.Time {
	return ordinalEpoch.AddDate(0, 0, n-1)
}
