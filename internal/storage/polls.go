package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vipulgupta2048/poll-activity/internal/poll"
)

// PollRepository persists poll records keyed by their identity digest.
// The structured fields (options, tallies, votes, image ids) are stored
// as JSON text columns.
type PollRepository struct {
	db *DB
}

func NewPollRepository(db *DB) *PollRepository {
	return &PollRepository{db: db}
}

// Save upserts a poll record under its sha. Saving the same poll again
// replaces the stored state.
func (r *PollRepository) Save(rec poll.Record) error {
	options, err := json.Marshal(rec.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	votes, err := json.Marshal(rec.Votes)
	if err != nil {
		return fmt.Errorf("marshal votes: %w", err)
	}
	imageIDs, err := json.Marshal(rec.ImageIDs)
	if err != nil {
		return fmt.Errorf("marshal image ids: %w", err)
	}

	_, err = r.db.db.Exec(`
		INSERT INTO polls (sha, title, author, active, createdate, maxvoters, question, number_of_options, options, data, votes, image_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sha) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			active = excluded.active,
			createdate = excluded.createdate,
			maxvoters = excluded.maxvoters,
			question = excluded.question,
			number_of_options = excluded.number_of_options,
			options = excluded.options,
			data = excluded.data,
			votes = excluded.votes,
			image_ids = excluded.image_ids
	`, rec.SHA(), rec.Title, rec.Author, rec.Active, rec.CreateDate, rec.MaxVoters,
		rec.Question, rec.NumberOfOptions, string(options), string(data), string(votes), string(imageIDs))
	if err != nil {
		return fmt.Errorf("upsert poll: %w", err)
	}
	return nil
}

// Get returns the record stored under sha, or nil if there is none.
func (r *PollRepository) Get(sha string) (*poll.Record, error) {
	row := r.db.db.QueryRow(`
		SELECT title, author, active, createdate, maxvoters, question, number_of_options, options, data, votes, image_ids
		FROM polls
		WHERE sha = ?
	`, sha)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns every stored poll record, oldest save first.
func (r *PollRepository) List() ([]poll.Record, error) {
	rows, err := r.db.db.Query(`
		SELECT title, author, active, createdate, maxvoters, question, number_of_options, options, data, votes, image_ids
		FROM polls
		ORDER BY saved_at
	`)
	if err != nil {
		return nil, fmt.Errorf("query polls: %w", err)
	}
	defer rows.Close()

	var records []poll.Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Delete removes the record stored under sha, if any.
func (r *PollRepository) Delete(sha string) error {
	if _, err := r.db.db.Exec(`DELETE FROM polls WHERE sha = ?`, sha); err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}
	return nil
}

func scanRecord(scan func(...any) error) (*poll.Record, error) {
	var rec poll.Record
	var options, data, votes, imageIDs string

	err := scan(&rec.Title, &rec.Author, &rec.Active, &rec.CreateDate, &rec.MaxVoters,
		&rec.Question, &rec.NumberOfOptions, &options, &data, &votes, &imageIDs)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(options), &rec.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
		return nil, fmt.Errorf("unmarshal data: %w", err)
	}
	if err := json.Unmarshal([]byte(votes), &rec.Votes); err != nil {
		return nil, fmt.Errorf("unmarshal votes: %w", err)
	}
	if err := json.Unmarshal([]byte(imageIDs), &rec.ImageIDs); err != nil {
		return nil, fmt.Errorf("unmarshal image ids: %w", err)
	}
	return &rec, nil
}
