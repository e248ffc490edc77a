package storage

import (
	"database/sql"
	"fmt"

	"github.com/vipulgupta2048/poll-activity/internal/app"
)

// SettingsRepository persists the single row of activity preferences.
type SettingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Save replaces the stored preferences.
func (r *SettingsRepository) Save(s app.Settings) error {
	_, err := r.db.db.Exec(`
		INSERT INTO settings (id, view_answer, remember_last_vote, play_vote_sound, use_image, image_height, image_width)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			view_answer = excluded.view_answer,
			remember_last_vote = excluded.remember_last_vote,
			play_vote_sound = excluded.play_vote_sound,
			use_image = excluded.use_image,
			image_height = excluded.image_height,
			image_width = excluded.image_width
	`, s.ViewAnswer, s.RememberLastVote, s.PlayVoteSound, s.UseImage,
		s.ImageSize.Height, s.ImageSize.Width)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// Load returns the stored preferences. The second result is false when
// nothing has been saved yet.
func (r *SettingsRepository) Load() (app.Settings, bool, error) {
	var s app.Settings
	row := r.db.db.QueryRow(`
		SELECT view_answer, remember_last_vote, play_vote_sound, use_image, image_height, image_width
		FROM settings
		WHERE id = 1
	`)
	err := row.Scan(&s.ViewAnswer, &s.RememberLastVote, &s.PlayVoteSound, &s.UseImage,
		&s.ImageSize.Height, &s.ImageSize.Width)
	if err == sql.ErrNoRows {
		return app.DefaultSettings(), false, nil
	}
	if err != nil {
		return app.Settings{}, false, fmt.Errorf("scan settings: %w", err)
	}
	return s, true, nil
}
