package app

// ImageSize is the pixel box answer images are scaled to.
type ImageSize struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

// Settings are the session-independent activity preferences.
type Settings struct {
	ViewAnswer       bool      `json:"view_answer"`
	RememberLastVote bool      `json:"remember_last_vote"`
	PlayVoteSound    bool      `json:"play_vote_sound"`
	UseImage         bool      `json:"use_image"`
	ImageSize        ImageSize `json:"image_size"`
}

func DefaultSettings() Settings {
	return Settings{
		ViewAnswer:       true,
		RememberLastVote: true,
		ImageSize:        ImageSize{Height: 100, Width: 100},
	}
}

// Settings returns the current activity preferences.
func (a *Activity) Settings() Settings { return a.settings }

// SetSettings replaces the activity preferences.
func (a *Activity) SetSettings(s Settings) { a.settings = s }
