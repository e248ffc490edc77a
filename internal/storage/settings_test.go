package storage

import (
	"testing"

	"github.com/vipulgupta2048/poll-activity/internal/app"
)

func TestSettingsRepository_LoadBeforeSave(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))

	got, found, err := repo.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if found {
		t.Error("found preferences in a fresh database")
	}
	if got != app.DefaultSettings() {
		t.Errorf("got %+v, want defaults", got)
	}
}

func TestSettingsRepository_SaveAndLoad(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))
	want := app.Settings{
		ViewAnswer:       false,
		RememberLastVote: true,
		PlayVoteSound:    true,
		UseImage:         true,
		ImageSize:        app.ImageSize{Height: 160, Width: 120},
	}

	if err := repo.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, found, err := repo.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !found {
		t.Fatal("saved preferences not found")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestSettingsRepository_SaveReplaces(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))

	if err := repo.Save(app.DefaultSettings()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	want := app.DefaultSettings()
	want.PlayVoteSound = true
	if err := repo.Save(want); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, found, err := repo.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !found {
		t.Fatal("saved preferences not found")
	}
	if !got.PlayVoteSound {
		t.Error("second save did not replace the row")
	}
}
