package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plsync/internal/models"
)

func testPlaylists() []models.Playlist {
	return []models.Playlist{
		{ID: "PL1", Title: "Lifting", ItemCount: 10, Privacy: "private"},
		{ID: "PL2", Title: "Focus", ItemCount: 25, Privacy: "public"},
		{ID: "PLtarget", Title: "Weekly Mix", ItemCount: 40},
	}
}

func loadedPicker(t *testing.T, exclude []string) *Picker {
	t.Helper()
	picker := NewPicker(context.Background(), nil, exclude)
	model, _ := picker.Update(playlistsFetchedMsg(testPlaylists(), nil))
	loaded, ok := model.(*Picker)
	if !ok || !loaded.loaded {
		t.Fatalf("picker did not load: %+v", model)
	}
	return loaded
}

func TestPicker(t *testing.T) {
	t.Run("excludes the target playlist", func(t *testing.T) {
		picker := loadedPicker(t, []string{"PLtarget"})

		if len(picker.list.Items()) != 2 {
			t.Fatalf("expected 2 items, got %d", len(picker.list.Items()))
		}
		for _, item := range picker.list.Items() {
			if item.(sourceItem).playlist.ID == "PLtarget" {
				t.Error("excluded playlist still listed")
			}
		}
	})

	t.Run("toggle selects and deselects", func(t *testing.T) {
		picker := loadedPicker(t, nil)

		picker.toggleCurrent()
		if got := picker.Selected(); len(got) != 1 || got[0] != "PL1" {
			t.Errorf("expected [PL1], got %v", got)
		}

		picker.toggleCurrent()
		if got := picker.Selected(); len(got) != 0 {
			t.Errorf("expected empty selection after second toggle, got %v", got)
		}
	})

	t.Run("selection keeps list order", func(t *testing.T) {
		picker := loadedPicker(t, nil)

		// Select the second entry first, then the first.
		picker.list.Select(1)
		picker.toggleCurrent()
		picker.list.Select(0)
		picker.toggleCurrent()

		got := picker.Selected()
		if len(got) != 2 || got[0] != "PL1" || got[1] != "PL2" {
			t.Errorf("expected [PL1 PL2], got %v", got)
		}
	})

	t.Run("escape aborts", func(t *testing.T) {
		picker := loadedPicker(t, nil)

		model, cmd := picker.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if !model.(*Picker).Aborted() {
			t.Error("escape should abort the picker")
		}
		if cmd == nil {
			t.Error("escape should quit the program")
		}
	})

	t.Run("enter confirms", func(t *testing.T) {
		picker := loadedPicker(t, nil)
		picker.toggleCurrent()

		model, cmd := picker.Update(tea.KeyMsg{Type: tea.KeyEnter})
		result := model.(*Picker)
		if result.Aborted() {
			t.Error("enter should not abort")
		}
		if cmd == nil {
			t.Error("enter should quit the program")
		}
		if got := result.Selected(); len(got) != 1 {
			t.Errorf("selection lost on confirm: %v", got)
		}
	})

	t.Run("fetch failure surfaces and quits", func(t *testing.T) {
		picker := NewPicker(context.Background(), nil, nil)

		model, cmd := picker.Update(playlistsFetchedMsg(nil, errors.New("boom")))
		result := model.(*Picker)
		if result.Err() == nil {
			t.Error("expected fetch error to be stored")
		}
		if cmd == nil {
			t.Error("fetch failure should quit the program")
		}
		if !strings.Contains(result.View(), "boom") {
			t.Errorf("error view missing message: %s", result.View())
		}
	})

	t.Run("checkbox rendering follows state", func(t *testing.T) {
		item := sourceItem{playlist: models.Playlist{Title: "Focus"}}
		if !strings.HasPrefix(item.Title(), "[ ]") {
			t.Errorf("unchecked item should render empty box: %s", item.Title())
		}
		item.checked = true
		if !strings.HasPrefix(item.Title(), "[x]") {
			t.Errorf("checked item should render filled box: %s", item.Title())
		}
	})
}
