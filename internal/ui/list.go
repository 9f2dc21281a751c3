package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/plsync/internal/models"
)

var _ list.Item = sourceItem{}

// sourceItem wraps [models.Playlist] to implement [list.Item], rendering a
// checkbox for the multiselect.
type sourceItem struct {
	playlist models.Playlist
	checked  bool
}

func (i sourceItem) FilterValue() string { return i.playlist.Title }

func (i sourceItem) Title() string {
	box := "[ ]"
	if i.checked {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s", box, i.playlist.Title)
}

func (i sourceItem) Description() string {
	desc := fmt.Sprintf("%d videos", i.playlist.ItemCount)
	if i.playlist.Privacy != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Privacy)
	}
	return desc
}
