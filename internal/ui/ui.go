package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/services"
)

// Picker is the multiselect source chooser.
type Picker struct {
	ctx     context.Context
	api     services.PlaylistAPI
	exclude map[string]struct{}

	list      list.Model
	playlists []models.Playlist
	loaded    bool
	width     int
	height    int

	aborted bool
	err     error

	help help.Model
	keys keyMap
}

var _ tea.Model = (*Picker)(nil)

// NewPicker creates a picker over the channel's playlists. Ids in exclude
// (typically the target playlist itself) are filtered out of the list.
func NewPicker(ctx context.Context, api services.PlaylistAPI, exclude []string) *Picker {
	excludeSet := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		excludeSet[id] = struct{}{}
	}
	return &Picker{
		ctx:     ctx,
		api:     api,
		exclude: excludeSet,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init fetches the channel's playlists.
func (p *Picker) Init() tea.Cmd {
	return p.fetchPlaylists()
}

// Update handles incoming messages and updates the picker state.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		if p.loaded {
			p.list.SetSize(msg.Width-4, msg.Height-8)
		}
		return p, nil

	case tea.KeyMsg:
		return p.handleKeys(msg)

	case Msg:
		if msg.kind == MsgPlaylistsFetched {
			return p.handlePlaylistsFetched(msg.data.(playlistsFetched))
		}
	}

	if p.loaded {
		var cmd tea.Cmd
		p.list, cmd = p.list.Update(msg)
		return p, cmd
	}
	return p, nil
}

// View renders the picker.
func (p *Picker) View() string {
	if p.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", p.err))
	}
	if !p.loaded {
		return styles.help.Render("Loading playlists...")
	}

	helpView := p.help.ShortHelpView(p.keys.ShortHelp())
	count := styles.count.Render(fmt.Sprintf("%d selected", len(p.Selected())))
	return fmt.Sprintf("%s\n%s\n\n%s", p.list.View(), count, helpView)
}

// Selected returns the chosen playlist ids in list order.
func (p *Picker) Selected() []string {
	if !p.loaded {
		return nil
	}
	var ids []string
	for _, item := range p.list.Items() {
		if source, ok := item.(sourceItem); ok && source.checked {
			ids = append(ids, source.playlist.ID)
		}
	}
	return ids
}

// Aborted reports whether the user cancelled instead of confirming.
func (p *Picker) Aborted() bool { return p.aborted }

// Err returns the fetch error, if any.
func (p *Picker) Err() error { return p.err }

func (p *Picker) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		p.aborted = true
		return p, tea.Quit
	case " ":
		p.toggleCurrent()
		return p, nil
	case "enter":
		if p.loaded {
			return p, tea.Quit
		}
	}

	if p.loaded {
		var cmd tea.Cmd
		p.list, cmd = p.list.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *Picker) handlePlaylistsFetched(data playlistsFetched) (tea.Model, tea.Cmd) {
	if data.err != nil {
		p.err = data.err
		return p, tea.Quit
	}

	p.playlists = nil
	for _, playlist := range data.playlists {
		if _, skip := p.exclude[playlist.ID]; skip {
			continue
		}
		p.playlists = append(p.playlists, playlist)
	}

	items := make([]list.Item, len(p.playlists))
	for i, playlist := range p.playlists {
		items[i] = sourceItem{playlist: playlist}
	}

	p.list = list.New(items, list.NewDefaultDelegate(), 0, 0)
	p.list.Title = "Pick source playlists"
	p.list.Styles.Title = styles.title
	p.list.SetSize(p.width-4, p.height-8)
	p.loaded = true
	return p, nil
}

func (p *Picker) toggleCurrent() {
	if !p.loaded {
		return
	}
	index := p.list.Index()
	item := p.list.SelectedItem()
	if source, ok := item.(sourceItem); ok {
		source.checked = !source.checked
		p.list.SetItem(index, source)
	}
}

func (p *Picker) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := p.api.ListPlaylists(p.ctx)
		return playlistsFetchedMsg(playlists, err)
	}
}

// PickSources runs the picker to completion and returns the selected ids.
// A cancelled picker returns an empty selection and no error.
func PickSources(ctx context.Context, api services.PlaylistAPI, exclude []string) ([]string, error) {
	picker := NewPicker(ctx, api, exclude)
	program := tea.NewProgram(picker)

	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("picker failed: %w", err)
	}

	result, ok := final.(*Picker)
	if !ok {
		return nil, fmt.Errorf("unexpected picker model")
	}
	if result.Err() != nil {
		return nil, result.Err()
	}
	if result.Aborted() {
		return nil, nil
	}
	return result.Selected(), nil
}
