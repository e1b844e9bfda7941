// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/toneswiper/toneswiper/internal/analysis"
	"github.com/toneswiper/toneswiper/internal/annotation"
	"github.com/toneswiper/toneswiper/internal/audio"
	"github.com/toneswiper/toneswiper/internal/config"
	"github.com/toneswiper/toneswiper/internal/logger"
	"github.com/toneswiper/toneswiper/internal/todi"
	"github.com/toneswiper/toneswiper/internal/tui/components/spectrogram"
	"github.com/toneswiper/toneswiper/internal/tui/components/timeline"
	"github.com/toneswiper/toneswiper/internal/tui/layout"
)

// Mode is what the keyboard currently drives.
type Mode int

const (
	ModeAnnotate Mode = iota
	ModeEditLabel
	ModeConfirmClear
)

// lines of content around the spectrogram: file strip above; timeline,
// pending sequence and status below
const aroundSpectrogram = 1 + timeline.Height + 2

// Model is the annotator screen.
type Model struct {
	cfg     *config.AppConfig
	session *annotation.Session
	player  audio.Player
	cache   *analysis.Cache
	log     zerolog.Logger

	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model
	confirm *huh.Form
	panel   spectrogram.Model

	mode     Mode
	showHelp bool

	// pending ToDI sequence
	pending   []todi.Key
	pendingAt time.Duration
	seq       int

	gen      int // bumped on every file change
	loading  bool
	loadErr  error
	selected int // index into the current tier by time, -1 for none

	status    string
	statusErr bool

	width, height int
}

// New creates the annotator over session.
func New(cfg *config.AppConfig, session *annotation.Session, player audio.Player, cache *analysis.Cache) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Prompt = "label: "
	ti.CharLimit = 32

	m := Model{
		cfg:      cfg,
		session:  session,
		player:   player,
		cache:    cache,
		log:      logger.GetTUILogger().With().Str("component", "annotator").Logger(),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  s,
		input:    ti,
		panel:    spectrogram.New(cache.Options()),
		gen:      1,
		loading:  true,
		selected: -1,
	}
	m.SetSize(80, 24)
	return m
}

func (m Model) Init() tea.Cmd {
	m.player.SetRate(m.cfg.Audio.Rate)
	return tea.Batch(m.spinner.Tick, m.loadCmd(), m.refresh())
}

// Mode reports the current input mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Pending returns the keys of the sequence being typed.
func (m Model) Pending() []todi.Key {
	return append([]todi.Key(nil), m.pending...)
}

// Selected returns the selected annotation index, or -1.
func (m Model) Selected() int {
	return m.selected
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}

// GetLayoutInfo returns layout information for the annotator
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	file := m.session.Current()
	return layout.LayoutInfo{
		Title:       "ToneSwiper",
		Breadcrumbs: []string{fileCounter(m.session.Index(), m.session.Len()), file},
		Status:      m.playbackStatus(),
		HelpItems:   m.helpItems(),
	}
}

func (m Model) helpItems() []layout.HelpItem {
	switch m.mode {
	case ModeEditLabel:
		return []layout.HelpItem{{Key: "enter", Description: "save label"}, {Key: "esc", Description: "cancel"}}
	case ModeConfirmClear:
		return []layout.HelpItem{{Key: "y/n", Description: "confirm"}, {Key: "esc", Description: "cancel"}}
	}
	return layout.HelpItemsFrom(m.keys.ShortHelp()...)
}

// SetSize updates the model's dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	dims := layout.GetContentArea(m.GetLayoutInfo(), width, height)
	m.help.Width = width
	m.input.Width = width - lipgloss.Width(m.input.Prompt) - 2
	m.panel.SetSize(width, max(dims.Height-aroundSpectrogram, 1))
}

// switchFile resets per-file state after the session moved and starts
// loading the new current file.
func (m *Model) switchFile() tea.Cmd {
	m.gen++
	m.loading = true
	m.loadErr = nil
	m.selected = -1
	m.player.Stop()
	m.panel.Clear()

	m.log.Debug().Str("file", m.session.Current()).Int("index", m.session.Index()).Msg("switching file")
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

// loadCmd decodes and analyses the current file off the event loop.
func (m Model) loadCmd() tea.Cmd {
	gen, path, cache := m.gen, m.session.Current(), m.cache
	return func() tea.Msg {
		res, err := cache.Load(path)
		return fileLoadedMsg{gen: gen, path: path, result: res, err: err}
	}
}

func (m Model) refresh() tea.Cmd {
	return tea.Tick(m.cfg.Audio.Refresh, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}
