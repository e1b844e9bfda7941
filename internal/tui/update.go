// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/toneswiper/toneswiper/internal/annotation"
	"github.com/toneswiper/toneswiper/internal/todi"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshMsg:
		return m, m.refresh()

	case fileLoadedMsg:
		return m.handleLoaded(msg)

	case autoplayMsg:
		if msg.gen == m.gen && !m.loading && m.loadErr == nil && !m.player.IsPlaying() {
			m.player.Play()
		}
		return m, nil

	case commitMsg:
		if msg.seq == m.seq && len(m.pending) > 0 {
			m.commit()
		}
		return m, nil
	}

	switch m.mode {
	case ModeEditLabel:
		return m.updateEditLabel(msg)
	case ModeConfirmClear:
		return m.updateConfirmClear(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleLoaded(msg fileLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		m.log.Debug().Str("file", msg.path).Msg("dropping stale load")
		return m, nil
	}
	m.loading = false

	if msg.err != nil {
		m.loadErr = msg.err
		m.setError(fmt.Sprintf("cannot open %s: %v", filepath.Base(msg.path), msg.err))
		m.log.Error().Err(msg.err).Str("file", msg.path).Msg("failed to load recording")
		return m, nil
	}

	if err := m.player.Load(msg.result.Clip); err != nil {
		m.loadErr = err
		m.setError(fmt.Sprintf("cannot play %s: %v", filepath.Base(msg.path), err))
		m.log.Error().Err(err).Str("file", msg.path).Msg("failed to load clip into player")
		return m, nil
	}
	m.session.SetDuration(msg.path, msg.result.Clip.Duration())
	m.panel.SetData(msg.result)

	if !m.cfg.Audio.Autoplay {
		return m, nil
	}
	gen := m.gen
	return m, tea.Tick(m.cfg.Audio.AutoplayDelay, func(time.Time) tea.Msg {
		return autoplayMsg{gen: gen}
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keys := m.keys.todiKey(msg); keys != nil {
		return m, m.addKeys(keys)
	}

	// enter and esc act on a pending sequence; every other key drops it
	switch {
	case key.Matches(msg, m.keys.Enter):
		if len(m.pending) > 0 {
			m.commit()
			return m, nil
		}
		return m, m.startEdit()
	case key.Matches(msg, m.keys.Cancel):
		if len(m.pending) > 0 {
			m.discardPending()
			m.setStatus("sequence discarded")
			return m, nil
		}
		m.selected = -1
		return m, nil
	}
	m.discardPending()

	tier := m.session.Tier()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.player.Stop()
		m.log.Info().Int("annotations", m.session.Total()).Msg("quitting")
		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayPause):
		m.player.Toggle()

	case key.Matches(msg, m.keys.SeekForward):
		m.player.SeekRelative(m.cfg.Audio.SeekStep)

	case key.Matches(msg, m.keys.SeekBack):
		m.player.SeekRelative(-m.cfg.Audio.SeekStep)

	case key.Matches(msg, m.keys.Slower):
		m.setStatus(fmt.Sprintf("rate %.2fx", m.player.SetRate(m.player.Rate()-m.cfg.Audio.RateStep)))

	case key.Matches(msg, m.keys.Faster):
		m.setStatus(fmt.Sprintf("rate %.2fx", m.player.SetRate(m.player.Rate()+m.cfg.Audio.RateStep)))

	case key.Matches(msg, m.keys.NextFile):
		return m, m.navigate(m.session.Next)

	case key.Matches(msg, m.keys.PrevFile):
		return m, m.navigate(m.session.Prev)

	case key.Matches(msg, m.keys.FirstFile):
		return m, m.navigate(m.session.First)

	case key.Matches(msg, m.keys.LastFile):
		return m, m.navigate(m.session.Last)

	case key.Matches(msg, m.keys.Undo):
		p, ok := tier.Undo()
		if !ok {
			m.setStatus("nothing to undo")
			break
		}
		m.clampSelection()
		m.setStatus("removed " + p.String())
		m.log.Info().Str("file", m.session.Current()).Str("label", p.Label).Float64("time", p.Time).Msg("annotation undone")

	case key.Matches(msg, m.keys.Clear):
		if tier.Len() == 0 {
			m.setStatus("no annotations to clear")
			break
		}
		return m, m.startConfirm()

	case key.Matches(msg, m.keys.Select):
		m.moveSelection(1)

	case key.Matches(msg, m.keys.Back):
		m.moveSelection(-1)

	case key.Matches(msg, m.keys.Delete):
		if m.selected < 0 {
			m.setStatus("select an annotation first")
			break
		}
		p, err := tier.Remove(m.selected)
		if err != nil {
			m.setError(err.Error())
			break
		}
		m.clampSelection()
		m.setStatus("deleted " + p.String())
		m.log.Info().Str("file", m.session.Current()).Str("label", p.Label).Float64("time", p.Time).Msg("annotation deleted")

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}

	return m, nil
}

// navigate moves the session with move and loads the new file if it changed.
func (m *Model) navigate(move func() bool) tea.Cmd {
	if !move() {
		return nil
	}
	return m.switchFile()
}

// addKeys extends the pending sequence and restarts its timeout. The
// annotation time follows the most recent tone or boundary key.
func (m *Model) addKeys(keys []todi.Key) tea.Cmd {
	if len(m.pending) == 0 {
		m.pendingAt = m.player.Position()
	}
	for _, k := range keys {
		if k != todi.Downstep {
			m.pendingAt = m.player.Position()
		}
	}
	m.pending = append(m.pending, keys...)

	m.seq++
	seq := m.seq
	return tea.Tick(m.cfg.Annotation.SequenceTimeout, func(time.Time) tea.Msg {
		return commitMsg{seq: seq}
	})
}

func (m *Model) discardPending() {
	if len(m.pending) == 0 {
		return
	}
	m.log.Debug().Str("keys", todi.Format(m.pending)).Msg("pending sequence discarded")
	m.pending = nil
	m.seq++
}

// commit turns the pending sequence into an annotation on the current file.
func (m *Model) commit() {
	keys := m.pending
	m.pending = nil
	m.seq++

	label, err := todi.Transcribe(keys)
	if err != nil {
		m.setError(fmt.Sprintf("no ToDI label for %s", todi.Format(keys)))
		m.log.Warn().Err(err).Str("keys", todi.Format(keys)).Msg("rejected key sequence")
		return
	}

	p := annotation.At(m.pendingAt, label)
	m.selected = m.session.Tier().Add(p)
	m.setStatus("added " + p.String())
	m.log.Info().Str("file", m.session.Current()).Str("label", label).Float64("time", p.Time).Msg("annotation added")
}

// moveSelection cycles through the current file's annotations and puts the
// playhead on the selected one.
func (m *Model) moveSelection(delta int) {
	n := m.session.Tier().Len()
	if n == 0 {
		m.selected = -1
		return
	}
	switch {
	case m.selected < 0 && delta > 0:
		m.selected = 0
	case m.selected < 0:
		m.selected = n - 1
	default:
		m.selected = ((m.selected+delta)%n + n) % n
	}
	p := m.session.Tier().Points()[m.selected]
	m.player.Seek(time.Duration(p.Time * float64(time.Second)))
}

func (m *Model) clampSelection() {
	if n := m.session.Tier().Len(); m.selected >= n {
		m.selected = n - 1
	}
}

func (m *Model) startEdit() tea.Cmd {
	if m.selected < 0 {
		return nil
	}
	p := m.session.Tier().Points()[m.selected]
	m.mode = ModeEditLabel
	m.input.SetValue(p.Label)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m Model) updateEditLabel(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			label := strings.TrimSpace(m.input.Value())
			if label == "" {
				m.setError("label cannot be empty")
				return m, nil
			}
			if err := m.session.Tier().Relabel(m.selected, label); err != nil {
				m.setError(err.Error())
			} else {
				m.setStatus("relabelled to " + label)
				m.log.Info().Str("file", m.session.Current()).Int("index", m.selected).Str("label", label).Msg("annotation relabelled")
			}
			m.endEdit()
			return m, nil
		case tea.KeyEsc:
			m.endEdit()
			return m, nil
		case tea.KeyCtrlC:
			m.endEdit()
			m.player.Stop()
			m.log.Info().Int("annotations", m.session.Total()).Msg("quitting")
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endEdit() {
	m.mode = ModeAnnotate
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) startConfirm() tea.Cmd {
	title := fmt.Sprintf("Remove all %d annotations of %s?", m.session.Tier().Len(), filepath.Base(m.session.Current()))
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("clear").
				Title(title).
				Affirmative("Remove").
				Negative("Keep"),
		),
	).WithShowHelp(false).WithWidth(m.width)
	m.mode = ModeConfirmClear
	return m.confirm.Init()
}

func (m Model) updateConfirmClear(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.endConfirm()
		m.setStatus("clear cancelled")
		return m, nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	switch m.confirm.State {
	case huh.StateCompleted:
		if m.confirm.GetBool("clear") {
			m.clearCurrent()
		} else {
			m.setStatus("annotations kept")
		}
		m.endConfirm()
		return m, nil
	case huh.StateAborted:
		m.endConfirm()
		m.setStatus("clear cancelled")
		return m, nil
	}
	return m, cmd
}

func (m *Model) endConfirm() {
	m.mode = ModeAnnotate
	m.confirm = nil
}

// clearCurrent removes every annotation of the current file.
func (m *Model) clearCurrent() {
	n := m.session.Tier().Clear()
	m.selected = -1
	m.setStatus(fmt.Sprintf("removed %d annotations", n))
	m.log.Info().Str("file", m.session.Current()).Int("count", n).Msg("annotations cleared")
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}
