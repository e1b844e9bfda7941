// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"math"
	"sync"
	"time"

	"github.com/toneswiper/toneswiper/internal/config"
)

// Player plays one clip at a time.
type Player interface {
	Load(clip *Clip) error
	Play()
	Pause()
	Toggle()
	Stop()
	IsPlaying() bool
	Position() time.Duration
	Seek(pos time.Duration)
	SeekRelative(delta time.Duration)
	Rate() float64
	SetRate(rate float64) float64
	Duration() time.Duration
	Close() error
}

// RateLimits bounds the playback rate.
type RateLimits struct {
	Min, Max float64
}

// LimitsFrom extracts rate bounds from the audio configuration.
func LimitsFrom(cfg config.AudioConfig) RateLimits {
	return RateLimits{Min: cfg.MinRate, Max: cfg.MaxRate}
}

// Clamp keeps rate inside the limits, rounded to hundredths so repeated
// +0.1 increments do not drift.
func (l RateLimits) Clamp(rate float64) float64 {
	rate = math.Round(rate*100) / 100
	return math.Min(math.Max(rate, l.Min), l.Max)
}

// ClockPlayer is a Player without sound output. Its position follows a
// clock, so it serves headless sessions and tests.
type ClockPlayer struct {
	mu       sync.Mutex
	now      func() time.Time
	limits   RateLimits
	duration time.Duration
	rate     float64
	playing  bool
	anchor   time.Duration // position at the last state change
	since    time.Time     // clock reading at the last state change
}

// NewClockPlayer creates a silent player. A nil clock uses time.Now.
func NewClockPlayer(limits RateLimits, now func() time.Time) *ClockPlayer {
	if now == nil {
		now = time.Now
	}
	return &ClockPlayer{now: now, limits: limits, rate: limits.Clamp(1)}
}

func (p *ClockPlayer) Load(clip *Clip) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duration = clip.Duration()
	p.playing = false
	p.anchor = 0
	p.since = p.now()
	return nil
}

// position must be called with mu held.
func (p *ClockPlayer) position() time.Duration {
	if !p.playing {
		return p.anchor
	}
	elapsed := p.now().Sub(p.since)
	pos := p.anchor + time.Duration(float64(elapsed)*p.rate)
	if pos >= p.duration {
		p.playing = false
		p.anchor = p.duration
		return p.duration
	}
	return pos
}

// rebase freezes the current position as the new anchor; mu must be held.
func (p *ClockPlayer) rebase() {
	p.anchor = p.position()
	p.since = p.now()
}

func (p *ClockPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rebase()
	if p.anchor >= p.duration {
		p.anchor = 0
	}
	p.playing = p.duration > 0
}

func (p *ClockPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rebase()
	p.playing = false
}

func (p *ClockPlayer) Toggle() {
	if p.IsPlaying() {
		p.Pause()
		return
	}
	p.Play()
}

func (p *ClockPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.anchor = 0
	p.since = p.now()
}

func (p *ClockPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position()
	return p.playing
}

func (p *ClockPlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position()
}

func (p *ClockPlayer) Seek(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anchor = clampDuration(pos, 0, p.duration)
	p.since = p.now()
}

func (p *ClockPlayer) SeekRelative(delta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anchor = clampDuration(p.position()+delta, 0, p.duration)
	p.since = p.now()
}

func (p *ClockPlayer) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

func (p *ClockPlayer) SetRate(rate float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rebase()
	p.rate = p.limits.Clamp(rate)
	return p.rate
}

func (p *ClockPlayer) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

func (p *ClockPlayer) Close() error { return nil }

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
