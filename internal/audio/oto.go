// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/toneswiper/toneswiper/internal/logger"
)

const bytesPerFrame = 4 // mono float32

// stream feeds a clip to oto as float32 mono at the output rate. It walks
// the source with a fractional cursor so playback rate and sample-rate
// conversion are one step size.
type stream struct {
	mu   sync.Mutex
	clip *Clip
	pos  float64 // in source frames
	step float64 // source frames per output frame
}

func (s *stream) Read(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples := s.clip.Samples
	n := 0
	for n+bytesPerFrame <= len(b) {
		i := int(s.pos)
		if i >= len(samples) {
			break
		}
		v := samples[i]
		if frac := s.pos - float64(i); frac > 0 && i+1 < len(samples) {
			v += (samples[i+1] - v) * frac
		}
		binary.LittleEndian.PutUint32(b[n:], math.Float32bits(float32(v)))
		n += bytesPerFrame
		s.pos += s.step
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (s *stream) cursor() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

func (s *stream) reset(pos, step float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = pos
	s.step = step
}

// OtoPlayer plays clips on the default sound device.
type OtoPlayer struct {
	mu      sync.Mutex
	ctx     *oto.Context
	outRate int
	limits  RateLimits
	clip    *Clip
	src     *stream
	player  *oto.Player
	rate    float64
}

// NewOtoPlayer opens the sound device at sampleRate. oto allows one context
// per process, so the player converts every clip to this rate.
func NewOtoPlayer(limits RateLimits, sampleRate int) (*OtoPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	return &OtoPlayer{
		ctx:     ctx,
		outRate: sampleRate,
		limits:  limits,
		rate:    limits.Clamp(1),
	}, nil
}

func (p *OtoPlayer) Load(clip *Clip) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closePlayer()
	p.clip = clip
	p.src = &stream{clip: clip}
	p.rebuild(0, false)

	log := logger.GetAudioLogger()
	log.Debug().Str("file", clip.Path).Int("rate", clip.SampleRate).Dur("duration", clip.Duration()).Msg("clip loaded")
	return nil
}

// rebuild replaces the oto player so buffered audio from the old cursor is
// dropped. mu must be held.
func (p *OtoPlayer) rebuild(frame float64, play bool) {
	p.closePlayer()
	p.src.reset(frame, p.rate*float64(p.clip.SampleRate)/float64(p.outRate))
	p.player = p.ctx.NewPlayer(p.src)
	if play {
		p.player.Play()
	}
}

func (p *OtoPlayer) closePlayer() {
	if p.player == nil {
		return
	}
	// a paused, unreferenced oto player is released by the runtime
	p.player.Pause()
	p.player = nil
}

// frame estimates the source frame being heard: the stream cursor minus
// what oto still holds in its buffer. mu must be held.
func (p *OtoPlayer) frame() float64 {
	if p.player == nil {
		return 0
	}
	buffered := float64(p.player.BufferedSize()/bytesPerFrame) * p.src.step
	f := p.src.cursor() - buffered
	if f < 0 {
		return 0
	}
	if n := float64(len(p.clip.Samples)); f > n {
		return n
	}
	return f
}

func (p *OtoPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return
	}
	f := p.frame()
	if int(f) >= len(p.clip.Samples) {
		f = 0
	}
	p.rebuild(f, true)
}

func (p *OtoPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil || !p.player.IsPlaying() {
		return
	}
	p.rebuild(p.frame(), false)
}

func (p *OtoPlayer) Toggle() {
	if p.IsPlaying() {
		p.Pause()
		return
	}
	p.Play()
}

func (p *OtoPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return
	}
	p.rebuild(0, false)
}

func (p *OtoPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil && p.player.IsPlaying()
}

func (p *OtoPlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clip == nil {
		return 0
	}
	return frameToDuration(p.frame(), p.clip.SampleRate)
}

func (p *OtoPlayer) Seek(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return
	}
	pos = clampDuration(pos, 0, p.clip.Duration())
	p.rebuild(float64(p.clip.Frame(pos)), p.player.IsPlaying())
}

func (p *OtoPlayer) SeekRelative(delta time.Duration) {
	p.Seek(p.Position() + delta)
}

func (p *OtoPlayer) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

func (p *OtoPlayer) SetRate(rate float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rate = p.limits.Clamp(rate)
	if p.player != nil {
		p.rebuild(p.frame(), p.player.IsPlaying())
	}
	return p.rate
}

func (p *OtoPlayer) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clip == nil {
		return 0
	}
	return p.clip.Duration()
}

func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closePlayer()
	return p.ctx.Suspend()
}

func frameToDuration(frame float64, sampleRate int) time.Duration {
	if sampleRate == 0 {
		return 0
	}
	return time.Duration(frame / float64(sampleRate) * float64(time.Second))
}
