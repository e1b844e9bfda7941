// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"encoding/binary"
	"io"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toneswiper/toneswiper/internal/config"
)

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock { return &fakeClock{t: time.Unix(1_700_000_000, 0)} }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// twoSecondClip holds 200 frames at 100 Hz.
func twoSecondClip() *Clip {
	return &Clip{SampleRate: 100, Samples: make([]float64, 200)}
}

func newTestPlayer(c *fakeClock) *ClockPlayer {
	return NewClockPlayer(LimitsFrom(config.Default().Audio), c.now)
}

func TestRateLimitsClamp(t *testing.T) {
	l := RateLimits{Min: 0.5, Max: 2}
	assert.Equal(t, 0.5, l.Clamp(0.1))
	assert.Equal(t, 2.0, l.Clamp(3))
	assert.Equal(t, 1.3, l.Clamp(1.0+0.1+0.1+0.1))
}

func TestClockPlayer_PlayPause(t *testing.T) {
	clock := newFakeClock()
	p := newTestPlayer(clock)
	require.NoError(t, p.Load(twoSecondClip()))

	assert.False(t, p.IsPlaying())
	assert.Equal(t, 2*time.Second, p.Duration())

	p.Play()
	clock.advance(500 * time.Millisecond)
	assert.True(t, p.IsPlaying())
	assert.Equal(t, 500*time.Millisecond, p.Position())

	p.Pause()
	clock.advance(time.Second)
	assert.False(t, p.IsPlaying())
	assert.Equal(t, 500*time.Millisecond, p.Position())

	p.Toggle()
	clock.advance(250 * time.Millisecond)
	assert.Equal(t, 750*time.Millisecond, p.Position())
}

func TestClockPlayer_StopsAtEndAndRestarts(t *testing.T) {
	clock := newFakeClock()
	p := newTestPlayer(clock)
	require.NoError(t, p.Load(twoSecondClip()))

	p.Play()
	clock.advance(3 * time.Second)
	assert.Equal(t, 2*time.Second, p.Position())
	assert.False(t, p.IsPlaying())

	p.Play()
	assert.Equal(t, time.Duration(0), p.Position())
	assert.True(t, p.IsPlaying())
}

func TestClockPlayer_Seek(t *testing.T) {
	clock := newFakeClock()
	p := newTestPlayer(clock)
	require.NoError(t, p.Load(twoSecondClip()))

	p.Seek(time.Second)
	assert.Equal(t, time.Second, p.Position())

	p.SeekRelative(-3 * time.Second)
	assert.Equal(t, time.Duration(0), p.Position())

	p.SeekRelative(5 * time.Second)
	assert.Equal(t, 2*time.Second, p.Position())

	p.Play()
	p.Seek(500 * time.Millisecond)
	clock.advance(100 * time.Millisecond)
	assert.Equal(t, 600*time.Millisecond, p.Position())

	p.Stop()
	assert.False(t, p.IsPlaying())
	assert.Equal(t, time.Duration(0), p.Position())
}

func TestClockPlayer_Rate(t *testing.T) {
	clock := newFakeClock()
	p := newTestPlayer(clock)
	require.NoError(t, p.Load(twoSecondClip()))
	assert.Equal(t, 1.0, p.Rate())

	p.Play()
	clock.advance(200 * time.Millisecond)
	assert.Equal(t, 0.5, p.SetRate(0.5))
	clock.advance(400 * time.Millisecond)
	assert.Equal(t, 400*time.Millisecond, p.Position())

	assert.Equal(t, 2.0, p.SetRate(10))
}

func TestClockPlayer_EmptyClipDoesNotPlay(t *testing.T) {
	p := newTestPlayer(newFakeClock())
	require.NoError(t, p.Load(&Clip{SampleRate: 8000}))
	p.Play()
	assert.False(t, p.IsPlaying())
	assert.NoError(t, p.Close())
}

func decodeFloats(b []byte) []float64 {
	out := make([]float64, len(b)/bytesPerFrame)
	for i := range out {
		out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*bytesPerFrame:])))
	}
	return out
}

func TestStream_ReadInterpolates(t *testing.T) {
	s := &stream{clip: &Clip{SampleRate: 4, Samples: []float64{0, 1, 0, -1}}}
	s.reset(0, 0.5)

	buf := make([]byte, 8*bytesPerFrame)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 8*bytesPerFrame, n)

	want := []float64{0, 0.5, 1, 0.5, 0, -0.5, -1, -1}
	got := decodeFloats(buf[:n])
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6, "frame %d", i)
	}

	_, err = s.Read(buf)
	assert.Equal(t, io.EOF, err)
}

func TestStream_ReadPartialFrame(t *testing.T) {
	s := &stream{clip: &Clip{SampleRate: 2, Samples: []float64{0.25, 0.75}}}
	s.reset(0, 1)

	buf := make([]byte, 3*bytesPerFrame+2)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2*bytesPerFrame, n)
	assert.Equal(t, 2.0, s.cursor())
}

func TestFrameToDuration(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, frameToDuration(22050, 44100))
	assert.Equal(t, time.Duration(0), frameToDuration(10, 0))
}
