// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toneswiper/toneswiper/test/testutil"
)

func TestLoad_Mono16(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWAV(t, dir, "tone.wav", testutil.Tone(220, 0.5, 0.5))

	clip, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, clip.Path)
	assert.Equal(t, testutil.FixtureRate, clip.SampleRate)
	assert.Equal(t, 1, clip.Channels)
	assert.Equal(t, 16, clip.BitDepth)
	assert.Len(t, clip.Samples, testutil.FixtureRate/2)
	assert.InDelta(t, 500*time.Millisecond, clip.Duration(), float64(time.Millisecond))

	peak := 0.0
	for _, s := range clip.Samples {
		if s > peak {
			peak = s
		}
	}
	assert.InDelta(t, 0.5, peak, 0.01)
}

func TestLoad_StereoIsMixedDown(t *testing.T) {
	// left full scale positive, right silent
	data := make([]int, 0, 200)
	for i := 0; i < 100; i++ {
		data = append(data, 16000, 0)
	}
	path := testutil.WriteWAVFormat(t, t.TempDir(), "stereo.wav", 8000, 16, 2, data)

	clip, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, clip.Channels)
	require.Len(t, clip.Samples, 100)
	assert.InDelta(t, 16000.0/2/32768, clip.Samples[0], 1e-9)
}

func TestLoad_NotWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not RIFF data"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotWAV))

	_, err = Probe(path)
	assert.True(t, errors.Is(err, ErrNotWAV))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.wav"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestProbe(t *testing.T) {
	path := testutil.WriteWAV(t, t.TempDir(), "a.wav", testutil.Silence(1.25))

	d, err := Probe(path)
	require.NoError(t, err)
	assert.InDelta(t, 1250*time.Millisecond, d, float64(time.Millisecond))
}

func TestIsWAVPath(t *testing.T) {
	assert.True(t, IsWAVPath("a.wav"))
	assert.True(t, IsWAVPath("dir/A.WAV"))
	assert.False(t, IsWAVPath("a.mp3"))
	assert.False(t, IsWAVPath("wav"))
}

func TestMixDown(t *testing.T) {
	tests := []struct {
		name     string
		data     []int
		channels int
		depth    int
		want     []float64
	}{
		{"16-bit mono", []int{16384, -32768}, 1, 16, []float64{0.5, -1}},
		{"8-bit unsigned", []int{128, 255, 0}, 1, 8, []float64{0, 127.0 / 128, -1}},
		{"24-bit stereo", []int{4194304, 0}, 2, 24, []float64{0.25}},
		{"odd trailing sample dropped", []int{100, 100, 7}, 2, 16, []float64{100.0 / 32768}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mixDown(tt.data, tt.channels, tt.depth)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestClipFrame(t *testing.T) {
	clip := &Clip{SampleRate: 1000, Samples: make([]float64, 1000)}
	assert.Equal(t, 0, clip.Frame(-time.Second))
	assert.Equal(t, 250, clip.Frame(250*time.Millisecond))
	assert.Equal(t, 1000, clip.Frame(5*time.Second))
	assert.Equal(t, time.Duration(0), (&Clip{}).Duration())
}
