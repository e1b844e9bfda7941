// Copyright (C) 2025-2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"

	"github.com/toneswiper/toneswiper/internal/annotation"
)

// Sample data creators for consistent testing

// FixtureRate is the sample rate of generated fixtures
const FixtureRate = 8000

// Tone returns seconds of a 16-bit sine at freq Hz and the given amplitude
// (0..1), sampled at FixtureRate.
func Tone(freq, seconds, amplitude float64) []int {
	n := int(seconds * FixtureRate)
	out := make([]int, n)
	for i := range out {
		v := amplitude * math.Sin(2*math.Pi*freq*float64(i)/FixtureRate)
		out[i] = int(v * 32767)
	}
	return out
}

// Silence returns seconds of zero samples at FixtureRate.
func Silence(seconds float64) []int {
	return make([]int, int(seconds*FixtureRate))
}

// WriteWAV encodes mono 16-bit samples into dir/name and returns the path.
func WriteWAV(t *testing.T, dir, name string, samples []int) string {
	t.Helper()
	return WriteWAVFormat(t, dir, name, FixtureRate, 16, 1, samples)
}

// WriteWAVFormat encodes interleaved samples with an explicit format.
func WriteWAVFormat(t *testing.T, dir, name string, rate, depth, channels int, samples []int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, rate, depth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           samples,
		SourceBitDepth: depth,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	return path
}

// SampleRecords returns annotations for two recordings
func SampleRecords() []annotation.Record {
	return []annotation.Record{
		{
			File:     "a.wav",
			Duration: 2 * time.Second,
			Points: []annotation.Point{
				{Time: 0.25, Label: "%L"},
				{Time: 0.8, Label: "H*L"},
				{Time: 1.9, Label: "L%"},
			},
		},
		{
			File:     "b.wav",
			Duration: 1500 * time.Millisecond,
			Points:   []annotation.Point{{Time: 0.5, Label: "!H*L"}},
		},
	}
}
