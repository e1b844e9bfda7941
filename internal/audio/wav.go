// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
)

// ErrNotWAV is returned for files that are not PCM WAV audio.
var ErrNotWAV = errors.New("not a PCM wav file")

// Clip is a decoded recording, mixed down to mono.
type Clip struct {
	Path       string
	SampleRate int
	Channels   int
	BitDepth   int
	Samples    []float64 // mono, in [-1, 1]
}

// Duration is the playing time of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(len(c.Samples)) / float64(c.SampleRate) * float64(time.Second))
}

// Frame returns the sample index at position d, clamped to the clip.
func (c *Clip) Frame(d time.Duration) int {
	i := int(d.Seconds() * float64(c.SampleRate))
	if i < 0 {
		return 0
	}
	if i > len(c.Samples) {
		return len(c.Samples)
	}
	return i
}

// IsWAVPath reports whether a path carries a .wav extension.
func IsWAVPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// Load decodes a PCM WAV file.
func Load(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotWAV)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 || len(buf.Data) == 0 {
		return nil, fmt.Errorf("%s: %w: no audio data", path, ErrNotWAV)
	}

	channels := buf.Format.NumChannels
	depth := int(d.BitDepth)
	if depth == 0 {
		depth = buf.SourceBitDepth
	}

	clip := &Clip{
		Path:       path,
		SampleRate: buf.Format.SampleRate,
		Channels:   channels,
		BitDepth:   depth,
		Samples:    mixDown(buf.Data, channels, depth),
	}
	return clip, nil
}

// Probe reads only the header to report a file's duration.
func Probe(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return 0, fmt.Errorf("%s: %w", path, ErrNotWAV)
	}
	dur, err := d.Duration()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return dur, nil
}

// mixDown averages interleaved channels and scales integer PCM to [-1, 1].
func mixDown(data []int, channels, bitDepth int) []float64 {
	scale := 1.0
	switch {
	case bitDepth == 8:
		// 8-bit wav is unsigned; go-audio leaves it as 0..255
		scale = 128
	case bitDepth > 1:
		scale = float64(int64(1) << (bitDepth - 1))
	}

	frames := len(data) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			v := float64(data[i*channels+c])
			if bitDepth == 8 {
				v -= 128
			}
			sum += v
		}
		out[i] = sum / float64(channels) / scale
	}
	return out
}
