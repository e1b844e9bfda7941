// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command spectrogram prints the spectrogram panel and timeline for a wav
// file, or for a synthetic glide when no file is given.
//
//	go run ./cmd/dev/tui/spectrogram [--width 100] [--height 20] [file.wav]
package main

import (
	"fmt"
	"math"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/toneswiper/toneswiper/internal/analysis"
	"github.com/toneswiper/toneswiper/internal/annotation"
	"github.com/toneswiper/toneswiper/internal/audio"
	"github.com/toneswiper/toneswiper/internal/config"
	"github.com/toneswiper/toneswiper/internal/tui/components/spectrogram"
	"github.com/toneswiper/toneswiper/internal/tui/components/timeline"
)

func main() {
	width := flag.Int("width", 100, "Panel width in cells")
	height := flag.Int("height", 20, "Panel height in cells")
	flag.Parse()

	cfg := config.Default()
	opts := analysis.OptionsFrom(cfg.Analysis)

	clip := loadClip(flag.Arg(0))
	spec := analysis.Compute(clip, opts)
	pitch := analysis.Pitch(clip, opts)

	panel := spectrogram.New(opts)
	panel.SetSize(*width, *height)
	panel.SetData(&analysis.Result{Clip: clip, Spectrogram: spec, Pitch: pitch})

	dur := clip.Duration()
	fmt.Println(panel.View(dur / 3))
	fmt.Println(timeline.Render(timeline.Options{
		Points:   mockPoints(dur),
		Duration: dur,
		Width:    *width,
		Selected: 1,
	}))

	fmt.Printf("\n%s  %s  %d Hz", clip.Path, dur, clip.SampleRate)
	if lo, hi, ok := pitch.Range(); ok {
		fmt.Printf("  pitch %.0f-%.0f Hz (%d voiced frames)", lo, hi, pitch.Voiced())
	}
	fmt.Println()
}

func loadClip(path string) *audio.Clip {
	if path == "" {
		return mockClip()
	}
	clip, err := audio.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", path, err)
		os.Exit(1)
	}
	return clip
}

// mockClip is a two second glide from 120 to 240 Hz with a few harmonics.
func mockClip() *audio.Clip {
	const rate = 16000
	n := 2 * rate
	samples := make([]float64, n)
	phase := 0.0
	for i := range samples {
		f0 := 120 + 120*float64(i)/float64(n)
		phase += 2 * math.Pi * f0 / rate
		samples[i] = 0.4*math.Sin(phase) + 0.2*math.Sin(2*phase) + 0.1*math.Sin(3*phase)
	}
	return &audio.Clip{Path: "glide (synthetic)", SampleRate: rate, Channels: 1, BitDepth: 16, Samples: samples}
}

func mockPoints(dur time.Duration) []annotation.Point {
	d := dur.Seconds()
	return []annotation.Point{
		{Time: 0.05 * d, Label: "%L"},
		{Time: 0.4 * d, Label: "H*L"},
		{Time: 0.95 * d, Label: "L%"},
	}
}
