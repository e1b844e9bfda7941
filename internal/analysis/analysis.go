// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analysis derives the spectrogram and pitch contour drawn under
// the playhead.
package analysis

import (
	"math"
	"time"

	"github.com/toneswiper/toneswiper/internal/config"
)

// Options controls both analyses.
type Options struct {
	Window       time.Duration // spectrogram window length
	MaxFrequency float64
	DynamicRange float64 // dB below the loudest cell that still shows
	PitchFloor   float64
	PitchCeiling float64
	PitchStep    time.Duration
}

// OptionsFrom maps the analysis configuration section to Options.
func OptionsFrom(cfg config.AnalysisConfig) Options {
	return Options{
		Window:       cfg.WindowLength,
		MaxFrequency: cfg.MaxFrequency,
		DynamicRange: cfg.DynamicRange,
		PitchFloor:   cfg.PitchFloor,
		PitchCeiling: cfg.PitchCeiling,
		PitchStep:    cfg.PitchTimeStep,
	}
}

// hann returns a Hann window of length n.
func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
