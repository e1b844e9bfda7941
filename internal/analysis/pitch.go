// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/toneswiper/toneswiper/internal/audio"
)

const (
	voicingThreshold = 0.45
	silenceThreshold = 0.03 // local peak relative to the global peak
	octaveCost       = 0.01 // per octave, favours higher candidates
	periodsPerWindow = 3
)

// PitchTrack is f0 per analysis frame. Unvoiced frames hold 0.
type PitchTrack struct {
	Times []float64
	F0    []float64
}

// Range returns the lowest and highest voiced f0, or ok=false when nothing
// is voiced.
func (p *PitchTrack) Range() (lo, hi float64, ok bool) {
	for _, f := range p.F0 {
		if f <= 0 {
			continue
		}
		if !ok {
			lo, hi, ok = f, f, true
			continue
		}
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	return lo, hi, ok
}

// Voiced counts frames with a pitch estimate.
func (p *PitchTrack) Voiced() int {
	n := 0
	for _, f := range p.F0 {
		if f > 0 {
			n++
		}
	}
	return n
}

// Pitch estimates f0 by normalised autocorrelation of Hann-windowed frames,
// corrected for the window's own autocorrelation.
func Pitch(clip *audio.Clip, opts Options) *PitchTrack {
	track := &PitchTrack{}
	sr := float64(clip.SampleRate)
	if sr == 0 || opts.PitchFloor <= 0 || opts.PitchCeiling <= opts.PitchFloor {
		return track
	}

	w := int(math.Round(periodsPerWindow / opts.PitchFloor * sr))
	step := int(math.Round(opts.PitchStep.Seconds() * sr))
	if step < 1 {
		step = 1
	}
	minLag := int(math.Floor(sr / opts.PitchCeiling))
	maxLag := int(math.Ceil(sr / opts.PitchFloor))
	if minLag < 2 {
		minLag = 2
	}
	x := clip.Samples
	if w < 4 || len(x) < w || maxLag >= w/2 {
		return track
	}

	peak := 0.0
	for _, v := range x {
		peak = math.Max(peak, math.Abs(v))
	}

	size := nextPow2(2 * w)
	fft := fourier.NewFFT(size)
	win := hann(w)
	rw := autocorrelate(fft, win, size)

	seg := make([]float64, w)
	for start := 0; start+w <= len(x); start += step {
		track.Times = append(track.Times, (float64(start)+float64(w)/2)/sr)

		local, mean := 0.0, 0.0
		for i := 0; i < w; i++ {
			mean += x[start+i]
			local = math.Max(local, math.Abs(x[start+i]))
		}
		if peak == 0 || local < silenceThreshold*peak {
			track.F0 = append(track.F0, 0)
			continue
		}
		mean /= float64(w)
		for i := 0; i < w; i++ {
			seg[i] = (x[start+i] - mean) * win[i]
		}

		ra := autocorrelate(fft, seg, size)
		track.F0 = append(track.F0, bestCandidate(ra, rw, minLag, maxLag, sr, opts.PitchFloor))
	}
	return track
}

// autocorrelate returns the autocorrelation of x normalised to r[0] = 1,
// computed through the power spectrum.
func autocorrelate(fft *fourier.FFT, x []float64, size int) []float64 {
	buf := make([]float64, size)
	copy(buf, x)
	c := fft.Coefficients(nil, buf)
	for i, v := range c {
		c[i] = complex(real(v)*real(v)+imag(v)*imag(v), 0)
	}
	r := fft.Sequence(nil, c)
	if r[0] == 0 {
		return make([]float64, len(x))
	}
	out := make([]float64, len(x))
	for i := range out {
		out[i] = r[i] / r[0]
	}
	return out
}

// bestCandidate picks the strongest local maximum of ra/rw in the lag range
// and refines it by parabolic interpolation. It returns 0 when the best
// correlation is below the voicing threshold.
func bestCandidate(ra, rw []float64, minLag, maxLag int, sr, floor float64) float64 {
	r := func(lag int) float64 {
		if rw[lag] <= 0 {
			return 0
		}
		return ra[lag] / rw[lag]
	}

	bestLag, bestR, bestScore := 0, 0.0, math.Inf(-1)
	for lag := minLag; lag <= maxLag && lag+1 < len(ra); lag++ {
		v := r(lag)
		if v < r(lag-1) || v < r(lag+1) {
			continue
		}
		score := v - octaveCost*math.Log2(floor*float64(lag)/sr)
		if score > bestScore {
			bestLag, bestR, bestScore = lag, v, score
		}
	}
	if bestLag == 0 || bestR < voicingThreshold {
		return 0
	}

	lag := float64(bestLag)
	a, b, c := r(bestLag-1), bestR, r(bestLag+1)
	if d := a - 2*b + c; d != 0 {
		lag += 0.5 * (a - c) / d
	}
	return sr / lag
}
