// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/toneswiper/toneswiper/internal/audio"
)

// preEmphasisFrom is the corner frequency of the pre-emphasis filter.
const preEmphasisFrom = 50.0

// minPower keeps log10 finite for silent cells.
const minPower = 1e-10

// Spectrogram holds power per frame and frequency bin.
type Spectrogram struct {
	Times []float64   // frame centres in seconds
	Freqs []float64   // bin frequencies in Hz
	Power [][]float64 // [frame][bin]
}

// Empty reports whether the clip was too short for a single frame.
func (s *Spectrogram) Empty() bool {
	return len(s.Times) == 0 || len(s.Freqs) == 0
}

// Compute runs a short-time Fourier transform over a pre-emphasised copy of
// the clip. Frames overlap by three quarters of the window.
func Compute(clip *audio.Clip, opts Options) *Spectrogram {
	sr := float64(clip.SampleRate)
	n := int(math.Round(opts.Window.Seconds() * sr))
	if n < 2 {
		n = 2
	}
	hop := n / 4
	if hop < 1 {
		hop = 1
	}
	size := nextPow2(n)

	spec := &Spectrogram{}
	maxF := math.Min(opts.MaxFrequency, sr/2)
	for k := 0; k <= size/2; k++ {
		f := float64(k) * sr / float64(size)
		if f > maxF {
			break
		}
		spec.Freqs = append(spec.Freqs, f)
	}

	x := preEmphasize(clip.Samples, sr)
	if len(x) < n {
		return spec
	}

	win := hann(n)
	fft := fourier.NewFFT(size)
	buf := make([]float64, size)
	coeff := make([]complex128, size/2+1)

	for start := 0; start+n <= len(x); start += hop {
		for i := 0; i < n; i++ {
			buf[i] = x[start+i] * win[i]
		}
		for i := n; i < size; i++ {
			buf[i] = 0
		}
		coeff = fft.Coefficients(coeff, buf)

		row := make([]float64, len(spec.Freqs))
		for k := range row {
			a := cmplx.Abs(coeff[k])
			row[k] = a * a
		}
		spec.Power = append(spec.Power, row)
		spec.Times = append(spec.Times, (float64(start)+float64(n)/2)/sr)
	}
	return spec
}

func preEmphasize(in []float64, sampleRate float64) []float64 {
	out := make([]float64, len(in))
	if len(in) == 0 {
		return out
	}
	alpha := math.Exp(-2 * math.Pi * preEmphasisFrom / sampleRate)
	out[0] = in[0]
	for i := 1; i < len(in); i++ {
		out[i] = in[i] - alpha*in[i-1]
	}
	return out
}

// Intensity resamples the spectrogram onto a cols x rows grid of values in
// [0, 1], where 1 is the loudest cell and 0 is dynamicRange dB below it or
// quieter. Row 0 is the lowest frequency band. Each cell takes the loudest
// frame and bin it covers so short events survive downsampling.
func (s *Spectrogram) Intensity(cols, rows int, dynamicRange float64) [][]float64 {
	grid := make([][]float64, rows)
	for r := range grid {
		grid[r] = make([]float64, cols)
	}
	if s.Empty() || cols <= 0 || rows <= 0 || dynamicRange <= 0 {
		return grid
	}

	db := func(p float64) float64 { return 10 * math.Log10(math.Max(p, minPower)) }

	top := db(minPower)
	for _, row := range s.Power {
		for _, p := range row {
			top = math.Max(top, db(p))
		}
	}

	frames, bins := len(s.Power), len(s.Freqs)
	for c := 0; c < cols; c++ {
		f0, f1 := span(c, cols, frames)
		for r := 0; r < rows; r++ {
			b0, b1 := span(r, rows, bins)
			best := db(minPower)
			for f := f0; f < f1; f++ {
				for b := b0; b < b1; b++ {
					best = math.Max(best, db(s.Power[f][b]))
				}
			}
			v := 1 - (top-best)/dynamicRange
			grid[r][c] = math.Min(math.Max(v, 0), 1)
		}
	}
	return grid
}

// span maps cell i of cells onto a non-empty index range of n items.
func span(i, cells, n int) (int, int) {
	lo := i * n / cells
	hi := (i + 1) * n / cells
	if hi <= lo {
		hi = lo + 1
	}
	if hi > n {
		hi = n
		if lo >= n {
			lo = n - 1
		}
	}
	return lo, hi
}
