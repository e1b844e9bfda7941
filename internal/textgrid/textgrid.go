// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package textgrid reads and writes Praat TextGrid files.
//
// Both the long ("ooTextFile" with key = value lines) and the short text
// formats are accepted on input; output is always the long format, which is
// what Praat writes by default.
package textgrid

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/toneswiper/toneswiper/internal/fsutil"
)

// Kind distinguishes the two tier classes a TextGrid can hold.
type Kind int

const (
	IntervalTier Kind = iota
	PointTier
)

func (k Kind) className() string {
	if k == PointTier {
		return "TextTier"
	}
	return "IntervalTier"
}

func (k Kind) String() string {
	return k.className()
}

// Interval is a labelled stretch of an interval tier.
type Interval struct {
	XMin, XMax float64
	Text       string
}

// Point is a labelled instant of a point tier.
type Point struct {
	Time float64
	Mark string
}

// Tier is one named annotation layer.
type Tier struct {
	Name       string
	Kind       Kind
	XMin, XMax float64
	Intervals  []Interval
	Points     []Point
}

// TextGrid is the whole annotation object of one recording.
type TextGrid struct {
	XMin, XMax float64
	Tiers      []Tier
}

// New returns an empty TextGrid spanning [xmin, xmax].
func New(xmin, xmax float64) *TextGrid {
	return &TextGrid{XMin: xmin, XMax: xmax}
}

// NewPointTier builds a point tier spanning [xmin, xmax].
func NewPointTier(name string, xmin, xmax float64, points []Point) Tier {
	return Tier{
		Name:   name,
		Kind:   PointTier,
		XMin:   xmin,
		XMax:   xmax,
		Points: append([]Point(nil), points...),
	}
}

// Tier looks a tier up by name.
func (tg *TextGrid) Tier(name string) (*Tier, bool) {
	for i := range tg.Tiers {
		if tg.Tiers[i].Name == name {
			return &tg.Tiers[i], true
		}
	}
	return nil, false
}

// SetTier replaces the tier with the same name, or appends it. The grid's
// time domain grows to cover the tier.
func (tg *TextGrid) SetTier(t Tier) {
	if t.XMin < tg.XMin {
		tg.XMin = t.XMin
	}
	if t.XMax > tg.XMax {
		tg.XMax = t.XMax
	}
	if existing, ok := tg.Tier(t.Name); ok {
		*existing = t
		return
	}
	tg.Tiers = append(tg.Tiers, t)
}

// PathFor returns the TextGrid path that belongs to an audio file: same
// directory and base name, ".TextGrid" extension.
func PathFor(audioPath string) string {
	return strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".TextGrid"
}

// ReadFile parses the TextGrid at path.
func ReadFile(path string) (*TextGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tg, nil
}

// WriteFile writes tg to path in long format. The file is replaced
// atomically so an interrupted write never leaves a truncated TextGrid.
func WriteFile(path string, tg *TextGrid) error {
	return fsutil.WriteAtomic(path, func(w io.Writer) error {
		return Write(w, tg)
	})
}
