// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package annotation

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
)

// Point is a labelled instant in a recording. Time is in seconds from the
// start of the file.
type Point struct {
	Time  float64 `json:"time" yaml:"time"`
	Label string  `json:"label" yaml:"label"`
}

func (p Point) String() string {
	return fmt.Sprintf("%.3fs %s", p.Time, p.Label)
}

// At builds a Point from a playback position.
func At(pos time.Duration, label string) Point {
	return Point{Time: pos.Seconds(), Label: label}
}

// Tier holds the points of one file. Points are kept in insertion order so
// Undo removes the most recent addition; Points reports them by time.
type Tier struct {
	points []Point
}

// NewTier returns a tier seeded with already persisted points.
func NewTier(points []Point) *Tier {
	t := &Tier{}
	t.points = append(t.points, sortByTime(points)...)
	return t
}

// Add appends a point and returns its index in time order.
func (t *Tier) Add(p Point) int {
	t.points = append(t.points, p)
	return t.indexOf(len(t.points) - 1)
}

// Undo removes the most recently added point.
func (t *Tier) Undo() (Point, bool) {
	if len(t.points) == 0 {
		return Point{}, false
	}
	last := t.points[len(t.points)-1]
	t.points = t.points[:len(t.points)-1]
	return last, true
}

// Clear removes every point and returns how many were dropped.
func (t *Tier) Clear() int {
	n := len(t.points)
	t.points = nil
	return n
}

// Remove deletes the i-th point in time order.
func (t *Tier) Remove(i int) (Point, error) {
	raw, err := t.rawIndex(i)
	if err != nil {
		return Point{}, err
	}
	p := t.points[raw]
	t.points = append(t.points[:raw], t.points[raw+1:]...)
	return p, nil
}

// Relabel changes the label of the i-th point in time order.
func (t *Tier) Relabel(i int, label string) error {
	raw, err := t.rawIndex(i)
	if err != nil {
		return err
	}
	t.points[raw].Label = label
	return nil
}

// Len reports the number of points.
func (t *Tier) Len() int {
	return len(t.points)
}

// Points returns a copy of the points ordered by time. Equal times keep
// insertion order.
func (t *Tier) Points() []Point {
	return sortByTime(t.points)
}

func (t *Tier) order() []int {
	idx := lo.Range(len(t.points))
	sort.SliceStable(idx, func(a, b int) bool {
		return t.points[idx[a]].Time < t.points[idx[b]].Time
	})
	return idx
}

func (t *Tier) rawIndex(i int) (int, error) {
	if i < 0 || i >= len(t.points) {
		return 0, fmt.Errorf("point index %d out of range [0, %d)", i, len(t.points))
	}
	return t.order()[i], nil
}

func (t *Tier) indexOf(raw int) int {
	_, i, _ := lo.FindIndexOf(t.order(), func(r int) bool { return r == raw })
	return i
}

func sortByTime(points []Point) []Point {
	out := append([]Point(nil), points...)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Time < out[b].Time })
	return out
}
