// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package annotation

import (
	"errors"
	"time"

	"github.com/samber/lo"
)

// Record is the persisted form of one file's annotations.
type Record struct {
	File     string
	Duration time.Duration
	Points   []Point
}

// Session walks an ordered list of recordings and owns one Tier per file.
type Session struct {
	files     []string
	tiers     map[string]*Tier
	durations map[string]time.Duration
	current   int
}

// NewSession creates a session over files, seeding tiers from loaded.
// Duplicate paths are collapsed to their first occurrence.
func NewSession(files []string, loaded map[string][]Point) (*Session, error) {
	files = lo.Uniq(files)
	if len(files) == 0 {
		return nil, errors.New("no files to annotate")
	}

	s := &Session{
		files:     files,
		tiers:     make(map[string]*Tier, len(files)),
		durations: make(map[string]time.Duration, len(files)),
	}
	for _, f := range files {
		s.tiers[f] = NewTier(loaded[f])
	}
	return s, nil
}

// Files returns the paths in session order.
func (s *Session) Files() []string {
	return append([]string(nil), s.files...)
}

// Len reports the number of files.
func (s *Session) Len() int {
	return len(s.files)
}

// Index reports the position of the current file.
func (s *Session) Index() int {
	return s.current
}

// Current returns the path of the current file.
func (s *Session) Current() string {
	return s.files[s.current]
}

// Tier returns the tier of the current file.
func (s *Session) Tier() *Tier {
	return s.tiers[s.Current()]
}

// TierFor returns the tier of a given file, or nil if the file is not part of the session.
func (s *Session) TierFor(file string) *Tier {
	return s.tiers[file]
}

// Goto moves to file i, wrapping around in both directions. It reports
// whether the current file changed.
func (s *Session) Goto(i int) bool {
	n := len(s.files)
	i = ((i % n) + n) % n
	if i == s.current {
		return false
	}
	s.current = i
	return true
}

// Next moves to the following file, wrapping to the first.
func (s *Session) Next() bool { return s.Goto(s.current + 1) }

// Prev moves to the preceding file, wrapping to the last.
func (s *Session) Prev() bool { return s.Goto(s.current - 1) }

// First moves to the first file.
func (s *Session) First() bool { return s.Goto(0) }

// Last moves to the last file.
func (s *Session) Last() bool { return s.Goto(len(s.files) - 1) }

// SetDuration records the length of a file once it is known.
func (s *Session) SetDuration(file string, d time.Duration) {
	if _, ok := s.tiers[file]; ok {
		s.durations[file] = d
	}
}

// Duration returns the recorded length of a file.
func (s *Session) Duration(file string) (time.Duration, bool) {
	d, ok := s.durations[file]
	return d, ok
}

// Total counts the points across all files.
func (s *Session) Total() int {
	return lo.SumBy(s.files, func(f string) int { return s.tiers[f].Len() })
}

// Records snapshots every file's annotations in session order.
func (s *Session) Records() []Record {
	return lo.Map(s.files, func(f string, _ int) Record {
		return Record{
			File:     f,
			Duration: s.durations[f],
			Points:   s.tiers[f].Points(),
		}
	})
}
