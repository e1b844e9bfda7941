// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"sync"
	"time"

	"github.com/toneswiper/toneswiper/internal/audio"
	"github.com/toneswiper/toneswiper/internal/logger"
)

// Result bundles a decoded clip with its analyses.
type Result struct {
	Clip        *audio.Clip
	Spectrogram *Spectrogram
	Pitch       *PitchTrack
}

// Cache memoises Results by path. It is safe for concurrent use; two
// callers racing on the same path may both compute, and the first to finish
// wins.
type Cache struct {
	mu      sync.Mutex
	opts    Options
	load    func(string) (*audio.Clip, error)
	entries map[string]*Result
}

// NewCache creates an empty cache that decodes files with audio.Load.
func NewCache(opts Options) *Cache {
	return &Cache{
		opts:    opts,
		load:    audio.Load,
		entries: make(map[string]*Result),
	}
}

// Options returns the analysis settings of the cache.
func (c *Cache) Options() Options {
	return c.opts
}

// Get returns a cached result without computing.
func (c *Cache) Get(path string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[path]
	return r, ok
}

// Len reports how many files are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Load decodes and analyses path unless it is already cached.
func (c *Cache) Load(path string) (*Result, error) {
	if r, ok := c.Get(path); ok {
		return r, nil
	}

	log := logger.GetAnalysisLogger()
	started := time.Now()

	clip, err := c.load(path)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Clip:        clip,
		Spectrogram: Compute(clip, c.opts),
		Pitch:       Pitch(clip, c.opts),
	}

	log.Debug().
		Str("file", path).
		Int("frames", len(res.Spectrogram.Times)).
		Int("voiced", res.Pitch.Voiced()).
		Dur("took", time.Since(started)).
		Msg("analysis complete")

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[path]; ok {
		return existing, nil
	}
	c.entries[path] = res
	return res, nil
}
