// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store loads and saves annotations.
package store

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/toneswiper/toneswiper/internal/annotation"
	"github.com/toneswiper/toneswiper/internal/config"
)

// Store persists point annotations keyed by wav path.
type Store interface {
	// Load returns the saved points for each of files that has any.
	Load(ctx context.Context, files []string) (map[string][]annotation.Point, error)
	// Save writes one record per file.
	Save(ctx context.Context, records []annotation.Record) error
}

// ErrConflictingTargets is returned when more than one store is selected.
var ErrConflictingTargets = errors.New("only one of textgrid, json and database may be selected")

// Options selects a store. At most one target may be set; with none, the
// annotations are written as JSON to Stdout.
type Options struct {
	TextGridTier string // non-empty selects TextGridStore
	JSONPath     string // non-empty selects JSONStore on that file
	Database     bool
	Stdout       io.Writer
}

// New builds the store selected by opts. The returned close function
// releases database connections and is never nil.
func New(opts Options, cfg *config.AppConfig) (Store, func() error, error) {
	noop := func() error { return nil }

	selected := 0
	for _, on := range []bool{opts.TextGridTier != "", opts.JSONPath != "", opts.Database} {
		if on {
			selected++
		}
	}
	if selected > 1 {
		return nil, noop, ErrConflictingTargets
	}

	switch {
	case opts.TextGridTier != "":
		return &TextGridStore{Tier: opts.TextGridTier}, noop, nil
	case opts.JSONPath != "":
		return &JSONStore{Path: opts.JSONPath}, noop, nil
	case opts.Database:
		db, err := NewGormDB(&cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		if err := db.AutoMigrate(); err != nil {
			db.Close()
			return nil, noop, err
		}
		return NewDBStore(db), db.Close, nil
	default:
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		return &JSONStore{Out: out}, noop, nil
	}
}
