// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/samber/lo"

	"github.com/toneswiper/toneswiper/internal/annotation"
	"github.com/toneswiper/toneswiper/internal/logger"
	"github.com/toneswiper/toneswiper/internal/textgrid"
)

// TextGridStore keeps annotations in a point tier of the TextGrid next to
// each wav file. Other tiers in the file are left alone.
type TextGridStore struct {
	Tier string
}

func (s *TextGridStore) Load(ctx context.Context, files []string) (map[string][]annotation.Point, error) {
	log := logger.GetStoreLogger()
	out := make(map[string][]annotation.Point)

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := textgrid.PathFor(f)
		tg, err := textgrid.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}

		tier, ok := tg.Tier(s.Tier)
		if !ok {
			log.Debug().Str("file", path).Str("tier", s.Tier).Msg("tier not present")
			continue
		}
		pts := tierPoints(tier)
		if len(pts) > 0 {
			out[f] = pts
		}
		log.Debug().Str("file", path).Int("points", len(pts)).Msg("loaded textgrid tier")
	}
	return out, nil
}

// tierPoints reads a tier as point annotations. Interval tiers contribute
// the start of every labelled interval.
func tierPoints(t *textgrid.Tier) []annotation.Point {
	if t.Kind == textgrid.PointTier {
		return lo.Map(t.Points, func(p textgrid.Point, _ int) annotation.Point {
			return annotation.Point{Time: p.Time, Label: p.Mark}
		})
	}
	labelled := lo.Filter(t.Intervals, func(iv textgrid.Interval, _ int) bool {
		return iv.Text != ""
	})
	return lo.Map(labelled, func(iv textgrid.Interval, _ int) annotation.Point {
		return annotation.Point{Time: iv.XMin, Label: iv.Text}
	})
}

func (s *TextGridStore) Save(ctx context.Context, records []annotation.Record) error {
	log := logger.GetStoreLogger()

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := textgrid.PathFor(r.File)
		tg, err := textgrid.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			tg = textgrid.New(0, r.Duration.Seconds())
		case err != nil:
			return fmt.Errorf("save %s: %w", path, err)
		}

		xmax := math.Max(tg.XMax, r.Duration.Seconds())
		for _, p := range r.Points {
			xmax = math.Max(xmax, p.Time)
		}
		pts := lo.Map(r.Points, func(p annotation.Point, _ int) textgrid.Point {
			return textgrid.Point{Time: p.Time, Mark: p.Label}
		})
		tg.SetTier(textgrid.NewPointTier(s.Tier, tg.XMin, xmax, pts))

		if err := textgrid.WriteFile(path, tg); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		log.Info().Str("file", path).Str("tier", s.Tier).Int("points", len(pts)).Msg("wrote textgrid")
	}
	return nil
}
