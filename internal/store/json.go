// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/samber/lo"

	"github.com/toneswiper/toneswiper/internal/annotation"
	"github.com/toneswiper/toneswiper/internal/fsutil"
	"github.com/toneswiper/toneswiper/internal/logger"
)

// JSONStore keeps all annotations in one JSON object keyed by wav path:
//
//	{"rec/a.wav": [{"time": 0.512, "label": "H*L"}]}
//
// With an empty Path it loads nothing and writes to Out.
type JSONStore struct {
	Path string
	Out  io.Writer
}

func (s *JSONStore) Load(ctx context.Context, files []string) (map[string][]annotation.Point, error) {
	if s.Path == "" {
		return map[string][]annotation.Point{}, nil
	}

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	out := make(map[string][]annotation.Point)
	for _, f := range files {
		if pts, ok := all[f]; ok && len(pts) > 0 {
			out[f] = pts
		}
	}

	log := logger.GetStoreLogger()
	log.Debug().Str("file", s.Path).Int("recordings", len(out)).Msg("loaded json annotations")
	return out, nil
}

// readAll returns every entry of the file; a missing file is empty.
func (s *JSONStore) readAll() (map[string][]annotation.Point, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string][]annotation.Point{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string][]annotation.Point{}, nil
	}

	var all map[string][]annotation.Point
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return all, nil
}

// Save writes the records in the given order. Entries already in the file
// for recordings outside this session are kept, after the session's own.
func (s *JSONStore) Save(ctx context.Context, records []annotation.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.Path == "" {
		out := s.Out
		if out == nil {
			out = os.Stdout
		}
		return encodeRecords(out, records)
	}

	existing, err := s.readAll()
	if err != nil {
		return err
	}
	session := lo.SliceToMap(records, func(r annotation.Record) (string, struct{}) {
		return r.File, struct{}{}
	})
	others := lo.OmitByKeys(existing, lo.Keys(session))
	keys := lo.Keys(others)
	sort.Strings(keys)
	records = records[:len(records):len(records)]
	for _, k := range keys {
		records = append(records, annotation.Record{File: k, Points: others[k]})
	}

	err = fsutil.WriteAtomic(s.Path, func(w io.Writer) error {
		return encodeRecords(w, records)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", s.Path, err)
	}

	log := logger.GetStoreLogger()
	log.Info().Str("file", s.Path).Int("recordings", len(records)).Msg("wrote json annotations")
	return nil
}

// encodeRecords writes an indented JSON object whose keys follow the record
// order, which encoding/json does not preserve for maps.
func encodeRecords(w io.Writer, records []annotation.Record) error {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, r := range records {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := json.Marshal(r.File)
		if err != nil {
			return err
		}
		pts := r.Points
		if pts == nil {
			pts = []annotation.Point{}
		}
		val, err := json.Marshal(pts)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "%s:%s", key, val)
	}
	buf.WriteString("}")

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := w.Write(out.Bytes())
	return err
}
