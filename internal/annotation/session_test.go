// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package annotation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession([]string{"a.wav", "b.wav", "c.wav"}, map[string][]Point{
		"b.wav": {{Time: 0.4, Label: "H*"}},
	})
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	s := newSession(t)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "a.wav", s.Current())
	assert.Equal(t, 0, s.Tier().Len())
	assert.Equal(t, 1, s.TierFor("b.wav").Len())
	assert.Nil(t, s.TierFor("zzz.wav"))
	assert.Equal(t, 1, s.Total())
}

func TestNewSession_Errors(t *testing.T) {
	_, err := NewSession(nil, nil)
	assert.Error(t, err)
}

func TestNewSession_DeduplicatesFiles(t *testing.T) {
	s, err := NewSession([]string{"a.wav", "b.wav", "a.wav"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.wav", "b.wav"}, s.Files())
}

func TestSession_Navigation(t *testing.T) {
	s := newSession(t)

	assert.True(t, s.Next())
	assert.Equal(t, "b.wav", s.Current())

	assert.True(t, s.Last())
	assert.Equal(t, "c.wav", s.Current())

	assert.True(t, s.Next(), "next wraps to the first file")
	assert.Equal(t, "a.wav", s.Current())

	assert.True(t, s.Prev(), "prev wraps to the last file")
	assert.Equal(t, "c.wav", s.Current())

	assert.True(t, s.First())
	assert.False(t, s.First(), "staying on the same file is not a change")

	assert.True(t, s.Goto(-4))
	assert.Equal(t, 2, s.Index())
}

func TestSession_SingleFileNavigationIsNoop(t *testing.T) {
	s, err := NewSession([]string{"only.wav"}, nil)
	require.NoError(t, err)
	assert.False(t, s.Next())
	assert.False(t, s.Prev())
	assert.Equal(t, "only.wav", s.Current())
}

func TestSession_Records(t *testing.T) {
	s := newSession(t)
	s.Tier().Add(Point{Time: 1.2, Label: "L*H"})
	s.SetDuration("a.wav", 2*time.Second)
	s.SetDuration("unknown.wav", time.Second)

	d, ok := s.Duration("a.wav")
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, d)
	_, ok = s.Duration("unknown.wav")
	assert.False(t, ok)

	recs := s.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, Record{File: "a.wav", Duration: 2 * time.Second, Points: []Point{{Time: 1.2, Label: "L*H"}}}, recs[0])
	assert.Equal(t, "b.wav", recs[1].File)
	assert.Equal(t, []Point{{Time: 0.4, Label: "H*"}}, recs[1].Points)
	assert.Empty(t, recs[2].Points)
}
