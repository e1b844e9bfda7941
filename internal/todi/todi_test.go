// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package todi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe(t *testing.T) {
	tests := []struct {
		name string
		seq  []Key
		want string
	}{
		{"high accent", []Key{High}, "H*"},
		{"low accent", []Key{Low}, "L*"},
		{"rise", []Key{Low, High}, "L*H"},
		{"fall", []Key{High, Low}, "H*L"},
		{"fall to final boundary", []Key{High, Low, Right}, "H*L L%"},
		{"rise to final boundary", []Key{Low, High, Right}, "L*H H%"},
		{"delay", []Key{Low, High, Low}, "L*HL"},
		{"pre-nuclear", []Key{High, Low, High}, "H*LH"},
		{"high boundary", []Key{High, Right}, "H%"},
		{"low boundary", []Key{Low, Right}, "L%"},
		{"initial high", []Key{Left, High}, "%H"},
		{"initial low", []Key{Left, Low}, "%L"},
		{"bare boundary", []Key{Right}, "%"},
		{"boundary position is irrelevant", []Key{Right, High, Low}, "H*L L%"},
		{"downstepped accent", []Key{Downstep, High}, "!H*"},
		{"downstepped fall", []Key{High, Downstep, Low}, "!H*L"},
		{"downstep without H*", []Key{Downstep, Low, High}, "L*H"},
		{"downstepped fall to boundary", []Key{Downstep, High, Low, Right}, "!H*L L%"},
		{"repeated boundary keys", []Key{Left, Left, Low}, "%L"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transcribe(tt.seq)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranscribe_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		seq   []Key
		proto string
	}{
		{"empty", nil, ""},
		{"only downstep", []Key{Downstep}, ""},
		{"initial boundary alone", []Key{Left}, "<"},
		{"both boundaries", []Key{Left, High, Right}, "<H>"},
		{"too many tones", []Key{High, High, High, High}, "HHHH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transcribe(tt.seq)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSequence))
			assert.Contains(t, err.Error(), `"`+tt.proto+`"`)
		})
	}
}

func TestProto(t *testing.T) {
	assert.Equal(t, "<HL>", Proto([]Key{Right, High, Left, Low}))
	assert.Equal(t, "LH", Proto([]Key{Downstep, Low, High}))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "! ↑ ↓ →", Format([]Key{Downstep, High, Low, Right}))
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "←", Format([]Key{Left}))
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "H", High.String())
	assert.Equal(t, "!", Downstep.String())
	assert.Equal(t, "Key(9)", Key(9).String())
}
