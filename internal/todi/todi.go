// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package todi translates arrow-key "swipes" into ToDI intonation labels.
//
// High and Low keys spell the tonal shape, Left marks an initial boundary,
// Right a final boundary, and Downstep lowers a high accent (H* -> !H*).
package todi

import (
	"errors"
	"fmt"
	"strings"
)

// Key is one element of a swipe.
type Key int

const (
	High Key = iota
	Low
	Left
	Right
	Downstep
)

func (k Key) String() string {
	switch k {
	case High:
		return "H"
	case Low:
		return "L"
	case Left:
		return "<"
	case Right:
		return ">"
	case Downstep:
		return "!"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// ErrInvalidSequence is returned when a swipe has no ToDI reading.
var ErrInvalidSequence = errors.New("not a valid key sequence")

var labels = map[string]string{
	"LH":  "L*H",
	"HL":  "H*L",
	"HL>": "H*L L%",
	"LH>": "L*H H%",
	"LHL": "L*HL", // delay
	"HLH": "H*LH", // only pre-nuclear
	"H>":  "H%",
	"L>":  "L%",
	"<H":  "%H",
	"<L":  "%L",
	">":   "%",
	"H":   "H*",
	"L":   "L*",
}

// Proto returns the intermediate spelling of a sequence: tones in order,
// "<" prefixed if Left occurs, ">" appended if Right occurs.
func Proto(seq []Key) string {
	var b strings.Builder
	var left, right bool
	for _, k := range seq {
		switch k {
		case High, Low:
			b.WriteString(k.String())
		case Left:
			left = true
		case Right:
			right = true
		}
	}
	proto := b.String()
	if right {
		proto += ">"
	}
	if left {
		proto = "<" + proto
	}
	return proto
}

// Transcribe converts a key sequence into its ToDI label.
func Transcribe(seq []Key) (string, error) {
	proto := Proto(seq)
	label, ok := labels[proto]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSequence, proto)
	}

	for _, k := range seq {
		if k == Downstep {
			label = strings.Replace(label, "H*", "!H*", 1)
			break
		}
	}
	return label, nil
}

// Format renders a pending sequence for display, e.g. "! ↑ ↓ →".
func Format(seq []Key) string {
	parts := make([]string, 0, len(seq))
	for _, k := range seq {
		switch k {
		case High:
			parts = append(parts, "↑")
		case Low:
			parts = append(parts, "↓")
		case Left:
			parts = append(parts, "←")
		case Right:
			parts = append(parts, "→")
		case Downstep:
			parts = append(parts, "!")
		}
	}
	return strings.Join(parts, " ")
}
