// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package textgrid

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrSyntax reports a malformed TextGrid.
var ErrSyntax = errors.New("textgrid syntax error")

type tokenKind int

const (
	tokString tokenKind = iota
	tokNumber
	tokFlag
)

type token struct {
	kind tokenKind
	text string
}

// Parse reads a TextGrid in long or short text format. UTF-16 input is
// accepted when it carries a byte order mark.
func Parse(r io.Reader) (*TextGrid, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, err
	}

	toks, err := tokenize(string(data))
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.textGrid()
}

// tokenize reduces both text formats to the same value stream. Keys,
// "=", ":" and bracketed indices are labels and carry no data.
func tokenize(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '=' || c == ':':
			i++
		case c == '!':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated '['", ErrSyntax)
			}
			i += end + 1
		case c == '"':
			var b strings.Builder
			i++
			closed := false
			for i < len(s) {
				if s[i] == '"' {
					if i+1 < len(s) && s[i+1] == '"' {
						b.WriteByte('"')
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				b.WriteByte(s[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("%w: unterminated string", ErrSyntax)
			}
			toks = append(toks, token{kind: tokString, text: b.String()})
		case c == '<':
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated flag", ErrSyntax)
			}
			toks = append(toks, token{kind: tokFlag, text: s[i+1 : i+end]})
			i += end + 1
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			start := i
			for i < len(s) && !isSpace(s[i]) {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: s[start:i]})
		default:
			// a key such as "xmin" or "tiers?"
			for i < len(s) && !isSpace(s[i]) && s[i] != '=' && s[i] != '[' && s[i] != '"' {
				i++
			}
		}
	}
	return toks, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) next(kind tokenKind, what string) (token, error) {
	if p.pos >= len(p.toks) {
		return token{}, fmt.Errorf("%w: unexpected end of input, want %s", ErrSyntax, what)
	}
	t := p.toks[p.pos]
	if t.kind != kind {
		return token{}, fmt.Errorf("%w: token %d (%q): want %s", ErrSyntax, p.pos, t.text, what)
	}
	p.pos++
	return t, nil
}

func (p *parser) str(what string) (string, error) {
	t, err := p.next(tokString, what)
	return t.text, err
}

func (p *parser) num(what string) (float64, error) {
	t, err := p.next(tokNumber, what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not a number", ErrSyntax, what, t.text)
	}
	return v, nil
}

func (p *parser) count(what string) (int, error) {
	v, err := p.num(what)
	if err != nil {
		return 0, err
	}
	if v < 0 || v != float64(int(v)) {
		return 0, fmt.Errorf("%w: %s: invalid count %g", ErrSyntax, what, v)
	}
	return int(v), nil
}

func (p *parser) textGrid() (*TextGrid, error) {
	fileType, err := p.str("file type")
	if err != nil {
		return nil, err
	}
	if fileType != "ooTextFile" {
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrSyntax, fileType)
	}
	class, err := p.str("object class")
	if err != nil {
		return nil, err
	}
	if class != "TextGrid" {
		return nil, fmt.Errorf("%w: object class %q is not a TextGrid", ErrSyntax, class)
	}

	tg := &TextGrid{}
	if tg.XMin, err = p.num("xmin"); err != nil {
		return nil, err
	}
	if tg.XMax, err = p.num("xmax"); err != nil {
		return nil, err
	}

	flag, err := p.next(tokFlag, "tiers flag")
	if err != nil {
		return nil, err
	}
	if flag.text != "exists" {
		return tg, nil
	}

	n, err := p.count("tier count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		t, err := p.tier()
		if err != nil {
			return nil, fmt.Errorf("tier %d: %w", i+1, err)
		}
		tg.Tiers = append(tg.Tiers, t)
	}
	return tg, nil
}

func (p *parser) tier() (Tier, error) {
	var t Tier
	class, err := p.str("tier class")
	if err != nil {
		return t, err
	}
	switch class {
	case "IntervalTier":
		t.Kind = IntervalTier
	case "TextTier":
		t.Kind = PointTier
	default:
		return t, fmt.Errorf("%w: unknown tier class %q", ErrSyntax, class)
	}

	if t.Name, err = p.str("tier name"); err != nil {
		return t, err
	}
	if t.XMin, err = p.num("tier xmin"); err != nil {
		return t, err
	}
	if t.XMax, err = p.num("tier xmax"); err != nil {
		return t, err
	}
	n, err := p.count("item count")
	if err != nil {
		return t, err
	}

	for i := 0; i < n; i++ {
		if t.Kind == IntervalTier {
			var iv Interval
			if iv.XMin, err = p.num("interval xmin"); err != nil {
				return t, err
			}
			if iv.XMax, err = p.num("interval xmax"); err != nil {
				return t, err
			}
			if iv.Text, err = p.str("interval text"); err != nil {
				return t, err
			}
			t.Intervals = append(t.Intervals, iv)
			continue
		}

		var pt Point
		if pt.Time, err = p.num("point time"); err != nil {
			return t, err
		}
		if pt.Mark, err = p.str("point mark"); err != nil {
			return t, err
		}
		t.Points = append(t.Points, pt)
	}
	return t, nil
}
