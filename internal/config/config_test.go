// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Audio.SeekStep)
	assert.Equal(t, 1.0, cfg.Audio.Rate)
	assert.Equal(t, 0.5, cfg.Audio.MinRate)
	assert.Equal(t, 2.0, cfg.Audio.MaxRate)
	assert.Equal(t, "ToDI", cfg.Annotation.Tier)
	assert.Equal(t, 30*time.Millisecond, cfg.Analysis.WindowLength)
	assert.Equal(t, 8000.0, cfg.Analysis.MaxFrequency)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestNewConfig_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
audio:
  seek_step: 1s
  rate: 1.5
annotation:
  tier: tones
  sequence_timeout: 600ms
analysis:
  max_frequency: 5000
`)

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Audio.SeekStep)
	assert.Equal(t, 1.5, cfg.Audio.Rate)
	assert.Equal(t, "tones", cfg.Annotation.Tier)
	assert.Equal(t, 600*time.Millisecond, cfg.Annotation.SequenceTimeout)
	assert.Equal(t, 5000.0, cfg.Analysis.MaxFrequency)
	// untouched sections keep defaults
	assert.Equal(t, 0.5, cfg.Audio.MinRate)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TONESWIPER_AUDIO_SEEK_STEP", "250ms")
	t.Setenv("TONESWIPER_ANNOTATION_TIER", "accents")

	cfg, err := NewConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Audio.SeekStep)
	assert.Equal(t, "accents", cfg.Annotation.Tier)
}

func TestNewConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad log level", "log:\n  level: loud\n", "invalid log level"},
		{"zero seek step", "audio:\n  seek_step: 0s\n", "seek_step"},
		{"inverted rates", "audio:\n  min_rate: 2\n  max_rate: 1\n", "rate bounds"},
		{"rate outside bounds", "audio:\n  rate: 3\n", "audio.rate"},
		{"empty tier", "annotation:\n  tier: \"  \"\n", "annotation.tier"},
		{"pitch range", "analysis:\n  pitch_floor: 700\n", "pitch range"},
		{"driver", "database:\n  driver: oracle\n", "unsupported database driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDSN(t *testing.T) {
	sqlite := DatabaseConfig{Driver: "sqlite", Database: ":memory:"}
	assert.Equal(t, "file::memory:?cache=shared", sqlite.GetDSN())

	pg := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5433, Username: "u", Password: "p", Database: "tones", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=tones sslmode=disable", pg.GetDSN())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "logs"), expandPath("~/logs"))
	t.Setenv("TS_TEST_DIR", "/tmp/x")
	assert.Equal(t, "/tmp/x/a.db", expandPath("$TS_TEST_DIR/a.db"))
	assert.Equal(t, "", expandPath(""))
}
