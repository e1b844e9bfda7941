// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"github.com/rs/zerolog"
)

// Static logger getters that map directly to config.yaml log.levels
// These ensure consistent logger names across the codebase

// GetCLILogger returns a logger for command handling
func GetCLILogger() zerolog.Logger {
	return GetLogger("cli")
}

// GetTUILogger returns a logger for TUI components
func GetTUILogger() zerolog.Logger {
	return GetLogger("tui")
}

// GetAudioLogger returns a logger for decoding and playback
func GetAudioLogger() zerolog.Logger {
	return GetLogger("audio")
}

// GetStoreLogger returns a logger for annotation persistence
func GetStoreLogger() zerolog.Logger {
	return GetLogger("store")
}

// GetAnalysisLogger returns a logger for spectrogram and pitch computation
func GetAnalysisLogger() zerolog.Logger {
	return GetLogger("analysis")
}
