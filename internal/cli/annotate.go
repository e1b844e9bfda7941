// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/toneswiper/toneswiper/internal/analysis"
	"github.com/toneswiper/toneswiper/internal/annotation"
	"github.com/toneswiper/toneswiper/internal/audio"
	"github.com/toneswiper/toneswiper/internal/config"
	"github.com/toneswiper/toneswiper/internal/logger"
	"github.com/toneswiper/toneswiper/internal/store"
)

// configTierFlag is what a bare --textgrid parses to; it selects the tier
// named in the configuration. NUL cannot appear in a TextGrid tier name, so
// an explicit --textgrid=NAME never collides with it.
const configTierFlag = "\x00"

type annotateOptions struct {
	configPath   string
	textGridTier string
	jsonPath     string
	database     bool
	noAudio      bool
	rate         float64
}

func (a *app) runAnnotate(cmd *cobra.Command, opts *annotateOptions, args []string) error {
	files, err := checkFiles(args)
	if err != nil {
		return err
	}

	cfg, err := config.NewConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("rate") {
		if opts.rate < cfg.Audio.MinRate || opts.rate > cfg.Audio.MaxRate {
			return fmt.Errorf("--rate %g outside [%g, %g]", opts.rate, cfg.Audio.MinRate, cfg.Audio.MaxRate)
		}
		cfg.Audio.Rate = opts.rate
	}
	tier := opts.textGridTier
	if tier == configTierFlag {
		tier = cfg.Annotation.Tier
	}

	// Logs go to file only so the terminal stays with the UI
	if err := logger.Initialize(&cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.CloseGlobal()

	log := logger.GetCLILogger().With().Str("session", logger.NewSessionID()).Logger()
	log.Info().Int("files", len(files)).Str("tier", tier).Str("json", opts.jsonPath).Bool("db", opts.database).Msg("starting annotation session")

	st, closeStore, err := store.New(store.Options{
		TextGridTier: tier,
		JSONPath:     opts.jsonPath,
		Database:     opts.database,
		Stdout:       cmd.OutOrStdout(),
	}, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	ctx := cmd.Context()
	loaded, err := st.Load(ctx, files)
	if err != nil {
		return fmt.Errorf("failed to load annotations: %w", err)
	}

	session, err := annotation.NewSession(files, loaded)
	if err != nil {
		return err
	}
	for _, f := range session.Files() {
		d, err := audio.Probe(f)
		if err != nil {
			return err
		}
		session.SetDuration(f, d)
	}
	log.Info().Int("loaded", session.Total()).Msg("annotations loaded")

	player := a.newPlayer(cfg, opts.noAudio, log)
	defer player.Close()

	cache := analysis.NewCache(analysis.OptionsFrom(cfg.Analysis))
	if err := a.annotate(ctx, cfg, session, player, cache); err != nil {
		return fmt.Errorf("annotator failed: %w", err)
	}

	// an interrupt still saves what was annotated
	if err := st.Save(context.WithoutCancel(ctx), session.Records()); err != nil {
		log.Error().Err(err).Msg("failed to save annotations")
		return fmt.Errorf("failed to save annotations: %w", err)
	}
	log.Info().Int("annotations", session.Total()).Msg("annotation session finished")
	return nil
}

// newPlayer opens the sound device, falling back to a silent clock when
// there is none or when audio is switched off.
func (a *app) newPlayer(cfg *config.AppConfig, noAudio bool, log zerolog.Logger) audio.Player {
	limits := audio.LimitsFrom(cfg.Audio)
	if noAudio {
		return audio.NewClockPlayer(limits, nil)
	}
	p, err := a.openDevice(limits, outputRate)
	if err != nil {
		log.Warn().Err(err).Msg("no sound device, continuing without audio")
		return audio.NewClockPlayer(limits, nil)
	}
	return p
}

// checkFiles rejects paths that do not exist or are not .wav files.
func checkFiles(args []string) ([]string, error) {
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%s: no such file", path)
			}
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s: is a directory", path)
		}
		if !audio.IsWAVPath(path) {
			return nil, fmt.Errorf("%s: not a .wav file", path)
		}
	}
	return args, nil
}
