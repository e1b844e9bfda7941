// Copyright (C) 2025-2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toneswiper/toneswiper/internal/analysis"
	"github.com/toneswiper/toneswiper/internal/annotation"
	"github.com/toneswiper/toneswiper/internal/audio"
	"github.com/toneswiper/toneswiper/internal/config"
	"github.com/toneswiper/toneswiper/internal/tui"
)

const (
	appName    = "toneswiper"
	appVersion = "0.1.0"

	// outputRate is the sound device rate; clips are resampled to it.
	outputRate = 44100
)

// annotateFunc runs the interactive part of a session.
type annotateFunc func(ctx context.Context, cfg *config.AppConfig, session *annotation.Session, player audio.Player, cache *analysis.Cache) error

// openDeviceFunc opens the sound output.
type openDeviceFunc func(limits audio.RateLimits, sampleRate int) (audio.Player, error)

// app holds what the commands need from the outside world so tests can
// replace the terminal UI and the sound device.
type app struct {
	annotate   annotateFunc
	openDevice openDeviceFunc
}

func defaultApp() *app {
	return &app{
		annotate: tui.Run,
		openDevice: func(limits audio.RateLimits, sampleRate int) (audio.Player, error) {
			return audio.NewOtoPlayer(limits, sampleRate)
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd(defaultApp(), os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(a *app, stdout, stderr io.Writer) *cobra.Command {
	opts := &annotateOptions{}

	root := &cobra.Command{
		Use:   appName + " <wav-files...>",
		Short: "Annotate intonation in wav files with ToDI labels",
		Long: `ToneSwiper plays wav recordings and turns arrow-key swipes into ToDI
intonation labels placed at the playback position.

Without a store flag the annotations are printed to stdout as JSON on exit.`,
		Example: `  toneswiper rec/*.wav
  toneswiper rec/*.wav --textgrid
  toneswiper rec/*.wav --textgrid=tones
  toneswiper rec/*.wav --json annotations.json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnnotate(cmd, opts, args)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to config file (default: config.yaml in ., ./config or ~/.toneswiper)")

	f := root.Flags()
	f.StringVar(&opts.textGridTier, "textgrid", "", "load and save the named tier of matching .TextGrid files (bare flag: annotation.tier from config)")
	f.Lookup("textgrid").NoOptDefVal = configTierFlag
	f.StringVar(&opts.jsonPath, "json", "", "load and save annotations in a JSON file")
	f.BoolVar(&opts.database, "db", false, "load and save annotations in the configured database")
	f.BoolVar(&opts.noAudio, "no-audio", false, "run without a sound device")
	f.Float64Var(&opts.rate, "rate", 0, "initial playback rate (default from config)")
	root.MarkFlagsMutuallyExclusive("textgrid", "json", "db")

	root.AddCommand(
		newVersionCmd(),
		newConfigCmd(&opts.configPath),
		newMigrateCmd(&opts.configPath),
	)
	return root
}
