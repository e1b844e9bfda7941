// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toneswiper/toneswiper/internal/analysis"
	"github.com/toneswiper/toneswiper/internal/annotation"
	"github.com/toneswiper/toneswiper/internal/audio"
	"github.com/toneswiper/toneswiper/internal/config"
	"github.com/toneswiper/toneswiper/internal/textgrid"
	"github.com/toneswiper/toneswiper/test/testutil"
)

// fakeUI records what the annotator was started with and adds points
// instead of showing a terminal UI.
type fakeUI struct {
	calls   int
	cfg     *config.AppConfig
	player  audio.Player
	loaded  map[string][]annotation.Point
	add     []annotation.Point
	err     error
	devices []int
	// cancel, when set, is called after the points are added, as an
	// interrupt arriving while the annotator runs would.
	cancel context.CancelFunc
}

func (f *fakeUI) app() *app {
	return &app{
		annotate: func(_ context.Context, cfg *config.AppConfig, s *annotation.Session, p audio.Player, _ *analysis.Cache) error {
			f.calls++
			f.cfg = cfg
			f.player = p
			f.loaded = make(map[string][]annotation.Point)
			for _, file := range s.Files() {
				if pts := s.TierFor(file).Points(); len(pts) > 0 {
					f.loaded[file] = pts
				}
			}
			for _, pt := range f.add {
				s.Tier().Add(pt)
			}
			if f.cancel != nil {
				f.cancel()
			}
			return f.err
		},
		openDevice: func(_ audio.RateLimits, rate int) (audio.Player, error) {
			f.devices = append(f.devices, rate)
			return nil, errors.New("no sound device")
		},
	}
}

type env struct {
	dir    string
	config string
	wav    string
}

func newEnv(t *testing.T) env {
	t.Helper()
	return newEnvWith(t, "")
}

// newEnvWith appends extra YAML to the test configuration.
func newEnvWith(t *testing.T, extra string) env {
	t.Helper()
	dir := t.TempDir()

	cfg := fmt.Sprintf(`log:
  level: ERROR
  output:
    - type: file
      enabled: true
      path: %s
database:
  driver: sqlite
  database: %s
`, filepath.Join(dir, "toneswiper.log"), filepath.Join(dir, "toneswiper.db")) + extra
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	return env{
		dir:    dir,
		config: cfgPath,
		wav:    testutil.WriteWAV(t, dir, "rec01.wav", testutil.Tone(220, 1.5, 0.5)),
	}
}

func execute(a *app, args ...string) (string, error) {
	return executeContext(context.Background(), a, args...)
}

func executeContext(ctx context.Context, a *app, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(a, &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestHelp(t *testing.T) {
	out, err := execute((&fakeUI{}).app(), "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "toneswiper <wav-files...>")
	assert.Contains(t, out, "--textgrid")
	assert.Contains(t, out, "--json")
	assert.Contains(t, out, "migrate")
}

func TestVersion(t *testing.T) {
	out, err := execute((&fakeUI{}).app(), "version")
	require.NoError(t, err)
	assert.Equal(t, "toneswiper version "+appVersion+"\n", out)
}

func TestConfigCommand(t *testing.T) {
	e := newEnv(t)
	out, err := execute((&fakeUI{}).app(), "config", "--config", e.config)
	require.NoError(t, err)
	assert.Contains(t, out, "seek_step: 500ms")
	assert.Contains(t, out, "tier: ToDI")
	assert.Contains(t, out, "driver: sqlite")
	assert.NotContains(t, out, "password")
}

func TestMigrateCommand(t *testing.T) {
	e := newEnv(t)
	out, err := execute((&fakeUI{}).app(), "migrate", "--config", e.config)
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date")
	assert.FileExists(t, filepath.Join(e.dir, "toneswiper.db"))
}

func TestAnnotate_ArgumentErrors(t *testing.T) {
	e := newEnv(t)
	txt := filepath.Join(e.dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	fake := filepath.Join(e.dir, "fake.wav")
	require.NoError(t, os.WriteFile(fake, []byte("not audio at all"), 0o644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no files", []string{}, "requires at least 1 arg"},
		{"missing file", []string{filepath.Join(e.dir, "nope.wav")}, "nope.wav: no such file"},
		{"directory", []string{e.dir}, "is a directory"},
		{"not wav", []string{txt}, "notes.txt: not a .wav file"},
		{"undecodable wav", []string{fake}, "fake.wav"},
		{"two stores", []string{e.wav, "--json", "a.json", "--db"}, "none of the others can be"},
		{"rate out of range", []string{e.wav, "--rate", "9"}, "--rate 9 outside"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui := &fakeUI{}
			args := append(tt.args, "--config", e.config)
			_, err := execute(ui.app(), args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Zero(t, ui.calls, "the annotator must not start")
		})
	}
}

func TestAnnotate_PrintsJSONByDefault(t *testing.T) {
	e := newEnv(t)
	ui := &fakeUI{add: []annotation.Point{{Time: 0.5, Label: "H*L"}}}

	out, err := execute(ui.app(), e.wav, "--config", e.config)
	require.NoError(t, err)
	assert.Equal(t, 1, ui.calls)

	var got map[string][]annotation.Point
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string][]annotation.Point{e.wav: {{Time: 0.5, Label: "H*L"}}}, got)
}

func TestAnnotate_TextGridRoundTrip(t *testing.T) {
	e := newEnv(t)
	ui := &fakeUI{add: []annotation.Point{{Time: 0.3, Label: "%H"}, {Time: 1.2, Label: "L%"}}}

	out, err := execute(ui.app(), e.wav, "--textgrid", "--config", e.config)
	require.NoError(t, err)
	assert.Empty(t, out, "nothing on stdout when saving to a TextGrid")

	tg, err := textgrid.ReadFile(filepath.Join(e.dir, "rec01.TextGrid"))
	require.NoError(t, err)
	tier, ok := tg.Tier("ToDI")
	require.True(t, ok)
	assert.Equal(t, []textgrid.Point{{Time: 0.3, Mark: "%H"}, {Time: 1.2, Mark: "L%"}}, tier.Points)
	assert.Equal(t, 1.5, tg.XMax)

	again := &fakeUI{}
	_, err = execute(again.app(), e.wav, "--textgrid", "--config", e.config)
	require.NoError(t, err)
	assert.Equal(t, []annotation.Point{{Time: 0.3, Label: "%H"}, {Time: 1.2, Label: "L%"}}, again.loaded[e.wav])
}

func TestAnnotate_TextGridNamedTier(t *testing.T) {
	e := newEnv(t)
	ui := &fakeUI{add: []annotation.Point{{Time: 0.3, Label: "H*"}}}

	_, err := execute(ui.app(), e.wav, "--textgrid=tones", "--config", e.config)
	require.NoError(t, err)

	tg, err := textgrid.ReadFile(filepath.Join(e.dir, "rec01.TextGrid"))
	require.NoError(t, err)
	_, ok := tg.Tier("tones")
	assert.True(t, ok)
	_, ok = tg.Tier("ToDI")
	assert.False(t, ok)
}

func TestAnnotate_TextGridTierFromConfig(t *testing.T) {
	e := newEnvWith(t, "annotation:\n  tier: tones\n")
	tg := filepath.Join(e.dir, "rec01.TextGrid")

	ui := &fakeUI{add: []annotation.Point{{Time: 0.3, Label: "H*"}}}
	_, err := execute(ui.app(), e.wav, "--textgrid", "--config", e.config)
	require.NoError(t, err)

	grid, err := textgrid.ReadFile(tg)
	require.NoError(t, err)
	_, ok := grid.Tier("tones")
	assert.True(t, ok, "a bare flag uses the configured tier")
	_, ok = grid.Tier("ToDI")
	assert.False(t, ok)

	// naming the default tier explicitly must not fall back to the config
	ui = &fakeUI{add: []annotation.Point{{Time: 0.8, Label: "L%"}}}
	_, err = execute(ui.app(), e.wav, "--textgrid=ToDI", "--config", e.config)
	require.NoError(t, err)
	assert.Empty(t, ui.loaded, "the ToDI tier starts empty")

	grid, err = textgrid.ReadFile(tg)
	require.NoError(t, err)
	todiTier, ok := grid.Tier("ToDI")
	require.True(t, ok)
	assert.Equal(t, []textgrid.Point{{Time: 0.8, Mark: "L%"}}, todiTier.Points)
	tones, ok := grid.Tier("tones")
	require.True(t, ok, "the configured tier is kept")
	assert.Equal(t, []textgrid.Point{{Time: 0.3, Mark: "H*"}}, tones.Points)
}

func TestAnnotate_JSONFile(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.dir, "ann.json")

	ui := &fakeUI{add: []annotation.Point{{Time: 1, Label: "L*H"}}}
	out, err := execute(ui.app(), e.wav, "--json", path, "--config", e.config)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.FileExists(t, path)

	again := &fakeUI{}
	_, err = execute(again.app(), e.wav, "--json", path, "--config", e.config)
	require.NoError(t, err)
	assert.Equal(t, []annotation.Point{{Time: 1, Label: "L*H"}}, again.loaded[e.wav])
}

func TestAnnotate_Database(t *testing.T) {
	e := newEnv(t)

	ui := &fakeUI{add: []annotation.Point{{Time: 0.7, Label: "!H*L"}}}
	_, err := execute(ui.app(), e.wav, "--db", "--config", e.config)
	require.NoError(t, err)

	again := &fakeUI{}
	_, err = execute(again.app(), e.wav, "--db", "--config", e.config)
	require.NoError(t, err)
	assert.Equal(t, []annotation.Point{{Time: 0.7, Label: "!H*L"}}, again.loaded[e.wav])
}

func TestAnnotate_InterruptStillSaves(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.dir, "ann.json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ui := &fakeUI{add: []annotation.Point{{Time: 0.4, Label: "H*"}}, cancel: cancel}

	_, err := executeContext(ctx, ui.app(), e.wav, "--json", path, "--config", e.config)
	require.NoError(t, err)
	require.Error(t, ctx.Err())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string][]annotation.Point
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string][]annotation.Point{e.wav: {{Time: 0.4, Label: "H*"}}}, got)
}

func TestAnnotate_UIErrorSkipsSave(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.dir, "ann.json")

	ui := &fakeUI{err: errors.New("terminal gone"), add: []annotation.Point{{Time: 1, Label: "H*"}}}
	_, err := execute(ui.app(), e.wav, "--json", path, "--config", e.config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal gone")
	assert.NoFileExists(t, path)
}

func TestAnnotate_PlayerSelection(t *testing.T) {
	e := newEnv(t)

	ui := &fakeUI{}
	_, err := execute(ui.app(), e.wav, "--no-audio", "--config", e.config)
	require.NoError(t, err)
	assert.IsType(t, &audio.ClockPlayer{}, ui.player)
	assert.Empty(t, ui.devices, "--no-audio never opens the device")

	ui = &fakeUI{}
	_, err = execute(ui.app(), e.wav, "--config", e.config)
	require.NoError(t, err)
	assert.Equal(t, []int{outputRate}, ui.devices)
	assert.IsType(t, &audio.ClockPlayer{}, ui.player, "falls back to a silent player")
}

func TestAnnotate_RateAndDurations(t *testing.T) {
	e := newEnv(t)
	ui := &fakeUI{}

	_, err := execute(ui.app(), e.wav, "--rate", "1.5", "--config", e.config)
	require.NoError(t, err)
	assert.Equal(t, 1.5, ui.cfg.Audio.Rate)
	assert.Equal(t, 2.0, ui.cfg.Audio.MaxRate)
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteWAV(t, dir, "a.wav", testutil.Silence(0.1))
	b := testutil.WriteWAV(t, dir, "B.WAV", testutil.Silence(0.1))

	files, err := checkFiles([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestAnnotate_DurationOfNewTextGrid(t *testing.T) {
	e := newEnv(t)
	long := testutil.WriteWAV(t, e.dir, "long.wav", testutil.Silence(3))

	_, err := execute((&fakeUI{}).app(), long, "--textgrid", "--config", e.config)
	require.NoError(t, err)

	tg, err := textgrid.ReadFile(filepath.Join(e.dir, "long.TextGrid"))
	require.NoError(t, err)
	assert.InDelta(t, (3 * time.Second).Seconds(), tg.XMax, 1e-9, "an empty tier still spans the recording")
}
