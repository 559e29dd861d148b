package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"phonics-audio/config"
	"phonics-audio/internal/pipeline"
	"phonics-audio/internal/service"
	"phonics-audio/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "assetgen", cmd.Use)

	uses := map[string]bool{}
	for _, sub := range cmd.Commands() {
		uses[sub.Use] = true
	}
	for _, want := range []string{"letters", "phonemes", "words", "story", "all", "voices", "serve", "diagnose", "version"} {
		assert.True(t, uses[want], want)
	}

	for _, flag := range []string{"config", "output-dir", "concurrency", "no-ledger"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestSubcommandFlags(t *testing.T) {
	cmd := newRootCommand()
	phonemes, _, err := cmd.Find([]string{"phonemes"})
	require.NoError(t, err)
	assert.NotNil(t, phonemes.Flags().Lookup("mode"))

	voices, _, err := cmd.Find([]string{"voices"})
	require.NoError(t, err)
	assert.NotNil(t, voices.Flags().Lookup("language"))

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("addr"))
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "version: dev")
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	original := config.Conf
	t.Cleanup(func() {
		config.Conf = original
		config.SetConfigPath("")
	})

	dir := t.TempDir()
	opts := &rootOptions{
		configPath:  filepath.Join(dir, "config.toml"),
		outputDir:   filepath.Join(dir, "out"),
		concurrency: 3,
		noLedger:    true,
	}
	require.NoError(t, loadConfig(opts))
	assert.FileExists(t, opts.configPath)
	assert.Equal(t, opts.outputDir, config.Conf.App.OutputDir)
	assert.Equal(t, 3, config.Conf.App.Concurrency)
	assert.True(t, config.Conf.App.DisableLedger)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	original := config.Conf
	t.Cleanup(func() {
		config.Conf = original
		config.SetConfigPath("")
	})

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tts]\nprovider = \"nope\"\n"), 0o644))
	err := loadConfig(&rootOptions{configPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestPrintReport(t *testing.T) {
	report := &service.Report{
		Job:   "phonemes",
		RunID: "run-1",
		Results: []types.Result{
			{UnitID: "b", Accent: "us", Status: types.AssetStatusGenerated},
			{UnitID: "zh", Accent: "us", Status: types.AssetStatusUnmapped},
			{UnitID: "d", Accent: "gb", Status: types.AssetStatusFailed, Err: errors.New("503")},
		},
		Summary:     pipeline.Summary{Generated: 1, Failed: 1, Unmapped: 1},
		ManifestOut: "phonemes_with_audio.json",
	}
	var out bytes.Buffer
	printReport(&out, report)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "phonemes: generated=1 skipped=0 failed=1 unmapped=1 (run run-1)", lines[0])
	assert.Equal(t, "  us/zh unmapped", lines[1])
	assert.Equal(t, "  gb/d failed: 503", lines[2])
	assert.Equal(t, "  manifest: phonemes_with_audio.json", lines[3])
}

func TestPrintPath(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	printPath(&out, "output", dir)
	printPath(&out, "ledger", filepath.Join(dir, "missing.db"))
	assert.Contains(t, out.String(), "path.output: "+dir+" (exists)")
	assert.Contains(t, out.String(), "(missing)")
}
