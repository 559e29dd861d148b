package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func useConfigPath(t *testing.T, path string) {
	t.Helper()
	old := resolveConfigPath
	resolveConfigPath = func() (string, error) { return path, nil }
	t.Cleanup(func() { resolveConfigPath = old })

	oldConf := Conf
	t.Cleanup(func() { Conf = oldConf })
}

func TestLoadOrCreateConfigMissingCreatesDefault(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "config", "config.toml")
	useConfigPath(t, configPath)

	if _, err := os.Stat(configPath); err == nil {
		t.Fatalf("expected config file to be missing")
	}

	created, err := LoadOrCreateConfig()
	if err != nil {
		t.Fatalf("LoadOrCreateConfig() error: %v", err)
	}
	if !created {
		t.Fatalf("LoadOrCreateConfig() created=false, want true")
	}

	var got Config
	if _, err := toml.DecodeFile(configPath, &got); err != nil {
		t.Fatalf("decode created config: %v", err)
	}
	if got.Tts.Provider != "google" {
		t.Fatalf("default provider = %q, want %q", got.Tts.Provider, "google")
	}
	if len(got.Accents) != 3 {
		t.Fatalf("default accents = %d, want 3", len(got.Accents))
	}
	if got.Accents[0].Code != "us" || got.Accents[0].Voice != "en-US-Wavenet-D" {
		t.Fatalf("first accent = %+v", got.Accents[0])
	}
	if got.Letters.SpeakingRate != 0.95 || got.Phonemes.SpeakingRate != 0.85 || got.Words.SpeakingRate != 0.9 {
		t.Fatalf("unexpected job speaking rates: %v %v %v",
			got.Letters.SpeakingRate, got.Phonemes.SpeakingRate, got.Words.SpeakingRate)
	}
	if got.Letters.Subdir != "sounds/letters" {
		t.Fatalf("letters subdir = %q", got.Letters.Subdir)
	}
}

func TestSaveConfigCreatesParentDirs(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "deep", "nest", "config.toml")
	useConfigPath(t, configPath)

	Conf = defaultConfig()
	Conf.App.Concurrency = 4

	if err := SaveConfig(); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	var got Config
	if _, err := toml.DecodeFile(configPath, &got); err != nil {
		t.Fatalf("decode saved config: %v", err)
	}
	if got.App.Concurrency != 4 {
		t.Fatalf("saved concurrency = %d, want %d", got.App.Concurrency, 4)
	}
}

func TestLoadOrCreateConfigListsReplaceDefaults(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "config.toml")
	useConfigPath(t, configPath)

	content := `
[app]
output_dir = "web/public"

[[accents]]
code = "au"
language_code = "en-AU"
voice = "en-AU-Wavenet-B"
speaking_rate = 1.0

[story]
enabled = true
id = "picnic"
lines = ["We went to the park."]
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	created, err := LoadOrCreateConfig()
	if err != nil {
		t.Fatalf("LoadOrCreateConfig() error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false when config file exists")
	}
	if len(Conf.Accents) != 1 || Conf.Accents[0].Code != "au" {
		t.Fatalf("accents = %+v, want only au", Conf.Accents)
	}
	if len(Conf.Story.Lines) != 1 {
		t.Fatalf("story lines = %v, want one line", Conf.Story.Lines)
	}
	if Conf.App.OutputDir != "web/public" {
		t.Fatalf("output dir = %q", Conf.App.OutputDir)
	}
	// unset sections keep their defaults
	if Conf.Phonemes.Anchor != "grapheme" {
		t.Fatalf("phoneme anchor = %q, want grapheme", Conf.Phonemes.Anchor)
	}
}

func TestLoadOrCreateConfigRejectsBadToml(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "config.toml")
	useConfigPath(t, configPath)

	if err := os.WriteFile(configPath, []byte("[app\noutput_dir="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadOrCreateConfig(); err == nil {
		t.Fatal("expected decode error")
	}
}
