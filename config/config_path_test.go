package config

import (
	"path/filepath"
	"testing"
)

func TestSetConfigPathOverridesResolver(t *testing.T) {
	old := resolveConfigPath
	t.Cleanup(func() { resolveConfigPath = old })

	want := filepath.Join(t.TempDir(), "custom.toml")
	SetConfigPath(want)

	got, err := resolveConfigPath()
	if err != nil {
		t.Fatalf("resolveConfigPath() error: %v", err)
	}
	if got != want {
		t.Fatalf("resolveConfigPath() = %q, want %q", got, want)
	}

	SetConfigPath("  ")
	got, err = resolveConfigPath()
	if err != nil {
		t.Fatalf("resolveConfigPath() error: %v", err)
	}
	if got == want {
		t.Fatalf("blank SetConfigPath should restore the default resolver")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	oldConf := Conf
	t.Cleanup(func() { Conf = oldConf })
	Conf = defaultConfig()

	t.Setenv("ASSETGEN_GOOGLE_CREDENTIALS", "/secrets/tts.json")
	t.Setenv("ASSETGEN_OPENAI_API_KEY", "sk-test")
	t.Setenv("ASSETGEN_OUTPUT_DIR", "out")

	if err := ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if Conf.Tts.Google.CredentialsFile != "/secrets/tts.json" {
		t.Fatalf("credentials file = %q", Conf.Tts.Google.CredentialsFile)
	}
	if Conf.Tts.OpenAI.ApiKey != "sk-test" {
		t.Fatalf("openai key = %q", Conf.Tts.OpenAI.ApiKey)
	}
	if Conf.App.OutputDir != "out" {
		t.Fatalf("output dir = %q", Conf.App.OutputDir)
	}
}

func TestApplyOverridesFallsBackToApplicationCredentials(t *testing.T) {
	conf := defaultConfig()
	applyOverrides(&conf, EnvOverrides{GoogleAppCredsFile: "/adc.json"})
	if conf.Tts.Google.CredentialsFile != "/adc.json" {
		t.Fatalf("credentials file = %q, want /adc.json", conf.Tts.Google.CredentialsFile)
	}

	conf.Tts.Google.CredentialsFile = "/configured.json"
	applyOverrides(&conf, EnvOverrides{GoogleAppCredsFile: "/adc.json"})
	if conf.Tts.Google.CredentialsFile != "/configured.json" {
		t.Fatalf("configured credentials should win over GOOGLE_APPLICATION_CREDENTIALS")
	}
}

func TestCheckConfig(t *testing.T) {
	oldConf := Conf
	t.Cleanup(func() { Conf = oldConf })

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "no accents", mutate: func(c *Config) { c.Accents = nil }, wantErr: true},
		{name: "duplicate accent", mutate: func(c *Config) { c.Accents = append(c.Accents, c.Accents[0]) }, wantErr: true},
		{name: "bad mode", mutate: func(c *Config) { c.Phonemes.Mode = "ipa" }, wantErr: true},
		{name: "bad format", mutate: func(c *Config) { c.App.AudioFormat = "flac" }, wantErr: true},
		{name: "openai without key", mutate: func(c *Config) { c.Tts.Provider = "openai" }, wantErr: true},
		{name: "openai with key", mutate: func(c *Config) {
			c.Tts.Provider = "openai"
			c.Tts.OpenAI.ApiKey = "sk"
		}},
		{name: "minimax ogg", mutate: func(c *Config) {
			c.Tts.Provider = "minimax"
			c.Tts.Minimax.ApiKey, c.Tts.Minimax.GroupId = "k", "g"
			c.App.AudioFormat = "ogg"
		}, wantErr: true},
		{name: "minimax wav", mutate: func(c *Config) {
			c.Tts.Provider = "minimax"
			c.Tts.Minimax.ApiKey, c.Tts.Minimax.GroupId = "k", "g"
			c.App.AudioFormat = "wav"
		}},
		{name: "doubao linear16", mutate: func(c *Config) {
			c.Tts.Provider = "doubao"
			c.Tts.Doubao.AppId, c.Tts.Doubao.AccessToken = "a", "t"
			c.App.AudioFormat = "wav"
		}, wantErr: true},
		{name: "unknown provider", mutate: func(c *Config) { c.Tts.Provider = "polly" }, wantErr: true},
		{name: "story without id", mutate: func(c *Config) { c.Story.Id = "" }, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			Conf = defaultConfig()
			tc.mutate(&Conf)
			err := CheckConfig()
			if tc.wantErr && err == nil {
				t.Fatal("CheckConfig() returned nil error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("CheckConfig() error: %v", err)
			}
		})
	}
}

func TestCheckConfigFillsDefaults(t *testing.T) {
	oldConf := Conf
	t.Cleanup(func() { Conf = oldConf })

	Conf = defaultConfig()
	Conf.App.Concurrency = 0
	Conf.Tts.Timeout = 0
	Conf.Phonemes.ManifestOut = ""
	Conf.Accents[1].SpeakingRate = 0

	if err := CheckConfig(); err != nil {
		t.Fatalf("CheckConfig() error: %v", err)
	}
	if Conf.App.Concurrency != 1 {
		t.Fatalf("concurrency = %d, want 1", Conf.App.Concurrency)
	}
	if Conf.Tts.Timeout != 60 {
		t.Fatalf("timeout = %d, want 60", Conf.Tts.Timeout)
	}
	if Conf.Phonemes.ManifestOut != Conf.Phonemes.Manifest {
		t.Fatalf("manifest_out should default to manifest")
	}
	if Conf.Accents[1].SpeakingRate != 1.0 {
		t.Fatalf("accent speaking rate = %v, want 1.0", Conf.Accents[1].SpeakingRate)
	}
}
