package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"phonics-audio/internal/appdirs"
	"phonics-audio/internal/types"
	"phonics-audio/log"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

type App struct {
	OutputDir         string  `toml:"output_dir"`
	PublicPrefix      string  `toml:"public_prefix"`
	Concurrency       int     `toml:"concurrency"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	AudioFormat       string  `toml:"audio_format"`
	DisableLedger     bool    `toml:"disable_ledger"`
}

type Google struct {
	CredentialsFile string `toml:"credentials_file"`
	Endpoint        string `toml:"endpoint"`
	// MarksEndpoint is the v1beta1 REST endpoint used when timepoints are
	// needed.
	MarksEndpoint string `toml:"marks_endpoint"`
}

type OpenAI struct {
	BaseUrl string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

type Minimax struct {
	BaseUrl string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
	GroupId string `toml:"group_id"`
	Model   string `toml:"model"`
}

type Doubao struct {
	AppId       string `toml:"app_id"`
	AccessToken string `toml:"access_token"`
	Cluster     string `toml:"cluster"`
}

type Tts struct {
	Provider string `toml:"provider"`
	// Timeout is the per-call limit in seconds.
	Timeout int     `toml:"timeout"`
	Google  Google  `toml:"google"`
	OpenAI  OpenAI  `toml:"openai"`
	Minimax Minimax `toml:"minimax"`
	Doubao  Doubao  `toml:"doubao"`
}

type Letters struct {
	Enabled      bool    `toml:"enabled"`
	Subdir       string  `toml:"subdir"`
	SpeakingRate float64 `toml:"speaking_rate"`
}

type Phonemes struct {
	Enabled      bool    `toml:"enabled"`
	Subdir       string  `toml:"subdir"`
	SpeakingRate float64 `toml:"speaking_rate"`
	// Mode is "ssml" or "spoken".
	Mode        string `toml:"mode"`
	Manifest    string `toml:"manifest"`
	ManifestOut string `toml:"manifest_out"`
	Anchor      string `toml:"anchor"`
}

type Words struct {
	Enabled      bool    `toml:"enabled"`
	Subdir       string  `toml:"subdir"`
	SpeakingRate float64 `toml:"speaking_rate"`
	Manifest     string  `toml:"manifest"`
	ManifestOut  string  `toml:"manifest_out"`
	AttachAudio  bool    `toml:"attach_audio"`
}

type Story struct {
	Enabled      bool     `toml:"enabled"`
	Subdir       string   `toml:"subdir"`
	SpeakingRate float64  `toml:"speaking_rate"`
	Id           string   `toml:"id"`
	LineBreakMs  int      `toml:"line_break_ms"`
	Lines        []string `toml:"lines"`
}

type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type Config struct {
	App      App                   `toml:"app"`
	Server   Server                `toml:"server"`
	Tts      Tts                   `toml:"tts"`
	Accents  []types.AccentProfile `toml:"accents"`
	Letters  Letters               `toml:"letters"`
	Phonemes Phonemes              `toml:"phonemes"`
	Words    Words                 `toml:"words"`
	Story    Story                 `toml:"story"`
}

// EnvOverrides carries secrets that should not live in config.toml.
type EnvOverrides struct {
	GoogleCredentials  string `env:"ASSETGEN_GOOGLE_CREDENTIALS"`
	OpenAIApiKey       string `env:"ASSETGEN_OPENAI_API_KEY"`
	MinimaxApiKey      string `env:"ASSETGEN_MINIMAX_API_KEY"`
	DoubaoAccessToken  string `env:"ASSETGEN_DOUBAO_ACCESS_TOKEN"`
	OutputDir          string `env:"ASSETGEN_OUTPUT_DIR"`
	GoogleAppCredsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

var Conf = defaultConfig()

var resolveConfigPath = ResolveConfigPath

var defaultStoryLines = []string{
	"Jane wants to bake a big cake.",
	"She uses a pan and some paste.",
	"She makes signs that say 'Cake Sale Today!'",
	"Her friends line up to take a plate.",
	"They smile as they taste the cake.",
	"Jane feels proud she made it all herself.",
}

func defaultConfig() Config {
	return Config{
		App: App{
			OutputDir:    "public",
			PublicPrefix: "/",
			Concurrency:  1,
			AudioFormat:  string(types.AudioEncodingMP3),
		},
		Server: Server{
			Host: "127.0.0.1",
			Port: 8888,
		},
		Tts: Tts{
			Provider: "google",
			Timeout:  60,
			Google: Google{
				MarksEndpoint: "https://texttospeech.googleapis.com/v1beta1/text:synthesize",
			},
			OpenAI: OpenAI{
				Model: "tts-1",
			},
			Minimax: Minimax{
				BaseUrl: "https://api.minimax.chat",
				Model:   "speech-02-hd",
			},
			Doubao: Doubao{
				Cluster: "volcano_tts",
			},
		},
		Accents: []types.AccentProfile{
			{Code: "us", LanguageCode: "en-US", Voice: "en-US-Wavenet-D", SpeakingRate: 1.0},
			{Code: "gb", LanguageCode: "en-GB", Voice: "en-GB-Wavenet-A", SpeakingRate: 1.0},
			{Code: "in", LanguageCode: "en-IN", Voice: "en-IN-Wavenet-A", SpeakingRate: 1.0},
		},
		Letters: Letters{
			Enabled:      true,
			Subdir:       "sounds/letters",
			SpeakingRate: 0.95,
		},
		Phonemes: Phonemes{
			Enabled:      true,
			Subdir:       "sounds/phonemes",
			SpeakingRate: 0.85,
			Mode:         "ssml",
			Manifest:     "src/assets/content/phonemes.json",
			ManifestOut:  "src/assets/content/phonemes_with_audio.json",
			Anchor:       "grapheme",
		},
		Words: Words{
			Enabled:      true,
			Subdir:       "sounds",
			SpeakingRate: 0.9,
			Manifest:     "src/assets/content/phonemes.json",
			ManifestOut:  "src/assets/content/phonemes.json",
		},
		Story: Story{
			Enabled:      true,
			Subdir:       "sounds/stories",
			SpeakingRate: 1.0,
			Id:           "bake-sale",
			LineBreakMs:  300,
			Lines:        append([]string(nil), defaultStoryLines...),
		},
	}
}

func ResolveConfigPath() (string, error) {
	paths, err := appdirs.Resolve()
	if err != nil {
		return "", err
	}
	return paths.ConfigFile, nil
}

// SetConfigPath points Load/Save at an explicit file (the --config flag).
func SetConfigPath(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		resolveConfigPath = ResolveConfigPath
		return
	}
	resolveConfigPath = func() (string, error) { return path, nil }
}

// LoadOrCreateConfig loads the config file into Conf, writing the defaults
// first when it is missing. created reports whether a new file was written.
func LoadOrCreateConfig() (created bool, err error) {
	configPath, err := resolveConfigPath()
	if err != nil {
		return false, err
	}

	if _, statErr := os.Stat(configPath); statErr != nil {
		if !errors.Is(statErr, os.ErrNotExist) {
			return false, statErr
		}
		log.GetLogger().Info("Config file not found, writing defaults", zap.String("path", configPath))
		Conf = defaultConfig()
		if err = SaveConfig(); err != nil {
			return false, err
		}
		return true, nil
	}

	conf := defaultConfig()
	// Lists replace defaults instead of merging into them.
	conf.Accents = nil
	conf.Story.Lines = nil
	if _, err = toml.DecodeFile(configPath, &conf); err != nil {
		return false, fmt.Errorf("decode config %s: %w", configPath, err)
	}
	if len(conf.Accents) == 0 {
		conf.Accents = defaultConfig().Accents
	}
	if len(conf.Story.Lines) == 0 {
		conf.Story.Lines = append([]string(nil), defaultStoryLines...)
	}
	Conf = conf
	log.GetLogger().Info("Loaded config", zap.String("path", configPath))
	return false, nil
}

func SaveConfig() error {
	configPath, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer file.Close()

	if err = toml.NewEncoder(file).Encode(Conf); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// ApplyEnv overlays environment secrets onto Conf.
func ApplyEnv() error {
	var overrides EnvOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env overrides: %w", err)
	}
	applyOverrides(&Conf, overrides)
	return nil
}

func applyOverrides(conf *Config, o EnvOverrides) {
	switch {
	case o.GoogleCredentials != "":
		conf.Tts.Google.CredentialsFile = o.GoogleCredentials
	case conf.Tts.Google.CredentialsFile == "" && o.GoogleAppCredsFile != "":
		conf.Tts.Google.CredentialsFile = o.GoogleAppCredsFile
	}
	if o.OpenAIApiKey != "" {
		conf.Tts.OpenAI.ApiKey = o.OpenAIApiKey
	}
	if o.MinimaxApiKey != "" {
		conf.Tts.Minimax.ApiKey = o.MinimaxApiKey
	}
	if o.DoubaoAccessToken != "" {
		conf.Tts.Doubao.AccessToken = o.DoubaoAccessToken
	}
	if o.OutputDir != "" {
		conf.App.OutputDir = o.OutputDir
	}
}

// CheckConfig validates Conf and fills derived fields.
func CheckConfig() error {
	if Conf.App.Concurrency <= 0 {
		Conf.App.Concurrency = 1
	}
	if Conf.App.RequestsPerSecond < 0 {
		return errors.New("app.requests_per_second must not be negative")
	}
	switch types.AudioEncoding(Conf.App.AudioFormat) {
	case types.AudioEncodingMP3, types.AudioEncodingOggOpus, types.AudioEncodingLinear16:
	case "":
		Conf.App.AudioFormat = string(types.AudioEncodingMP3)
	default:
		return fmt.Errorf("unsupported app.audio_format %q", Conf.App.AudioFormat)
	}
	if Conf.Tts.Timeout <= 0 {
		Conf.Tts.Timeout = 60
	}

	if len(Conf.Accents) == 0 {
		return errors.New("at least one [[accents]] entry is required")
	}
	seen := make(map[string]bool, len(Conf.Accents))
	for i, a := range Conf.Accents {
		if a.Code == "" || a.LanguageCode == "" {
			return fmt.Errorf("accents[%d]: code and language_code are required", i)
		}
		if seen[a.Code] {
			return fmt.Errorf("duplicate accent code %q", a.Code)
		}
		seen[a.Code] = true
		if a.SpeakingRate == 0 {
			Conf.Accents[i].SpeakingRate = 1.0
		}
	}

	switch Conf.Phonemes.Mode {
	case "ssml", "spoken":
	case "":
		Conf.Phonemes.Mode = "ssml"
	default:
		return fmt.Errorf("phonemes.mode must be ssml or spoken, got %q", Conf.Phonemes.Mode)
	}
	if Conf.Phonemes.ManifestOut == "" {
		Conf.Phonemes.ManifestOut = Conf.Phonemes.Manifest
	}
	if Conf.Phonemes.Anchor == "" {
		Conf.Phonemes.Anchor = "grapheme"
	}
	if Conf.Words.ManifestOut == "" {
		Conf.Words.ManifestOut = Conf.Words.Manifest
	}
	if Conf.Story.Enabled && strings.TrimSpace(Conf.Story.Id) == "" {
		return errors.New("story.id is required when the story job is enabled")
	}
	if Conf.Story.LineBreakMs < 0 {
		return errors.New("story.line_break_ms must not be negative")
	}

	switch Conf.Tts.Provider {
	case "google":
	case "openai":
		if Conf.Tts.OpenAI.ApiKey == "" {
			return errors.New("tts.openai.api_key is required for the openai provider")
		}
	case "minimax":
		if Conf.Tts.Minimax.ApiKey == "" || Conf.Tts.Minimax.GroupId == "" {
			return errors.New("tts.minimax.api_key and group_id are required for the minimax provider")
		}
		if Conf.App.AudioFormat == string(types.AudioEncodingOggOpus) {
			return errors.New("the minimax provider cannot produce ogg; use mp3 or wav")
		}
	case "doubao":
		if Conf.Tts.Doubao.AppId == "" || Conf.Tts.Doubao.AccessToken == "" {
			return errors.New("tts.doubao.app_id and access_token are required for the doubao provider")
		}
		if Conf.App.AudioFormat == string(types.AudioEncodingLinear16) {
			return errors.New("the doubao provider cannot produce wav; use mp3 or ogg")
		}
	case "composite":
	default:
		return fmt.Errorf("unsupported tts.provider %q", Conf.Tts.Provider)
	}
	return nil
}
