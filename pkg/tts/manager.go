package tts

import (
	"context"
	"io"
	"regexp"
	"strings"

	"phonics-audio/config"
	"phonics-audio/internal/types"
	"phonics-audio/log"
	"phonics-audio/pkg/doubao"
	apperrors "phonics-audio/pkg/errors"
	"phonics-audio/pkg/googletts"
	"phonics-audio/pkg/minimax"
	"phonics-audio/pkg/openai"

	"go.uber.org/zap"
)

// CompositeSynthesizer manages multiple TTS providers and routes requests
// by voice name.
type CompositeSynthesizer struct {
	Google  types.Synthesizer
	OpenAI  types.Synthesizer
	MiniMax types.Synthesizer
	Doubao  types.Synthesizer
	Default types.Synthesizer
}

var (
	googleVoicePattern = regexp.MustCompile(`^[a-z]{2,3}-[A-Z]{2}-`)
	openAIVoices       = map[string]bool{
		"alloy": true, "ash": true, "coral": true, "echo": true, "fable": true,
		"onyx": true, "nova": true, "sage": true, "shimmer": true,
	}
)

// NewCompositeSynthesizer builds every provider that config.Conf has
// credentials for and picks the default from tts.provider.
func NewCompositeSynthesizer(ctx context.Context) (*CompositeSynthesizer, error) {
	conf := config.Conf.Tts
	c := &CompositeSynthesizer{}

	if conf.Provider == "google" || conf.Provider == "composite" || conf.Google.CredentialsFile != "" {
		g, err := googletts.NewClient(ctx, googletts.Config{
			CredentialsFile: conf.Google.CredentialsFile,
			Endpoint:        conf.Google.Endpoint,
			MarksEndpoint:   conf.Google.MarksEndpoint,
		})
		if err != nil {
			if conf.Provider == "google" {
				return nil, err
			}
			log.GetLogger().Warn("Google TTS unavailable", zap.Error(err))
		} else {
			c.Google = g
		}
	}
	if conf.OpenAI.ApiKey != "" {
		c.OpenAI = openai.NewClient(conf.OpenAI.BaseUrl, conf.OpenAI.ApiKey, conf.OpenAI.Model, "")
	}
	if conf.Minimax.ApiKey != "" {
		c.MiniMax = minimax.NewMiniMaxClient(conf.Minimax.BaseUrl, conf.Minimax.ApiKey, conf.Minimax.GroupId, conf.Minimax.Model)
	}
	if conf.Doubao.AppId != "" {
		c.Doubao = doubao.NewDoubaoClient(conf.Doubao.AppId, conf.Doubao.AccessToken, conf.Doubao.Cluster)
	}

	switch conf.Provider {
	case "openai":
		c.Default = c.OpenAI
	case "minimax":
		c.Default = c.MiniMax
	case "doubao":
		c.Default = c.Doubao
	default:
		c.Default = c.Google
	}
	if c.Default == nil {
		c.Default = c.firstAvailable()
	}
	if c.Default == nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeProviderNotConfig, "No TTS provider is configured", conf.Provider, nil)
	}
	return c, nil
}

func (c *CompositeSynthesizer) firstAvailable() types.Synthesizer {
	for _, s := range []types.Synthesizer{c.Google, c.OpenAI, c.MiniMax, c.Doubao} {
		if s != nil {
			return s
		}
	}
	return nil
}

func (c *CompositeSynthesizer) Name() string {
	if c.Default == nil {
		return "composite"
	}
	return c.Default.Name()
}

// Route returns the provider that should voice name.
func (c *CompositeSynthesizer) Route(voice string) types.Synthesizer {
	switch {
	case c.Doubao != nil && isDoubaoVoice(voice):
		return c.Doubao
	case c.OpenAI != nil && openAIVoices[voice]:
		return c.OpenAI
	case c.Google != nil && googleVoicePattern.MatchString(voice):
		return c.Google
	default:
		return c.Default
	}
}

func isDoubaoVoice(voice string) bool {
	return strings.Contains(voice, "bigtts") || strings.Contains(voice, "mars") ||
		strings.Contains(voice, "moon") || strings.Contains(voice, "volcano")
}

func (c *CompositeSynthesizer) Synthesize(ctx context.Context, req types.SynthesisRequest) (*types.SynthesisResult, error) {
	target := c.Route(req.Voice.Name)
	if req.EnableMarks {
		if !supportsMarks(target) && supportsMarks(c.Google) {
			target = c.Google
		}
	}
	if target == nil {
		return nil, apperrors.ErrProviderNotConfig
	}
	log.GetLogger().Debug("Routing TTS request", zap.String("voice", req.Voice.Name), zap.String("provider", target.Name()))
	return target.Synthesize(ctx, req)
}

// SupportsMarks reports whether any configured provider can return mark
// timepoints.
func (c *CompositeSynthesizer) SupportsMarks() bool {
	return supportsMarks(c.Default) || supportsMarks(c.Google)
}

func supportsMarks(s types.Synthesizer) bool {
	ms, ok := s.(types.MarkSynthesizer)
	return ok && ms.SupportsMarks()
}

func (c *CompositeSynthesizer) ListVoices(ctx context.Context, languageCode string) ([]types.Voice, error) {
	for _, s := range []types.Synthesizer{c.Default, c.Google} {
		if lister, ok := s.(types.VoiceLister); ok {
			return lister.ListVoices(ctx, languageCode)
		}
	}
	return nil, apperrors.WrapWithDetail(apperrors.CodeProviderNotConfig, "Provider cannot list voices", c.Name(), nil)
}

func (c *CompositeSynthesizer) Close() error {
	var firstErr error
	for _, s := range []types.Synthesizer{c.Google, c.OpenAI, c.MiniMax, c.Doubao} {
		if closer, ok := s.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
