package tts

import (
	"context"
	"testing"

	"phonics-audio/config"
	"phonics-audio/internal/mocks"
	"phonics-audio/internal/types"
	apperrors "phonics-audio/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type namedMock struct {
	*mocks.MockSynthesizer
	name string
}

func (n namedMock) Name() string { return n.name }

func newNamed(name string, marks bool) namedMock {
	return namedMock{MockSynthesizer: &mocks.MockSynthesizer{Marks: marks}, name: name}
}

func TestRoute(t *testing.T) {
	google := newNamed("google", true)
	openai := newNamed("openai", false)
	doubao := newNamed("doubao", false)
	c := &CompositeSynthesizer{Google: google, OpenAI: openai, Doubao: doubao, Default: openai}

	assert.Equal(t, "google", c.Route("en-GB-Wavenet-A").Name())
	assert.Equal(t, "openai", c.Route("nova").Name())
	assert.Equal(t, "doubao", c.Route("en_female_amanda_mars_bigtts").Name())
	assert.Equal(t, "openai", c.Route("something-else").Name())

	c.Google = nil
	assert.Equal(t, "openai", c.Route("en-US-Wavenet-D").Name())
}

func TestSynthesizeMarksFallBackToGoogle(t *testing.T) {
	google := newNamed("google", true)
	openai := newNamed("openai", false)
	c := &CompositeSynthesizer{Google: google, OpenAI: openai, Default: openai}

	google.On("Synthesize", mock.Anything, mock.Anything).Return(&types.SynthesisResult{Audio: []byte("g")}, nil)

	res, err := c.Synthesize(context.Background(), types.SynthesisRequest{
		Voice:       types.VoiceParams{Name: "nova"},
		EnableMarks: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "g", string(res.Audio))
	openai.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything)
	assert.True(t, c.SupportsMarks())
}

func TestSynthesizeNoProvider(t *testing.T) {
	c := &CompositeSynthesizer{}
	_, err := c.Synthesize(context.Background(), types.SynthesisRequest{})
	assert.True(t, apperrors.Is(err, apperrors.CodeProviderNotConfig))
	assert.False(t, c.SupportsMarks())

	_, err = c.ListVoices(context.Background(), "en-US")
	assert.True(t, apperrors.Is(err, apperrors.CodeProviderNotConfig))
}

func TestNewCompositeSynthesizerFromConfig(t *testing.T) {
	old := config.Conf
	t.Cleanup(func() { config.Conf = old })

	config.Conf.Tts = config.Tts{
		Provider: "openai",
		Timeout:  30,
		OpenAI:   config.OpenAI{ApiKey: "sk-test"},
		Minimax:  config.Minimax{ApiKey: "k", GroupId: "g"},
	}
	c, err := NewCompositeSynthesizer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())
	assert.NotNil(t, c.MiniMax)
	assert.Nil(t, c.Google)
	assert.Nil(t, c.Doubao)
	assert.False(t, c.SupportsMarks())
}

func TestNewCompositeSynthesizerNothingConfigured(t *testing.T) {
	old := config.Conf
	t.Cleanup(func() { config.Conf = old })

	config.Conf.Tts = config.Tts{Provider: "doubao"}
	_, err := NewCompositeSynthesizer(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeProviderNotConfig))
}
