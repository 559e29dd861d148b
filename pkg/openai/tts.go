package openai

import (
	"context"
	"errors"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"

	"phonics-audio/internal/types"
	apperrors "phonics-audio/pkg/errors"

	"github.com/sashabaranov/go-openai"
)

const defaultVoice = openai.VoiceAlloy

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// plainText flattens SSML to the spoken text; the speech endpoint takes
// plain text only.
func plainText(in types.SynthesisInput) string {
	if !in.IsSSML() {
		return in.Text
	}
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(in.SSML, "")))
}

func responseFormat(e types.AudioEncoding) openai.SpeechResponseFormat {
	switch e {
	case types.AudioEncodingOggOpus:
		return openai.SpeechResponseFormatOpus
	case types.AudioEncodingLinear16:
		return openai.SpeechResponseFormatWav
	default:
		return openai.SpeechResponseFormatMp3
	}
}

func (c *Client) Synthesize(ctx context.Context, req types.SynthesisRequest) (*types.SynthesisResult, error) {
	if req.EnableMarks {
		return nil, apperrors.ErrMarksUnsupported
	}
	voice := openai.SpeechVoice(req.Voice.Name)
	if voice == "" {
		voice = defaultVoice
	}

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.model),
		Input:          plainText(req.Input),
		Voice:          voice,
		ResponseFormat: responseFormat(req.AudioConfig.Encoding),
		Speed:          req.AudioConfig.SpeakingRate,
	})
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSynthesisFailed, "Read OpenAI speech failed", err)
	}
	if len(audio) == 0 {
		return nil, apperrors.ErrEmptyAudio
	}
	return &types.SynthesisResult{Audio: audio}, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests,
		errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests:
		return apperrors.Wrap(apperrors.CodeSynthesisQuota, "OpenAI quota exceeded", err)
	}
	return apperrors.Wrap(apperrors.CodeSynthesisFailed, "OpenAI speech request failed", err)
}
