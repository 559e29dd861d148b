// Package googletts adapts Google Cloud Text-to-Speech to types.Synthesizer.
package googletts

import (
	"context"
	"fmt"

	"phonics-audio/internal/types"
	apperrors "phonics-audio/pkg/errors"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Config struct {
	// CredentialsFile is a service account key; empty means application
	// default credentials.
	CredentialsFile string
	// Endpoint overrides the gRPC endpoint.
	Endpoint string
	// MarksEndpoint is the v1beta1 REST synthesize URL used when a request
	// asks for timepoints. Empty disables mark support.
	MarksEndpoint string
}

// Client implements types.Synthesizer, types.MarkSynthesizer and
// types.VoiceLister.
type Client struct {
	tts   *texttospeech.Client
	marks *MarksClient
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	tts, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeProviderNotConfig, "Create Google TTS client failed", err)
	}

	c := &Client{tts: tts}
	if cfg.MarksEndpoint != "" {
		marks, err := NewMarksClient(ctx, cfg.CredentialsFile, cfg.MarksEndpoint)
		if err != nil {
			_ = tts.Close()
			return nil, err
		}
		c.marks = marks
	}
	return c, nil
}

func (c *Client) Name() string { return "google" }

func (c *Client) SupportsMarks() bool { return c.marks != nil }

func (c *Client) Close() error {
	return c.tts.Close()
}

func (c *Client) Synthesize(ctx context.Context, req types.SynthesisRequest) (*types.SynthesisResult, error) {
	if req.EnableMarks {
		if c.marks == nil {
			return nil, apperrors.ErrMarksUnsupported
		}
		return c.marks.Synthesize(ctx, req)
	}

	resp, err := c.tts.SynthesizeSpeech(ctx, buildRequest(req))
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return nil, apperrors.ErrEmptyAudio
	}
	return &types.SynthesisResult{Audio: resp.GetAudioContent()}, nil
}

func (c *Client) ListVoices(ctx context.Context, languageCode string) ([]types.Voice, error) {
	resp, err := c.tts.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{LanguageCode: languageCode})
	if err != nil {
		return nil, classify(err)
	}
	voices := make([]types.Voice, 0, len(resp.GetVoices()))
	for _, v := range resp.GetVoices() {
		voices = append(voices, types.Voice{
			Name:          v.GetName(),
			LanguageCodes: v.GetLanguageCodes(),
			Gender:        v.GetSsmlGender().String(),
		})
	}
	return voices, nil
}

func buildRequest(req types.SynthesisRequest) *texttospeechpb.SynthesizeSpeechRequest {
	input := &texttospeechpb.SynthesisInput{}
	if req.Input.IsSSML() {
		input.InputSource = &texttospeechpb.SynthesisInput_Ssml{Ssml: req.Input.SSML}
	} else {
		input.InputSource = &texttospeechpb.SynthesisInput_Text{Text: req.Input.Text}
	}
	return &texttospeechpb.SynthesizeSpeechRequest{
		Input: input,
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: req.Voice.LanguageCode,
			Name:         req.Voice.Name,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: encodingOf(req.AudioConfig.Encoding),
			SpeakingRate:  req.AudioConfig.SpeakingRate,
		},
	}
}

func encodingOf(e types.AudioEncoding) texttospeechpb.AudioEncoding {
	switch e {
	case types.AudioEncodingOggOpus:
		return texttospeechpb.AudioEncoding_OGG_OPUS
	case types.AudioEncodingLinear16:
		return texttospeechpb.AudioEncoding_LINEAR16
	default:
		return texttospeechpb.AudioEncoding_MP3
	}
}

func classify(err error) error {
	switch status.Code(err) {
	case codes.ResourceExhausted:
		return apperrors.Wrap(apperrors.CodeSynthesisQuota, "Google TTS quota exceeded", err)
	case codes.NotFound:
		return apperrors.Wrap(apperrors.CodeVoiceNotFound, "Google TTS voice not found", err)
	default:
		return apperrors.Wrap(apperrors.CodeSynthesisFailed, "Google TTS request failed", fmt.Errorf("%s: %w", status.Code(err), err))
	}
}
