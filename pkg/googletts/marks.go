package googletts

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"

	"phonics-audio/internal/types"
	apperrors "phonics-audio/pkg/errors"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// MarksClient calls the v1beta1 REST API, which is the only surface that
// returns SSML mark timepoints.
type MarksClient struct {
	client   *resty.Client
	endpoint string
}

// NewMarksClient authenticates with the credentials file, or with
// application default credentials when the path is empty.
func NewMarksClient(ctx context.Context, credentialsFile, endpoint string) (*MarksClient, error) {
	var creds *google.Credentials
	var err error
	if credentialsFile != "" {
		data, readErr := os.ReadFile(credentialsFile)
		if readErr != nil {
			return nil, apperrors.WrapWithDetail(apperrors.CodeProviderNotConfig, "Read Google credentials failed", credentialsFile, readErr)
		}
		creds, err = google.CredentialsFromJSON(ctx, data, cloudPlatformScope)
	} else {
		creds, err = google.FindDefaultCredentials(ctx, cloudPlatformScope)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeProviderNotConfig, "Load Google credentials failed", err)
	}
	return newMarksClient(oauth2.NewClient(ctx, creds.TokenSource), endpoint), nil
}

func newMarksClient(httpClient *http.Client, endpoint string) *MarksClient {
	return &MarksClient{
		client:   resty.NewWithClient(httpClient).SetHeader("Content-Type", "application/json"),
		endpoint: endpoint,
	}
}

type restInput struct {
	Text string `json:"text,omitempty"`
	Ssml string `json:"ssml,omitempty"`
}

type restVoice struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name,omitempty"`
}

type restAudioConfig struct {
	AudioEncoding string  `json:"audioEncoding"`
	SpeakingRate  float64 `json:"speakingRate,omitempty"`
}

type restRequest struct {
	Input              restInput       `json:"input"`
	Voice              restVoice       `json:"voice"`
	AudioConfig        restAudioConfig `json:"audioConfig"`
	EnableTimePointing []string        `json:"enableTimePointing,omitempty"`
}

type restTimepoint struct {
	MarkName    string  `json:"markName"`
	TimeSeconds float64 `json:"timeSeconds"`
}

type restResponse struct {
	AudioContent string          `json:"audioContent"`
	Timepoints   []restTimepoint `json:"timepoints"`
}

type restError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *MarksClient) Synthesize(ctx context.Context, req types.SynthesisRequest) (*types.SynthesisResult, error) {
	body := restRequest{
		Input: restInput{Text: req.Input.Text, Ssml: req.Input.SSML},
		Voice: restVoice{LanguageCode: req.Voice.LanguageCode, Name: req.Voice.Name},
		AudioConfig: restAudioConfig{
			AudioEncoding: encodingOf(req.AudioConfig.Encoding).String(),
			SpeakingRate:  req.AudioConfig.SpeakingRate,
		},
	}
	if req.EnableMarks {
		body.EnableTimePointing = []string{"SSML_MARK"}
	}

	var out restResponse
	var apiErr restError
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post(c.endpoint)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSynthesisFailed, "Google TTS request failed", err)
	}
	if resp.IsError() {
		cause := fmt.Errorf("status %d %s: %s", resp.StatusCode(), apiErr.Error.Status, apiErr.Error.Message)
		if resp.StatusCode() == http.StatusTooManyRequests {
			return nil, apperrors.Wrap(apperrors.CodeSynthesisQuota, "Google TTS quota exceeded", cause)
		}
		return nil, apperrors.Wrap(apperrors.CodeSynthesisFailed, "Google TTS request failed", cause)
	}

	audio, err := base64.StdEncoding.DecodeString(out.AudioContent)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSynthesisFailed, "Decode Google TTS audio failed", err)
	}
	if len(audio) == 0 {
		return nil, apperrors.ErrEmptyAudio
	}

	result := &types.SynthesisResult{Audio: audio}
	for _, tp := range out.Timepoints {
		result.Timepoints = append(result.Timepoints, types.Timepoint{MarkName: tp.MarkName, TimeSeconds: tp.TimeSeconds})
	}
	return result, nil
}
