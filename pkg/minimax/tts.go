package minimax

import (
	"context"
	"encoding/hex"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"

	"phonics-audio/internal/types"
	"phonics-audio/log"
	apperrors "phonics-audio/pkg/errors"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultModel = "speech-01-turbo"
	defaultVoice = "male-qn-qingse"
	t2aPath      = "/v1/t2a_v2"
	// statusRateLimited is the base_resp code for exceeded RPM.
	statusRateLimited = 1002
)

// MiniMaxClient implements types.Synthesizer
type MiniMaxClient struct {
	GroupId string
	Model   string
	client  *resty.Client
}

func NewMiniMaxClient(baseURL, apiKey, groupId, model string) *MiniMaxClient {
	if model == "" {
		model = defaultModel
	}
	if baseURL == "" {
		baseURL = "https://api.minimax.chat"
	}
	return &MiniMaxClient{
		GroupId: groupId,
		Model:   model,
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetAuthToken(apiKey).
			SetHeader("Content-Type", "application/json"),
	}
}

type T2ARequest struct {
	Model        string       `json:"model"`
	Text         string       `json:"text"`
	VoiceSetting VoiceSetting `json:"voice_setting"`
	AudioSetting AudioSetting `json:"audio_setting"`
	Stream       bool         `json:"stream"`
}

type VoiceSetting struct {
	VoiceId string  `json:"voice_id"`
	Speed   float64 `json:"speed,omitempty"`
}

type AudioSetting struct {
	SampleRate int    `json:"sample_rate"`
	Format     string `json:"format"`
	Channel    int    `json:"channel"`
}

type T2AResponse struct {
	Data struct {
		Audio  string `json:"audio"`
		Status int    `json:"status"` // 2 means finished
	} `json:"data"`
	TraceId  string   `json:"trace_id"`
	BaseResp BaseResp `json:"base_resp"`
}

type BaseResp struct {
	StatusCode int    `json:"status_code"`
	StatusMsg  string `json:"status_msg"`
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func (c *MiniMaxClient) Name() string { return "minimax" }

func (c *MiniMaxClient) Synthesize(ctx context.Context, req types.SynthesisRequest) (*types.SynthesisResult, error) {
	if req.EnableMarks {
		return nil, apperrors.ErrMarksUnsupported
	}

	text := req.Input.Text
	if req.Input.IsSSML() {
		text = strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(req.Input.SSML, "")))
	}
	voice := req.Voice.Name
	if voice == "" {
		voice = defaultVoice
	}
	var format string
	switch req.AudioConfig.Encoding {
	case "", types.AudioEncodingMP3:
		format = "mp3"
	case types.AudioEncodingLinear16:
		format = "wav"
	default:
		return nil, apperrors.WrapWithDetail(apperrors.CodeInvalidParams, "MiniMax does not support this audio encoding",
			string(req.AudioConfig.Encoding), nil)
	}

	var apiResp T2AResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("GroupId", c.GroupId).
		SetBody(T2ARequest{
			Model:        c.Model,
			Text:         text,
			VoiceSetting: VoiceSetting{VoiceId: voice, Speed: req.AudioConfig.SpeakingRate},
			AudioSetting: AudioSetting{SampleRate: 32000, Format: format, Channel: 1},
		}).
		SetResult(&apiResp).
		Post(t2aPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSynthesisFailed, "MiniMax request failed", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apperrors.Wrap(apperrors.CodeSynthesisFailed, "MiniMax request failed",
			fmt.Errorf("status %d, body: %s", resp.StatusCode(), resp.String()))
	}

	switch apiResp.BaseResp.StatusCode {
	case 0:
	case statusRateLimited:
		return nil, apperrors.Wrap(apperrors.CodeSynthesisQuota, "MiniMax rate limited",
			fmt.Errorf("%d - %s", apiResp.BaseResp.StatusCode, apiResp.BaseResp.StatusMsg))
	default:
		return nil, apperrors.Wrap(apperrors.CodeSynthesisFailed, "MiniMax api error",
			fmt.Errorf("%d - %s", apiResp.BaseResp.StatusCode, apiResp.BaseResp.StatusMsg))
	}

	if apiResp.Data.Audio == "" {
		return nil, apperrors.ErrEmptyAudio
	}
	audio, err := hex.DecodeString(apiResp.Data.Audio)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSynthesisFailed, "Decode MiniMax hex audio failed", err)
	}

	log.GetLogger().Debug("MiniMax TTS success", zap.String("trace_id", apiResp.TraceId), zap.Int("bytes", len(audio)))
	return &types.SynthesisResult{Audio: audio}, nil
}
