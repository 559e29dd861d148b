package doubao

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"phonics-audio/internal/types"
	"phonics-audio/log"
	apperrors "phonics-audio/pkg/errors"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://openspeech.bytedance.com/api/v3/tts/unidirectional"
	defaultVoice   = "en_female_amanda_mars_bigtts"
	// codeSuccess marks the final chunk of a V3 stream.
	codeSuccess = 20000000
	codeQuota   = 45000292
)

// DoubaoClient implements types.Synthesizer for Volcengine Doubao TTS
type DoubaoClient struct {
	AppId       string
	AccessToken string
	Cluster     string
	ResourceId  string // V3 API requires resource ID
	BaseURL     string
	client      *resty.Client
}

func NewDoubaoClient(appId, accessToken, cluster string) *DoubaoClient {
	if cluster == "" {
		cluster = "volcano_tts"
	}
	return &DoubaoClient{
		AppId:       appId,
		AccessToken: accessToken,
		Cluster:     cluster,
		ResourceId:  "seed-tts-1.0",
		BaseURL:     defaultBaseURL,
		client:      resty.New(),
	}
}

// V3 TTS request structures
type DoubaoTTSRequest struct {
	User      DoubaoUser      `json:"user"`
	ReqParams DoubaoReqParams `json:"req_params"`
}

type DoubaoUser struct {
	Uid string `json:"uid"`
}

type DoubaoReqParams struct {
	Text        string            `json:"text,omitempty"`
	Ssml        string            `json:"ssml,omitempty"`
	Speaker     string            `json:"speaker"`
	AudioParams DoubaoAudioParams `json:"audio_params"`
}

type DoubaoAudioParams struct {
	Format     string `json:"format"`
	SampleRate int    `json:"sample_rate"`
	// SpeechRate is in [-50, 100]; 0 is normal speed.
	SpeechRate int `json:"speech_rate,omitempty"`
}

// DoubaoTTSResponse is one object of the streamed response body.
type DoubaoTTSResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"` // Base64 encoded audio
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func (c *DoubaoClient) Name() string { return "doubao" }

// speechRate maps a Google style multiplier (1.0 normal) onto Doubao's
// percentage offset.
func speechRate(rate float64) int {
	if rate <= 0 {
		return 0
	}
	r := int((rate - 1.0) * 100)
	return max(-50, min(100, r))
}

func (c *DoubaoClient) Synthesize(ctx context.Context, req types.SynthesisRequest) (*types.SynthesisResult, error) {
	if req.EnableMarks {
		return nil, apperrors.ErrMarksUnsupported
	}
	var format string
	switch req.AudioConfig.Encoding {
	case "", types.AudioEncodingMP3:
		format = "mp3"
	case types.AudioEncodingOggOpus:
		format = "ogg_opus"
	default:
		return nil, apperrors.WrapWithDetail(apperrors.CodeInvalidParams, "Doubao does not support this audio encoding",
			string(req.AudioConfig.Encoding), nil)
	}
	voice := req.Voice.Name
	if voice == "" {
		voice = defaultVoice
	}

	params := DoubaoReqParams{
		Speaker: voice,
		AudioParams: DoubaoAudioParams{
			Format:     format,
			SampleRate: 24000,
			SpeechRate: speechRate(req.AudioConfig.SpeakingRate),
		},
	}
	if req.Input.IsSSML() {
		// Doubao SSML has no mark support; the stripped text is spoken.
		params.Text = strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(req.Input.SSML, "")))
	} else {
		params.Text = req.Input.Text
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("X-Api-App-Key", c.AppId).
		SetHeader("X-Api-Access-Key", c.AccessToken).
		SetHeader("X-Api-Resource-Id", c.ResourceId).
		SetHeader("Content-Type", "application/json").
		SetBody(DoubaoTTSRequest{
			User:      DoubaoUser{Uid: "assetgen_" + uuid.New().String()[:8]},
			ReqParams: params,
		}).
		Post(c.BaseURL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSynthesisFailed, "Doubao request failed", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(body, 4096))
		return nil, apperrors.Wrap(apperrors.CodeSynthesisFailed, "Doubao request failed",
			fmt.Errorf("status %d, body: %s", resp.StatusCode(), msg))
	}

	audio, err := decodeStream(body)
	if err != nil {
		return nil, err
	}
	log.GetLogger().Debug("Doubao TTS success", zap.String("voice", voice), zap.Int("bytes", len(audio)))
	return &types.SynthesisResult{Audio: audio}, nil
}

// decodeStream concatenates the base64 audio chunks of a V3 response,
// which is a sequence of JSON objects.
func decodeStream(r io.Reader) ([]byte, error) {
	decoder := json.NewDecoder(r)
	var buf bytes.Buffer
	for {
		var chunk DoubaoTTSResponse
		if err := decoder.Decode(&chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, apperrors.Wrap(apperrors.CodeSynthesisFailed, "Decode Doubao stream failed", err)
		}
		switch {
		case chunk.Code == codeQuota:
			return nil, apperrors.Wrap(apperrors.CodeSynthesisQuota, "Doubao quota exceeded",
				fmt.Errorf("%d - %s", chunk.Code, chunk.Message))
		case chunk.Code != 0 && chunk.Code != codeSuccess:
			return nil, apperrors.Wrap(apperrors.CodeSynthesisFailed, "Doubao api error",
				fmt.Errorf("%d - %s", chunk.Code, chunk.Message))
		}
		if chunk.Data == "" {
			continue
		}
		audio, err := base64.StdEncoding.DecodeString(chunk.Data)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeSynthesisFailed, "Decode Doubao audio chunk failed", err)
		}
		buf.Write(audio)
	}
	if buf.Len() == 0 {
		return nil, apperrors.ErrEmptyAudio
	}
	return buf.Bytes(), nil
}
