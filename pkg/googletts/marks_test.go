package googletts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"phonics-audio/internal/types"
	apperrors "phonics-audio/pkg/errors"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarksClientSynthesize(t *testing.T) {
	var got restRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"audioContent": base64.StdEncoding.EncodeToString([]byte("ID3-audio")),
			"timepoints": []map[string]any{
				{"markName": "s0w0", "timeSeconds": 0.05},
				{"markName": "s0w1", "timeSeconds": 0.42},
			},
		})
	}))
	defer srv.Close()

	c := newMarksClient(srv.Client(), srv.URL)
	res, err := c.Synthesize(context.Background(), types.SynthesisRequest{
		Input:       types.SSMLInput("<speak><mark name='s0w0'/>Jane <mark name='s0w1'/>bakes.</speak>"),
		Voice:       types.VoiceParams{LanguageCode: "en-US", Name: "en-US-Wavenet-D"},
		AudioConfig: types.AudioConfig{Encoding: types.AudioEncodingMP3, SpeakingRate: 1.0},
		EnableMarks: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"SSML_MARK"}, got.EnableTimePointing)
	assert.Equal(t, "MP3", got.AudioConfig.AudioEncoding)
	assert.Equal(t, "en-US-Wavenet-D", got.Voice.Name)
	assert.Empty(t, got.Input.Text)
	assert.Contains(t, got.Input.Ssml, "<mark name='s0w1'/>")

	assert.Equal(t, "ID3-audio", string(res.Audio))
	assert.Equal(t, []types.Timepoint{
		{MarkName: "s0w0", TimeSeconds: 0.05},
		{MarkName: "s0w1", TimeSeconds: 0.42},
	}, res.Timepoints)
}

func TestMarksClientErrors(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		wantCode int
	}{
		{name: "quota", status: http.StatusTooManyRequests, wantCode: apperrors.CodeSynthesisQuota},
		{name: "bad request", status: http.StatusBadRequest, wantCode: apperrors.CodeSynthesisFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"error":{"code":1,"message":"nope","status":"X"}}`))
			}))
			defer srv.Close()

			_, err := newMarksClient(srv.Client(), srv.URL).Synthesize(context.Background(), types.SynthesisRequest{
				Input: types.TextInput("hi"),
			})
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tc.wantCode))
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestMarksClientEmptyAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"audioContent":""}`))
	}))
	defer srv.Close()

	_, err := newMarksClient(srv.Client(), srv.URL).Synthesize(context.Background(), types.SynthesisRequest{
		Input: types.TextInput("hi"),
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeEmptyAudio))
}

func TestBuildRequest(t *testing.T) {
	req := buildRequest(types.SynthesisRequest{
		Input:       types.SSMLInput("<speak>/b/</speak>"),
		Voice:       types.VoiceParams{LanguageCode: "en-GB", Name: "en-GB-Wavenet-A"},
		AudioConfig: types.AudioConfig{Encoding: types.AudioEncodingOggOpus, SpeakingRate: 0.85},
	})
	assert.Equal(t, "<speak>/b/</speak>", req.GetInput().GetSsml())
	assert.Equal(t, "en-GB", req.GetVoice().GetLanguageCode())
	assert.Equal(t, texttospeechpb.AudioEncoding_OGG_OPUS, req.GetAudioConfig().GetAudioEncoding())
	assert.Equal(t, 0.85, req.GetAudioConfig().GetSpeakingRate())

	req = buildRequest(types.SynthesisRequest{Input: types.TextInput("A")})
	assert.Equal(t, "A", req.GetInput().GetText())
	assert.Equal(t, texttospeechpb.AudioEncoding_MP3, req.GetAudioConfig().GetAudioEncoding())
}

func TestSynthesizeMarksWithoutMarksClient(t *testing.T) {
	c := &Client{}
	assert.False(t, c.SupportsMarks())
	_, err := c.Synthesize(context.Background(), types.SynthesisRequest{EnableMarks: true})
	assert.True(t, apperrors.Is(err, apperrors.CodeMarksUnsupported))
}
