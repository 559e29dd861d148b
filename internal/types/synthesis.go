package types

import "context"

// AudioEncoding names the container the provider should return.
type AudioEncoding string

const (
	AudioEncodingMP3      AudioEncoding = "mp3"
	AudioEncodingOggOpus  AudioEncoding = "ogg"
	AudioEncodingLinear16 AudioEncoding = "wav"
)

// Ext returns the file extension used for assets of this encoding.
func (e AudioEncoding) Ext() string {
	switch e {
	case AudioEncodingOggOpus:
		return "ogg"
	case AudioEncodingLinear16:
		return "wav"
	default:
		return "mp3"
	}
}

// SynthesisInput is either plain text or an SSML document, never both.
type SynthesisInput struct {
	Text string
	SSML string
}

func TextInput(text string) SynthesisInput { return SynthesisInput{Text: text} }

func SSMLInput(ssml string) SynthesisInput { return SynthesisInput{SSML: ssml} }

func (in SynthesisInput) IsSSML() bool { return in.SSML != "" }

// Content returns whichever of Text/SSML is set.
func (in SynthesisInput) Content() string {
	if in.IsSSML() {
		return in.SSML
	}
	return in.Text
}

type VoiceParams struct {
	LanguageCode string
	Name         string
}

type AudioConfig struct {
	Encoding     AudioEncoding
	SpeakingRate float64
}

type SynthesisRequest struct {
	Input       SynthesisInput
	Voice       VoiceParams
	AudioConfig AudioConfig
	// EnableMarks asks the provider for timepoints of SSML <mark> tags.
	EnableMarks bool
}

// Timepoint is the offset of a named SSML mark in the returned audio.
type Timepoint struct {
	MarkName    string  `json:"mark"`
	TimeSeconds float64 `json:"time"`
}

type SynthesisResult struct {
	Audio      []byte
	Timepoints []Timepoint
}

// Synthesizer is the external speech service. Implementations must be
// safe for concurrent use.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)
	Name() string
}

// MarkSynthesizer is implemented by providers that can return SSML mark
// timepoints.
type MarkSynthesizer interface {
	Synthesizer
	SupportsMarks() bool
}

// Voice describes one voice offered by a provider.
type Voice struct {
	Name          string   `json:"name"`
	LanguageCodes []string `json:"language_codes"`
	Gender        string   `json:"gender,omitempty"`
}

type VoiceLister interface {
	ListVoices(ctx context.Context, languageCode string) ([]Voice, error)
}
