package types

import "fmt"

// Unit is one atomic item to render: a letter, a phoneme or a sentence.
type Unit struct {
	ID   string
	Text string
	// Words are optional sub-items; a unit with words renders one asset
	// per word instead of one for itself.
	Words []string
	// Parent is set on units produced by Expand.
	Parent string
}

// Expand returns the units that actually map to files: the unit itself,
// or one child per word named "{id}_{word}".
func (u Unit) Expand() []Unit {
	if len(u.Words) == 0 {
		return []Unit{u}
	}
	children := make([]Unit, 0, len(u.Words))
	for _, w := range u.Words {
		children = append(children, Unit{
			ID:     u.ID + "_" + w,
			Text:   w,
			Parent: u.ID,
		})
	}
	return children
}

type AccentProfile struct {
	Code         string  `toml:"code" json:"code"`
	LanguageCode string  `toml:"language_code" json:"language_code"`
	Voice        string  `toml:"voice" json:"voice"`
	SpeakingRate float64 `toml:"speaking_rate" json:"speaking_rate"`
}

// WithRate returns a copy of the profile with the job's speaking rate;
// zero keeps the profile's own rate.
func (a AccentProfile) WithRate(rate float64) AccentProfile {
	if rate > 0 {
		a.SpeakingRate = rate
	}
	return a
}

func (a AccentProfile) VoiceParams() VoiceParams {
	return VoiceParams{LanguageCode: a.LanguageCode, Name: a.Voice}
}

type AssetStatus string

const (
	AssetStatusGenerated AssetStatus = "generated"
	AssetStatusSkipped   AssetStatus = "skipped"
	AssetStatusFailed    AssetStatus = "failed"
	AssetStatusUnmapped  AssetStatus = "unmapped"
)

// Result is the outcome of one (unit, accent) pair.
type Result struct {
	UnitID     string
	Parent     string
	Accent     string
	Path       string
	PublicPath string
	Status     AssetStatus
	Err        error
	Bytes      int
	Timepoints []Timepoint
}

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s/%s %s: %v", r.Accent, r.UnitID, r.Status, r.Err)
	}
	return fmt.Sprintf("%s/%s %s", r.Accent, r.UnitID, r.Status)
}

// TextFunc maps a unit under an accent to the synthesizer input. Returning
// an error coded CodeUnitUnmapped marks the pair Unmapped.
type TextFunc func(unit Unit, accent AccentProfile) (SynthesisInput, error)
