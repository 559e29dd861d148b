package pipeline

import (
	"phonics-audio/internal/manifest"
	"phonics-audio/internal/types"
)

// AudioField is the manifest key that holds the accent to path map.
const AudioField = "audio"

// AudioMap maps each accent code to the public path of unitID, in accent
// order. Paths are listed whether or not the file exists yet.
func (g *Generator) AudioMap(unitID string, accents []types.AccentProfile) *manifest.Record {
	audio := manifest.NewRecord()
	for _, a := range accents {
		audio.Set(a.Code, g.PublicPath(unitID, a.Code))
	}
	return audio
}

// AttachAudio inserts the audio map of unitID after anchor. Records that
// already carry the field are left alone.
func (g *Generator) AttachAudio(rec *manifest.Record, anchor, unitID string, accents []types.AccentProfile) (bool, error) {
	return rec.InsertAfter(anchor, AudioField, g.AudioMap(unitID, accents))
}

// UnmappedUnits returns the ids of units with at least one Unmapped pair.
// Such units get no audio map.
func UnmappedUnits(results []types.Result) map[string]bool {
	out := make(map[string]bool)
	for _, r := range results {
		if r.Status == types.AssetStatusUnmapped {
			out[r.UnitID] = true
		}
	}
	return out
}
