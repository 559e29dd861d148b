// Package content turns the learning material (alphabet, phoneme manifest,
// story script) into units and synthesizer inputs.
package content

import (
	"phonics-audio/internal/types"

	"github.com/samber/lo"
)

// Letters returns the units A through Z; each letter is spoken as itself.
func Letters() []types.Unit {
	return lo.Map(lo.RangeFrom('A', 26), func(r rune, _ int) types.Unit {
		s := string(r)
		return types.Unit{ID: s, Text: s}
	})
}

// PlainText speaks the unit's text unchanged.
func PlainText(unit types.Unit, _ types.AccentProfile) (types.SynthesisInput, error) {
	return types.TextInput(unit.Text), nil
}
