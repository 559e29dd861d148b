package content

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"phonics-audio/internal/manifest"
	"phonics-audio/internal/types"
	"phonics-audio/log"
	apperrors "phonics-audio/pkg/errors"

	"github.com/samber/lo"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"go.uber.org/zap"
)

const (
	PhonemeModeSSML   = "ssml"
	PhonemeModeSpoken = "spoken"
)

// SpokenMap maps a clean phoneme symbol to a string the voice reads as
// that isolated sound.
var SpokenMap = map[string]string{
	"a": "ah", "b": "buh", "d": "duh", "e": "eh", "f": "fuh", "g": "guh", "h": "huh",
	"i": "ih", "j": "juh", "k": "kuh", "l": "luh", "m": "muh", "n": "nuh", "o": "aw",
	"p": "puh", "r": "ruh", "s": "sss", "t": "tuh", "u": "uh", "v": "vuh", "w": "wuh",
	"y": "yuh", "z": "zzz", "sh": "shhh", "ch": "chuh", "th": "thuh", "ng": "ng",
	"oo": "oo", "ee": "ee", "ay": "ay", "ow": "ow", "ar": "ar", "or": "or", "air": "air",
	"ear": "ear", "oi": "oy", "uh": "uh", "er": "er",
}

// CleanSymbol turns "/b/" into "b" and "/u:/" into "u".
func CleanSymbol(raw string) string {
	return strings.ReplaceAll(strings.Trim(raw, "/"), ":", "")
}

// PhonemeEntry pairs a manifest record with the unit derived from it.
type PhonemeEntry struct {
	Unit   types.Unit
	Record *manifest.Record
	// WordRecords line up with Unit.Words.
	WordRecords []*manifest.Record
}

// PhonemeEntries reads the phoneme units out of a manifest. The unit id is
// the clean symbol, the text is the raw symbol and the words come from
// words[].word. Records without a phoneme string are skipped.
func PhonemeEntries(m *manifest.Manifest) []PhonemeEntry {
	entries := make([]PhonemeEntry, 0, len(m.Entries))
	for i, rec := range m.Entries {
		raw, ok := rec.GetString("phoneme")
		if !ok || CleanSymbol(raw) == "" {
			log.GetLogger().Warn("Manifest entry has no phoneme symbol, skipping", zap.Int("index", i))
			continue
		}
		entry := PhonemeEntry{
			Unit:   types.Unit{ID: CleanSymbol(raw), Text: raw},
			Record: rec,
		}
		for _, w := range rec.RecordList("words") {
			word, ok := w.GetString("word")
			if !ok || strings.TrimSpace(word) == "" {
				continue
			}
			entry.Unit.Words = append(entry.Unit.Words, word)
			entry.WordRecords = append(entry.WordRecords, w)
		}
		entries = append(entries, entry)
	}
	return entries
}

// PhonemeUnits returns the units of entries, optionally stripped of their
// words so each phoneme maps to a single asset.
func PhonemeUnits(entries []PhonemeEntry, withWords bool) []types.Unit {
	return lo.Map(entries, func(e PhonemeEntry, _ int) types.Unit {
		u := e.Unit
		if !withWords {
			u.Words = nil
		}
		return u
	})
}

// PhonemeSSML wraps the raw symbol in a speak element and lets the voice
// interpret it.
func PhonemeSSML(unit types.Unit, _ types.AccentProfile) (types.SynthesisInput, error) {
	return types.SSMLInput("<speak>" + html.EscapeString(unit.Text) + "</speak>"), nil
}

// PhonemeSpoken reads the symbol through SpokenMap. Symbols missing from
// the map are reported as unmapped.
func PhonemeSpoken(unit types.Unit, _ types.AccentProfile) (types.SynthesisInput, error) {
	spoken, ok := SpokenMap[unit.ID]
	if !ok {
		detail := unit.Text
		if suggestion, _ := SuggestSymbol(unit.ID); suggestion != "" {
			detail = fmt.Sprintf("%s (closest known symbol: %s)", unit.Text, suggestion)
		}
		return types.SynthesisInput{}, apperrors.WrapWithDetail(apperrors.CodeUnitUnmapped,
			"Unknown phoneme symbol", detail, fmt.Errorf("no spoken form for %q", unit.ID))
	}
	return types.TextInput(spoken), nil
}

// PhonemeTextFunc picks the text mapping for a phoneme mode.
func PhonemeTextFunc(mode string) (types.TextFunc, error) {
	switch mode {
	case "", PhonemeModeSSML:
		return PhonemeSSML, nil
	case PhonemeModeSpoken:
		return PhonemeSpoken, nil
	default:
		return nil, apperrors.WrapWithDetail(apperrors.CodeInvalidParams, "Unknown phoneme mode", mode, nil)
	}
}

// SuggestSymbol returns the SpokenMap symbol closest to symbol by edit
// distance, ties broken alphabetically.
func SuggestSymbol(symbol string) (string, int) {
	known := lo.Keys(SpokenMap)
	sort.Strings(known)

	best, bestDist := "", -1
	for _, k := range known {
		d := levenshtein.DistanceForStrings([]rune(symbol), []rune(k), levenshtein.DefaultOptions)
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	return best, bestDist
}
