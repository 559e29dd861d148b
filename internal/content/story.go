package content

import (
	"fmt"
	"html"
	"strings"

	"phonics-audio/internal/types"

	"github.com/samber/lo"
)

// Story is a short read-along script rendered as one audio file.
type Story struct {
	ID          string
	Lines       []string
	LineBreakMs int
}

// Mark locates one word of the script.
type Mark struct {
	Name string
	Line int
	Word int
	Text string
}

// Timing is one entry of the timings file the reader uses to highlight
// words during playback.
type Timing struct {
	Mark string  `json:"mark"`
	Time float64 `json:"time"`
	Line int     `json:"line"`
	Word int     `json:"word"`
	Text string  `json:"text"`
}

func MarkName(line, word int) string {
	return fmt.Sprintf("s%dw%d", line, word)
}

// SSML builds the speak document: a mark before every word and a break
// after every line.
func (s Story) SSML() (string, []Mark) {
	var b strings.Builder
	var marks []Mark
	b.WriteString("<speak>")
	for li, line := range s.Lines {
		for wi, word := range strings.Fields(line) {
			name := MarkName(li, wi)
			marks = append(marks, Mark{Name: name, Line: li, Word: wi, Text: word})
			fmt.Fprintf(&b, "<mark name='%s'/>%s ", name, html.EscapeString(word))
		}
		if s.LineBreakMs > 0 {
			fmt.Fprintf(&b, "<break time='%dms'/>", s.LineBreakMs)
		}
	}
	b.WriteString("</speak>")
	return b.String(), marks
}

// Unit returns the single unit for the story; its text is the SSML.
func (s Story) Unit() (types.Unit, []Mark) {
	ssml, marks := s.SSML()
	return types.Unit{ID: s.ID, Text: ssml}, marks
}

// StorySSML passes the prebuilt document through.
func StorySSML(unit types.Unit, _ types.AccentProfile) (types.SynthesisInput, error) {
	return types.SSMLInput(unit.Text), nil
}

// Timings joins returned timepoints with the marks they name, in audio
// order. Timepoints for unknown marks are dropped.
func Timings(marks []Mark, timepoints []types.Timepoint) []Timing {
	byName := lo.KeyBy(marks, func(m Mark) string { return m.Name })
	out := make([]Timing, 0, len(timepoints))
	for _, tp := range timepoints {
		m, ok := byName[tp.MarkName]
		if !ok {
			continue
		}
		out = append(out, Timing{Mark: m.Name, Time: tp.TimeSeconds, Line: m.Line, Word: m.Word, Text: m.Text})
	}
	return out
}
