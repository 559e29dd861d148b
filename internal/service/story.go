package service

import (
	"context"
	"encoding/json"
	"path/filepath"

	"phonics-audio/internal/content"
	"phonics-audio/internal/types"
	"phonics-audio/log"
	apperrors "phonics-audio/pkg/errors"
	"phonics-audio/pkg/util"

	"go.uber.org/zap"
)

func (s *Service) story() content.Story {
	return content.Story{
		ID:          s.Conf.Story.Id,
		Lines:       s.Conf.Story.Lines,
		LineBreakMs: s.Conf.Story.LineBreakMs,
	}
}

// TimingsPath is where the word timings of a story accent are written.
func (s *Service) TimingsPath(accent string) string {
	return filepath.Join(s.jobDir(s.Conf.Story.Subdir), accent+"_"+s.Conf.Story.Id+"_timings.json")
}

// RenderStory voices the story once per accent and writes the mark
// timings next to each audio file.
func (s *Service) RenderStory(ctx context.Context) (*Report, error) {
	if !supportsMarks(s.Synth) {
		return nil, apperrors.WrapWithDetail(apperrors.CodeMarksUnsupported,
			"Story rendering needs mark timepoints", s.Synth.Name(), nil)
	}
	story := s.story()
	if len(story.Lines) == 0 {
		return nil, apperrors.WrapWithDetail(apperrors.CodeInvalidParams, "Story has no lines", story.ID, nil)
	}

	unit, marks := story.Unit()
	run := s.startJob(ctx, JobStory, s.Conf.Story.Subdir, true)
	results := run.gen.Generate(ctx, []types.Unit{unit}, s.accents(s.Conf.Story.SpeakingRate), content.StorySSML)
	report := s.finishJob(ctx, run, results)

	for _, r := range results {
		timingsPath := s.TimingsPath(r.Accent)
		logger := log.GetLogger().With(zap.String("accent", r.Accent), zap.String("path", timingsPath))
		switch r.Status {
		case types.AssetStatusGenerated:
			timings := content.Timings(marks, r.Timepoints)
			if len(timings) == 0 {
				logger.Warn("Provider returned no timepoints")
			}
			if err := writeTimings(timingsPath, timings); err != nil {
				logger.Error("Write timings failed", zap.Error(err))
				continue
			}
			report.TimingFiles = append(report.TimingFiles, timingsPath)
		case types.AssetStatusSkipped:
			if !util.FileExists(timingsPath) {
				logger.Warn("Story audio exists without timings; delete the audio to rebuild both",
					zap.String("audio", r.Path))
			}
		}
	}
	return report, nil
}

func writeTimings(path string, timings []content.Timing) error {
	data, err := json.MarshalIndent(timings, "", "  ")
	if err != nil {
		return err
	}
	if err = util.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return apperrors.WrapWithDetail(apperrors.CodeFileWriteError, "Write timings failed", path, err)
	}
	return nil
}

func supportsMarks(s types.Synthesizer) bool {
	ms, ok := s.(types.MarkSynthesizer)
	return ok && ms.SupportsMarks()
}
