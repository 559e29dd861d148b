package service

import (
	"context"

	"phonics-audio/internal/content"
)

// GenerateLetters voices the letter names A to Z for every accent.
func (s *Service) GenerateLetters(ctx context.Context) (*Report, error) {
	run := s.startJob(ctx, JobLetters, s.Conf.Letters.Subdir, false)
	results := run.gen.Generate(ctx, content.Letters(), s.accents(s.Conf.Letters.SpeakingRate), content.PlainText)
	return s.finishJob(ctx, run, results), nil
}
