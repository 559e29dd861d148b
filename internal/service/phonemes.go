package service

import (
	"context"

	"phonics-audio/internal/content"
	"phonics-audio/internal/manifest"
	"phonics-audio/internal/pipeline"
	"phonics-audio/internal/types"
	"phonics-audio/log"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const wordAnchor = "word"

// GeneratePhonemes voices every phoneme of the manifest and writes the
// manifest back with an audio map after the anchor field. An empty mode
// uses the configured one.
func (s *Service) GeneratePhonemes(ctx context.Context, mode string) (*Report, error) {
	conf := s.Conf.Phonemes
	if mode == "" {
		mode = conf.Mode
	}
	textFor, err := content.PhonemeTextFunc(mode)
	if err != nil {
		return nil, err
	}
	m, err := manifest.Load(conf.Manifest)
	if err != nil {
		return nil, err
	}

	entries := content.PhonemeEntries(m)
	units := uniqueUnits(content.PhonemeUnits(entries, false))
	accents := s.accents(conf.SpeakingRate)

	run := s.startJob(ctx, JobPhonemes, conf.Subdir, false)
	log.GetLogger().Info("Phoneme mode", zap.String("mode", mode), zap.Int("units", len(units)))
	results := run.gen.Generate(ctx, units, accents, textFor)

	unmapped := pipeline.UnmappedUnits(results)
	attached := 0
	for _, e := range entries {
		if unmapped[e.Unit.ID] {
			continue
		}
		inserted, err := run.gen.AttachAudio(e.Record, conf.Anchor, e.Unit.ID, accents)
		if err != nil {
			log.GetLogger().Warn("Audio map not attached", zap.String("unit", e.Unit.ID), zap.Error(err))
			continue
		}
		if inserted {
			attached++
		}
	}

	if err = m.Save(conf.ManifestOut); err != nil {
		return nil, err
	}
	log.GetLogger().Info("Manifest written",
		zap.String("path", conf.ManifestOut),
		zap.Int("attached", attached),
		zap.Int("unmapped", len(unmapped)))

	report := s.finishJob(ctx, run, results)
	report.ManifestOut = conf.ManifestOut
	return report, nil
}

// GeneratePhonemeWords voices the example words of every phoneme. With
// attach_audio set, each word record gets its own audio map after "word".
func (s *Service) GeneratePhonemeWords(ctx context.Context) (*Report, error) {
	conf := s.Conf.Words
	m, err := manifest.Load(conf.Manifest)
	if err != nil {
		return nil, err
	}

	entries := content.PhonemeEntries(m)
	// Phonemes sharing a slug keep their own words; only identical word
	// files collapse.
	units := uniqueUnits(lo.FlatMap(content.PhonemeUnits(entries, true), func(u types.Unit, _ int) []types.Unit {
		if len(u.Words) == 0 {
			return nil
		}
		return u.Expand()
	}))
	accents := s.accents(conf.SpeakingRate)

	run := s.startJob(ctx, JobWords, conf.Subdir, false)
	results := run.gen.Generate(ctx, units, accents, content.PlainText)
	report := s.finishJob(ctx, run, results)

	if !conf.AttachAudio {
		return report, nil
	}
	unmapped := pipeline.UnmappedUnits(results)
	attached := 0
	for _, e := range entries {
		for i, rec := range e.WordRecords {
			child := e.Unit.ID + "_" + e.Unit.Words[i]
			if unmapped[child] {
				continue
			}
			inserted, err := run.gen.AttachAudio(rec, wordAnchor, child, accents)
			if err != nil {
				log.GetLogger().Warn("Audio map not attached", zap.String("unit", child), zap.Error(err))
				continue
			}
			if inserted {
				attached++
			}
		}
	}
	if err = m.Save(conf.ManifestOut); err != nil {
		return nil, err
	}
	log.GetLogger().Info("Manifest written", zap.String("path", conf.ManifestOut), zap.Int("attached", attached))
	report.ManifestOut = conf.ManifestOut
	return report, nil
}

// uniqueUnits drops repeated unit ids; "/a/" and "/a:/" share one file.
func uniqueUnits(units []types.Unit) []types.Unit {
	return lo.UniqBy(units, func(u types.Unit) string { return u.ID })
}
