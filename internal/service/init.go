package service

import (
	"context"
	"errors"
	"time"

	"phonics-audio/config"
	"phonics-audio/internal/pipeline"
	"phonics-audio/internal/storage"
	"phonics-audio/internal/types"
	"phonics-audio/log"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	JobLetters  = "letters"
	JobPhonemes = "phonemes"
	JobWords    = "words"
	JobStory    = "story"
)

type Service struct {
	Synth types.Synthesizer
	// Ledger is optional; nil disables run bookkeeping.
	Ledger *storage.Ledger
	Conf   config.Config
}

func NewService(synth types.Synthesizer, ledger *storage.Ledger, conf config.Config) *Service {
	return &Service{Synth: synth, Ledger: ledger, Conf: conf}
}

// Report is the outcome of one job run.
type Report struct {
	Job     string
	RunID   string
	Results []types.Result
	Summary pipeline.Summary
	// ManifestOut is the manifest written by the run, if any.
	ManifestOut string
	// TimingFiles lists story timing files written by the run.
	TimingFiles []string
}

type jobRun struct {
	job   string
	runID string
	gen   *pipeline.Generator
}

func (s *Service) accents(rate float64) []types.AccentProfile {
	return lo.Map(s.Conf.Accents, func(a types.AccentProfile, _ int) types.AccentProfile {
		return a.WithRate(rate)
	})
}

func (s *Service) startJob(ctx context.Context, job, subdir string, enableMarks bool) *jobRun {
	run := &jobRun{job: job, runID: uuid.NewString()}
	opts := pipeline.Options{
		Job:               job,
		OutputDir:         s.jobDir(subdir),
		PublicPrefix:      s.publicPrefix(subdir),
		Encoding:          types.AudioEncoding(s.Conf.App.AudioFormat),
		Concurrency:       s.Conf.App.Concurrency,
		RequestsPerSecond: s.Conf.App.RequestsPerSecond,
		Timeout:           time.Duration(s.Conf.Tts.Timeout) * time.Second,
		EnableMarks:       enableMarks,
	}
	if s.Ledger != nil {
		if err := s.Ledger.StartRun(ctx, run.runID, job, s.Synth.Name()); err != nil {
			log.GetLogger().Warn("Ledger run start failed", zap.String("job", job), zap.Error(err))
		}
		opts.Recorder = storage.RunRecorder{Ledger: s.Ledger, RunID: run.runID}
	}
	run.gen = pipeline.NewGenerator(s.Synth, opts)

	log.GetLogger().Info("Job started",
		zap.String("job", job),
		zap.String("run_id", run.runID),
		zap.String("provider", s.Synth.Name()),
		zap.String("output_dir", opts.OutputDir))
	return run
}

func (s *Service) finishJob(ctx context.Context, run *jobRun, results []types.Result) *Report {
	summary := pipeline.Summarize(results)
	if s.Ledger != nil {
		err := s.Ledger.FinishRun(context.WithoutCancel(ctx), run.runID,
			summary.Generated, summary.Skipped, summary.Failed, summary.Unmapped)
		if err != nil {
			log.GetLogger().Warn("Ledger run finish failed", zap.String("job", run.job), zap.Error(err))
		}
	}
	return &Report{Job: run.job, RunID: run.runID, Results: results, Summary: summary}
}

// RunAll runs every enabled job in order. A fatal error in one job does
// not stop the others; all of them are returned joined.
func (s *Service) RunAll(ctx context.Context) ([]*Report, error) {
	type job struct {
		enabled bool
		run     func(context.Context) (*Report, error)
	}
	jobs := []job{
		{s.Conf.Letters.Enabled, s.GenerateLetters},
		{s.Conf.Phonemes.Enabled, func(ctx context.Context) (*Report, error) { return s.GeneratePhonemes(ctx, "") }},
		{s.Conf.Words.Enabled, s.GeneratePhonemeWords},
		{s.Conf.Story.Enabled, s.RenderStory},
	}

	var reports []*Report
	var errs []error
	for _, j := range jobs {
		if !j.enabled {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report, err := j.run(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(errs...)
}
