// Package pipeline renders (unit, accent) pairs to audio files. Existing
// files are never regenerated, so a run can be repeated until every pair
// has been written.
package pipeline

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"strings"
	"time"

	"phonics-audio/internal/types"
	"phonics-audio/log"
	apperrors "phonics-audio/pkg/errors"
	"phonics-audio/pkg/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Recorder receives every pair outcome as soon as it is known. It must be
// safe for concurrent use.
type Recorder interface {
	Record(ctx context.Context, job string, res types.Result)
}

type Options struct {
	// Job names the run in logs and in the ledger.
	Job string
	// OutputDir is where asset files are written.
	OutputDir string
	// PublicPrefix is the URL path of OutputDir, e.g. "/sounds/letters".
	PublicPrefix string
	Encoding     types.AudioEncoding
	// Concurrency bounds the number of in-flight synthesis calls; values
	// below 1 mean sequential.
	Concurrency int
	// RequestsPerSecond caps the call rate; zero disables limiting.
	RequestsPerSecond float64
	// Timeout bounds each synthesis call; zero means no per-call limit.
	Timeout     time.Duration
	EnableMarks bool
	Recorder    Recorder
}

type Generator struct {
	synth   types.Synthesizer
	opts    Options
	limiter *rate.Limiter
}

func NewGenerator(synth types.Synthesizer, opts Options) *Generator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Encoding == "" {
		opts.Encoding = types.AudioEncodingMP3
	}
	g := &Generator{synth: synth, opts: opts}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Concurrency
		g.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return g
}

// FileName is the deterministic asset name of a unit under an accent.
func (g *Generator) FileName(unitID, accent string) string {
	return accent + "_" + unitID + "." + g.opts.Encoding.Ext()
}

func (g *Generator) AssetPath(unitID, accent string) string {
	return filepath.Join(g.opts.OutputDir, g.FileName(unitID, accent))
}

// PublicPath is the URL path a manifest stores for the asset.
func (g *Generator) PublicPath(unitID, accent string) string {
	p := path.Join(g.opts.PublicPrefix, g.FileName(unitID, accent))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Pair is one (unit, accent) combination.
type Pair struct {
	Unit   types.Unit
	Accent types.AccentProfile
}

// Pairs expands units and crosses them with accents, unit-major. The
// result length is the number of asset paths a run considers.
func Pairs(units []types.Unit, accents []types.AccentProfile) []Pair {
	pairs := make([]Pair, 0, len(units)*len(accents))
	for _, u := range units {
		for _, child := range u.Expand() {
			for _, a := range accents {
				pairs = append(pairs, Pair{Unit: child, Accent: a})
			}
		}
	}
	return pairs
}

// Generate processes every pair and returns one Result per pair in
// Pairs order. Per-pair errors are captured in the results; the call
// itself never fails. Once ctx is done no new pairs are started and the
// remaining ones are reported as Failed.
func (g *Generator) Generate(ctx context.Context, units []types.Unit, accents []types.AccentProfile, textFor types.TextFunc) []types.Result {
	pairs := Pairs(units, accents)
	results := make([]types.Result, len(pairs))

	eg := new(errgroup.Group)
	eg.SetLimit(g.opts.Concurrency)
	for i, p := range pairs {
		if err := ctx.Err(); err != nil {
			results[i] = g.finish(ctx, g.failed(g.newResult(p), err))
			continue
		}
		eg.Go(func() error {
			results[i] = g.finish(ctx, g.generateOne(ctx, p, textFor))
			return nil
		})
	}
	_ = eg.Wait()

	log.GetLogger().Info("Generation finished",
		zap.String("job", g.opts.Job),
		zap.Int("pairs", len(results)),
		zap.Any("summary", Summarize(results)))
	return results
}

func (g *Generator) newResult(p Pair) types.Result {
	return types.Result{
		UnitID:     p.Unit.ID,
		Parent:     p.Unit.Parent,
		Accent:     p.Accent.Code,
		Path:       g.AssetPath(p.Unit.ID, p.Accent.Code),
		PublicPath: g.PublicPath(p.Unit.ID, p.Accent.Code),
	}
}

func (g *Generator) failed(res types.Result, err error) types.Result {
	res.Status = types.AssetStatusFailed
	res.Err = err
	return res
}

func (g *Generator) finish(ctx context.Context, res types.Result) types.Result {
	if g.opts.Recorder != nil {
		g.opts.Recorder.Record(ctx, g.opts.Job, res)
	}
	return res
}

func (g *Generator) generateOne(ctx context.Context, p Pair, textFor types.TextFunc) types.Result {
	res := g.newResult(p)
	if err := ctx.Err(); err != nil {
		return g.failed(res, err)
	}
	logger := log.GetLogger().With(
		zap.String("job", g.opts.Job),
		zap.String("accent", res.Accent),
		zap.String("unit", res.UnitID),
		zap.String("path", res.Path))

	if !safeName(p.Unit.ID) || !safeName(p.Accent.Code) {
		err := apperrors.WrapWithDetail(apperrors.CodeUnitUnmapped, "Unit id is not a safe file name",
			p.Accent.Code+"_"+p.Unit.ID, nil)
		logger.Warn("Unsafe asset name, skipping", zap.Error(err))
		res.Status = types.AssetStatusUnmapped
		res.Err = err
		res.Path, res.PublicPath = "", ""
		return res
	}

	input, err := textFor(p.Unit, p.Accent)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeUnitUnmapped) {
			logger.Warn("Unit has no synthesizable form, skipping", zap.Error(err))
			res.Status = types.AssetStatusUnmapped
			res.Err = err
			return res
		}
		logger.Error("Build synthesis input failed", zap.Error(err))
		return g.failed(res, err)
	}

	if util.FileExists(res.Path) {
		logger.Debug("Skipped existing")
		res.Status = types.AssetStatusSkipped
		return res
	}

	if g.limiter != nil {
		if err = g.limiter.Wait(ctx); err != nil {
			return g.failed(res, err)
		}
	}

	callCtx := ctx
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	out, err := g.synth.Synthesize(callCtx, types.SynthesisRequest{
		Input: input,
		Voice: p.Accent.VoiceParams(),
		AudioConfig: types.AudioConfig{
			Encoding:     g.opts.Encoding,
			SpeakingRate: p.Accent.SpeakingRate,
		},
		EnableMarks: g.opts.EnableMarks,
	})
	if err != nil {
		logger.Error("Synthesis failed", zap.String("provider", g.synth.Name()), zap.Error(err))
		return g.failed(res, asSynthesisError(err))
	}
	if out == nil || len(out.Audio) == 0 {
		logger.Error("Synthesis failed", zap.String("provider", g.synth.Name()), zap.Error(apperrors.ErrEmptyAudio))
		return g.failed(res, apperrors.ErrEmptyAudio)
	}

	if err = util.WriteFileAtomic(res.Path, out.Audio, 0o644); err != nil {
		logger.Error("Write asset failed", zap.Error(err))
		return g.failed(res, apperrors.Wrap(apperrors.CodeFileWriteError, "Asset write failed", err))
	}

	res.Status = types.AssetStatusGenerated
	res.Bytes = len(out.Audio)
	res.Timepoints = out.Timepoints
	logger.Info("Generated", zap.Int("bytes", res.Bytes))
	return res
}

// safeName reports whether s can be used inside a file name without
// leaving OutputDir.
func safeName(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, "/\\\x00")
}

// asSynthesisError keeps provider AppErrors (quota, voice not found) and
// files everything else under CodeSynthesisFailed.
func asSynthesisError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.CodeSynthesisFailed, "Speech synthesis failed", err)
}
