package service

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"phonics-audio/internal/manifest"
	"phonics-audio/internal/types"
	apperrors "phonics-audio/pkg/errors"
)

// ListVoices asks the provider for its voices, optionally filtered by
// BCP-47 language code, sorted by name.
func (s *Service) ListVoices(ctx context.Context, languageCode string) ([]types.Voice, error) {
	lister, ok := s.Synth.(types.VoiceLister)
	if !ok {
		return nil, apperrors.WrapWithDetail(apperrors.CodeProviderNotConfig, "Provider cannot list voices", s.Synth.Name(), nil)
	}
	voices, err := lister.ListVoices(ctx, languageCode)
	if err != nil {
		return nil, err
	}
	sort.Slice(voices, func(i, j int) bool { return voices[i].Name < voices[j].Name })
	return voices, nil
}

type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Diagnose reports whether the environment can run the enabled jobs.
func (s *Service) Diagnose() []Check {
	var checks []Check
	add := func(name string, err error, okDetail string) {
		if err != nil {
			checks = append(checks, Check{Name: name, Detail: err.Error()})
			return
		}
		checks = append(checks, Check{Name: name, OK: true, Detail: okDetail})
	}

	if s.Synth == nil {
		add("provider", apperrors.ErrProviderNotConfig, "")
	} else {
		add("provider", nil, s.Synth.Name())
	}

	outRoot := s.jobDir("")
	add("output dir", checkWritable(outRoot), outRoot)

	if creds := s.Conf.Tts.Google.CredentialsFile; creds != "" {
		_, err := os.Stat(creds)
		add("google credentials", err, creds)
	}
	if s.Conf.Phonemes.Enabled {
		m, err := manifest.Load(s.Conf.Phonemes.Manifest)
		detail := s.Conf.Phonemes.Manifest
		if err == nil {
			detail = detail + " (" + strconv.Itoa(len(m.Entries)) + " entries)"
		}
		add("phoneme manifest", err, detail)
	}
	if s.Conf.Words.Enabled && s.Conf.Words.Manifest != s.Conf.Phonemes.Manifest {
		_, err := manifest.Load(s.Conf.Words.Manifest)
		add("words manifest", err, s.Conf.Words.Manifest)
	}
	if s.Conf.Story.Enabled && s.Synth != nil {
		var err error
		if !supportsMarks(s.Synth) {
			err = apperrors.WrapWithDetail(apperrors.CodeMarksUnsupported, "Provider cannot return mark timepoints", s.Synth.Name(), nil)
		}
		add("story timepoints", err, s.Synth.Name())
	}
	return checks
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".assetgen-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(filepath.Clean(name))
}
