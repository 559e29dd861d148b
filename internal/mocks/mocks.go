// Package mocks provides mock implementations of core interfaces for testing.
package mocks

import (
	"context"
	"sync"

	"phonics-audio/internal/types"

	"github.com/stretchr/testify/mock"
)

// MockSynthesizer is a mock implementation of types.Synthesizer and
// types.MarkSynthesizer.
type MockSynthesizer struct {
	mock.Mock
	// Marks is returned by SupportsMarks.
	Marks bool
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, req types.SynthesisRequest) (*types.SynthesisResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SynthesisResult), args.Error(1)
}

func (m *MockSynthesizer) Name() string { return "mock" }

func (m *MockSynthesizer) SupportsMarks() bool { return m.Marks }

// MockVoiceLister is a mock implementation of types.VoiceLister
type MockVoiceLister struct {
	mock.Mock
}

func (m *MockVoiceLister) ListVoices(ctx context.Context, languageCode string) ([]types.Voice, error) {
	args := m.Called(ctx, languageCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Voice), args.Error(1)
}

// RecordingRecorder collects pipeline results in memory.
type RecordingRecorder struct {
	mu      sync.Mutex
	Results []types.Result
	Jobs    []string
}

func (r *RecordingRecorder) Record(_ context.Context, job string, res types.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Jobs = append(r.Jobs, job)
	r.Results = append(r.Results, res)
}
