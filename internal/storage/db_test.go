package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"phonics-audio/internal/appdirs"
	"phonics-audio/internal/types"
	apperrors "phonics-audio/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDBPathUsesCacheDir(t *testing.T) {
	originalResolver := appDirsResolver
	t.Cleanup(func() {
		appDirsResolver = originalResolver
	})

	tempDir := t.TempDir()
	cacheDir := filepath.Join(tempDir, "cache-root")
	appDirsResolver = func() (appdirs.Paths, error) {
		return appdirs.Paths{
			OutputDir: filepath.Join(tempDir, "output-root"),
			CacheDir:  cacheDir,
		}, nil
	}

	got, err := resolveDBPath()
	if err != nil {
		t.Fatalf("resolveDBPath() returned error: %v", err)
	}

	want := filepath.Join(cacheDir, "assetgen.db")
	if got != want {
		t.Fatalf("resolveDBPath() = %q, want %q", got, want)
	}
}

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "nested", "assetgen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestSaveRecordUpserts(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	first := types.RecordFromResult("letters", "run-1", types.Result{
		UnitID: "A", Accent: "us", Status: types.AssetStatusFailed, Err: errors.New("503"),
	})
	require.NoError(t, l.SaveRecord(ctx, &first))

	second := types.RecordFromResult("letters", "run-2", types.Result{
		UnitID: "A", Accent: "us", Status: types.AssetStatusGenerated, Bytes: 42,
		Path: "public/sounds/letters/us_A.mp3", PublicPath: "/sounds/letters/us_A.mp3",
	})
	require.NoError(t, l.SaveRecord(ctx, &second))
	assert.Equal(t, first.ID, second.ID)

	got, err := l.GetRecord(ctx, "letters", "us", "A")
	require.NoError(t, err)
	assert.Equal(t, "generated", got.Status)
	assert.Equal(t, "run-2", got.RunID)
	assert.Empty(t, got.Error)
	assert.Equal(t, 42, got.Bytes)

	all, err := l.ListRecords(ctx, RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetRecordNotFound(t *testing.T) {
	l := openTestLedger(t)
	_, err := l.GetRecord(context.Background(), "letters", "us", "Q")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestListRecordsFilters(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()
	rec := RunRecorder{Ledger: l, RunID: "run-1"}

	rec.Record(ctx, "letters", types.Result{UnitID: "A", Accent: "us", Status: types.AssetStatusGenerated})
	rec.Record(ctx, "letters", types.Result{UnitID: "B", Accent: "us", Status: types.AssetStatusFailed, Err: errors.New("x")})
	rec.Record(ctx, "phonemes", types.Result{UnitID: "b", Accent: "gb", Status: types.AssetStatusSkipped})

	letters, err := l.ListRecords(ctx, RecordFilter{Job: "letters"})
	require.NoError(t, err)
	assert.Len(t, letters, 2)

	failed, err := l.ListRecords(ctx, RecordFilter{Status: "failed"})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "B", failed[0].UnitID)
	assert.Equal(t, "x", failed[0].Error)

	limited, err := l.ListRecords(ctx, RecordFilter{RunID: "run-1", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRunSummary(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.StartRun(ctx, "run-9", "story", "google"))
	run, err := l.Summary(ctx, "run-9")
	require.NoError(t, err)
	assert.Nil(t, run.FinishedAt)

	require.NoError(t, l.FinishRun(ctx, "run-9", 3, 2, 1, 0))
	run, err = l.Summary(ctx, "run-9")
	require.NoError(t, err)
	assert.Equal(t, 3, run.Generated)
	assert.Equal(t, 2, run.Skipped)
	assert.Equal(t, 1, run.Failed)
	assert.NotNil(t, run.FinishedAt)

	runs, err := l.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	_, err = l.Summary(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestRunRecorderConcurrent(t *testing.T) {
	l := openTestLedger(t)
	rec := RunRecorder{Ledger: l, RunID: "run-c"}

	var wg sync.WaitGroup
	for _, accent := range []string{"us", "gb", "in"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Record(context.Background(), "letters", types.Result{UnitID: "A", Accent: accent, Status: types.AssetStatusGenerated})
		}()
	}
	wg.Wait()

	recs, err := l.ListRecords(context.Background(), RecordFilter{RunID: "run-c"})
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}
