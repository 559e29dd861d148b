package pipeline

import (
	"fmt"

	"phonics-audio/internal/types"

	"github.com/samber/lo"
)

type Summary struct {
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Unmapped  int `json:"unmapped"`
}

func (s Summary) Total() int {
	return s.Generated + s.Skipped + s.Failed + s.Unmapped
}

func (s Summary) String() string {
	return fmt.Sprintf("generated=%d skipped=%d failed=%d unmapped=%d",
		s.Generated, s.Skipped, s.Failed, s.Unmapped)
}

func Summarize(results []types.Result) Summary {
	count := func(status types.AssetStatus) int {
		return lo.CountBy(results, func(r types.Result) bool { return r.Status == status })
	}
	return Summary{
		Generated: count(types.AssetStatusGenerated),
		Skipped:   count(types.AssetStatusSkipped),
		Failed:    count(types.AssetStatusFailed),
		Unmapped:  count(types.AssetStatusUnmapped),
	}
}

// Failures returns the failed results in order.
func Failures(results []types.Result) []types.Result {
	return lo.Filter(results, func(r types.Result, _ int) bool {
		return r.Status == types.AssetStatusFailed
	})
}
