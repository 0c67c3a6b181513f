package sift_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/sift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageKey(t *testing.T) {
	t.Parallel()

	t.Run("namespaces stage by prefix", func(t *testing.T) {
		t.Parallel()

		key := sift.StageKey("https://example.com/a", sift.StageExtract)

		assert.Equal(t, "https://example.com/a|extract", key)
	})

	t.Run("empty prefix returns bare stage", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, sift.StageSearch, sift.StageKey("", sift.StageSearch))
	})

	t.Run("split reverses key even when URL contains separator", func(t *testing.T) {
		t.Parallel()

		url := "https://example.com/?q=a|b"
		prefix, stage := sift.SplitStageKey(sift.StageKey(url, sift.StageNavigate))

		assert.Equal(t, url, prefix)
		assert.Equal(t, sift.StageNavigate, stage)
	})
}

func TestTimingLedger(t *testing.T) {
	t.Parallel()

	t.Run("records and converts to milliseconds", func(t *testing.T) {
		t.Parallel()

		ledger := sift.NewTimingLedger()
		ledger.Record(sift.StageTotal, 1500*time.Millisecond)
		ledger.Record(sift.StageSearch, 200*time.Millisecond)
		ledger.Record(sift.StageContent, 1200*time.Millisecond)
		ledger.Record(sift.StageKey("https://a.example", sift.StageFetch), 900*time.Millisecond)

		timing := ledger.Timing()

		assert.Equal(t, int64(1500), timing.Total)
		assert.Equal(t, int64(200), timing.Search)
		assert.Equal(t, int64(1200), timing.Content)
		assert.Equal(t, int64(900), timing.Stages["https://a.example|fetch"])
		assert.Len(t, timing.Stages, 4)
	})

	t.Run("track records elapsed time", func(t *testing.T) {
		t.Parallel()

		ledger := sift.NewTimingLedger()
		stop := ledger.Track(sift.StageSettle)
		time.Sleep(5 * time.Millisecond)
		stop()

		d, ok := ledger.Get(sift.StageSettle)
		require.True(t, ok)
		assert.GreaterOrEqual(t, d, 5*time.Millisecond)
	})

	t.Run("nil ledger discards entries", func(t *testing.T) {
		t.Parallel()

		var ledger *sift.TimingLedger
		ledger.Record(sift.StageTotal, time.Second)
		ledger.Track(sift.StageSearch)()

		_, ok := ledger.Get(sift.StageTotal)
		assert.False(t, ok)
		assert.Equal(t, 0, ledger.Len())
		assert.NotNil(t, ledger.Timing().Stages)
	})

	t.Run("concurrent writers with distinct keys", func(t *testing.T) {
		t.Parallel()

		ledger := sift.NewTimingLedger()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				url := fmt.Sprintf("https://example.com/%d", i)
				ledger.Record(sift.StageKey(url, sift.StageFetch), time.Duration(i)*time.Millisecond)
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 50, ledger.Len())
	})

	t.Run("missing aggregate stages are zero", func(t *testing.T) {
		t.Parallel()

		timing := sift.NewTimingLedger().Timing()

		assert.Zero(t, timing.Total)
		assert.Zero(t, timing.Search)
		assert.Zero(t, timing.Content)
		assert.Empty(t, timing.Stages)
	})
}

func TestTiming_URLStages(t *testing.T) {
	t.Parallel()

	ledger := sift.NewTimingLedger()
	ledger.Record(sift.StageSearch, 10*time.Millisecond)
	ledger.Record(sift.StageKey("https://a.example", sift.StageNavigate), 30*time.Millisecond)
	ledger.Record(sift.StageKey("https://a.example", sift.StageExtract), 4*time.Millisecond)
	ledger.Record(sift.StageKey("https://b.example", sift.StageNavigate), 50*time.Millisecond)

	stages := ledger.Timing().URLStages("https://a.example")

	assert.Equal(t, map[string]int64{
		sift.StageNavigate: 30,
		sift.StageExtract:  4,
	}, stages)
}
