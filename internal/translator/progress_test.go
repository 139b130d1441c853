package translator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_ReportsAfterEachUpdate(t *testing.T) {
	type snapshot struct {
		done    int
		percent float64
	}
	var seen []snapshot
	p := NewProgress(20, func(done, total int, percent float64) {
		assert.Equal(t, 20, total)
		seen = append(seen, snapshot{done, percent})
	})

	p.Update(5)
	p.Update(15)

	require.Len(t, seen, 2)
	assert.Equal(t, snapshot{5, 25.0}, seen[0])
	assert.Equal(t, snapshot{20, 100.0}, seen[1])
}

func TestProgress_ConcurrentUpdatesLoseNothing(t *testing.T) {
	const workers = 8
	const updatesPerWorker = 200

	p := NewProgress(workers*updatesPerWorker, nil)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := 0; u < updatesPerWorker; u++ {
				p.Update(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*updatesPerWorker, p.Done())
}

func TestProgress_ZeroTotalReportsZeroPercent(t *testing.T) {
	var lastPercent float64
	p := NewProgress(0, func(_, _ int, percent float64) {
		lastPercent = percent
	})
	p.Update(3)
	assert.Zero(t, lastPercent)
}

func TestProgress_NilReportIsSafe(t *testing.T) {
	p := NewProgress(10, nil)
	p.Update(4)
	assert.Equal(t, 4, p.Done())
}
