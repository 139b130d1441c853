package jobs

import (
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranslationRegistry(retention time.Duration) *Registry[TranslationJob] {
	return NewRegistry(retention, func(j TranslationJob) bool {
		return j.Status.Terminal()
	})
}

func TestRegistry_PutGet(t *testing.T) {
	r := newTranslationRegistry(0)
	r.Put("t1", TranslationJob{ID: "t1", Status: StatusStarting})

	job, ok := r.Get("t1")
	require.True(t, ok)
	assert.Equal(t, StatusStarting, job.Status)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_UpdateMutatesStoredValue(t *testing.T) {
	r := newTranslationRegistry(0)
	r.Put("t1", TranslationJob{ID: "t1", Status: StatusStarting})

	r.Update("t1", func(j *TranslationJob) {
		j.Status = StatusRunning
		j.Progress = 42.5
	})

	job, _ := r.Get("t1")
	assert.Equal(t, StatusRunning, job.Status)
	assert.Equal(t, 42.5, job.Progress)
}

func TestRegistry_UpdateUnknownIDIsNoop(t *testing.T) {
	r := newTranslationRegistry(0)
	r.Update("ghost", func(j *TranslationJob) {
		j.Status = StatusRunning
	})
	assert.Zero(t, r.Len())
}

func TestRegistry_GetReturnsSnapshot(t *testing.T) {
	r := newTranslationRegistry(0)
	r.Put("t1", TranslationJob{ID: "t1", Status: StatusRunning})

	job, _ := r.Get("t1")
	job.Status = StatusError

	stored, _ := r.Get("t1")
	assert.Equal(t, StatusRunning, stored.Status)
}

func TestRegistry_SweepRemovesOnlyExpiredTerminalJobs(t *testing.T) {
	r := newTranslationRegistry(time.Hour)
	r.Put("done-old", TranslationJob{ID: "done-old", Status: StatusFinished})
	r.Put("failed-old", TranslationJob{ID: "failed-old", Status: StatusError})
	r.Put("running-old", TranslationJob{ID: "running-old", Status: StatusRunning})
	r.Put("done-fresh", TranslationJob{ID: "done-fresh", Status: StatusFinished})

	// Everything above was just written, so a sweep two hours from now
	// expires the terminal entries while the running one survives on status.
	removed := r.Sweep(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 3, removed)

	_, ok := r.Get("running-old")
	assert.True(t, ok)
	_, ok = r.Get("done-old")
	assert.False(t, ok)
}

func TestRegistry_SweepKeepsFreshEntries(t *testing.T) {
	r := newTranslationRegistry(time.Hour)
	r.Put("t1", TranslationJob{ID: "t1", Status: StatusFinished})

	assert.Zero(t, r.Sweep(time.Now()))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_UpdateRefreshesSweepClock(t *testing.T) {
	r := newTranslationRegistry(time.Hour)
	r.Put("t1", TranslationJob{ID: "t1", Status: StatusRunning})

	// Finishing the job now restarts its retention window.
	r.Update("t1", func(j *TranslationJob) { j.Status = StatusFinished })

	assert.Zero(t, r.Sweep(time.Now().Add(30*time.Minute)))
	assert.Equal(t, 1, r.Sweep(time.Now().Add(2*time.Hour)))
}

func TestRegistry_ScheduleSweep(t *testing.T) {
	r := newTranslationRegistry(time.Hour)
	c := cron.New()
	_, err := r.ScheduleSweep(c, "@every 10m")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := newTranslationRegistry(0)
	r.Put("t1", TranslationJob{ID: "t1", Status: StatusRunning})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				r.Update("t1", func(j *TranslationJob) { j.Progress++ })
				r.Get("t1")
			}
		}()
	}
	wg.Wait()

	job, _ := r.Get("t1")
	assert.Equal(t, float64(800), job.Progress)
}
