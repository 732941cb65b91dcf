package systems

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemValidation(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)

	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobSystemRunsTasks(t *testing.T) {
	js, err := NewJobSystem(4, 8)
	require.NoError(t, err)

	var ran atomic.Int32
	var done sync.WaitGroup
	for i := 0; i < 20; i++ {
		done.Add(1)
		js.Submit(JobTask{
			OnStart: func(_ interface{}, _ chan<- interface{}) error {
				ran.Add(1)
				return nil
			},
			OnCompletionCallback: done.Done,
		})
	}
	done.Wait()
	require.NoError(t, js.Shutdown())

	assert.Equal(t, int32(20), ran.Load())
}

func TestJobSystemFailureCallback(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)

	failed := make(chan struct{})
	js.Submit(JobTask{
		OnStart: func(_ interface{}, _ chan<- interface{}) error {
			return assert.AnError
		},
		OnFailure: func(_ <-chan interface{}) {
			close(failed)
		},
	})
	<-failed
	require.NoError(t, js.Shutdown())
}

func TestParallelForCoversRangeExactlyOnce(t *testing.T) {
	js, err := NewJobSystem(4, 16)
	require.NoError(t, err)
	defer js.Shutdown()

	const total = 103
	hits := make([]atomic.Int32, total)
	js.ParallelFor(total, 10, func(begin, end int) {
		for i := begin; i < end; i++ {
			hits[i].Add(1)
		}
	})

	for i := range hits {
		assert.Equal(t, int32(1), hits[i].Load(), "index %d", i)
	}
}

func TestParallelForSmallRangeRunsInline(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	require.NoError(t, err)
	defer js.Shutdown()

	var count int
	js.ParallelFor(5, 10, func(begin, end int) {
		count += end - begin
	})
	assert.Equal(t, 5, count)

	js.ParallelFor(0, 10, func(begin, end int) {
		t.Fatal("must not be called for an empty range")
	})
}
