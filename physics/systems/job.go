package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/physika/physics/core"
)

// JobStart runs the work of a task. The result channel may be used to hand
// values to the completion callbacks.
type JobStart func(params interface{}, results chan<- interface{}) error

// JobResult is invoked after a task runs, with the results channel produced
// by the start function.
type JobResult func(results <-chan interface{})

type JobTask struct {
	InputParams          interface{}
	OnStart              JobStart
	OnComplete           JobResult
	OnFailure            JobResult
	OnCompletionCallback func()
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	jq := make(chan JobTask, channelSize)
	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   jq,
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				paramsChan := make(chan interface{}, 1)
				// Run the job and handle potential errors
				err := job.OnStart(job.InputParams, paramsChan)
				if err != nil {
					core.LogError(err.Error())
					if job.OnFailure != nil {
						job.OnFailure(paramsChan)
					}
				} else {
					if job.OnComplete != nil {
						job.OnComplete(paramsChan)
					}
				}

				// Call the completion callback if set
				if job.OnCompletionCallback != nil {
					job.OnCompletionCallback()
				}
			}
		}()
	}
}

/**
 * @brief Shuts the job system down.
 */
func (js *JobSystem) Shutdown() error {
	close(js.jobQueue)
	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution.
 * @param info The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt JobTask) {
	js.jobQueue <- jt
}

// defaultGrainSize is the smallest number of elements a single range task
// covers when fanning out with ParallelFor.
const defaultGrainSize = 10

/**
 * @brief Splits the half-open range [0, total) into chunks of at least
 * grain elements, submits each chunk as a task and blocks until all of
 * them finish. fn receives the [begin, end) bounds of its chunk and must
 * not touch elements outside of them.
 */
func (js *JobSystem) ParallelFor(total int, grain int, fn func(begin, end int)) {
	if total <= 0 {
		return
	}
	if grain <= 0 {
		grain = defaultGrainSize
	}
	if total <= grain {
		fn(0, total)
		return
	}

	var done sync.WaitGroup
	for begin := 0; begin < total; begin += grain {
		end := begin + grain
		if end > total {
			end = total
		}
		b, e := begin, end
		done.Add(1)
		js.Submit(JobTask{
			OnStart: func(_ interface{}, _ chan<- interface{}) error {
				fn(b, e)
				return nil
			},
			OnCompletionCallback: done.Done,
		})
	}
	done.Wait()
}
