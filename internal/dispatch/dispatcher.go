package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/hy4ri/todoist-tree/internal/api"
)

const (
	// DefaultWorkers bounds concurrent requests to the API.
	DefaultWorkers = 5
	// DefaultResultBuffer is how many results may wait unread.
	DefaultResultBuffer = 64
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("dispatcher closed")

// Remote is the subset of the API client the dispatcher drives.
type Remote interface {
	CreateTask(ctx context.Context, req api.CreateTaskRequest) (*api.Task, error)
	UpdateTask(ctx context.Context, id string, req api.UpdateTaskRequest) (*api.Task, error)
	CloseTask(ctx context.Context, id string) error
	DeleteTask(ctx context.Context, id string) error
}

// Options configures a Dispatcher. Zero values pick the defaults.
type Options struct {
	Workers      int
	ResultBuffer int
	Timeout      time.Duration
	Logger       *log.Logger
}

// Dispatcher queues jobs and executes them on a bounded set of goroutines.
type Dispatcher struct {
	remote  Remote
	logger  *log.Logger
	sem     *semaphore.Weighted
	timeout time.Duration
	results chan Result

	mu      sync.Mutex
	pending []Job
	closed  bool
	wake    chan struct{}
}

// New creates a dispatcher. Nothing runs until Run is called.
func New(remote Remote, opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.ResultBuffer <= 0 {
		opts.ResultBuffer = DefaultResultBuffer
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &Dispatcher{
		remote:  remote,
		logger:  opts.Logger.WithPrefix("dispatch"),
		sem:     semaphore.NewWeighted(int64(opts.Workers)),
		timeout: opts.Timeout,
		results: make(chan Result, opts.ResultBuffer),
		wake:    make(chan struct{}, 1),
	}
}

// Submit enqueues jobs. It never blocks on the network or on workers.
func (d *Dispatcher) Submit(jobs ...Job) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.pending = append(d.pending, jobs...)
	d.mu.Unlock()

	d.signal()
	return nil
}

// Pending returns the number of jobs not yet started.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Results delivers one Result per job. It is closed when Run returns.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

// Close stops accepting jobs. Run finishes the queued work and returns.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.signal()
}

// Run executes jobs until Close has been called and the queue is empty,
// or until ctx is cancelled. It must be called once.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.results)

	g, gctx := errgroup.WithContext(ctx)
	for {
		job, ok := d.next(ctx)
		if !ok {
			break
		}
		if err := d.sem.Acquire(ctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer d.sem.Release(1)
			d.deliver(gctx, d.execute(gctx, job))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (d *Dispatcher) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) next(ctx context.Context) (Job, bool) {
	for {
		d.mu.Lock()
		if len(d.pending) > 0 {
			job := d.pending[0]
			d.pending = d.pending[1:]
			d.mu.Unlock()
			return job, true
		}
		closed := d.closed
		d.mu.Unlock()

		if closed {
			return Job{}, false
		}

		select {
		case <-d.wake:
		case <-ctx.Done():
			return Job{}, false
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, res Result) {
	select {
	case d.results <- res:
	case <-ctx.Done():
		d.logger.Warn("result dropped", "job", res.Job, "err", res.Err)
	}
}

func (d *Dispatcher) execute(ctx context.Context, job Job) Result {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	d.logger.Debug("running", "job", job, "id", job.ID)
	res := Result{Job: job}

	switch job.Op {
	case OpCreate:
		if job.Create == nil {
			res.Err = fmt.Errorf("%s: missing request", job)
			break
		}
		res.Task, res.Err = d.remote.CreateTask(ctx, *job.Create)
	case OpUpdate:
		if job.Update == nil {
			res.Err = fmt.Errorf("%s: missing request", job)
			break
		}
		res.Task, res.Err = d.remote.UpdateTask(ctx, job.TaskID, *job.Update)
	case OpClose:
		res.Err = alreadyGone(d.remote.CloseTask(ctx, job.TaskID))
	case OpDelete:
		res.Err = alreadyGone(d.remote.DeleteTask(ctx, job.TaskID))
	default:
		res.Err = fmt.Errorf("%s: unknown op", job)
	}

	if res.Err != nil {
		d.logger.Warn("failed", "job", job, "err", res.Err)
	}
	return res
}

// alreadyGone treats a 404 as success. Completing or deleting a parent
// takes its subtasks with it, so the follow-up requests for those
// subtasks may find nothing left.
func alreadyGone(err error) error {
	if apiErr, ok := api.IsAPIError(err); ok && apiErr.IsNotFound() {
		return nil
	}
	return err
}
