package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/logging"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

// ErrPoolClosed is returned by Run after Close.
var ErrPoolClosed = errors.New("orchestrator: worker pool closed")

// job is one message on a worker's inbox. A close job carries no payload and
// marks the end of a batch.
type job struct {
	ctx   context.Context
	close bool
	frame []byte
	reply chan<- reply
}

type reply struct {
	worker int
	frame  []byte
	err    error
}

type worker struct {
	id   int
	jobs chan job
}

// Pool is a fixed set of long-lived worker goroutines. Workers are started
// on the first Run and survive until Close; between batches they idle.
//
// Only the goroutine inside Run touches the pending list, the processed
// count and the collected results. Workers see nothing but encoded task
// frames and answer with encoded result frames.
type Pool struct {
	size       int
	run        RunFunc
	onProgress func(ProgressEvent)
	log        zerolog.Logger

	startOnce sync.Once
	mu        sync.Mutex // one batch at a time; guards closed
	closed    bool
	workers   []*worker
	wg        sync.WaitGroup
}

// NewPool creates a pool of size workers that lint with run. size is raised
// to 1 if smaller. onProgress may be nil; it is called from Run's goroutine.
func NewPool(size int, run RunFunc, onProgress func(ProgressEvent)) *Pool {
	return &Pool{
		size:       max(size, 1),
		run:        run,
		onProgress: onProgress,
		log:        logging.GetLogger("pool"),
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Run lints all variations on the workers and returns one entry per
// variation; nil entries are variations without a result. Result order does
// not follow input order. A failing variation is logged and contributes a
// nil entry; it never fails the batch. Run returns early only when ctx is
// done.
func (p *Pool) Run(ctx context.Context, templatePath string, variations []translate.Variation) ([]*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}
	p.start()

	total := len(variations)
	if total == 0 {
		return nil, nil
	}

	b := &batch{
		pool:         p,
		ctx:          ctx,
		templatePath: templatePath,
		variations:   variations,
		pending:      make([]int, total),
		replies:      make(chan reply, len(p.workers)),
		results:      make([]*Result, 0, total),
		inflight:     make(map[int]int, len(p.workers)),
	}
	for i := range b.pending {
		b.pending[i] = i
		p.emit(ProgressEvent{Template: templatePath, Variation: i, Kind: variations[i].Kind, Status: ProgressPending})
	}

	p.log.Debug().Str("template", templatePath).Int("variations", total).Int("workers", len(p.workers)).Msg("batch started")

	for _, w := range p.workers {
		if err := b.dispatch(w); err != nil {
			return nil, err
		}
	}

	for b.processed < total {
		select {
		case r := <-b.replies:
			b.record(r)
			if err := b.dispatch(p.workers[r.worker]); err != nil {
				return nil, err
			}
		case <-ctx.Done():
			p.log.Debug().Str("template", templatePath).Int("processed", b.processed).Msg("batch abandoned")
			return nil, ctx.Err()
		}
	}

	// Every worker has answered its last task, so each one is idle now.
	p.closeBatch(ctx)

	p.log.Debug().Str("template", templatePath).Int("results", len(b.results)).Msg("batch finished")
	return b.results, nil
}

// Close stops every worker and waits for them to exit. In-flight tasks of an
// abandoned batch finish first.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	for _, w := range p.workers {
		close(w.jobs)
	}
	p.wg.Wait()
}

// closeBatch sends the close message to every worker.
func (p *Pool) closeBatch(ctx context.Context) {
	for _, w := range p.workers {
		select {
		case w.jobs <- job{close: true}:
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pool) start() {
	p.startOnce.Do(func() {
		p.workers = make([]*worker, p.size)
		for i := range p.workers {
			w := &worker{id: i, jobs: make(chan job)}
			p.workers[i] = w
			p.wg.Add(1)
			go p.work(w)
		}
		p.log.Debug().Int("workers", p.size).Msg("worker pool started")
	})
}

// work is a worker's loop. Replies go to the batch's buffered channel, which
// holds one slot per worker, so a worker never blocks on an abandoned batch.
func (p *Pool) work(w *worker) {
	defer p.wg.Done()

	for j := range w.jobs {
		if j.close {
			p.log.Trace().Int("worker", w.id).Msg("worker idle")
			continue
		}
		frame, err := p.handle(j.ctx, j.frame)
		j.reply <- reply{worker: w.id, frame: frame, err: err}
	}
}

// handle decodes a task, lints it and encodes the answer. Panics become
// errors so the controller still gets exactly one reply.
func (p *Pool) handle(ctx context.Context, frame []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("orchestrator: worker panic: %v", r)
		}
	}()

	var task taskMessage
	if err := decodeMessage(frame, &task); err != nil {
		return nil, err
	}
	res, err := p.run(ctx, task.TemplatePath, task.Variation)
	if err != nil {
		return nil, err
	}
	return encodeMessage(resultMessage{Result: res})
}

func (p *Pool) emit(ev ProgressEvent) {
	if p.onProgress != nil {
		p.onProgress(ev)
	}
}

// batch is the controller state of one Run call.
type batch struct {
	pool         *Pool
	ctx          context.Context
	templatePath string
	variations   []translate.Variation
	pending      []int       // indexes into variations, popped from the tail
	inflight     map[int]int // worker id -> variation index
	replies      chan reply
	results      []*Result
	processed    int
}

// dispatch hands w the next pending variation, if any. A variation that
// cannot be encoded counts as a processed failure.
func (b *batch) dispatch(w *worker) error {
	for len(b.pending) > 0 {
		idx := b.pending[len(b.pending)-1]
		b.pending = b.pending[:len(b.pending)-1]
		v := b.variations[idx]

		frame, err := encodeMessage(taskMessage{TemplatePath: b.templatePath, Variation: v})
		if err != nil {
			b.processed++
			b.fail(idx, err)
			continue
		}

		select {
		case w.jobs <- job{ctx: b.ctx, frame: frame, reply: b.replies}:
		case <-b.ctx.Done():
			return b.ctx.Err()
		}
		b.inflight[w.id] = idx
		b.pool.emit(ProgressEvent{Template: b.templatePath, Variation: idx, Kind: v.Kind, Status: ProgressWorking})
		return nil
	}
	return nil
}

// record books a worker reply.
func (b *batch) record(r reply) {
	b.processed++
	idx := b.inflight[r.worker]
	delete(b.inflight, r.worker)

	if r.err != nil {
		b.fail(idx, r.err)
		return
	}

	var msg resultMessage
	if err := decodeMessage(r.frame, &msg); err != nil {
		b.fail(idx, err)
		return
	}

	status := ProgressComplete
	if msg.Result == nil {
		status = ProgressDropped
	}
	b.pool.emit(ProgressEvent{Template: b.templatePath, Variation: idx, Kind: b.variations[idx].Kind, Status: status})
	b.results = append(b.results, msg.Result)
}

// fail logs a failed variation and books it as an absent result.
func (b *batch) fail(idx int, err error) {
	b.results = append(b.results, nil)
	b.pool.log.Error().Err(err).
		Str("template", b.templatePath).
		Int("variation", idx).
		Msg("variation failed")
	b.pool.emit(ProgressEvent{
		Template:  b.templatePath,
		Variation: idx,
		Kind:      b.variations[idx].Kind,
		Status:    ProgressFailed,
		Message:   err.Error(),
	})
}
