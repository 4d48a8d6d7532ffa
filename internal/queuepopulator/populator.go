// Package queuepopulator enqueues a DMS insert event for every selected
// legacy service.
package queuepopulator

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ftrs/dos-migration/internal/domain/legacy"
	"github.com/ftrs/dos-migration/internal/migration/events"
	"github.com/ftrs/dos-migration/internal/platform/logging"
	"github.com/ftrs/dos-migration/internal/platform/metrics"
)

// MaxBatchSize is the most messages a single batch may carry.
const MaxBatchSize = 10

// Filter restricts the services enqueued. Nil slices match everything.
type Filter struct {
	TypeIDs   []int64 `json:"type_ids,omitempty"`
	StatusIDs []int64 `json:"status_ids,omitempty"`
}

// Result totals one populate run.
type Result struct {
	Total   int `json:"total"`
	Batches int `json:"batches"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

type Config struct {
	Workers   int
	RateLimit float64
	BatchSize int
}

type Populator struct {
	log       *logging.Logger
	services  legacy.ServiceRepository
	sender    Sender
	workers   int
	batchSize int
	limiter   *rate.Limiter
}

func New(log *logging.Logger, services legacy.ServiceRepository, sender Sender, cfg Config) *Populator {
	p := &Populator{
		log:       log,
		services:  services,
		sender:    sender,
		workers:   cfg.Workers,
		batchSize: cfg.BatchSize,
		limiter:   rate.NewLimiter(rate.Inf, 0),
	}
	if p.workers <= 0 {
		p.workers = 10
	}
	if p.batchSize <= 0 || p.batchSize > MaxBatchSize {
		p.batchSize = MaxBatchSize
	}
	if cfg.RateLimit > 0 {
		// The limiter counts messages, so a full batch must fit in one burst.
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), p.batchSize)
	}
	return p
}

// Batches splits ids into service insert batches of at most size events.
func Batches(ids []int64, size int) [][]events.DMSEvent {
	var out [][]events.DMSEvent
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batch := make([]events.DMSEvent, 0, end-start)
		for _, id := range ids[start:end] {
			batch = append(batch, events.NewServiceInsert(id))
		}
		out = append(out, batch)
	}
	return out
}

// Populate sends every batch through the worker pool. A failed send is
// logged and counted; only a failure to read the ids is returned.
func (p *Populator) Populate(ctx context.Context, f Filter) (Result, error) {
	p.log.Log(logging.DMQP000, logging.Fields{"type_ids": f.TypeIDs, "status_ids": f.StatusIDs})

	ids, err := p.services.ListServiceIDs(ctx, f.TypeIDs, f.StatusIDs)
	if err != nil {
		return Result{}, fmt.Errorf("list service ids: %w", err)
	}
	p.log.Log(logging.DMQP001, logging.Fields{"count": len(ids)})

	batches := Batches(ids, p.batchSize)
	res := Result{Total: len(ids), Batches: len(batches)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			ok := p.send(gctx, batch)
			mu.Lock()
			if ok {
				res.Sent += len(batch)
			} else {
				res.Failed += len(batch)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	p.log.Log(logging.DMQP999, logging.Fields{"sent": res.Sent, "failed": res.Failed})
	return res, ctx.Err()
}

func (p *Populator) send(ctx context.Context, batch []events.DMSEvent) bool {
	count := len(batch)
	ids := make([]int64, 0, count)
	for _, e := range batch {
		ids = append(ids, e.RecordID)
	}

	fail := func(err error) bool {
		p.log.Log(logging.DMQP003, logging.Fields{"count": count, "record_ids": ids, "error": err.Error()})
		metrics.AddQueueMessages(false, count)
		return false
	}

	if err := p.limiter.WaitN(ctx, count); err != nil {
		return fail(fmt.Errorf("rate limiter: %w", err))
	}
	msg, err := events.NewBatch(batch)
	if err != nil {
		return fail(err)
	}

	p.log.Log(logging.DMQP002, logging.Fields{"count": count})
	if err := p.sender.Send(ctx, msg); err != nil {
		return fail(err)
	}
	p.log.Log(logging.DMQP004, logging.Fields{"count": count, "record_ids": ids})
	metrics.AddQueueMessages(true, count)
	return true
}
