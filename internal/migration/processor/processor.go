// Package processor drives legacy services through selection, validation,
// transformation and persistence.
package processor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/ftrs/dos-migration/internal/domain/healthcareservice"
	"github.com/ftrs/dos-migration/internal/domain/legacy"
	"github.com/ftrs/dos-migration/internal/domain/location"
	"github.com/ftrs/dos-migration/internal/domain/organisation"
	"github.com/ftrs/dos-migration/internal/migration/formatting"
	"github.com/ftrs/dos-migration/internal/migration/metadata"
	"github.com/ftrs/dos-migration/internal/migration/transformer"
	"github.com/ftrs/dos-migration/internal/migration/validation"
	"github.com/ftrs/dos-migration/internal/platform/logging"
	"github.com/ftrs/dos-migration/internal/platform/metrics"
)

// ErrServiceNotFound is returned by SyncOne for an id absent from the
// legacy store.
var ErrServiceNotFound = errors.New("service not found")

// DefaultBatchSize is the number of services read per page in SyncAll.
const DefaultBatchSize = 1000

// Stores are the target repositories a transform output is written to.
type Stores struct {
	Organisations      organisation.Repository
	Locations          location.Repository
	HealthcareServices healthcareservice.HealthcareServiceRepository
}

// Atomic runs fn so that every write it makes commits or none do.
type Atomic func(ctx context.Context, fn func(ctx context.Context) error) error

type Processor struct {
	log       *logging.Logger
	services  legacy.ServiceRepository
	meta      *metadata.Cache
	addresses *formatting.AddressFormatter
	stores    Stores
	defs      []transformer.Definition
	atomic    Atomic
	recorder  Recorder
	batchSize int
	now       func() time.Time
	metrics   Metrics
}

type Option func(*Processor)

// WithDefinitions replaces the transformer registry.
func WithDefinitions(defs []transformer.Definition) Option {
	return func(p *Processor) { p.defs = defs }
}

// WithAtomic persists each output inside fn.
func WithAtomic(fn Atomic) Option {
	return func(p *Processor) { p.atomic = fn }
}

func WithRecorder(r Recorder) Option {
	return func(p *Processor) { p.recorder = r }
}

func WithBatchSize(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

func WithAddressFormatter(f *formatting.AddressFormatter) Option {
	return func(p *Processor) { p.addresses = f }
}

func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

func New(log *logging.Logger, services legacy.ServiceRepository, meta *metadata.Cache, stores Stores, opts ...Option) *Processor {
	p := &Processor{
		log:       log,
		services:  services,
		meta:      meta,
		stores:    stores,
		defs:      transformer.Registry,
		batchSize: DefaultBatchSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.addresses == nil {
		p.addresses = formatting.NewAddressFormatter(log, nil)
	}
	if p.atomic == nil {
		p.atomic = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return p
}

// Metrics returns the counters of the current run.
func (p *Processor) Metrics() *Metrics { return &p.metrics }

// SyncAll processes every legacy service. A failing record, including one
// the source could only partly read, is counted and skipped; only a failed
// source query stops the run.
func (p *Processor) SyncAll(ctx context.Context) error {
	return p.services.StreamServices(ctx, p.batchSize, func(s *legacy.Service) error {
		p.ProcessService(ctx, s)
		return nil
	})
}

// SyncOne processes a single service by id.
func (p *Processor) SyncOne(ctx context.Context, id int64) error {
	s, err := p.services.GetService(ctx, id)
	if errors.Is(err, legacy.ErrNotFound) {
		return fmt.Errorf("service with id %d: %w", id, ErrServiceNotFound)
	}
	if err != nil {
		return fmt.Errorf("load service %d: %w", id, err)
	}
	p.ProcessService(ctx, s)
	return nil
}

// ProcessService runs one record through the pipeline. Every error or
// panic is contained here and counted.
func (p *Processor) ProcessService(ctx context.Context, s *legacy.Service) {
	log := p.log.With("record_id", s.ID)
	log.Log(logging.DMETL001, logging.Fields{"record": s})

	start := time.Now()
	outcome := Outcome{RecordID: s.ID}
	defer func() {
		if r := recover(); r != nil {
			var stack [4096]byte
			n := runtime.Stack(stack[:], false)
			p.metrics.add(func(m *Snapshot) { m.Errors++ })
			log.Log(logging.DMETL008, logging.Fields{
				"error": fmt.Sprintf("panic: %v", r),
				"stack": string(stack[:n]),
			})
			outcome.State = StateError
			outcome.Reason = fmt.Sprintf("panic: %v", r)
		}
		outcome.Duration = time.Since(start)
		metrics.ObserveRecord(string(outcome.State), outcome.Duration)
		if p.recorder != nil {
			p.recorder.Record(outcome)
		}
	}()

	if err := p.process(ctx, log, s, &outcome, start); err != nil {
		p.metrics.add(func(m *Snapshot) { m.Errors++ })
		log.Log(logging.DMETL008, logging.Fields{"error": err.Error()})
		outcome.State = StateError
		outcome.Reason = err.Error()
	}
}

func (p *Processor) process(ctx context.Context, log *logging.Logger, s *legacy.Service, outcome *Outcome, start time.Time) error {
	p.metrics.add(func(m *Snapshot) { m.TotalRecords++ })
	if s.LoadErr != nil {
		return fmt.Errorf("load service %d: %w", s.ID, s.LoadErr)
	}

	def := p.selectTransformer(log, s)
	if def == nil {
		p.metrics.add(func(m *Snapshot) { m.UnsupportedRecords++ })
		outcome.State = StateUnsupported
		outcome.Reason = "No suitable transformer found"
		log.Log(logging.DMETL004, logging.Fields{"reason": outcome.Reason})
		return nil
	}
	outcome.Transformer = def.Name()
	p.metrics.add(func(m *Snapshot) { m.SupportedRecords++ })

	if ok, reason := def.ShouldInclude(s); !ok {
		p.metrics.add(func(m *Snapshot) { m.SkippedRecords++ })
		outcome.State = StateSkipped
		outcome.Reason = reason
		log.Log(logging.DMETL005, logging.Fields{"reason": reason})
		return nil
	}

	result := def.Validator.Validate(s.Clone())
	outcome.Issues = validation.Notes(result.Issues)
	if !result.IsValid() {
		log.Log(logging.DMETL013, logging.Fields{
			"record_id":   s.ID,
			"issue_count": len(result.Issues),
			"issues":      validation.ToOperationOutcome(result.Issues),
		})
	}
	if !result.ShouldContinue() {
		p.metrics.add(func(m *Snapshot) { m.InvalidRecords++ })
		outcome.State = StateInvalid
		log.Log(logging.DMETL014, logging.Fields{"record_id": s.ID})
		return nil
	}

	builder := transformer.NewBuilder(log, p.meta, p.addresses, p.now())
	out, err := def.Transform(ctx, builder, result.Sanitised, outcome.Issues)
	if err != nil {
		return fmt.Errorf("transform with %s: %w", def.Name(), err)
	}
	p.metrics.add(func(m *Snapshot) { m.TransformedRecords++ })
	log.Log(logging.DMETL006, logging.Fields{
		"transformer_name":   def.Name(),
		"original_record":    s,
		"transformed_record": out,
	})

	if err := p.save(ctx, out); err != nil {
		return err
	}
	p.metrics.add(func(m *Snapshot) { m.MigratedRecords++ })
	outcome.State = StateMigrated

	log.Log(logging.DMETL007, logging.Fields{
		"elapsed_time":             time.Since(start).Seconds(),
		"transformer_name":         def.Name(),
		"healthcare_service_count": len(out.HealthcareServices),
		"location_count":           len(out.Locations),
		"organisation_count":       len(out.Organisations),
		"healthcare_service_ids":   healthcareServiceIDs(out),
		"location_ids":             locationIDs(out),
		"organisation_ids":         organisationIDs(out),
	})
	return nil
}

func (p *Processor) selectTransformer(log *logging.Logger, s *legacy.Service) *transformer.Definition {
	def, misses := transformer.Select(p.defs, s)
	for _, miss := range misses {
		log.Log(logging.DMETL002, logging.Fields{"transformer_name": string(miss.Kind), "reason": miss.Reason})
	}
	if def != nil {
		log.Log(logging.DMETL003, logging.Fields{"transformer_name": def.Name()})
	}
	return def
}

// save writes organisations, then locations, then healthcare services.
func (p *Processor) save(ctx context.Context, out *transformer.Output) error {
	return p.atomic(ctx, func(ctx context.Context) error {
		for _, org := range out.Organisations {
			if err := p.stores.Organisations.Upsert(ctx, org); err != nil {
				return fmt.Errorf("save organisation %s: %w", org.ID, err)
			}
		}
		for _, loc := range out.Locations {
			if err := p.stores.Locations.Upsert(ctx, loc); err != nil {
				return fmt.Errorf("save location %s: %w", loc.ID, err)
			}
		}
		for _, hs := range out.HealthcareServices {
			if err := p.stores.HealthcareServices.Upsert(ctx, hs); err != nil {
				return fmt.Errorf("save healthcare service %s: %w", hs.ID, err)
			}
		}
		return nil
	})
}

// Preview transforms one service without persisting it. It returns nil
// output with the reason when the service would not be migrated.
func (p *Processor) Preview(ctx context.Context, id int64) (*transformer.Output, *validation.Result, string, error) {
	s, err := p.services.GetService(ctx, id)
	if errors.Is(err, legacy.ErrNotFound) {
		return nil, nil, "", fmt.Errorf("service with id %d: %w", id, ErrServiceNotFound)
	}
	if err != nil {
		return nil, nil, "", fmt.Errorf("load service %d: %w", id, err)
	}
	if s.LoadErr != nil {
		return nil, nil, "", fmt.Errorf("load service %d: %w", id, s.LoadErr)
	}

	def, _ := transformer.Select(p.defs, s)
	if def == nil {
		return nil, nil, "No suitable transformer found", nil
	}
	if ok, reason := def.ShouldInclude(s); !ok {
		return nil, nil, reason, nil
	}
	result := def.Validator.Validate(s.Clone())
	if !result.ShouldContinue() {
		return nil, result, "Record failed validation", nil
	}
	out, err := def.Transform(ctx, transformer.NewBuilder(p.log, p.meta, p.addresses, p.now()), result.Sanitised, validation.Notes(result.Issues))
	if err != nil {
		return nil, result, "", fmt.Errorf("transform with %s: %w", def.Name(), err)
	}
	return out, result, "", nil
}

func organisationIDs(out *transformer.Output) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(out.Organisations))
	for _, o := range out.Organisations {
		ids = append(ids, o.ID)
	}
	return ids
}

func locationIDs(out *transformer.Output) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(out.Locations))
	for _, l := range out.Locations {
		ids = append(ids, l.ID)
	}
	return ids
}

func healthcareServiceIDs(out *transformer.Output) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(out.HealthcareServices))
	for _, hs := range out.HealthcareServices {
		ids = append(ids, hs.ID)
	}
	return ids
}
