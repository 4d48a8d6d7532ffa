// Package application wires the processor to its triggers: DMS event
// batches, full syncs and reference data loads.
package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ftrs/dos-migration/internal/domain/legacy"
	"github.com/ftrs/dos-migration/internal/domain/migrationrun"
	"github.com/ftrs/dos-migration/internal/migration/events"
	"github.com/ftrs/dos-migration/internal/migration/metadata"
	"github.com/ftrs/dos-migration/internal/migration/processor"
	"github.com/ftrs/dos-migration/internal/referencedata"
	"github.com/ftrs/dos-migration/internal/platform/logging"
	"github.com/ftrs/dos-migration/internal/platform/metrics"
)

// ErrInvalidEvent is returned when a message body cannot be parsed.
var ErrInvalidEvent = events.ErrInvalidEvent

type Settings struct {
	Env       string
	Workspace string
}

type Deps struct {
	Services   legacy.ServiceRepository
	References legacy.ReferenceRepository
	Stores     processor.Stores
	Runs       migrationrun.Repository
	// ReferenceData is optional; reference data events fail without it.
	ReferenceData *referencedata.Loader
	Options       []processor.Option
}

type Application struct {
	log       *logging.Logger
	settings  Settings
	processor *processor.Processor
	runs      migrationrun.Repository
	refdata   *referencedata.Loader
	now       func() time.Time

	// mu serialises runs; the processor counters are per run.
	mu sync.Mutex
}

func New(log *logging.Logger, settings Settings, deps Deps) *Application {
	log = log.
		With("run_id", uuid.NewString()).
		With("env", settings.Env).
		With("workspace", settings.Workspace)

	return &Application{
		log:       log,
		settings:  settings,
		processor: processor.New(log, deps.Services, metadata.New(deps.References), deps.Stores, deps.Options...),
		runs:      deps.Runs,
		refdata:   deps.ReferenceData,
		now:       time.Now,
	}
}

func (a *Application) Processor() *processor.Processor { return a.processor }

// HandleBatch processes every message of a DMS event batch. An unparsable
// message stops the batch with ErrInvalidEvent.
func (a *Application) HandleBatch(ctx context.Context, batch *events.Batch) (processor.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	m := a.processor.Metrics()
	m.Reset()
	a.log.Log(logging.DMETL000, logging.Fields{"message_count": len(batch.Records)})

	var err error
	for _, msg := range batch.Records {
		var evt *events.DMSEvent
		evt, err = events.ParseDMSEvent([]byte(msg.Body))
		if err != nil {
			a.log.Log(logging.DMETL009, logging.Fields{"error": err.Error(), "event": msg.Body, "message_id": msg.ID})
			break
		}
		if err = a.handleDMSEvent(ctx, evt); err != nil {
			break
		}
	}
	metrics.IncRun(migrationrun.TriggerEvents, err)
	if err != nil {
		return m.Snapshot(), err
	}

	snap := m.Snapshot()
	a.log.Log(logging.DMETL999, logging.Fields{"metrics": snap.Fields()})
	return snap, nil
}

func (a *Application) handleDMSEvent(ctx context.Context, evt *events.DMSEvent) error {
	if evt.Method != events.MethodInsert && evt.Method != events.MethodUpdate {
		a.log.Log(logging.DMETL010, logging.Fields{"method": evt.Method, "event": evt})
		return nil
	}
	if evt.TableName != events.TableServices {
		a.log.Log(logging.DMETL011, logging.Fields{"table_name": evt.TableName, "method": evt.Method, "event": evt})
		return nil
	}
	return a.processor.SyncOne(ctx, evt.RecordID)
}

// HandleService runs one service outside a batch.
func (a *Application) HandleService(ctx context.Context, id int64) (processor.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	m := a.processor.Metrics()
	m.Reset()
	err := a.processor.SyncOne(ctx, id)
	return m.Snapshot(), err
}

// HandleFullSync migrates every legacy service and records the run.
func (a *Application) HandleFullSync(ctx context.Context) (*migrationrun.Run, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	run := &migrationrun.Run{
		ID:        uuid.New(),
		Trigger:   migrationrun.TriggerFullSync,
		Env:       a.settings.Env,
		Workspace: a.settings.Workspace,
		Status:    migrationrun.StatusRunning,
		StartedAt: a.now().UTC(),
	}
	if a.runs != nil {
		if err := a.runs.Create(ctx, run); err != nil {
			return nil, fmt.Errorf("record migration run: %w", err)
		}
	}

	m := a.processor.Metrics()
	m.Reset()
	a.log.Log(logging.DMETL000, logging.Fields{"trigger": run.Trigger, "migration_run": run.ID})

	syncErr := a.processor.SyncAll(ctx)
	run.Finish(a.now().UTC(), Counts(m.Snapshot()), syncErr)
	metrics.IncRun(run.Trigger, syncErr)

	if a.runs != nil {
		// The run row is written even when the context was cancelled.
		if err := a.runs.Update(context.WithoutCancel(ctx), run); err != nil {
			return run, errors.Join(syncErr, fmt.Errorf("record migration run: %w", err))
		}
	}
	a.log.Log(logging.DMETL018, logging.Fields{"run_id": run.ID, "status": run.Status})
	if syncErr != nil {
		return run, syncErr
	}
	a.log.Log(logging.DMETL999, logging.Fields{"metrics": m.Snapshot().Fields()})
	return run, nil
}

// HandleReferenceData runs the load named by the event type.
func (a *Application) HandleReferenceData(ctx context.Context, evt events.ReferenceDataEvent) (referencedata.Summary, error) {
	if a.refdata == nil {
		return referencedata.Summary{}, fmt.Errorf("reference data loader is not configured")
	}
	return a.refdata.Handle(ctx, evt.Type)
}

// Counts converts processor counters to run counters.
func Counts(s processor.Snapshot) migrationrun.Counts {
	return migrationrun.Counts{
		TotalRecords:       s.TotalRecords,
		SupportedRecords:   s.SupportedRecords,
		UnsupportedRecords: s.UnsupportedRecords,
		TransformedRecords: s.TransformedRecords,
		MigratedRecords:    s.MigratedRecords,
		SkippedRecords:     s.SkippedRecords,
		InvalidRecords:     s.InvalidRecords,
		Errors:             s.Errors,
	}
}
