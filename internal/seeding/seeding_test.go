package seeding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ftrs/dos-migration/internal/platform/docstore"
	"github.com/ftrs/dos-migration/internal/platform/logging"
	"github.com/ftrs/dos-migration/internal/platform/objectstore"
)

const bucket = "ftrs-dos-dev-data-migration-pipeline-store"

func seedDocs(t *testing.T, store *docstore.MemoryStore, table string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("%04d", i)
		doc := json.RawMessage(fmt.Sprintf(`{"id":%q,"name":"Service %d"}`, key, i))
		if err := store.Put(context.Background(), table, key, doc); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
}

func newSeeder(t *testing.T, docs docstore.Store) (*Seeder, *objectstore.MemoryStore, *logging.Capture) {
	t.Helper()
	log, capture := logging.NewCapture()
	objects := objectstore.NewMemoryStore()
	s := New(log, docs, objects, bucket)
	s.now = func() time.Time { return time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC) }
	return s, objects, capture
}

func TestTables(t *testing.T) {
	got := Tables("ftrs-dos", "test", "fdos-1")(docstore.EntityLocation)
	if got != "ftrs-dos-test-database-location-fdos-1" {
		t.Errorf("unexpected table name %s", got)
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemoryStore()
	source := Tables("ftrs-dos", "dev", "")
	seedDocs(t, docs, source(docstore.EntityOrganisation), 3)
	seedDocs(t, docs, source(docstore.EntityLocation), 2)

	s, objects, capture := newSeeder(t, docs)
	manifest, err := s.Export(ctx, source)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if len(manifest.Entities) != len(docstore.Entities) {
		t.Fatalf("expected %d manifest entries, got %d", len(docstore.Entities), len(manifest.Entities))
	}
	org := manifest.Entities[docstore.EntityOrganisation]
	if org.Count != 3 {
		t.Errorf("expected 3 organisations, got %d", org.Count)
	}
	wantKey := "exports/ftrs-dos-dev-database-organisation/20250701T093000Z.json.gz"
	if org.Key != wantKey {
		t.Errorf("expected key %s, got %s", wantKey, org.Key)
	}
	if manifest.Entities[docstore.EntityHealthcareService].Count != 0 {
		t.Errorf("expected empty healthcare service export")
	}

	stored, err := s.ReadManifest(ctx)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if stored.Entities[docstore.EntityLocation].Count != 2 {
		t.Errorf("unexpected stored manifest %+v", stored)
	}

	var keys []string
	data, _ := objects.Get(ctx, bucket, org.Key)
	if err := readRecords(data, func(r record) error {
		keys = append(keys, r.Key)
		return nil
	}); err != nil {
		t.Fatalf("readRecords: %v", err)
	}
	if len(keys) != 3 || keys[0] != "0000" {
		t.Errorf("unexpected exported keys %v", keys)
	}

	if capture.Count(logging.DMSEED001) != len(docstore.Entities) {
		t.Errorf("expected one DM_SEED_001 per entity, got %d", capture.Count(logging.DMSEED001))
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemoryStore()
	source := Tables("ftrs-dos", "dev", "")
	target := Tables("ftrs-dos", "test", "fdos-1")
	seedDocs(t, docs, source(docstore.EntityOrganisation), 30)
	seedDocs(t, docs, source(docstore.EntityLocation), 5)

	s, _, _ := newSeeder(t, docs)
	if _, err := s.Export(ctx, source); err != nil {
		t.Fatalf("Export: %v", err)
	}

	result, err := s.Restore(ctx, target)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if result.Restored[docstore.EntityOrganisation] != 30 || result.Restored[docstore.EntityLocation] != 5 {
		t.Errorf("unexpected result %+v", result)
	}

	orgTable := target(docstore.EntityOrganisation)
	if docs.Len(orgTable) != 30 {
		t.Errorf("expected 30 restored organisations, got %d", docs.Len(orgTable))
	}
	got, err := docs.Get(ctx, orgTable, "0029")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var doc map[string]string
	if err := json.Unmarshal(got, &doc); err != nil || doc["name"] != "Service 29" {
		t.Errorf("unexpected restored document %s", got)
	}
}

type failingBatches struct {
	*docstore.MemoryStore
	failTable string
	calls     int
}

func (f *failingBatches) PutBatch(ctx context.Context, table string, docs map[string]json.RawMessage) error {
	if table == f.failTable {
		f.calls++
		if f.calls == 1 {
			return errors.New("throttled")
		}
	}
	return f.MemoryStore.PutBatch(ctx, table, docs)
}

func TestRestore_BatchFailureIsCounted(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemoryStore()
	source := Tables("ftrs-dos", "dev", "")
	target := Tables("ftrs-dos", "test", "")
	seedDocs(t, mem, source(docstore.EntityOrganisation), 30)

	docs := &failingBatches{MemoryStore: mem, failTable: target(docstore.EntityOrganisation)}
	s, _, capture := newSeeder(t, docs)
	if _, err := s.Export(ctx, source); err != nil {
		t.Fatalf("Export: %v", err)
	}

	result, err := s.Restore(ctx, target)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if result.Failed[docstore.EntityOrganisation] != RestoreBatchSize {
		t.Errorf("expected the first batch of %d to fail, got %d", RestoreBatchSize, result.Failed[docstore.EntityOrganisation])
	}
	if result.Restored[docstore.EntityOrganisation] != 5 {
		t.Errorf("expected 5 restored, got %d", result.Restored[docstore.EntityOrganisation])
	}
	if capture.Count(logging.DMSEED003) != 1 {
		t.Errorf("expected one DM_SEED_003")
	}
}

func TestRestore_MissingManifest(t *testing.T) {
	s, _, _ := newSeeder(t, docstore.NewMemoryStore())
	if _, err := s.Restore(context.Background(), Tables("ftrs-dos", "test", "")); !errors.Is(err, objectstore.ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}
