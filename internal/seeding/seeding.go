// Package seeding exports the target document tables to the migration
// store bucket and restores them into another environment.
package seeding

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ftrs/dos-migration/internal/platform/docstore"
	"github.com/ftrs/dos-migration/internal/platform/logging"
	"github.com/ftrs/dos-migration/internal/platform/metrics"
	"github.com/ftrs/dos-migration/internal/platform/objectstore"
)

const (
	ManifestKey = "exports/manifest.json"

	// RestoreBatchSize is the number of documents written per batch.
	RestoreBatchSize = 25

	defaultWorkers = 5
	timestampFmt   = "20060102T150405Z"
)

// TableNamer resolves an entity to its table in one environment.
type TableNamer func(entity string) string

// Tables returns the namer for a prefix, env and optional workspace.
func Tables(prefix, env, workspace string) TableNamer {
	return func(entity string) string {
		return docstore.FormatTableName(prefix, env, entity, workspace)
	}
}

// Manifest maps each exported entity to its object.
type Manifest struct {
	CreatedAt time.Time                `json:"created_at"`
	Entities  map[string]ManifestEntry `json:"entities"`
}

type ManifestEntry struct {
	Table string `json:"table"`
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// record is one NDJSON line of an export.
type record struct {
	Key      string          `json:"key"`
	Document json.RawMessage `json:"document"`
}

type Seeder struct {
	log      *logging.Logger
	docs     docstore.Store
	objects  objectstore.Store
	bucket   string
	entities []string
	workers  int
	now      func() time.Time
}

func New(log *logging.Logger, docs docstore.Store, objects objectstore.Store, bucket string) *Seeder {
	return &Seeder{
		log:      log,
		docs:     docs,
		objects:  objects,
		bucket:   bucket,
		entities: docstore.Entities,
		workers:  defaultWorkers,
		now:      time.Now,
	}
}

// Export writes every entity table of the source environment as gzip
// NDJSON and then the manifest.
func (s *Seeder) Export(ctx context.Context, source TableNamer) (*Manifest, error) {
	if err := s.objects.EnsureBucket(ctx, s.bucket); err != nil {
		return nil, err
	}
	at := s.now().UTC()
	manifest := &Manifest{CreatedAt: at, Entities: make(map[string]ManifestEntry, len(s.entities))}

	for _, entity := range s.entities {
		table := source(entity)
		key := fmt.Sprintf("exports/%s/%s.json.gz", table, at.Format(timestampFmt))
		s.log.Log(logging.DMSEED000, logging.Fields{"table_name": table, "bucket": s.bucket, "key": key})

		data, count, err := s.exportTable(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", table, err)
		}
		if err := s.objects.Put(ctx, s.bucket, key, data, "application/gzip"); err != nil {
			return nil, err
		}
		manifest.Entities[entity] = ManifestEntry{Table: table, Key: key, Count: count}
		metrics.AddSeedDocuments(metrics.SeedExport, entity, count)
		s.log.Log(logging.DMSEED001, logging.Fields{"table_name": table, "count": count})
	}

	body, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := s.objects.Put(ctx, s.bucket, ManifestKey, body, "application/json"); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (s *Seeder) exportTable(ctx context.Context, table string) ([]byte, int, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	enc := json.NewEncoder(zw)

	count := 0
	err := s.docs.Scan(ctx, table, func(key string, doc json.RawMessage) error {
		count++
		return enc.Encode(record{Key: key, Document: doc})
	})
	if err != nil {
		return nil, 0, err
	}
	if err := zw.Close(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), count, nil
}

// ReadManifest loads the manifest of the last export.
func (s *Seeder) ReadManifest(ctx context.Context) (*Manifest, error) {
	body, err := s.objects.Get(ctx, s.bucket, ManifestKey)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// RestoreResult counts the documents restored per entity.
type RestoreResult struct {
	Restored map[string]int `json:"restored"`
	Failed   map[string]int `json:"failed"`
}

// Restore loads every exported entity into the target environment's
// tables. Entities are restored concurrently; a failing batch is logged
// and counted without stopping the rest.
func (s *Seeder) Restore(ctx context.Context, target TableNamer) (*RestoreResult, error) {
	manifest, err := s.ReadManifest(ctx)
	if err != nil {
		return nil, err
	}

	type counts struct{ restored, failed int }
	results := make(map[string]*counts, len(manifest.Entities))
	for entity := range manifest.Entities {
		results[entity] = &counts{}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, entity := range s.entities {
		entry, ok := manifest.Entities[entity]
		if !ok {
			continue
		}
		entity, entry, c := entity, entry, results[entity]
		g.Go(func() error {
			restored, failed, err := s.restoreEntity(gctx, entity, entry, target(entity))
			c.restored, c.failed = restored, failed
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &RestoreResult{Restored: map[string]int{}, Failed: map[string]int{}}
	for entity, c := range results {
		out.Restored[entity] = c.restored
		out.Failed[entity] = c.failed
	}
	return out, nil
}

func (s *Seeder) restoreEntity(ctx context.Context, entity string, entry ManifestEntry, table string) (int, int, error) {
	s.log.Log(logging.DMSEED002, logging.Fields{"entity": entity, "key": entry.Key, "table_name": table})

	data, err := s.objects.Get(ctx, s.bucket, entry.Key)
	if err != nil {
		return 0, 0, err
	}
	if err := s.docs.EnsureTable(ctx, table); err != nil {
		return 0, 0, err
	}

	restored, failed := 0, 0
	batch := make(map[string]json.RawMessage, RestoreBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.docs.PutBatch(ctx, table, batch); err != nil {
			failed += len(batch)
			s.log.Log(logging.DMSEED003, logging.Fields{"table_name": table, "error": err.Error(), "count": len(batch)})
		} else {
			restored += len(batch)
		}
		batch = make(map[string]json.RawMessage, RestoreBatchSize)
	}

	err = readRecords(data, func(r record) error {
		batch[r.Key] = r.Document
		if len(batch) == RestoreBatchSize {
			flush()
		}
		return nil
	})
	if err != nil {
		return restored, failed, fmt.Errorf("read %s: %w", entry.Key, err)
	}
	flush()

	metrics.AddSeedDocuments(metrics.SeedRestore, entity, restored)
	s.log.Log(logging.DMSEED004, logging.Fields{"table_name": table, "count": restored})
	return restored, failed, nil
}

func readRecords(data []byte, fn func(record) error) error {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer zr.Close()

	sc := bufio.NewScanner(zr)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var r record
		if err := json.Unmarshal(line, &r); err != nil {
			return fmt.Errorf("decode record: %w", err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
