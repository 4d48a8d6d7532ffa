//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/ftrs/dos-migration/internal/domain/healthcareservice"
	"github.com/ftrs/dos-migration/internal/domain/legacy"
	"github.com/ftrs/dos-migration/internal/domain/legacy/legacytest"
	"github.com/ftrs/dos-migration/internal/domain/location"
	"github.com/ftrs/dos-migration/internal/domain/organisation"
	"github.com/ftrs/dos-migration/internal/migration/metadata"
	"github.com/ftrs/dos-migration/internal/migration/processor"
	"github.com/ftrs/dos-migration/internal/platform/docstore"
	"github.com/ftrs/dos-migration/internal/platform/logging"
)

func TestLegacyRepoPG(t *testing.T) {
	ctx := context.Background()
	schema := seedLegacy(t, legacytest.Repo(legacytest.GPPractice(), legacytest.EnhancedAccess()))
	repo := legacy.NewRepoPG(globalPool, schema)

	t.Run("GetService", func(t *testing.T) {
		s, err := repo.GetService(ctx, 1)
		if err != nil {
			t.Fatalf("GetService: %v", err)
		}
		want := legacytest.GPPractice()
		if s.Name != want.Name || *s.ODSCode != *want.ODSCode || !s.Latitude.Equal(*want.Latitude) {
			t.Errorf("unexpected service %+v", s)
		}
		if len(s.Endpoints) != 2 || s.Endpoints[0].EndpointOrder != 1 {
			t.Errorf("expected 2 ordered endpoints, got %+v", s.Endpoints)
		}
		if len(s.ScheduledOpeningTimes) != 3 || len(s.ScheduledOpeningTimes[1].Times) != 2 {
			t.Errorf("unexpected day openings %+v", s.ScheduledOpeningTimes)
		}
		if got := s.ScheduledOpeningTimes[1].Times[1].StartTime.String(); got != "13:00:00" {
			t.Errorf("expected second session at 13:00:00, got %s", got)
		}
		if len(s.SpecifiedOpeningTimes) != 2 || !s.SpecifiedOpeningTimes[1].Times[0].IsClosed {
			t.Errorf("unexpected specified openings %+v", s.SpecifiedOpeningTimes)
		}
		if len(s.SGSDs) != 2 || len(s.Dispositions) != 2 || len(s.AgeRanges) != 2 {
			t.Errorf("unexpected clinical collections %d/%d/%d", len(s.SGSDs), len(s.Dispositions), len(s.AgeRanges))
		}
		if s.AgeRanges[0].DaysTo.String() != "364.25" {
			t.Errorf("expected daysto 364.25, got %s", s.AgeRanges[0].DaysTo)
		}
	})

	t.Run("GetService not found", func(t *testing.T) {
		if _, err := repo.GetService(ctx, 999); !errors.Is(err, legacy.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("StreamServices pages by id", func(t *testing.T) {
		var ids []int64
		err := repo.StreamServices(ctx, 1, func(s *legacy.Service) error {
			ids = append(ids, s.ID)
			if len(s.Endpoints) != 2 {
				t.Errorf("service %d: expected children loaded", s.ID)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("StreamServices: %v", err)
		}
		if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
			t.Errorf("expected [1 2], got %v", ids)
		}
	})

	t.Run("ListServiceIDs filters", func(t *testing.T) {
		tests := []struct {
			name      string
			typeIDs   []int64
			statusIDs []int64
			want      int
		}{
			{"all", nil, nil, 2},
			{"gp practices", []int64{100}, nil, 1},
			{"active", nil, []int64{1}, 2},
			{"closed", nil, []int64{2}, 0},
		}
		for _, tt := range tests {
			ids, err := repo.ListServiceIDs(ctx, tt.typeIDs, tt.statusIDs)
			if err != nil {
				t.Fatalf("%s: %v", tt.name, err)
			}
			if len(ids) != tt.want {
				t.Errorf("%s: expected %d ids, got %v", tt.name, tt.want, ids)
			}
		}
	})

	t.Run("reference tables", func(t *testing.T) {
		sd, err := repo.GetSymptomDiscriminator(ctx, 14023)
		if err != nil {
			t.Fatalf("GetSymptomDiscriminator: %v", err)
		}
		if len(sd.Synonyms) != 1 || sd.Synonyms[0].Name != "General Practice" {
			t.Errorf("expected synonyms loaded, got %+v", sd.Synonyms)
		}
		sg, err := repo.GetSymptomGroup(ctx, 360)
		if err != nil || !sg.IsZCode() {
			t.Errorf("expected z-code symptom group, got %+v (%v)", sg, err)
		}
		pairs, err := repo.ListSymptomGroupSymptomDiscriminators(ctx)
		if err != nil || len(pairs) != 2 {
			t.Errorf("expected 2 pairs, got %d (%v)", len(pairs), err)
		}
		if _, err := repo.GetDisposition(ctx, 1); !errors.Is(err, legacy.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestLegacyRepoPG_BadRowsStayWithTheirService(t *testing.T) {
	ctx := context.Background()
	var services []*legacy.Service
	for id := int64(1); id <= 3; id++ {
		s := legacytest.GPPractice()
		s.ID = id
		services = append(services, s)
	}
	schema := seedLegacy(t, legacytest.Repo(services...))
	table := func(name string) string { return pgx.Identifier{schema, name}.Sanitize() }

	for _, stmt := range []string{
		`ALTER TABLE ` + table("services") + ` ALTER COLUMN name DROP NOT NULL`,
		`UPDATE ` + table("services") + ` SET name = NULL WHERE id = 2`,
		`UPDATE ` + table("servicedayopeningtimes") + ` SET endtime = '24:00:00'
			WHERE servicedayopeningid IN (SELECT id FROM ` + table("servicedayopenings") + ` WHERE serviceid = 3)`,
	} {
		if _, err := globalPool.Exec(ctx, stmt); err != nil {
			t.Fatalf("corrupt fixture: %v", err)
		}
	}

	repo := legacy.NewRepoPG(globalPool, schema)

	s, err := repo.GetService(ctx, 3)
	if err != nil || s.LoadErr != nil {
		t.Fatalf("expected 24:00:00 to load, got %v / %v", err, s.LoadErr)
	}
	if got := s.ScheduledOpeningTimes[0].Times[0].EndTime; got != legacy.EndOfDay {
		t.Errorf("expected end of day, got %s", got)
	}
	if s, err := repo.GetService(ctx, 2); err != nil || s.LoadErr == nil {
		t.Errorf("expected the null name on the service, got %v / %v", err, s)
	}

	store := docstore.NewMemoryStore()
	proc := processor.New(logging.Nop(), repo, metadata.New(repo), processor.Stores{
		Organisations:      organisation.NewRepoDocstore(store, "org"),
		Locations:          location.NewRepoDocstore(store, "loc"),
		HealthcareServices: healthcareservice.NewRepoDocstore(store, "hs"),
	})
	if err := proc.SyncAll(ctx); err != nil {
		t.Fatalf("SyncAll: %v", err)
	}
	got := proc.Metrics().Snapshot()
	if got.TotalRecords != 3 || got.Errors != 1 || got.MigratedRecords != 2 {
		t.Errorf("expected one errored and two migrated records, got %+v", got)
	}
}
