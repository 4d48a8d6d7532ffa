//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/ftrs/dos-migration/internal/domain/legacy"
)

// legacyDDL is the subset of the DoS schema the pipeline reads.
const legacyDDL = `
CREATE TABLE services (
    id BIGINT PRIMARY KEY, uid TEXT NOT NULL, name TEXT NOT NULL, publicname TEXT, odscode TEXT,
    typeid BIGINT NOT NULL, statusid BIGINT NOT NULL, address TEXT, town TEXT, postcode TEXT,
    publicphone TEXT, nonpublicphone TEXT, email TEXT, web TEXT,
    latitude NUMERIC, longitude NUMERIC
);
CREATE TABLE serviceendpoints (
    id BIGINT PRIMARY KEY, endpointorder INTEGER NOT NULL, transport TEXT NOT NULL, format TEXT,
    interaction TEXT NOT NULL, businessscenario TEXT NOT NULL, address TEXT NOT NULL, comment TEXT,
    iscompressionenabled TEXT NOT NULL, serviceid BIGINT NOT NULL
);
CREATE TABLE servicedayopenings (id BIGINT PRIMARY KEY, serviceid BIGINT NOT NULL, dayid BIGINT NOT NULL);
CREATE TABLE servicedayopeningtimes (
    id BIGINT PRIMARY KEY, starttime TIME NOT NULL, endtime TIME NOT NULL, servicedayopeningid BIGINT NOT NULL
);
CREATE TABLE servicespecifiedopeningdates (id BIGINT PRIMARY KEY, date DATE NOT NULL, serviceid BIGINT NOT NULL);
CREATE TABLE servicespecifiedopeningtimes (
    id BIGINT PRIMARY KEY, starttime TIME NOT NULL, endtime TIME NOT NULL, isclosed BOOLEAN NOT NULL,
    servicespecifiedopeningdateid BIGINT NOT NULL
);
CREATE TABLE servicesgsds (id BIGINT PRIMARY KEY, serviceid BIGINT NOT NULL, sgid BIGINT NOT NULL, sdid BIGINT NOT NULL);
CREATE TABLE servicedispositions (id BIGINT PRIMARY KEY, serviceid BIGINT NOT NULL, dispositionid BIGINT NOT NULL);
CREATE TABLE serviceagerange (id BIGINT PRIMARY KEY, daysfrom NUMERIC NOT NULL, daysto NUMERIC NOT NULL, serviceid BIGINT NOT NULL);
CREATE TABLE servicetypes (id BIGINT PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE symptomgroups (id BIGINT PRIMARY KEY, name TEXT NOT NULL, zcodeexists BOOLEAN);
CREATE TABLE symptomdiscriminators (id BIGINT PRIMARY KEY, description TEXT);
CREATE TABLE symptomdiscriminatorsynonyms (id BIGINT PRIMARY KEY, name TEXT NOT NULL, symptomdiscriminatorid BIGINT NOT NULL);
CREATE TABLE dispositions (id BIGINT PRIMARY KEY, name TEXT NOT NULL, dxcode TEXT NOT NULL, dispositiontime INTEGER);
CREATE TABLE openingtimedays (id BIGINT PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE symptomgroupsymptomdiscriminators (
    id BIGINT PRIMARY KEY, symptomgroupid BIGINT NOT NULL, symptomdiscriminatorid BIGINT NOT NULL
);
`

// seedLegacy creates a DoS schema holding everything in repo.
func seedLegacy(t *testing.T, repo *legacy.MemoryRepo) string {
	t.Helper()
	ctx := context.Background()
	schema := newSchema(t, "pathwaysdos")

	tx, err := globalPool.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SET LOCAL search_path TO "+pgx.Identifier{schema}.Sanitize()); err != nil {
		t.Fatalf("set search_path: %v", err)
	}
	if _, err := tx.Exec(ctx, legacyDDL); err != nil {
		t.Fatalf("create legacy tables: %v", err)
	}

	batch := &pgx.Batch{}
	for _, s := range repo.Services {
		queueService(batch, s)
	}
	for _, st := range repo.ServiceTypes {
		batch.Queue(`INSERT INTO servicetypes (id, name) VALUES ($1, $2)`, st.ID, st.Name)
	}
	for _, d := range repo.OpeningTimeDays {
		batch.Queue(`INSERT INTO openingtimedays (id, name) VALUES ($1, $2)`, d.ID, d.Name)
	}
	for _, sg := range repo.SymptomGroups {
		batch.Queue(`INSERT INTO symptomgroups (id, name, zcodeexists) VALUES ($1, $2, $3)`, sg.ID, sg.Name, sg.ZCodeExists)
	}
	for _, sd := range repo.SymptomDiscriminators {
		batch.Queue(`INSERT INTO symptomdiscriminators (id, description) VALUES ($1, $2)`, sd.ID, sd.Description)
		for _, syn := range sd.Synonyms {
			batch.Queue(`INSERT INTO symptomdiscriminatorsynonyms (id, name, symptomdiscriminatorid) VALUES ($1, $2, $3)`,
				syn.ID, syn.Name, syn.SymptomDiscriminatorID)
		}
	}
	for _, d := range repo.Dispositions {
		batch.Queue(`INSERT INTO dispositions (id, name, dxcode, dispositiontime) VALUES ($1, $2, $3, $4)`,
			d.ID, d.Name, d.DxCode, d.DispositionTime)
	}
	for _, p := range repo.SGSDPairs {
		batch.Queue(`INSERT INTO symptomgroupsymptomdiscriminators (id, symptomgroupid, symptomdiscriminatorid) VALUES ($1, $2, $3)`,
			p.ID, p.SymptomGroupID, p.SymptomDiscriminatorID)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			t.Fatalf("seed legacy row %d: %v", i, err)
		}
	}
	if err := results.Close(); err != nil {
		t.Fatalf("close batch: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return schema
}

func queueService(batch *pgx.Batch, s *legacy.Service) {
	var lat, long *string
	if s.Latitude != nil {
		v := s.Latitude.String()
		lat = &v
	}
	if s.Longitude != nil {
		v := s.Longitude.String()
		long = &v
	}
	batch.Queue(`INSERT INTO services (id, uid, name, publicname, odscode, typeid, statusid, address, town,
		postcode, publicphone, nonpublicphone, email, web, latitude, longitude)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15::numeric,$16::numeric)`,
		s.ID, s.UID, s.Name, s.PublicName, s.ODSCode, s.TypeID, s.StatusID, s.Address, s.Town,
		s.Postcode, s.PublicPhone, s.NonPublicPhone, s.Email, s.Web, lat, long)

	// Child ids are scoped per service so several fixtures can share a schema.
	childID := func(id int64) int64 { return s.ID*1000 + id }

	for _, e := range s.Endpoints {
		batch.Queue(`INSERT INTO serviceendpoints (id, endpointorder, transport, format, interaction,
			businessscenario, address, comment, iscompressionenabled, serviceid)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			childID(e.ID), e.EndpointOrder, e.Transport, e.Format, e.Interaction,
			e.BusinessScenario, e.Address, e.Comment, e.IsCompressionEnabled, s.ID)
	}
	for _, o := range s.ScheduledOpeningTimes {
		batch.Queue(`INSERT INTO servicedayopenings (id, serviceid, dayid) VALUES ($1, $2, $3)`, childID(o.ID), s.ID, o.DayID)
		for _, tm := range o.Times {
			batch.Queue(`INSERT INTO servicedayopeningtimes (id, starttime, endtime, servicedayopeningid) VALUES ($1, $2::time, $3::time, $4)`,
				childID(tm.ID), tm.StartTime.String(), tm.EndTime.String(), childID(o.ID))
		}
	}
	for _, d := range s.SpecifiedOpeningTimes {
		batch.Queue(`INSERT INTO servicespecifiedopeningdates (id, date, serviceid) VALUES ($1, $2, $3)`, childID(d.ID), d.Date, s.ID)
		for _, tm := range d.Times {
			batch.Queue(`INSERT INTO servicespecifiedopeningtimes (id, starttime, endtime, isclosed, servicespecifiedopeningdateid)
				VALUES ($1, $2::time, $3::time, $4, $5)`,
				childID(tm.ID), tm.StartTime.String(), tm.EndTime.String(), tm.IsClosed, childID(d.ID))
		}
	}
	for _, c := range s.SGSDs {
		batch.Queue(`INSERT INTO servicesgsds (id, serviceid, sgid, sdid) VALUES ($1, $2, $3, $4)`, childID(c.ID), s.ID, c.SGID, c.SDID)
	}
	for _, d := range s.Dispositions {
		batch.Queue(`INSERT INTO servicedispositions (id, serviceid, dispositionid) VALUES ($1, $2, $3)`, childID(d.ID), s.ID, d.DispositionID)
	}
	for _, a := range s.AgeRanges {
		batch.Queue(`INSERT INTO serviceagerange (id, daysfrom, daysto, serviceid) VALUES ($1, $2::numeric, $3::numeric, $4)`,
			childID(a.ID), a.DaysFrom.String(), a.DaysTo.String(), s.ID)
	}
}
