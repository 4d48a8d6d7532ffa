package legacy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// RepoPG reads the DoS schema from Postgres.
type RepoPG struct {
	db     queryable
	schema string
}

func NewRepoPG(pool *pgxpool.Pool, schema string) *RepoPG {
	return &RepoPG{db: pool, schema: schema}
}

var (
	_ ServiceRepository   = (*RepoPG)(nil)
	_ ReferenceRepository = (*RepoPG)(nil)
)

func (r *RepoPG) table(name string) string {
	if r.schema == "" {
		return pgx.Identifier{name}.Sanitize()
	}
	return pgx.Identifier{r.schema, name}.Sanitize()
}

const serviceCols = `id, uid, name, publicname, odscode, typeid, statusid,
	address, town, postcode, publicphone, nonpublicphone, email, web,
	latitude::text, longitude::text`

// nulls names the NULL columns of a row whose model fields are required.
type nulls []string

func need[T any](n *nulls, col string, src *T, dst *T) {
	if src == nil {
		*n = append(*n, col)
		return
	}
	*dst = *src
}

func (n nulls) err(what string, id int64) error {
	if len(n) == 0 {
		return nil
	}
	return fmt.Errorf("%s %d: null %s", what, id, strings.Join(n, ", "))
}

// scanService scans every column into a nullable destination, so a bad
// value ends up in LoadErr instead of failing the result set.
func (r *RepoPG) scanService(row pgx.Row) (*Service, error) {
	var s Service
	var uid, name, lat, long *string
	var typeID, statusID *int64
	err := row.Scan(&s.ID, &uid, &name, &s.PublicName, &s.ODSCode, &typeID, &statusID,
		&s.Address, &s.Town, &s.Postcode, &s.PublicPhone, &s.NonPublicPhone, &s.Email, &s.Web,
		&lat, &long)
	if err != nil {
		return nil, err
	}

	var n nulls
	need(&n, "uid", uid, &s.UID)
	need(&n, "name", name, &s.Name)
	need(&n, "typeid", typeID, &s.TypeID)
	need(&n, "statusid", statusID, &s.StatusID)
	if err := n.err("service", s.ID); err != nil {
		s.addLoadErr(err)
	}
	if s.Latitude, err = parseDecimal(lat); err != nil {
		s.addLoadErr(fmt.Errorf("service %d latitude: %w", s.ID, err))
	}
	if s.Longitude, err = parseDecimal(long); err != nil {
		s.addLoadErr(fmt.Errorf("service %d longitude: %w", s.ID, err))
	}
	return &s, nil
}

func parseDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *RepoPG) GetService(ctx context.Context, id int64) (*Service, error) {
	s, err := r.scanService(r.db.QueryRow(ctx,
		`SELECT `+serviceCols+` FROM `+r.table("services")+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("service %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get service %d: %w", id, err)
	}
	if err := r.loadChildren(ctx, []*Service{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RepoPG) StreamServices(ctx context.Context, batchSize int, fn func(*Service) error) error {
	if batchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	var lastID int64 = -1
	for {
		batch, err := r.serviceBatch(ctx, lastID, batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		if err := r.loadChildren(ctx, batch); err != nil {
			return err
		}
		for _, s := range batch {
			if err := fn(s); err != nil {
				return err
			}
		}
		lastID = batch[len(batch)-1].ID
		if len(batch) < batchSize {
			return nil
		}
	}
}

func (r *RepoPG) serviceBatch(ctx context.Context, afterID int64, limit int) ([]*Service, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+serviceCols+` FROM `+r.table("services")+` WHERE id > $1 ORDER BY id LIMIT $2`,
		afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("query services after %d: %w", afterID, err)
	}
	defer rows.Close()

	var out []*Service
	for rows.Next() {
		s, err := r.scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *RepoPG) ListServiceIDs(ctx context.Context, typeIDs, statusIDs []int64) ([]int64, error) {
	query := `SELECT id FROM ` + r.table("services") + ` WHERE 1=1`
	var args []interface{}
	if typeIDs != nil {
		args = append(args, typeIDs)
		query += fmt.Sprintf(" AND typeid = ANY($%d)", len(args))
	}
	if statusIDs != nil {
		args = append(args, statusIDs)
		query += fmt.Sprintf(" AND statusid = ANY($%d)", len(args))
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list service ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect service ids: %w", err)
	}
	return ids, nil
}

// loadChildren fills the nested collections of every service in batch
// with one query per child table. A bad child row is recorded on its
// service; only a failing query is returned.
func (r *RepoPG) loadChildren(ctx context.Context, batch []*Service) error {
	byID := make(map[int64]*Service, len(batch))
	ids := make([]int64, 0, len(batch))
	for _, s := range batch {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	loaders := []func(context.Context, []int64, map[int64]*Service) error{
		r.loadEndpoints,
		r.loadDayOpenings,
		r.loadSpecifiedOpenings,
		r.loadSGSDs,
		r.loadDispositions,
		r.loadAgeRanges,
	}
	for _, load := range loaders {
		if err := load(ctx, ids, byID); err != nil {
			return err
		}
	}
	return nil
}

func (r *RepoPG) loadEndpoints(ctx context.Context, ids []int64, byID map[int64]*Service) error {
	rows, err := r.db.Query(ctx, `SELECT id, serviceid, endpointorder, transport, format, interaction,
		businessscenario, address, comment, iscompressionenabled
		FROM `+r.table("serviceendpoints")+` WHERE serviceid = ANY($1) ORDER BY serviceid, endpointorder, id`, ids)
	if err != nil {
		return fmt.Errorf("query service endpoints: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e ServiceEndpoint
		var order *int
		var transport, interaction, scenario, address, compression *string
		if err := rows.Scan(&e.ID, &e.ServiceID, &order, &transport, &e.Format, &interaction,
			&scenario, &address, &e.Comment, &compression); err != nil {
			return fmt.Errorf("scan service endpoint: %w", err)
		}
		s := byID[e.ServiceID]
		if s == nil {
			continue
		}
		var n nulls
		need(&n, "endpointorder", order, &e.EndpointOrder)
		need(&n, "transport", transport, &e.Transport)
		need(&n, "interaction", interaction, &e.Interaction)
		need(&n, "businessscenario", scenario, &e.BusinessScenario)
		need(&n, "address", address, &e.Address)
		need(&n, "iscompressionenabled", compression, &e.IsCompressionEnabled)
		if err := n.err("service endpoint", e.ID); err != nil {
			s.addLoadErr(err)
			continue
		}
		s.Endpoints = append(s.Endpoints, e)
	}
	return rows.Err()
}

func (r *RepoPG) loadDayOpenings(ctx context.Context, ids []int64, byID map[int64]*Service) error {
	rows, err := r.db.Query(ctx, `SELECT o.id, o.serviceid, o.dayid, t.id, t.starttime::text, t.endtime::text
		FROM `+r.table("servicedayopenings")+` o
		LEFT JOIN `+r.table("servicedayopeningtimes")+` t ON t.servicedayopeningid = o.id
		WHERE o.serviceid = ANY($1) ORDER BY o.serviceid, o.id, t.starttime`, ids)
	if err != nil {
		return fmt.Errorf("query service day openings: %w", err)
	}
	defer rows.Close()

	index := make(map[int64]int)
	for rows.Next() {
		var o ServiceDayOpening
		var dayID, timeID *int64
		var start, end *string
		if err := rows.Scan(&o.ID, &o.ServiceID, &dayID, &timeID, &start, &end); err != nil {
			return fmt.Errorf("scan service day opening: %w", err)
		}
		s := byID[o.ServiceID]
		if s == nil {
			continue
		}
		pos, ok := index[o.ID]
		if !ok {
			if dayID == nil {
				// Reported once per opening, not per joined time row.
				index[o.ID] = -1
				s.addLoadErr(fmt.Errorf("service day opening %d: null dayid", o.ID))
				continue
			}
			o.DayID = *dayID
			s.ScheduledOpeningTimes = append(s.ScheduledOpeningTimes, o)
			pos = len(s.ScheduledOpeningTimes) - 1
			index[o.ID] = pos
		}
		if pos < 0 || timeID == nil {
			continue
		}
		st, et, err := parseTimes(start, end)
		if err != nil {
			s.addLoadErr(fmt.Errorf("service day opening time %d: %w", *timeID, err))
			continue
		}
		s.ScheduledOpeningTimes[pos].Times = append(s.ScheduledOpeningTimes[pos].Times,
			ServiceDayOpeningTime{ID: *timeID, StartTime: st, EndTime: et})
	}
	return rows.Err()
}

func (r *RepoPG) loadSpecifiedOpenings(ctx context.Context, ids []int64, byID map[int64]*Service) error {
	rows, err := r.db.Query(ctx, `SELECT d.id, d.serviceid, d.date::text, t.id, t.starttime::text, t.endtime::text, t.isclosed
		FROM `+r.table("servicespecifiedopeningdates")+` d
		LEFT JOIN `+r.table("servicespecifiedopeningtimes")+` t ON t.servicespecifiedopeningdateid = d.id
		WHERE d.serviceid = ANY($1) ORDER BY d.serviceid, d.date, d.id, t.starttime`, ids)
	if err != nil {
		return fmt.Errorf("query service specified opening dates: %w", err)
	}
	defer rows.Close()

	index := make(map[int64]int)
	for rows.Next() {
		var d ServiceSpecifiedOpeningDate
		var timeID *int64
		var date, start, end *string
		var closed *bool
		if err := rows.Scan(&d.ID, &d.ServiceID, &date, &timeID, &start, &end, &closed); err != nil {
			return fmt.Errorf("scan service specified opening date: %w", err)
		}
		s := byID[d.ServiceID]
		if s == nil {
			continue
		}
		pos, ok := index[d.ID]
		if !ok {
			day, err := parseDate(date)
			if err != nil {
				index[d.ID] = -1
				s.addLoadErr(fmt.Errorf("service specified opening date %d: %w", d.ID, err))
				continue
			}
			d.Date = day
			s.SpecifiedOpeningTimes = append(s.SpecifiedOpeningTimes, d)
			pos = len(s.SpecifiedOpeningTimes) - 1
			index[d.ID] = pos
		}
		if pos < 0 || timeID == nil {
			continue
		}
		st, et, err := parseTimes(start, end)
		if err != nil {
			s.addLoadErr(fmt.Errorf("service specified opening time %d: %w", *timeID, err))
			continue
		}
		s.SpecifiedOpeningTimes[pos].Times = append(s.SpecifiedOpeningTimes[pos].Times,
			ServiceSpecifiedOpeningTime{ID: *timeID, StartTime: st, EndTime: et, IsClosed: closed != nil && *closed})
	}
	return rows.Err()
}

func parseDate(s *string) (time.Time, error) {
	if s == nil {
		return time.Time{}, fmt.Errorf("null date")
	}
	d, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", *s)
	}
	return d, nil
}

func parseTimes(start, end *string) (TimeOfDay, TimeOfDay, error) {
	if start == nil || end == nil {
		return TimeOfDay{}, TimeOfDay{}, fmt.Errorf("missing start or end time")
	}
	st, err := ParseTimeOfDay(*start)
	if err != nil {
		return TimeOfDay{}, TimeOfDay{}, err
	}
	et, err := ParseTimeOfDay(*end)
	if err != nil {
		return TimeOfDay{}, TimeOfDay{}, err
	}
	return st, et, nil
}

func (r *RepoPG) loadSGSDs(ctx context.Context, ids []int64, byID map[int64]*Service) error {
	rows, err := r.db.Query(ctx, `SELECT id, serviceid, sgid, sdid
		FROM `+r.table("servicesgsds")+` WHERE serviceid = ANY($1) ORDER BY serviceid, id`, ids)
	if err != nil {
		return fmt.Errorf("query service sgsds: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c ServiceSGSD
		var sgID, sdID *int64
		if err := rows.Scan(&c.ID, &c.ServiceID, &sgID, &sdID); err != nil {
			return fmt.Errorf("scan service sgsd: %w", err)
		}
		s := byID[c.ServiceID]
		if s == nil {
			continue
		}
		var n nulls
		need(&n, "sgid", sgID, &c.SGID)
		need(&n, "sdid", sdID, &c.SDID)
		if err := n.err("service sgsd", c.ID); err != nil {
			s.addLoadErr(err)
			continue
		}
		s.SGSDs = append(s.SGSDs, c)
	}
	return rows.Err()
}

func (r *RepoPG) loadDispositions(ctx context.Context, ids []int64, byID map[int64]*Service) error {
	rows, err := r.db.Query(ctx, `SELECT id, serviceid, dispositionid
		FROM `+r.table("servicedispositions")+` WHERE serviceid = ANY($1) ORDER BY serviceid, id`, ids)
	if err != nil {
		return fmt.Errorf("query service dispositions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d ServiceDisposition
		var dispositionID *int64
		if err := rows.Scan(&d.ID, &d.ServiceID, &dispositionID); err != nil {
			return fmt.Errorf("scan service disposition: %w", err)
		}
		s := byID[d.ServiceID]
		if s == nil {
			continue
		}
		if dispositionID == nil {
			s.addLoadErr(fmt.Errorf("service disposition %d: null dispositionid", d.ID))
			continue
		}
		d.DispositionID = *dispositionID
		s.Dispositions = append(s.Dispositions, d)
	}
	return rows.Err()
}

func (r *RepoPG) loadAgeRanges(ctx context.Context, ids []int64, byID map[int64]*Service) error {
	rows, err := r.db.Query(ctx, `SELECT id, serviceid, daysfrom::text, daysto::text
		FROM `+r.table("serviceagerange")+` WHERE serviceid = ANY($1) ORDER BY serviceid, id`, ids)
	if err != nil {
		return fmt.Errorf("query service age ranges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a ServiceAgeRange
		var from, to *string
		if err := rows.Scan(&a.ID, &a.ServiceID, &from, &to); err != nil {
			return fmt.Errorf("scan service age range: %w", err)
		}
		s := byID[a.ServiceID]
		if s == nil {
			continue
		}
		if err := a.parseBounds(from, to); err != nil {
			s.addLoadErr(fmt.Errorf("age range %d: %w", a.ID, err))
			continue
		}
		s.AgeRanges = append(s.AgeRanges, a)
	}
	return rows.Err()
}

func (a *ServiceAgeRange) parseBounds(from, to *string) error {
	var n nulls
	var f, t string
	need(&n, "daysfrom", from, &f)
	need(&n, "daysto", to, &t)
	if len(n) > 0 {
		return fmt.Errorf("null %s", strings.Join(n, ", "))
	}
	var err error
	if a.DaysFrom, err = decimal.NewFromString(f); err != nil {
		return fmt.Errorf("daysfrom: %w", err)
	}
	if a.DaysTo, err = decimal.NewFromString(t); err != nil {
		return fmt.Errorf("daysto: %w", err)
	}
	return nil
}

// Reference tables.

func (r *RepoPG) GetServiceType(ctx context.Context, id int64) (*ServiceType, error) {
	var st ServiceType
	err := r.db.QueryRow(ctx, `SELECT id, name FROM `+r.table("servicetypes")+` WHERE id = $1`, id).
		Scan(&st.ID, &st.Name)
	if err != nil {
		return nil, notFound("service type", id, err)
	}
	return &st, nil
}

func (r *RepoPG) GetSymptomGroup(ctx context.Context, id int64) (*SymptomGroup, error) {
	var sg SymptomGroup
	err := r.db.QueryRow(ctx, `SELECT id, name, zcodeexists FROM `+r.table("symptomgroups")+` WHERE id = $1`, id).
		Scan(&sg.ID, &sg.Name, &sg.ZCodeExists)
	if err != nil {
		return nil, notFound("symptom group", id, err)
	}
	return &sg, nil
}

func (r *RepoPG) GetSymptomDiscriminator(ctx context.Context, id int64) (*SymptomDiscriminator, error) {
	var sd SymptomDiscriminator
	err := r.db.QueryRow(ctx, `SELECT id, description FROM `+r.table("symptomdiscriminators")+` WHERE id = $1`, id).
		Scan(&sd.ID, &sd.Description)
	if err != nil {
		return nil, notFound("symptom discriminator", id, err)
	}
	synonyms, err := r.synonyms(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	sd.Synonyms = synonyms[id]
	return &sd, nil
}

func (r *RepoPG) GetDisposition(ctx context.Context, id int64) (*Disposition, error) {
	var d Disposition
	err := r.db.QueryRow(ctx, `SELECT id, name, dxcode, dispositiontime FROM `+r.table("dispositions")+` WHERE id = $1`, id).
		Scan(&d.ID, &d.Name, &d.DxCode, &d.DispositionTime)
	if err != nil {
		return nil, notFound("disposition", id, err)
	}
	return &d, nil
}

func (r *RepoPG) GetOpeningTimeDay(ctx context.Context, id int64) (*OpeningTimeDay, error) {
	var d OpeningTimeDay
	err := r.db.QueryRow(ctx, `SELECT id, name FROM `+r.table("openingtimedays")+` WHERE id = $1`, id).
		Scan(&d.ID, &d.Name)
	if err != nil {
		return nil, notFound("opening time day", id, err)
	}
	return &d, nil
}

func notFound(entity string, id int64, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return fmt.Errorf("get %s %d: %w", entity, id, err)
}

func (r *RepoPG) synonyms(ctx context.Context, sdIDs []int64) (map[int64][]SymptomDiscriminatorSynonym, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, symptomdiscriminatorid
		FROM `+r.table("symptomdiscriminatorsynonyms")+` WHERE symptomdiscriminatorid = ANY($1) ORDER BY id`, sdIDs)
	if err != nil {
		return nil, fmt.Errorf("query symptom discriminator synonyms: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]SymptomDiscriminatorSynonym)
	for rows.Next() {
		var syn SymptomDiscriminatorSynonym
		if err := rows.Scan(&syn.ID, &syn.Name, &syn.SymptomDiscriminatorID); err != nil {
			return nil, fmt.Errorf("scan symptom discriminator synonym: %w", err)
		}
		out[syn.SymptomDiscriminatorID] = append(out[syn.SymptomDiscriminatorID], syn)
	}
	return out, rows.Err()
}

func (r *RepoPG) ListSymptomGroups(ctx context.Context) ([]*SymptomGroup, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, zcodeexists FROM `+r.table("symptomgroups")+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list symptom groups: %w", err)
	}
	defer rows.Close()
	var out []*SymptomGroup
	for rows.Next() {
		var sg SymptomGroup
		if err := rows.Scan(&sg.ID, &sg.Name, &sg.ZCodeExists); err != nil {
			return nil, fmt.Errorf("scan symptom group: %w", err)
		}
		out = append(out, &sg)
	}
	return out, rows.Err()
}

func (r *RepoPG) ListSymptomDiscriminators(ctx context.Context) ([]*SymptomDiscriminator, error) {
	rows, err := r.db.Query(ctx, `SELECT id, description FROM `+r.table("symptomdiscriminators")+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list symptom discriminators: %w", err)
	}
	var out []*SymptomDiscriminator
	var ids []int64
	for rows.Next() {
		var sd SymptomDiscriminator
		if err := rows.Scan(&sd.ID, &sd.Description); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan symptom discriminator: %w", err)
		}
		out = append(out, &sd)
		ids = append(ids, sd.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symptom discriminators: %w", err)
	}

	synonyms, err := r.synonyms(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, sd := range out {
		sd.Synonyms = synonyms[sd.ID]
	}
	return out, nil
}

func (r *RepoPG) ListDispositions(ctx context.Context) ([]*Disposition, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, dxcode, dispositiontime FROM `+r.table("dispositions")+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list dispositions: %w", err)
	}
	defer rows.Close()
	var out []*Disposition
	for rows.Next() {
		var d Disposition
		if err := rows.Scan(&d.ID, &d.Name, &d.DxCode, &d.DispositionTime); err != nil {
			return nil, fmt.Errorf("scan disposition: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (r *RepoPG) ListSymptomGroupSymptomDiscriminators(ctx context.Context) ([]*SymptomGroupSymptomDiscriminator, error) {
	rows, err := r.db.Query(ctx, `SELECT id, symptomgroupid, symptomdiscriminatorid
		FROM `+r.table("symptomgroupsymptomdiscriminators")+` ORDER BY symptomgroupid, id`)
	if err != nil {
		return nil, fmt.Errorf("list symptom group symptom discriminators: %w", err)
	}
	defer rows.Close()
	var out []*SymptomGroupSymptomDiscriminator
	for rows.Next() {
		var p SymptomGroupSymptomDiscriminator
		if err := rows.Scan(&p.ID, &p.SymptomGroupID, &p.SymptomDiscriminatorID); err != nil {
			return nil, fmt.Errorf("scan symptom group symptom discriminator: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
