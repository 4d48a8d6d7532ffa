package referencedata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ftrs/dos-migration/internal/domain/legacy"
	"github.com/ftrs/dos-migration/internal/domain/triagecode"
	"github.com/ftrs/dos-migration/internal/migration/metadata"
	"github.com/ftrs/dos-migration/internal/platform/logging"
	"github.com/ftrs/dos-migration/internal/platform/metrics"
)

// TypeTriageCode is the only reference data event type.
const TypeTriageCode = "triagecode"

// ErrUnknownType is returned for reference data events other than triagecode.
var ErrUnknownType = errors.New("unknown reference data type")

// Summary counts the codes written by one load.
type Summary struct {
	Loaded int `json:"loaded"`
	Failed int `json:"failed"`
}

type Loader struct {
	log   *logging.Logger
	refs  legacy.ReferenceRepository
	codes triagecode.Repository
	now   func() time.Time
}

func NewLoader(log *logging.Logger, refs legacy.ReferenceRepository, codes triagecode.Repository) *Loader {
	return &Loader{log: log, refs: refs, codes: codes, now: time.Now}
}

// Handle dispatches a reference data event by type.
func (l *Loader) Handle(ctx context.Context, typ string) (Summary, error) {
	if typ != TypeTriageCode {
		return Summary{}, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
	return l.LoadTriageCodes(ctx)
}

// LoadTriageCodes writes symptom groups, symptom discriminators,
// dispositions and SG-SD combinations in that order. A failing upsert is
// logged and counted; only a failure to read the source is returned.
func (l *Loader) LoadTriageCodes(ctx context.Context) (Summary, error) {
	l.log.Log(logging.DMRDL000, logging.Fields{"type": TypeTriageCode})
	at := l.now()
	var sum Summary

	groups, err := l.refs.ListSymptomGroups(ctx)
	if err != nil {
		return sum, fmt.Errorf("list symptom groups: %w", err)
	}
	codes := make([]*triagecode.TriageCode, 0, len(groups))
	for _, sg := range groups {
		codes = append(codes, MapSymptomGroup(sg, at))
	}
	l.save(ctx, codes, &sum)

	discriminators, err := l.refs.ListSymptomDiscriminators(ctx)
	if err != nil {
		return sum, fmt.Errorf("list symptom discriminators: %w", err)
	}
	codes = make([]*triagecode.TriageCode, 0, len(discriminators))
	for _, sd := range discriminators {
		codes = append(codes, MapSymptomDiscriminator(sd, at))
	}
	l.save(ctx, codes, &sum)

	dispositions, err := l.refs.ListDispositions(ctx)
	if err != nil {
		return sum, fmt.Errorf("list dispositions: %w", err)
	}
	codes = make([]*triagecode.TriageCode, 0, len(dispositions))
	for _, d := range dispositions {
		codes = append(codes, MapDisposition(d, at))
	}
	l.save(ctx, codes, &sum)

	combos, err := l.combinations(ctx, at)
	if err != nil {
		return sum, err
	}
	l.save(ctx, combos, &sum)

	l.log.Log(logging.DMRDL999, logging.Fields{"loaded": sum.Loaded, "failed": sum.Failed})
	return sum, nil
}

// combinations groups the SG-SD link rows by symptom group, keeping the
// order in which groups first appear.
func (l *Loader) combinations(ctx context.Context, at time.Time) ([]*triagecode.TriageCode, error) {
	pairs, err := l.refs.ListSymptomGroupSymptomDiscriminators(ctx)
	if err != nil {
		return nil, fmt.Errorf("list symptom group discriminators: %w", err)
	}
	meta := metadata.New(l.refs)

	var order []int64
	groups := make(map[int64]*legacy.SymptomGroup)
	members := make(map[int64][]*legacy.SymptomDiscriminator)
	for _, pair := range pairs {
		sg, err := meta.SymptomGroups.Get(ctx, pair.SymptomGroupID)
		if err != nil {
			return nil, err
		}
		sd, err := meta.SymptomDiscriminators.Get(ctx, pair.SymptomDiscriminatorID)
		if errors.Is(err, metadata.ErrNotFound) {
			l.log.Log(logging.DMETL012, logging.Fields{"sg_id": pair.SymptomGroupID, "sd_id": pair.SymptomDiscriminatorID})
			continue
		}
		if err != nil {
			return nil, err
		}
		if _, ok := groups[sg.ID]; !ok {
			groups[sg.ID] = sg
			order = append(order, sg.ID)
		}
		members[sg.ID] = append(members[sg.ID], sd)
	}

	out := make([]*triagecode.TriageCode, 0, len(order))
	for _, id := range order {
		out = append(out, MapCombinations(groups[id], members[id], at))
	}
	return out, nil
}

func (l *Loader) save(ctx context.Context, codes []*triagecode.TriageCode, sum *Summary) {
	if len(codes) == 0 {
		return
	}
	loaded := 0
	for _, tc := range codes {
		err := l.codes.Upsert(ctx, tc)
		metrics.IncReferenceCode(string(tc.CodeType), err)
		if err != nil {
			sum.Failed++
			l.log.Log(logging.DMRDL002, logging.Fields{"id": tc.Key(), "error": err.Error()})
			continue
		}
		loaded++
	}
	sum.Loaded += loaded
	l.log.Log(logging.DMRDL001, logging.Fields{"count": loaded, "code_type": string(codes[0].CodeType)})
}
