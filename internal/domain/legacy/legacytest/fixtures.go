// Package legacytest provides legacy records for tests.
package legacytest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ftrs/dos-migration/internal/domain/legacy"
)

func str(s string) *string { return &s }

func intp(i int) *int { return &i }

func boolp(b bool) *bool { return &b }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func tod(s string) legacy.TimeOfDay {
	t, err := legacy.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// GPPractice returns an active GP practice with every nested collection
// populated.
func GPPractice() *legacy.Service {
	return &legacy.Service{
		ID:             1,
		UID:            "test-uid",
		Name:           "Test Service",
		PublicName:     str("Public Test Service"),
		ODSCode:        str("A12345"),
		TypeID:         100,
		StatusID:       1,
		Address:        str("123 Main St$Leeds$West Yorkshire"),
		Town:           str("Leeds"),
		Postcode:       str("AB12 3CD"),
		PublicPhone:    str("01234 567890"),
		NonPublicPhone: str("09876 543210"),
		Email:          str("firstname.lastname@nhs.net"),
		Web:            str("http://example.com"),
		Latitude:       dec("51.5074"),
		Longitude:      dec("-0.1278"),
		Endpoints: []legacy.ServiceEndpoint{
			{
				ID:                   1,
				ServiceID:            1,
				EndpointOrder:        1,
				Transport:            "http",
				Interaction:          "urn:nhs-itk:interaction:primaryOutofHourRecipientNHS111CDADocument-v2-0",
				BusinessScenario:     "Primary",
				Address:              "http://example.com/endpoint",
				Comment:              str("Test Endpoint"),
				IsCompressionEnabled: "compressed",
			},
			{
				ID:                   2,
				ServiceID:            1,
				EndpointOrder:        2,
				Transport:            "email",
				Interaction:          "urn:nhs-itk:interaction:primaryOutofHourRecipientNHS111CDADocument-v2-0",
				BusinessScenario:     "Copy",
				Address:              "mailto:test@example.com",
				Comment:              str("Test Email Endpoint"),
				IsCompressionEnabled: "uncompressed",
			},
		},
		ScheduledOpeningTimes: []legacy.ServiceDayOpening{
			{ID: 1, ServiceID: 1, DayID: 1, Times: []legacy.ServiceDayOpeningTime{{ID: 1, StartTime: tod("09:00:00"), EndTime: tod("17:00:00")}}},
			{ID: 2, ServiceID: 1, DayID: 3, Times: []legacy.ServiceDayOpeningTime{
				{ID: 3, StartTime: tod("09:00:00"), EndTime: tod("12:00:00")},
				{ID: 4, StartTime: tod("13:00:00"), EndTime: tod("17:00:00")},
			}},
			{ID: 7, ServiceID: 1, DayID: 8, Times: []legacy.ServiceDayOpeningTime{{ID: 8, StartTime: tod("10:00:00"), EndTime: tod("14:00:00")}}},
		},
		SpecifiedOpeningTimes: []legacy.ServiceSpecifiedOpeningDate{
			{ID: 1, ServiceID: 1, Date: date("2023-01-01"), Times: []legacy.ServiceSpecifiedOpeningTime{
				{ID: 1, StartTime: tod("10:00:00"), EndTime: tod("14:00:00")},
			}},
			{ID: 2, ServiceID: 1, Date: date("2023-01-02"), Times: []legacy.ServiceSpecifiedOpeningTime{
				{ID: 2, StartTime: tod("00:00:00"), EndTime: tod("23:59:59"), IsClosed: true},
			}},
		},
		SGSDs: []legacy.ServiceSGSD{
			{ID: 1, ServiceID: 1, SGID: 1035, SDID: 4003},
			{ID: 2, ServiceID: 1, SGID: 360, SDID: 14023},
		},
		Dispositions: []legacy.ServiceDisposition{
			{ID: 1, ServiceID: 1, DispositionID: 126},
			{ID: 2, ServiceID: 1, DispositionID: 10},
		},
		AgeRanges: []legacy.ServiceAgeRange{
			{ID: 1, ServiceID: 1, DaysFrom: decimal.RequireFromString("0"), DaysTo: decimal.RequireFromString("364.25")},
			{ID: 2, ServiceID: 1, DaysFrom: decimal.RequireFromString("365.25"), DaysTo: decimal.RequireFromString("1825.25")},
		},
	}
}

// EnhancedAccess returns an active PCN enhanced service.
func EnhancedAccess() *legacy.Service {
	s := GPPractice()
	s.ID = 2
	s.UID = "pcn-uid"
	s.Name = "PCN Enhanced Access Hub"
	s.PublicName = nil
	s.ODSCode = str("U12345ABC")
	s.TypeID = 152
	return s
}

// Repo returns a MemoryRepo holding the reference data the fixtures use
// and the given services.
func Repo(services ...*legacy.Service) *legacy.MemoryRepo {
	repo := legacy.NewMemoryRepo()
	for _, s := range services {
		repo.AddService(s)
	}

	for _, st := range []legacy.ServiceType{
		{ID: 100, Name: "GP Practice"},
		{ID: 136, Name: "GP Access Hub"},
		{ID: 152, Name: "Primary Care Network (PCN) Enhanced Service"},
	} {
		st := st
		repo.ServiceTypes[st.ID] = &st
	}

	for i, name := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday", "BankHoliday"} {
		id := int64(i + 1)
		repo.OpeningTimeDays[id] = &legacy.OpeningTimeDay{ID: id, Name: name}
	}

	repo.SymptomGroups[1035] = &legacy.SymptomGroup{ID: 1035, Name: "Breathing Problems, Breathlessness or Wheeze, Pregnant"}
	repo.SymptomGroups[360] = &legacy.SymptomGroup{ID: 360, Name: "z2.0 - Service Types", ZCodeExists: boolp(true)}

	repo.SymptomDiscriminators[4003] = &legacy.SymptomDiscriminator{
		ID:          4003,
		Description: str("PC full Primary Care assessment and prescribing capability"),
		Synonyms:    []legacy.SymptomDiscriminatorSynonym{},
	}
	repo.SymptomDiscriminators[14023] = &legacy.SymptomDiscriminator{
		ID:          14023,
		Description: str("GP Practice"),
		Synonyms:    []legacy.SymptomDiscriminatorSynonym{{ID: 2341, Name: "General Practice", SymptomDiscriminatorID: 14023}},
	}

	repo.Dispositions[126] = &legacy.Disposition{ID: 126, Name: "Contact Own GP Practice next working day for appointment", DxCode: "DX115", DispositionTime: intp(7200)}
	repo.Dispositions[10] = &legacy.Disposition{ID: 10, Name: "Speak to a Primary Care Service within 2 hours", DxCode: "DX12", DispositionTime: intp(120)}

	repo.SGSDPairs = []*legacy.SymptomGroupSymptomDiscriminator{
		{ID: 1, SymptomGroupID: 1035, SymptomDiscriminatorID: 4003},
		{ID: 2, SymptomGroupID: 360, SymptomDiscriminatorID: 14023},
	}
	return repo
}
