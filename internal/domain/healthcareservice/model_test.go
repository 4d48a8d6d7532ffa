package healthcareservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/ftrs/dos-migration/internal/platform/docstore"
	"github.com/ftrs/dos-migration/internal/platform/fhir"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func sampleService() *HealthcareService {
	org := uuid.MustParse("4539600c-e04e-5b35-a582-9fb36858d0e0")
	loc := uuid.MustParse("6ef3317e-c6dc-5e27-b36d-577c375eb060")
	return &HealthcareService{
		ID:                  uuid.MustParse("903cd48b-5d0f-532f-94f4-937a4517b14d"),
		IdentifierOldDoSUID: "test-uid",
		Active:              true,
		Category:            CategoryGPServices,
		Type:                TypeGPConsultationService,
		ProvidedBy:          &org,
		Location:            &loc,
		Name:                "Test Service",
		Telecom: Telecom{
			PhonePublic: strPtr("01234567890"),
			Email:       strPtr("firstname.lastname@nhs.net"),
			Web:         strPtr("http://example.com"),
		},
		OpeningTime: []OpeningTime{
			{Category: CategoryAvailableTime, DayOfWeek: strPtr("mon"), StartTime: "09:00:00", EndTime: "17:00:00", AllDay: boolPtr(false)},
			{Category: CategoryAvailableTimePublicHolidays, StartTime: "10:00:00", EndTime: "14:00:00"},
			{Category: CategoryNotAvailable, StartTime: "2025-12-25T00:00:00", EndTime: "2025-12-25T23:59:59"},
		},
		AgeEligibilityCriteria: []AgeRange{{
			RangeFrom: decimal.Zero,
			RangeTo:   decimal.RequireFromString("1825.25"),
			Type:      AgeRangeTypeDays,
		}},
	}
}

func TestHealthcareService_ToFHIR(t *testing.T) {
	res := sampleService().ToFHIR()

	if res["resourceType"] != "HealthcareService" {
		t.Errorf("unexpected resourceType %v", res["resourceType"])
	}
	ref, ok := res["providedBy"].(fhir.Reference)
	if !ok || ref.Reference != "Organization/4539600c-e04e-5b35-a582-9fb36858d0e0" {
		t.Errorf("unexpected providedBy %v", res["providedBy"])
	}
	telecom, ok := res["telecom"].([]fhir.ContactPoint)
	if !ok || len(telecom) != 3 {
		t.Fatalf("expected 3 contact points, got %v", res["telecom"])
	}
	available, ok := res["availableTime"].([]map[string]interface{})
	if !ok || len(available) != 2 {
		t.Fatalf("expected 2 availableTime entries, got %v", res["availableTime"])
	}
	if days, _ := available[0]["daysOfWeek"].([]string); len(days) != 1 || days[0] != "mon" {
		t.Errorf("unexpected daysOfWeek %v", available[0]["daysOfWeek"])
	}
	if na, ok := res["notAvailable"].([]map[string]interface{}); !ok || len(na) != 1 {
		t.Errorf("expected 1 notAvailable entry, got %v", res["notAvailable"])
	}
	if _, ok := res["comment"]; ok {
		t.Error("comment should be omitted without migration notes")
	}
}

func TestHealthcareService_ToFHIR_NoLinks(t *testing.T) {
	hs := sampleService()
	hs.ProvidedBy = nil
	hs.Location = nil
	hs.Type = TypePCNService

	res := hs.ToFHIR()
	if _, ok := res["providedBy"]; ok {
		t.Error("providedBy should be omitted")
	}
	if _, ok := res["location"]; ok {
		t.Error("location should be omitted")
	}
}

func TestHealthcareService_JSON(t *testing.T) {
	hs := sampleService()
	hs.ProvidedBy = nil
	data, err := json.Marshal(hs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]interface{}
	_ = json.Unmarshal(data, &m)
	if m["providedBy"] != nil {
		t.Errorf("expected null providedBy, got %v", m["providedBy"])
	}
	if m["migrationNotes"] != nil {
		t.Errorf("expected null migrationNotes, got %v", m["migrationNotes"])
	}
	telecom := m["telecom"].(map[string]interface{})
	if _, ok := telecom["phone_private"]; !ok {
		t.Error("expected phone_private key")
	}
	times := m["openingTime"].([]interface{})
	if _, ok := times[1].(map[string]interface{})["dayOfWeek"]; ok {
		t.Error("public holiday entries carry no dayOfWeek")
	}
}

func TestHandler_GetHealthcareService(t *testing.T) {
	repo := NewRepoDocstore(docstore.NewMemoryStore(), "services")
	hs := sampleService()
	if err := repo.Upsert(context.Background(), hs); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	e := echo.New()
	NewHandler(repo).RegisterRoutes(e.Group("/api"), e.Group("/fhir"))

	tests := []struct {
		path string
		code int
	}{
		{"/api/healthcare-services/" + hs.ID.String(), http.StatusOK},
		{"/fhir/HealthcareService/" + hs.ID.String(), http.StatusOK},
		{"/fhir/HealthcareService/" + uuid.New().String(), http.StatusNotFound},
		{"/api/healthcare-services/bad", http.StatusBadRequest},
		{"/fhir/HealthcareService/bad", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.code {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.code, rec.Code)
		}
	}
}
