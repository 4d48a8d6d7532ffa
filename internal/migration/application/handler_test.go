package application

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ftrs/dos-migration/internal/domain/legacy/legacytest"
	"github.com/ftrs/dos-migration/internal/platform/auth"
)

func newServer(t *testing.T, f *fixture) *echo.Echo {
	t.Helper()
	e := echo.New()
	api := e.Group("", auth.DevAuthMiddleware())
	NewHandler(f.app).RegisterRoutes(api)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Events(t *testing.T) {
	f := newFixture(t, legacytest.GPPractice())
	e := newServer(t, f)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"valid batch", `{"Records":[{"messageId":"1","body":"{\"record_id\":1,\"table_name\":\"services\",\"method\":\"insert\"}"}]}`, http.StatusOK},
		{"invalid message", `{"Records":[{"messageId":"1","body":"not json"}]}`, http.StatusBadRequest},
		{"missing service", `{"Records":[{"messageId":"9","body":"{\"record_id\":9,\"table_name\":\"services\",\"method\":\"insert\"}"}]}`, http.StatusUnprocessableEntity},
		{"malformed envelope", `{"Records":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/events/dms", tt.body)
			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandler_ReferenceData(t *testing.T) {
	e := newServer(t, newFixture(t))

	if rec := do(e, http.MethodPost, "/events/reference-data", `{"type":"triagecode"}`); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(e, http.MethodPost, "/events/reference-data", `{"type":"other"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_FullSync(t *testing.T) {
	f := newFixture(t, legacytest.GPPractice())
	rec := do(newServer(t, f), http.MethodPost, "/sync/full", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var run map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if run["status"] != "completed" || run["migrated_records"] != float64(1) {
		t.Errorf("unexpected run %v", run)
	}
}

func TestHandler_SyncService(t *testing.T) {
	e := newServer(t, newFixture(t, legacytest.GPPractice()))

	tests := []struct {
		path     string
		wantCode int
	}{
		{"/sync/service/1", http.StatusOK},
		{"/sync/service/404", http.StatusNotFound},
		{"/sync/service/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rec := do(e, http.MethodPost, tt.path, ""); rec.Code != tt.wantCode {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.wantCode, rec.Code)
		}
	}
}

func TestHandler_Preview(t *testing.T) {
	inactive := legacytest.GPPractice()
	inactive.ID = 11
	inactive.StatusID = 2
	f := newFixture(t, legacytest.GPPractice(), inactive)
	e := newServer(t, f)

	rec := do(e, http.MethodGet, "/preview/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Output struct {
			HealthcareServices []map[string]interface{} `json:"healthcare_service"`
		} `json:"output"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Output.HealthcareServices) != 1 {
		t.Errorf("expected one previewed healthcare service, got %s", rec.Body.String())
	}
	if f.store.Len(hsTable) != 0 {
		t.Errorf("preview must not persist documents")
	}

	rec = do(e, http.MethodGet, "/preview/11", "")
	if !strings.Contains(rec.Body.String(), "Service is not active") {
		t.Errorf("expected skip reason, got %s", rec.Body.String())
	}

	if rec := do(e, http.MethodGet, "/preview/999", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_RequiresScope(t *testing.T) {
	f := newFixture(t, legacytest.GPPractice())
	e := echo.New()
	api := e.Group("", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error { return next(c) }
	})
	NewHandler(f.app).RegisterRoutes(api)

	rec := do(e, http.MethodPost, "/sync/full", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 without scopes, got %d", rec.Code)
	}
}
