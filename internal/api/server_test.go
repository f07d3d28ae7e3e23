package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/storage"
)

type fakeStore struct {
	runs map[string]ir.Run
}

func (s *fakeStore) ListRuns(limit int) ([]storage.RunSummary, error) {
	out := []storage.RunSummary{}
	for id := range s.runs {
		out = append(out, storage.RunSummary{ID: id})
	}
	return out, nil
}

func (s *fakeStore) LoadRun(id string) (ir.Run, error) {
	r, ok := s.runs[id]
	if !ok {
		return ir.Run{}, errNotFound
	}
	return r, nil
}

func (s *fakeStore) LoadLatestRun() (ir.Run, error) {
	for _, r := range s.runs {
		return r, nil
	}
	return ir.Run{}, errNotFound
}

func (s *fakeStore) ListFindings(runID, minSeverity string) ([]storage.FindingRow, error) {
	return []storage.FindingRow{}, nil
}

func (s *fakeStore) ListWaivers(bool) ([]storage.Waiver, error) { return nil, nil }
func (s *fakeStore) CreateWaiver(_, _, _, _, _ string, _ time.Time) (int64, error) {
	return 1, nil
}
func (s *fakeStore) RevokeWaiver(int64) error { return nil }

var errNotFound = &notFoundErr{}

type notFoundErr struct{}

func (*notFoundErr) Error() string { return "not found" }

func newTestServer() *Server {
	return &Server{
		DB: &fakeStore{runs: map[string]ir.Run{
			"r1": {ID: "r1", IRVersion: ir.Version},
		}},
		SessionDuration: time.Hour,
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["ok"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestGetRun(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs/r1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs/absent", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing run: status = %d, want 404", rec.Code)
	}
}

func TestRulesEndpointListsCatalog(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/rules", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Count int `json:"count"`
		Items []struct {
			ID       string `json:"id"`
			Severity string `json:"severity"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count < 40 {
		t.Errorf("catalog suspiciously small: %d rules", body.Count)
	}
	found := false
	for _, it := range body.Items {
		if it.ID == "bif.sorta" {
			found = true
			if it.Severity != ir.SeverityError {
				t.Errorf("bif.sorta severity = %s", it.Severity)
			}
		}
	}
	if !found {
		t.Error("bif.sorta missing from catalog listing")
	}
}

func TestFindingsRejectsBadSeverity(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs/r1/findings?min_severity=BOGUS", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWaiverEndpointsRequireAuth(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/waivers", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/waivers", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("create: status = %d, want 401", rec.Code)
	}
}
