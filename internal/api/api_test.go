package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/altum-analytics/uidmatch/internal/engine"
	"github.com/altum-analytics/uidmatch/internal/model"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	eng, err := engine.New(engine.Config{}, nil)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	r := chi.NewRouter()
	NewHandler(eng).RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMatchEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := postJSON(t, router, "/api/match", map[string]any{
		"questions": []model.Question{
			{ID: "q1", Text: "What is your gender?"},
			{ID: "q2", Text: "Totally unrelated"},
		},
		"reference_bank": []model.ReferenceEntry{
			{Heading: "What is your age?", UID: "234"},
			{Heading: "How many people report to you?", UID: "301"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Results   []model.MatchResult `json:"results"`
		MatchRate float64             `json:"match_rate"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results", len(resp.Results))
	}
	if resp.Results[0].Tier != model.TierOverride || resp.Results[0].FinalUID != "233" {
		t.Fatalf("first result = %+v", resp.Results[0])
	}
	if resp.Results[1].Tier != model.TierNone {
		t.Fatalf("second result = %+v", resp.Results[1])
	}
	if resp.MatchRate != 50.0 {
		t.Fatalf("match rate = %v, want 50.0", resp.MatchRate)
	}
}

func TestMatchEndpointRejectsEmptyInput(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/match", map[string]any{
		"questions":      []model.Question{},
		"reference_bank": []model.ReferenceEntry{{Heading: "x y", UID: "1"}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty questions: status = %d", rec.Code)
	}

	rec = postJSON(t, router, "/api/match", map[string]any{
		"questions": []model.Question{{ID: "q1", Text: "anything"}},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty bank: status = %d", rec.Code)
	}
}

func TestCategorizeEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := postJSON(t, router, "/api/categorize", map[string]string{
		"survey_title": "GYB Pulse Check - Participant",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp model.CategoryResult
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Stage != "Pulse Check Survey" || resp.Programme != "Grow Your Business (GYB)" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestPartitionEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := postJSON(t, router, "/api/partition", map[string]any{
		"rows": []model.MatchRecord{
			{Question: model.Question{ID: "q1", Text: "What is your age?"}},
			{Question: model.Question{ID: "q2", Text: "Rate the workshop"}},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		NonIdentity []model.MatchRecord `json:"non_identity"`
		Identity    []model.MatchRecord `json:"identity"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Identity) != 1 || resp.Identity[0].Identity.Type != "age" {
		t.Fatalf("identity rows = %+v", resp.Identity)
	}
	if len(resp.NonIdentity) != 1 {
		t.Fatalf("non-identity rows = %+v", resp.NonIdentity)
	}
}

func TestMalformedBody(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/match", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
