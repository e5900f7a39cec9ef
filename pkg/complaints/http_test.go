package complaints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/reclamo-io/platform/pkg/enrichment"
)

// unconfiguredEnricher builds the real pipeline with no credentials, so
// every classifier settles to its fallback without any network call.
func unconfiguredEnricher(geoBaseURL string) *enrichment.Enricher {
	return enrichment.NewEnricher(
		enrichment.NewSentimentClient(enrichment.SentimentConfig{}),
		enrichment.NewCategoryClassifier(enrichment.NewLLMClient(enrichment.LLMConfig{}), enrichment.DefaultRules()),
		enrichment.NewSpamDetector(enrichment.NewLLMClient(enrichment.LLMConfig{}), enrichment.DefaultRules()),
		enrichment.NewGeoClient(enrichment.GeoConfig{BaseURL: geoBaseURL, Timeout: time.Second}, nil),
	)
}

func newTestRouter(svc *Service) *mux.Router {
	handler := NewHTTPHandler(svc, "secret", 1024*1024)
	router := mux.NewRouter()
	handler.Register(router)
	return router
}

func TestSubmitWithoutAnyClassifierConfigured(t *testing.T) {
	store := &memStore{}
	svc := NewService(unconfiguredEnricher("http://127.0.0.1:1"), store, nil)
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/complaints/", strings.NewReader(`{"text":"service is broken"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var c Complaint
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if c.Sentiment != "unknown" {
		t.Errorf("sentiment = %q, want unknown", c.Sentiment)
	}
	if c.Category != "other" {
		t.Errorf("category = %q, want other", c.Category)
	}
	if c.IsSpam {
		t.Error("is_spam must default to false")
	}
	if c.IPAddress != nil {
		t.Errorf("ip = %q, want absent", *c.IPAddress)
	}
	if c.Location != nil {
		t.Errorf("location = %q, want absent", *c.Location)
	}
	if c.Status != StatusOpen {
		t.Errorf("status = %q, want open", c.Status)
	}
}

func TestSubmitResolvesForwardedForAndLocation(t *testing.T) {
	geoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/1.2.3.4" {
			t.Errorf("unexpected geo path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"status":"success","city":"Paris","country":"France"}`)
	}))
	defer geoServer.Close()

	store := &memStore{}
	svc := NewService(unconfiguredEnricher(geoServer.URL), store, nil)
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/complaints/", strings.NewReader(`{"text":"no signal at home"}`))
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var c Complaint
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if c.IPAddress == nil || *c.IPAddress != "1.2.3.4" {
		t.Errorf("ip = %v, want 1.2.3.4", c.IPAddress)
	}
	if c.Location == nil || *c.Location != "Paris, France" {
		t.Errorf("location = %v, want Paris, France", c.Location)
	}
}

func TestSubmitRejectsEmptyText(t *testing.T) {
	svc := NewService(unconfiguredEnricher("http://127.0.0.1:1"), &memStore{}, nil)
	router := newTestRouter(svc)

	for _, body := range []string{`{"text":""}`, `{}`, `{"text":"   "}`} {
		req := httptest.NewRequest(http.MethodPost, "/complaints/", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestGetComplaint(t *testing.T) {
	store := &memStore{}
	store.records = append(store.records, Complaint{ID: "c1", Text: "hello", Status: StatusOpen, CreatedAt: time.Now().UTC()})
	svc := NewService(unconfiguredEnricher("http://127.0.0.1:1"), store, nil)
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/complaints/c1", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/complaints/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListFiltersSpamWithLimit(t *testing.T) {
	store := &memStore{}
	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		store.records = append(store.records, Complaint{
			ID:        fmt.Sprintf("c%d", i),
			IsSpam:    i%2 == 0,
			Status:    StatusOpen,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	svc := NewService(unconfiguredEnricher("http://127.0.0.1:1"), store, nil)
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/complaints/?is_spam=true&limit=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var records []Complaint
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(records) > 1 {
		t.Errorf("limit not applied, got %d records", len(records))
	}
	for _, c := range records {
		if !c.IsSpam {
			t.Errorf("record %s is not spam", c.ID)
		}
	}
}

func TestListRejectsBadFilterValues(t *testing.T) {
	svc := NewService(unconfiguredEnricher("http://127.0.0.1:1"), &memStore{}, nil)
	router := newTestRouter(svc)

	for _, query := range []string{"is_spam=banana", "limit=-1", "start_date=yesterday"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/complaints/?"+query, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %s: status = %d, want 400", query, rec.Code)
		}
	}
}

func TestCloseRequiresAPIKey(t *testing.T) {
	store := &memStore{}
	store.records = append(store.records, Complaint{ID: "c1", Status: StatusOpen, CreatedAt: time.Now().UTC()})
	svc := NewService(unconfiguredEnricher("http://127.0.0.1:1"), store, nil)
	router := newTestRouter(svc)

	// Missing key
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/complaints/c1/close", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d, want 401", rec.Code)
	}

	// Wrong key
	req := httptest.NewRequest(http.MethodPatch, "/complaints/c1/close", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d, want 401", rec.Code)
	}

	// No mutation happened.
	stored, _ := store.Get(req.Context(), "c1")
	if stored.Status != StatusOpen {
		t.Error("unauthorized close must not mutate the record")
	}

	// Correct key
	req = httptest.NewRequest(http.MethodPatch, "/complaints/c1/close", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestCloseConflictsAndNotFound(t *testing.T) {
	store := &memStore{}
	store.records = append(store.records, Complaint{ID: "done", Status: StatusClosed, CreatedAt: time.Now().UTC()})
	svc := NewService(unconfiguredEnricher("http://127.0.0.1:1"), store, nil)
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/complaints/done/close", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("already closed: status = %d, want 409", rec.Code)
	}

	stored, _ := store.Get(req.Context(), "done")
	if stored.Status != StatusClosed {
		t.Error("record must be unchanged")
	}

	req = httptest.NewRequest(http.MethodPatch, "/complaints/missing/close", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}
}
