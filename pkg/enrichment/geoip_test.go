package enrichment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newGeoServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/1.2.3.4" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

func TestResolveLocationSuccess(t *testing.T) {
	server := newGeoServer(t, `{"status":"success","city":"Paris","country":"France"}`)
	defer server.Close()

	client := NewGeoClient(GeoConfig{BaseURL: server.URL}, nil)
	location, outcome := client.ResolveLocation(context.Background(), "1.2.3.4")
	if location == nil {
		t.Fatal("expected a location")
	}
	if *location != "Paris, France" {
		t.Errorf("got %q, want %q", *location, "Paris, France")
	}
	if outcome.Fallback {
		t.Errorf("unexpected fallback: %s", outcome.Reason)
	}
}

func TestResolveLocationEmptyComponentsKeptVerbatim(t *testing.T) {
	server := newGeoServer(t, `{"status":"success","city":"","country":"France"}`)
	defer server.Close()

	client := NewGeoClient(GeoConfig{BaseURL: server.URL}, nil)
	location, _ := client.ResolveLocation(context.Background(), "1.2.3.4")
	if location == nil {
		t.Fatal("expected a location")
	}
	if *location != ", France" {
		t.Errorf("got %q, want %q", *location, ", France")
	}
}

func TestResolveLocationAbsentOnFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"non-success status", `{"status":"fail","message":"private range"}`},
		{"unparsable body", `oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newGeoServer(t, tt.body)
			defer server.Close()

			client := NewGeoClient(GeoConfig{BaseURL: server.URL}, nil)
			location, outcome := client.ResolveLocation(context.Background(), "1.2.3.4")
			if location != nil {
				t.Errorf("expected absent location, got %q", *location)
			}
			if !outcome.Fallback {
				t.Error("expected fallback outcome")
			}
		})
	}

	t.Run("unreachable server", func(t *testing.T) {
		client := NewGeoClient(GeoConfig{BaseURL: "http://127.0.0.1:1"}, nil)
		location, outcome := client.ResolveLocation(context.Background(), "1.2.3.4")
		if location != nil {
			t.Errorf("expected absent location, got %q", *location)
		}
		if !outcome.Fallback {
			t.Error("expected fallback outcome")
		}
	})
}
