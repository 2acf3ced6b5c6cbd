package geocode

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/tabiplan/internal/logger"
	"github.com/hitoshi/tabiplan/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.Client(), logger.Setup(io.Discard), server.URL, "test-key")
	return client, server
}

func TestResolve_FirstResultWins(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Paris" {
			t.Errorf("expected query %q, got %q", "Paris", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("expected api key %q, got %q", "test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"geometry":{"lat":48.8566,"lng":2.3522}},
			{"geometry":{"lat":33.6617,"lng":-95.5555}}
		]}`))
	})

	coords, err := client.Resolve(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if coords.Lat != 48.8566 || coords.Lng != 2.3522 {
		t.Errorf("expected first result (48.8566, 2.3522), got (%v, %v)", coords.Lat, coords.Lng)
	}
}

func TestResolve_EmptyResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	})

	_, err := client.Resolve(context.Background(), "xyznotaplace")
	if err == nil {
		t.Fatal("expected error for empty result set")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeLocationNotFound {
		t.Errorf("expected code %q, got %q", model.ErrCodeLocationNotFound, apiErr.Code)
	}
}

func TestResolve_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Resolve(context.Background(), "Paris")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeGeocodeFailed {
		t.Errorf("expected code %q, got %q", model.ErrCodeGeocodeFailed, apiErr.Code)
	}
}

func TestResolve_InvalidJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.Resolve(context.Background(), "Paris")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeGeocodeFailed {
		t.Errorf("expected code %q, got %q", model.ErrCodeGeocodeFailed, apiErr.Code)
	}
}

func TestResolve_EmptyQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called for empty query")
	})

	_, err := client.Resolve(context.Background(), "")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeValidationFailed {
		t.Errorf("expected code %q, got %q", model.ErrCodeValidationFailed, apiErr.Code)
	}
}

func TestResolve_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(http.DefaultClient, logger.Setup(io.Discard), url, "test-key")

	_, err := client.Resolve(context.Background(), "Paris")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeGeocodeFailed {
		t.Errorf("expected code %q, got %q", model.ErrCodeGeocodeFailed, apiErr.Code)
	}
}
