package media

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/tabiplan/internal/logger"
	"github.com/hitoshi/tabiplan/internal/model"
)

const testDataURL = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.Client(), logger.Setup(io.Discard), server.URL, "avatars-preset", 1024)
}

func TestUploadAvatar(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var req uploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.File != testDataURL {
			t.Errorf("unexpected file payload: %q", req.File)
		}
		if req.UploadPreset != "avatars-preset" {
			t.Errorf("unexpected upload preset: %q", req.UploadPreset)
		}
		if req.Folder != "avatars" {
			t.Errorf("unexpected folder: %q", req.Folder)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://media.example.com/avatars/abc.png"}`))
	})

	url, err := client.UploadAvatar(context.Background(), testDataURL)
	if err != nil {
		t.Fatalf("UploadAvatar failed: %v", err)
	}
	if url != "https://media.example.com/avatars/abc.png" {
		t.Errorf("unexpected URL: %q", url)
	}
}

func TestUploadAvatar_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.UploadAvatar(context.Background(), testDataURL)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeUploadFailed {
		t.Errorf("expected code %q, got %q", model.ErrCodeUploadFailed, apiErr.Code)
	}
}

func TestUploadAvatar_NotDataURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called for invalid input")
	})

	_, err := client.UploadAvatar(context.Background(), "https://example.com/image.png")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeUploadFailed {
		t.Errorf("expected code %q, got %q", model.ErrCodeUploadFailed, apiErr.Code)
	}
}

func TestUploadAvatar_TooLarge(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called for oversized input")
	})

	oversized := "data:image/png;base64," + strings.Repeat("A", 2048)
	_, err := client.UploadAvatar(context.Background(), oversized)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeUploadFailed {
		t.Errorf("expected code %q, got %q", model.ErrCodeUploadFailed, apiErr.Code)
	}
}

func TestUploadAvatar_MissingSecureURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.UploadAvatar(context.Background(), testDataURL)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeUploadFailed {
		t.Errorf("expected code %q, got %q", model.ErrCodeUploadFailed, apiErr.Code)
	}
}
