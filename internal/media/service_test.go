package media

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/feastlyhq/feastly-backend/pkg/config"
	pkgerrors "github.com/feastlyhq/feastly-backend/pkg/errors"
)

func TestUploadSuccess(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/feastly-test/image/upload") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("upload_preset"); got != "unsigned_preset" {
			t.Errorf("expected upload preset, got %q", got)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"secure_url": "https://res.cloudinary.com/feastly-test/image/upload/v1/menu/abc.jpg",
			"public_id":  "menu/abc",
			"width":      1280,
			"height":     720,
			"format":     "jpg",
			"bytes":      43210,
		})
	}))
	defer srv.Close()

	svc := newTestService(t, srv)
	result, err := svc.Upload(context.Background(), UploadInput{
		FileName: "dish.jpg",
		MimeType: "image/jpeg",
		Data:     []byte("fake image bytes"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.URL != "https://res.cloudinary.com/feastly-test/image/upload/v1/menu/abc.jpg" {
		t.Fatalf("unexpected url %q", result.URL)
	}
	if result.Width != 1280 || result.Height != 720 || result.Format != "jpg" {
		t.Fatalf("unexpected metadata %+v", result)
	}
	if requests.Load() != 1 {
		t.Fatalf("expected 1 request, got %d", requests.Load())
	}
}

func TestUploadRejectsNonImageBeforeNetwork(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	svc := newTestService(t, srv)
	_, err := svc.Upload(context.Background(), UploadInput{
		FileName: "report.pdf",
		MimeType: "application/pdf",
		Data:     []byte("%PDF-1.7"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUploadRejected {
		t.Fatalf("expected upload rejected code, got %v", err)
	}
	if requests.Load() != 0 {
		t.Fatal("expected no network call for rejected type")
	}
}

func TestUploadRejectsOversizeBeforeNetwork(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	svc := newTestService(t, srv)
	_, err := svc.Upload(context.Background(), UploadInput{
		FileName: "huge.png",
		MimeType: "image/png",
		Data:     make([]byte, 2*1024*1024),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUploadRejected {
		t.Fatalf("expected upload rejected code, got %v", err)
	}
	if requests.Load() != 0 {
		t.Fatal("expected no network call for oversize file")
	}
}

func TestUploadHostFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "preset not allowed", http.StatusBadRequest)
	}))
	defer srv.Close()

	svc := newTestService(t, srv)
	_, err := svc.Upload(context.Background(), UploadInput{
		FileName: "dish.jpg",
		MimeType: "image/jpeg",
		Data:     []byte("bytes"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}

func TestOptimizedURL(t *testing.T) {
	in := "https://res.cloudinary.com/feastly/image/upload/v1/menu/abc.jpg"
	got := OptimizedURL(in, 640, 480)
	want := "https://res.cloudinary.com/feastly/image/upload/q_auto,f_auto,w_640,h_480,c_fill/v1/menu/abc.jpg"
	if got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}

func TestOptimizedURLWithoutDimensions(t *testing.T) {
	in := "https://res.cloudinary.com/feastly/image/upload/v1/menu/abc.jpg"
	got := OptimizedURL(in, 0, 0)
	want := "https://res.cloudinary.com/feastly/image/upload/q_auto,f_auto/v1/menu/abc.jpg"
	if got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}

func TestOptimizedURLPassthroughUnknown(t *testing.T) {
	for _, in := range []string{
		"https://static.example.com/images/abc.jpg",
		"not a url",
		"",
	} {
		if got := OptimizedURL(in, 640, 480); got != in {
			t.Fatalf("expected passthrough for %q, got %q", in, got)
		}
	}
}

func TestThumbnailURL(t *testing.T) {
	in := "https://res.cloudinary.com/feastly/image/upload/v1/avatars/u1.png"
	got := ThumbnailURL(in)
	if !strings.Contains(got, "w_200,h_200,c_fill") {
		t.Fatalf("expected thumbnail transform, got %q", got)
	}
}

func newTestService(t *testing.T, srv *httptest.Server) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Client:  srv.Client(),
		BaseURL: srv.URL,
		Media: config.MediaConfig{
			CloudName:    "feastly-test",
			UploadPreset: "unsigned_preset",
			MaxUploadMB:  1,
		},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}
