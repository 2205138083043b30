package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("User-Agent = %q", ua)
		}
		switch r.URL.Path {
		case "/cover.jpg":
			w.Write([]byte("jpegdata"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(time.Second, WithUserAgent("test-agent"))

	data, err := client.Get(context.Background(), srv.URL+"/cover.jpg")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != "jpegdata" {
		t.Errorf("Get() = %q", data)
	}

	_, err = client.Get(context.Background(), srv.URL+"/missing.jpg")
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("Get() error = %v, want ErrUnexpectedStatus", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("expected StatusError with 404, got %v", err)
	}
}

func TestClient_GetTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(20 * time.Millisecond)
	if _, err := client.Get(context.Background(), srv.URL); err == nil {
		t.Error("expected timeout error")
	}
}
