package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.UnixMilli(1700000000000)
}

func TestObjectKeySanitization(t *testing.T) {
	c := NewClient("http://store", "key", "bucket")
	c.now = fixedClock

	cases := []struct {
		in, want string
	}{
		{"report.pdf", "1700000000000-report.pdf"},
		{"my photo (1).png", "1700000000000-my_photo__1_.png"},
		{"../../etc/passwd", "1700000000000-.._.._etc_passwd"},
		{"nombre espanol.webp", "1700000000000-nombre_espanol.webp"},
	}
	for _, tc := range cases {
		if got := c.ObjectKey(tc.in); got != tc.want {
			t.Errorf("ObjectKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUpload(t *testing.T) {
	var gotPath, gotAuth, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL, "service-key", "attachments")
	c.now = fixedClock

	url, err := c.Upload(context.Background(), "photo.png", "image/png", []byte("data"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if gotPath != "/object/attachments/1700000000000-photo.png" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer service-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotType != "image/png" {
		t.Errorf("content type = %q", gotType)
	}
	if !strings.HasSuffix(url, "/object/public/attachments/1700000000000-photo.png") {
		t.Errorf("public url = %q", url)
	}
}

func TestUploadErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, "service-key", "attachments")
	if _, err := c.Upload(context.Background(), "photo.png", "image/png", []byte("data")); err == nil {
		t.Fatal("expected an error for non-2xx response")
	} else if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should carry the status: %v", err)
	}
}
