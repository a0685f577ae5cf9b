package release

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCheckReportsUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":"v1.2.0","url":"https://dl.example.com/inkline-1.2.0.tar.gz"}`))
	}))
	defer srv.Close()

	status, err := Check(context.Background(), srv.URL, "v1.1.9", 0)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !status.UpdateAvailable {
		t.Fatalf("expected update available, got %+v", status)
	}
	if status.Latest != "v1.2.0" {
		t.Fatalf("unexpected latest %q", status.Latest)
	}
	if status.DownloadURL != "https://dl.example.com/inkline-1.2.0.tar.gz" {
		t.Fatalf("unexpected download url %q", status.DownloadURL)
	}
	if status.Current != "v1.1.9" {
		t.Fatalf("unexpected current %q", status.Current)
	}
}

func TestCheckUpToDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version":"1.2.0"}`))
	}))
	defer srv.Close()

	status, err := Check(context.Background(), srv.URL, "v1.2.0", 0)
	if err != nil {
		t.Fatalf("check equal versions: %v", err)
	}
	if status.UpdateAvailable {
		t.Fatalf("expected no update for equal versions, got %+v", status)
	}

	status, err = Check(context.Background(), srv.URL, "v2.0.0", 0)
	if err != nil {
		t.Fatalf("check newer local version: %v", err)
	}
	if status.UpdateAvailable {
		t.Fatalf("expected no update when local build is newer, got %+v", status)
	}
}

func TestCheckReportsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone fishing", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Check(context.Background(), srv.URL, "v1.0.0", 0)
	if err == nil {
		t.Fatalf("expected error for http failure")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected status in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "gone fishing") {
		t.Fatalf("expected body excerpt in error, got %v", err)
	}
}

func TestFetchRejectsMissingVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"url":"https://dl.example.com/x"}`))
	}))
	defer srv.Close()

	if _, err := Fetch(context.Background(), srv.URL, 0); err == nil {
		t.Fatalf("expected error for document without version")
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"v1.2.3", "1.2.3", 0},
		{"1.2", "1.2.0", 0},
		{"1.10.0", "1.9.9", 1},
		{"2.0.0", "10.0.0", -1},
		{"0.9", "1.0", -1},
		{"(devel)", "0.0.1", -1},
		{"", "", 0},
		{"v2", "v2.0.1", -1},
	}
	for _, tc := range cases {
		if got := Compare(tc.a, tc.b); got != tc.want {
			t.Fatalf("Compare(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
