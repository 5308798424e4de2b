package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClient() *Client {
	c := NewClient(time.Second)
	c.Delay = time.Millisecond
	return c
}

func TestTransient(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{200, false},
		{400, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
	}
	for _, tt := range tests {
		if got := Transient(tt.status); got != tt.want {
			t.Errorf("Transient(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		if r.Header.Get("X-Token") != "secret" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var in map[string]int
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]int{"sum": in["a"] + in["b"]})
	}))
	defer srv.Close()

	c := testClient()
	c.Header = http.Header{"X-Token": {"secret"}}

	var out map[string]int
	if err := c.PostJSON(context.Background(), srv.URL, map[string]int{"a": 2, "b": 3}, &out); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if out["sum"] != 5 {
		t.Errorf("PostJSON() sum = %d, want 5", out["sum"])
	}
}

func TestPostJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct{ OK bool }
	if err := testClient().PostJSON(context.Background(), srv.URL, nil, &out); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if !out.OK || calls.Load() != 3 {
		t.Errorf("PostJSON() ok = %v after %d calls, want true after 3", out.OK, calls.Load())
	}
}

func TestPostJSONClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := testClient().PostJSON(context.Background(), srv.URL, nil, nil)
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		t.Fatalf("PostJSON() error = %v, want StatusError 400", err)
	}
	if se.Body != "nope" {
		t.Errorf("StatusError.Body = %q, want %q", se.Body, "nope")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestCheckResponseRetryAfter(t *testing.T) {
	tests := []struct {
		status int
		header string
		want   time.Duration
	}{
		{http.StatusTooManyRequests, "3", 3 * time.Second},
		{http.StatusServiceUnavailable, "", 0},
		{http.StatusServiceUnavailable, "Wed, 21 Oct 2015 07:28:00 GMT", 0},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		if tt.header != "" {
			rec.Header().Set("Retry-After", tt.header)
		}
		rec.WriteHeader(tt.status)

		var re *RetryableError
		if err := CheckResponse(rec.Result()); !errors.As(err, &re) {
			t.Fatalf("CheckResponse(%d) = %v, want RetryableError", tt.status, err)
		}
		if re.After != tt.want {
			t.Errorf("CheckResponse(%d, Retry-After %q).After = %v, want %v", tt.status, tt.header, re.After, tt.want)
		}
	}
}
