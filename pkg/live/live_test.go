package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
	"github.com/matzehuels/streamwall/pkg/httputil"
	"github.com/matzehuels/streamwall/pkg/source"
	"github.com/matzehuels/streamwall/pkg/store"
)

var (
	lofi   = source.MustParse("youtube.com/@lofigirl")
	shroud = source.MustParse("twitch.tv/shroud")
	xqc    = source.MustParse("kick.com/xqc")
)

func fastClient() *httputil.Client {
	c := httputil.NewClient(time.Second)
	c.Delay = time.Millisecond
	return c
}

func TestStatuses(t *testing.T) {
	s := NewStatuses()
	s.Update(map[string]Status{
		"b": {IsLive: true},
		"a": {IsLive: true},
		"c": {},
	})
	if got := s.Live(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Live() = %v, want [a b]", got)
	}

	s.Retain([]string{"a", "c"})
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if _, ok := s.Get("b"); ok {
		t.Error("Get(b) found a dropped entry")
	}

	snap := s.Snapshot()
	snap["a"] = Status{}
	if st, _ := s.Get("a"); !st.IsLive {
		t.Error("Snapshot() shares storage with the table")
	}
}

func TestHTTPResolver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/live":
			var req liveRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			resp := liveResponse{Statuses: map[string]Status{}}
			for _, ref := range req.Sources {
				resp.Statuses[ref.ID()] = Status{IsLive: ref.Platform == source.Twitch, VideoID: ref.Channel}
			}
			_ = json.NewEncoder(w).Encode(resp)
		case "/channels":
			var req channelsRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			resp := channelsResponse{Channels: map[string]Channel{}}
			for _, u := range req.URLs {
				resp.Channels[u] = Channel{ID: "UC123", Title: "Lofi Girl", URL: u}
			}
			_ = json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	r, err := NewHTTPResolver(srv.URL+"/", WithClient(fastClient()), WithToken("tok"))
	if err != nil {
		t.Fatalf("NewHTTPResolver() error = %v", err)
	}

	got, err := r.Resolve(context.Background(), []SourceRef{lofi, shroud})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !got[shroud.ID()].IsLive || got[lofi.ID()].IsLive {
		t.Errorf("Resolve() = %+v", got)
	}
	if got[lofi.ID()].VideoID != "@lofigirl" {
		t.Errorf("VideoID = %q, want %q", got[lofi.ID()].VideoID, "@lofigirl")
	}

	ch, err := r.ResolveChannels(context.Background(), []string{lofi.URL})
	if err != nil {
		t.Fatalf("ResolveChannels() error = %v", err)
	}
	if ch[lofi.URL].Title != "Lofi Girl" {
		t.Errorf("ResolveChannels() = %+v", ch)
	}

	empty, err := r.Resolve(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("Resolve(nil) = %v, %v, want empty", empty, err)
	}
}

func TestHTTPResolverErrors(t *testing.T) {
	if _, err := NewHTTPResolver("ftp://x"); !swerrors.Is(err, swerrors.ErrCodeInvalidURL) {
		t.Errorf("NewHTTPResolver(ftp) error = %v, want INVALID_URL", err)
	}

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	r, _ := NewHTTPResolver(srv.URL, WithClient(fastClient()))
	_, err := r.Resolve(context.Background(), []SourceRef{shroud})
	if !swerrors.Is(err, swerrors.ErrCodeNetwork) {
		t.Errorf("Resolve() error = %v, want NETWORK_ERROR", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3 attempts", calls.Load())
	}
}

func TestPollerPoll(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := ResolverFunc(func(ctx context.Context, refs []SourceRef) (map[string]Status, error) {
		return map[string]Status{
			shroud.ID(): {IsLive: true, VideoID: "v1"},
			lofi.ID():   {CheckedAt: at},
			"stranger":  {IsLive: true},
		}, nil
	})

	var updates []map[string]Status
	p := NewPoller(r, Sources(lofi, shroud, xqc), WithCallback(func(m map[string]Status) {
		updates = append(updates, m)
	}))
	p.now = func() time.Time { return at.Add(time.Minute) }

	got, err := p.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Poll() = %+v, want 3 entries", got)
	}
	if st := got[xqc.ID()]; !st.Uncertain {
		t.Errorf("missing stream status = %+v, want uncertain", st)
	}
	if st := got[lofi.ID()]; !st.CheckedAt.Equal(at) {
		t.Errorf("CheckedAt = %v, want resolver time %v", st.CheckedAt, at)
	}
	if st := got[shroud.ID()]; !st.CheckedAt.Equal(at.Add(time.Minute)) {
		t.Errorf("CheckedAt = %v, want poll time", st.CheckedAt)
	}
	if _, ok := p.Statuses().Get("stranger"); ok {
		t.Error("unrequested stream stored in table")
	}
	if live := p.Statuses().Live(); !slices.Equal(live, []string{shroud.ID()}) {
		t.Errorf("Live() = %v, want [%s]", live, shroud.ID())
	}
	if len(updates) != 1 || len(updates[0]) != 3 {
		t.Errorf("callback updates = %v", updates)
	}
}

func TestPollerKeepsTableOnError(t *testing.T) {
	fail := false
	r := ResolverFunc(func(ctx context.Context, refs []SourceRef) (map[string]Status, error) {
		if fail {
			return nil, errors.New("resolver down")
		}
		return map[string]Status{shroud.ID(): {IsLive: true}}, nil
	})
	p := NewPoller(r, Sources(shroud))
	if _, err := p.Poll(context.Background()); err != nil {
		t.Fatal(err)
	}
	fail = true
	if _, err := p.Poll(context.Background()); err == nil {
		t.Fatal("Poll() error = nil, want resolver error")
	}
	if st, ok := p.Statuses().Get(shroud.ID()); !ok || !st.IsLive {
		t.Errorf("status after failed poll = %+v, %v, want previous live status", st, ok)
	}
}

func TestPollerCache(t *testing.T) {
	mem := store.NewMemoryStore()
	r := ResolverFunc(func(ctx context.Context, refs []SourceRef) (map[string]Status, error) {
		return map[string]Status{shroud.ID(): {IsLive: true, VideoID: "abc"}}, nil
	})

	first := NewPoller(r, Sources(shroud), WithCache(mem, time.Hour))
	if _, err := first.Poll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if keys := mem.Keys(); !slices.Equal(keys, []string{"live:" + shroud.ID()}) {
		t.Errorf("cache keys = %v", keys)
	}

	second := NewPoller(r, Sources(shroud, xqc), WithCache(mem, 0))
	if n := second.Warm(context.Background()); n != 1 {
		t.Errorf("Warm() = %d, want 1", n)
	}
	if st, _ := second.Statuses().Get(shroud.ID()); st.VideoID != "abc" {
		t.Errorf("warmed status = %+v", st)
	}
	if second.ttl != 2*DefaultInterval {
		t.Errorf("default ttl = %v, want %v", second.ttl, 2*DefaultInterval)
	}
}

func TestPollerRun(t *testing.T) {
	var polls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := ResolverFunc(func(ctx context.Context, refs []SourceRef) (map[string]Status, error) {
		if polls.Add(1) == 1 {
			return nil, errors.New("first poll fails")
		}
		return map[string]Status{}, nil
	})
	p := NewPoller(r, Sources(lofi), WithInterval(time.Millisecond), WithCallback(func(map[string]Status) {
		if polls.Load() >= 3 {
			cancel()
		}
	}))

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
	if polls.Load() < 3 {
		t.Errorf("polls = %d, want at least 3", polls.Load())
	}
}

func TestPollerDefaults(t *testing.T) {
	p := NewPoller(ResolverFunc(nil), Sources(), WithInterval(-time.Second))
	if p.Interval() != DefaultInterval {
		t.Errorf("Interval() = %v, want %v", p.Interval(), DefaultInterval)
	}
}
