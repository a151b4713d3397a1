package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

type fakeLastFM struct {
	mu       sync.Mutex
	queries  []url.Values
	agents   []string
	handlers map[string]func(w http.ResponseWriter, q url.Values)
}

func newFakeLastFM(t *testing.T, handlers map[string]func(w http.ResponseWriter, q url.Values)) (*fakeLastFM, *httptest.Server) {
	t.Helper()
	f := &fakeLastFM{handlers: handlers}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f.mu.Lock()
		f.queries = append(f.queries, q)
		f.agents = append(f.agents, r.UserAgent())
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		h, ok := f.handlers[q.Get("method")]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":3,"message":"Invalid Method"}`))
			return
		}
		h(w, q)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func write(body string) func(w http.ResponseWriter, q url.Values) {
	return func(w http.ResponseWriter, _ url.Values) {
		w.Write([]byte(body))
	}
}

func TestCommonParamsAndUserAgent(t *testing.T) {
	f, srv := newFakeLastFM(t, map[string]func(http.ResponseWriter, url.Values){
		MethodUserInfo: write(`{"user":{"name":"rj","playcount":"150316"}}`),
	})
	c := NewClient("test-key", srv.URL, "asciifm/test")

	info, err := c.GetUserInfo(context.Background(), "rj")
	if err != nil {
		t.Fatalf("GetUserInfo: %v", err)
	}
	if info.User.Name != "rj" {
		t.Errorf("expected rj, got %q", info.User.Name)
	}

	q := f.queries[0]
	for key, want := range map[string]string{
		"method":  MethodUserInfo,
		"api_key": "test-key",
		"format":  "json",
		"user":    "rj",
	} {
		if got := q.Get(key); got != want {
			t.Errorf("query %s = %q, want %q", key, got, want)
		}
	}
	if f.agents[0] != "asciifm/test" {
		t.Errorf("User-Agent = %q, want asciifm/test", f.agents[0])
	}
}

func TestNotFoundStatusReturnsError(t *testing.T) {
	_, srv := newFakeLastFM(t, map[string]func(http.ResponseWriter, url.Values){
		MethodUserInfo: func(w http.ResponseWriter, _ url.Values) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":6,"message":"User not found"}`))
		},
	})
	c := NewClient("test-key", srv.URL, "asciifm/test")

	_, err := c.GetUserInfo(context.Background(), "nobody")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Code != 6 {
		t.Errorf("unexpected error fields: %+v", apiErr)
	}
	if apiErr.Method != MethodUserInfo {
		t.Errorf("Method = %q, want %q", apiErr.Method, MethodUserInfo)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	_, srv := newFakeLastFM(t, map[string]func(http.ResponseWriter, url.Values){
		MethodUserInfo: func(w http.ResponseWriter, _ url.Values) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`<html>bad gateway</html>`))
		},
	})
	c := NewClient("test-key", srv.URL, "asciifm/test")

	_, err := c.GetUserInfo(context.Background(), "rj")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Code != 0 {
		t.Errorf("unexpected error fields: %+v", apiErr)
	}
}

func TestErrorBodyWithOKStatus(t *testing.T) {
	_, srv := newFakeLastFM(t, map[string]func(http.ResponseWriter, url.Values){
		MethodTopAlbums: write(`{"error":6,"message":"The artist you supplied could not be found"}`),
	})
	c := NewClient("test-key", srv.URL, "asciifm/test")

	_, err := c.GetTopAlbums(context.Background(), "zzzz", 1)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if apiErr.Code != 6 {
		t.Errorf("Code = %d, want 6", apiErr.Code)
	}
}

func TestRecentTracksSingleObject(t *testing.T) {
	_, srv := newFakeLastFM(t, map[string]func(http.ResponseWriter, url.Values){
		MethodRecentTracks: write(`{"recenttracks":{"track":{"name":"Creep","artist":{"#text":"Radiohead"},"image":[{"size":"small","#text":"s"},{"size":"medium","#text":"m"}]}}}`),
	})
	c := NewClient("test-key", srv.URL, "asciifm/test")

	resp, err := c.GetRecentTracks(context.Background(), "rj", 1)
	if err != nil {
		t.Fatalf("GetRecentTracks: %v", err)
	}
	tracks := resp.RecentTracks.Track
	if len(tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(tracks))
	}
	if tracks[0].Name != "Creep" || tracks[0].Artist.Text != "Radiohead" {
		t.Errorf("unexpected track: %+v", tracks[0])
	}
	if len(tracks[0].Image) != 2 || tracks[0].Image[1].URL != "m" {
		t.Errorf("unexpected images: %+v", tracks[0].Image)
	}
}

func TestMethodParams(t *testing.T) {
	f, srv := newFakeLastFM(t, map[string]func(http.ResponseWriter, url.Values){
		MethodRecentTracks: write(`{"recenttracks":{"track":[]}}`),
		MethodAlbumSearch:  write(`{"results":{"albummatches":{"album":[]}}}`),
		MethodAlbumInfo:    write(`{"album":{"name":"Abbey Road","artist":"The Beatles"}}`),
		MethodTopAlbums:    write(`{"topalbums":{"album":[]}}`),
	})
	c := NewClient("test-key", srv.URL, "asciifm/test")
	ctx := context.Background()

	if _, err := c.GetRecentTracks(ctx, "rj", 1); err != nil {
		t.Fatalf("GetRecentTracks: %v", err)
	}
	if _, err := c.SearchAlbum(ctx, "Kid A", 1); err != nil {
		t.Fatalf("SearchAlbum: %v", err)
	}
	if _, err := c.GetAlbumInfo(ctx, "Abbey Road", "The Beatles"); err != nil {
		t.Fatalf("GetAlbumInfo: %v", err)
	}
	if _, err := c.GetTopAlbums(ctx, "Radiohead", 1); err != nil {
		t.Fatalf("GetTopAlbums: %v", err)
	}

	tests := []struct {
		method string
		want   map[string]string
		absent []string
	}{
		{MethodRecentTracks, map[string]string{"user": "rj", "limit": "1"}, []string{"autocorrect"}},
		{MethodAlbumSearch, map[string]string{"album": "Kid A", "limit": "1"}, []string{"artist", "autocorrect"}},
		{MethodAlbumInfo, map[string]string{"album": "Abbey Road", "artist": "The Beatles", "autocorrect": "1"}, []string{"limit"}},
		{MethodTopAlbums, map[string]string{"artist": "Radiohead", "limit": "1", "autocorrect": "1"}, []string{"album"}},
	}
	if len(f.queries) != len(tests) {
		t.Fatalf("expected %d requests, got %d", len(tests), len(f.queries))
	}
	for i, tt := range tests {
		q := f.queries[i]
		if q.Get("method") != tt.method {
			t.Errorf("request %d: method = %q, want %q", i, q.Get("method"), tt.method)
			continue
		}
		for k, v := range tt.want {
			if got := q[k]; len(got) != 1 || got[0] != v {
				t.Errorf("%s: %s = %v, want [%s]", tt.method, k, got, v)
			}
		}
		for _, k := range tt.absent {
			if q.Has(k) {
				t.Errorf("%s: unexpected param %s", tt.method, k)
			}
		}
	}
}

func TestAlbumInfoDecoding(t *testing.T) {
	_, srv := newFakeLastFM(t, map[string]func(http.ResponseWriter, url.Values){
		MethodAlbumInfo: write(`{"album":{"name":"Abbey Road","artist":"The Beatles","image":[
			{"size":"small","#text":"https://img/s.jpg"},
			{"size":"medium","#text":"https://img/m.jpg"},
			{"size":"large","#text":"https://img/l.jpg"},
			{"size":"extralarge","#text":"https://img/xl.jpg"}]}}`),
	})
	c := NewClient("test-key", srv.URL, "asciifm/test")

	resp, err := c.GetAlbumInfo(context.Background(), "Abbey Road", "The Beatles")
	if err != nil {
		t.Fatalf("GetAlbumInfo: %v", err)
	}
	if resp.Album == nil {
		t.Fatal("expected album object")
	}
	if len(resp.Album.Image) != 4 || resp.Album.Image[3].Size != "extralarge" {
		t.Errorf("unexpected images: %+v", resp.Album.Image)
	}
}
