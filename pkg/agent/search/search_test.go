package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSerperParsesOrganicResults(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		w.Write([]byte(`{"organic":[
			{"title":"Go","link":"https://go.dev","snippet":"The Go programming language"},
			{"title":"Go docs","link":"https://go.dev/doc","snippet":"Documentation"}
		]}`))
	}))
	defer srv.Close()

	s := NewSerper("serper_key", time.Second)
	s.endpoint = srv.URL

	results, err := s.Search(context.Background(), "golang", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotKey != "serper_key" {
		t.Errorf("X-API-KEY = %q", gotKey)
	}
	if len(results) != 2 || results[0].Title != "Go" || results[0].URL != "https://go.dev" {
		t.Errorf("results = %+v", results)
	}
}

func TestSerperNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSerper("bad_key", time.Second)
	s.endpoint = srv.URL

	if _, err := s.Search(context.Background(), "q", 5); err == nil {
		t.Error("Search succeeded on HTTP 403")
	}
}

func TestDuckDuckGoParsesRelatedTopics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "golang" {
			t.Errorf("q = %q", got)
		}
		w.Write([]byte(`{"RelatedTopics":[
			{"Text":"Go - A compiled language","FirstURL":"https://go.dev"},
			{"Text":"Gopher - The mascot","FirstURL":"https://go.dev/gopher"},
			{"Text":"","FirstURL":"https://skip.me"}
		]}`))
	}))
	defer srv.Close()

	d := NewDuckDuckGo(time.Second)
	d.endpoint = srv.URL

	results, err := d.Search(context.Background(), "golang", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Title != "Go" {
		t.Errorf("Title = %q, want text before the dash", results[0].Title)
	}
	if results[0].Snippet != "Go - A compiled language" {
		t.Errorf("Snippet = %q", results[0].Snippet)
	}
}

func TestDuckDuckGoFallsBackToAbstract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Abstract":"Go is a language.","AbstractURL":"https://go.dev","RelatedTopics":[]}`))
	}))
	defer srv.Close()

	d := NewDuckDuckGo(time.Second)
	d.endpoint = srv.URL

	results, err := d.Search(context.Background(), "golang", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "About golang" || results[0].Snippet != "Go is a language." {
		t.Errorf("results = %+v", results)
	}
}

// stubSearcher is a canned Searcher for Multi tests.
type stubSearcher struct {
	name    string
	results []Result
	err     error
	calls   int
}

func (s *stubSearcher) Name() string { return s.name }

func (s *stubSearcher) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	s.calls++
	return s.results, s.err
}

func TestMultiUsesFirstProviderWithResults(t *testing.T) {
	first := &stubSearcher{name: "first", results: []Result{{Title: "hit"}}}
	second := &stubSearcher{name: "second", results: []Result{{Title: "unused"}}}
	m := &Multi{providers: []Searcher{first, second}}

	results, err := m.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "hit" {
		t.Errorf("results = %+v", results)
	}
	if second.calls != 0 {
		t.Error("second provider called despite first returning results")
	}
}

func TestMultiFallsThroughErrorsAndEmpties(t *testing.T) {
	failing := &stubSearcher{name: "failing", err: errors.New("boom")}
	empty := &stubSearcher{name: "empty"}
	working := &stubSearcher{name: "working", results: []Result{{Title: "hit"}}}
	m := &Multi{providers: []Searcher{failing, empty, working}}

	results, err := m.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "hit" {
		t.Errorf("results = %+v", results)
	}
}

func TestMultiPlaceholderWhenAllEmpty(t *testing.T) {
	m := &Multi{providers: []Searcher{&stubSearcher{name: "empty"}}}

	results, err := m.Search(context.Background(), "obscure query", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1 placeholder", len(results))
	}
	if !strings.Contains(results[0].Title, "Mock Result") {
		t.Errorf("Title = %q, want placeholder", results[0].Title)
	}
}

func TestNewMultiProviderChain(t *testing.T) {
	withKey := NewMulti("serper_key", 0)
	if got := withKey.Providers(); len(got) != 2 || got[0] != "serper" || got[1] != "duckduckgo" {
		t.Errorf("Providers() = %v", got)
	}

	withoutKey := NewMulti("", 0)
	if got := withoutKey.Providers(); len(got) != 1 || got[0] != "duckduckgo" {
		t.Errorf("Providers() = %v", got)
	}
}
