package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func pageArticles(page, count int) []Article {
	articles := make([]Article, 0, count)
	for i := 0; i < count; i++ {
		articles = append(articles, Article{"url": fmt.Sprintf("https://example.com/p%d-%d", page, i)})
	}
	return articles
}

// newPagedServer serves canned pages keyed by the requested page number and
// records every request's query parameters.
func newPagedServer(t *testing.T, totalResults *int, pages map[int][]Article, requests *[]map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if requests != nil {
			params := make(map[string]string)
			for key := range r.URL.Query() {
				params[key] = r.URL.Query().Get(key)
			}
			*requests = append(*requests, params)
		}
		resp := Response{
			Status:       "ok",
			TotalResults: totalResults,
			Articles:     pages[page],
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("Failed to encode response: %v", err)
		}
	}))
}

func intPtr(v int) *int { return &v }

func TestFetchPage_RequestParameters(t *testing.T) {
	var requests []map[string]string
	server := newPagedServer(t, intPtr(1), map[int][]Article{1: pageArticles(1, 1)}, &requests)
	defer server.Close()

	client := NewClient(server.URL, "test-agent/1.0")
	q := Query{Term: "bitcoin", From: "2025-10-01T00:00:00Z", Language: "en", PageSize: 10, MaxPages: 10}

	resp, err := client.FetchPage(context.Background(), "secret-key", q, 3)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if resp.TotalResults == nil || *resp.TotalResults != 1 {
		t.Errorf("Expected totalResults 1, got %v", resp.TotalResults)
	}

	if len(requests) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(requests))
	}
	params := requests[0]
	expected := map[string]string{
		"q":        "bitcoin",
		"from":     "2025-10-01T00:00:00Z",
		"sortBy":   "publishedAt",
		"pageSize": "10",
		"page":     "3",
		"language": "en",
		"apiKey":   "secret-key",
	}
	for key, want := range expected {
		if params[key] != want {
			t.Errorf("Expected parameter %s=%s, got %s", key, want, params[key])
		}
	}
}

func TestFetchPage_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-agent/1.0")
	_, err := client.FetchPage(context.Background(), "key", Query{Term: "bitcoin", PageSize: 10}, 1)
	if err == nil {
		t.Error("Expected error for non-2xx response")
	}
}

func TestFetchAll_StopsAtReportedTotal(t *testing.T) {
	// Two full pages reach the reported total even though more pages exist.
	pages := map[int][]Article{
		1: pageArticles(1, 10),
		2: pageArticles(2, 10),
		3: pageArticles(3, 10),
	}
	var requests []map[string]string
	server := newPagedServer(t, intPtr(20), pages, &requests)
	defer server.Close()

	client := NewClient(server.URL, "test-agent/1.0")
	articles, err := client.FetchAll(context.Background(), "key", Query{Term: "bitcoin", PageSize: 10, MaxPages: 10})
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(articles) != 20 {
		t.Errorf("Expected 20 articles, got %d", len(articles))
	}
	if len(requests) != 2 {
		t.Errorf("Expected 2 page requests, got %d", len(requests))
	}
}

func TestFetchAll_StopsOnShortPage(t *testing.T) {
	pages := map[int][]Article{
		1: pageArticles(1, 10),
		2: pageArticles(2, 4),
	}
	var requests []map[string]string
	server := newPagedServer(t, intPtr(100), pages, &requests)
	defer server.Close()

	client := NewClient(server.URL, "test-agent/1.0")
	articles, err := client.FetchAll(context.Background(), "key", Query{Term: "bitcoin", PageSize: 10, MaxPages: 10})
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(articles) != 14 {
		t.Errorf("Expected 14 articles, got %d", len(articles))
	}
	if len(requests) != 2 {
		t.Errorf("Expected 2 page requests, got %d", len(requests))
	}
}

func TestFetchAll_StopsOnEmptyPage(t *testing.T) {
	pages := map[int][]Article{
		1: pageArticles(1, 10),
		2: {},
	}
	var requests []map[string]string
	server := newPagedServer(t, intPtr(100), pages, &requests)
	defer server.Close()

	client := NewClient(server.URL, "test-agent/1.0")
	articles, err := client.FetchAll(context.Background(), "key", Query{Term: "bitcoin", PageSize: 10, MaxPages: 10})
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(articles) != 10 {
		t.Errorf("Expected 10 articles, got %d", len(articles))
	}
	if len(requests) != 2 {
		t.Errorf("Expected 2 page requests, got %d", len(requests))
	}
}

func TestFetchAll_NeverExceedsMaxPages(t *testing.T) {
	pages := make(map[int][]Article)
	for page := 1; page <= 10; page++ {
		pages[page] = pageArticles(page, 10)
	}
	var requests []map[string]string
	server := newPagedServer(t, intPtr(1000), pages, &requests)
	defer server.Close()

	client := NewClient(server.URL, "test-agent/1.0")
	articles, err := client.FetchAll(context.Background(), "key", Query{Term: "bitcoin", PageSize: 10, MaxPages: 3})
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(articles) != 30 {
		t.Errorf("Expected 30 articles, got %d", len(articles))
	}
	if len(requests) != 3 {
		t.Errorf("Expected 3 page requests, got %d", len(requests))
	}
}

func TestFetchAll_UnknownTotalFallsBackToShortPage(t *testing.T) {
	pages := map[int][]Article{
		1: pageArticles(1, 10),
		2: pageArticles(2, 2),
	}
	server := newPagedServer(t, nil, pages, nil)
	defer server.Close()

	client := NewClient(server.URL, "test-agent/1.0")
	articles, err := client.FetchAll(context.Background(), "key", Query{Term: "bitcoin", PageSize: 10, MaxPages: 10})
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(articles) != 12 {
		t.Errorf("Expected 12 articles, got %d", len(articles))
	}
}

func TestFetchAll_AbortsOnFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp := Response{Status: "ok", TotalResults: intPtr(100), Articles: pageArticles(1, 10)}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-agent/1.0")
	_, err := client.FetchAll(context.Background(), "key", Query{Term: "bitcoin", PageSize: 10, MaxPages: 10})
	if err == nil {
		t.Error("Expected whole fetch to fail when a page request fails")
	}
}
