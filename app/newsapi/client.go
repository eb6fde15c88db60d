package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the NewsAPI "everything" search endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		},
	}
}

// FetchPage requests a single page of results, sorted by publication time.
func (c *Client) FetchPage(ctx context.Context, apiKey string, q Query, page int) (*Response, error) {
	params := url.Values{}
	params.Set("q", q.Term)
	params.Set("from", q.From)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("language", q.Language)
	params.Set("apiKey", apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// FetchAll concatenates sequential pages until the result set is exhausted.
// Stop conditions, checked in order after each page: empty page; accumulated
// items reached the reported total; short page; max page count. Any transport
// or non-2xx failure aborts the whole fetch.
func (c *Client) FetchAll(ctx context.Context, apiKey string, q Query) ([]Article, error) {
	var articles []Article
	totalResults := -1

	for page := 1; page <= q.MaxPages; page++ {
		resp, err := c.FetchPage(ctx, apiKey, q, page)
		if err != nil {
			return nil, err
		}

		if totalResults < 0 && resp.TotalResults != nil {
			totalResults = *resp.TotalResults
		}

		if len(resp.Articles) == 0 {
			break
		}

		articles = append(articles, resp.Articles...)

		if totalResults >= 0 && len(articles) >= totalResults {
			break
		}

		if len(resp.Articles) < q.PageSize {
			break
		}
	}

	return articles, nil
}
