package newsapi

// Article is one raw item as returned by the search API. The upstream shape is
// not guaranteed stable across calls, so it stays a plain mapping until
// normalization.
type Article = map[string]any

// Response is one page of search results. TotalResults is a pointer so a
// missing count can be told apart from a reported zero.
type Response struct {
	Status       string    `json:"status"`
	TotalResults *int      `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// Query describes one paginated search: a fixed topic filter, a lower-bound
// publication timestamp and a language code, plus the paging parameters.
type Query struct {
	Term     string
	From     string
	Language string
	PageSize int
	MaxPages int
}
