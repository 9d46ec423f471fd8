// Package types contains shared types used across the RSS feed tools
package types

// FeedMeta is the feed-level metadata returned by /parse_rss
type FeedMeta struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// FeedEntry is a single projected feed entry. Absent fields are empty strings.
type FeedEntry struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Summary   string `json:"summary"`
}

// FeedResult is the response body of a successful /parse_rss request
type FeedResult struct {
	Feed    FeedMeta    `json:"feed"`
	Entries []FeedEntry `json:"entries"`
}

// FeedSource represents a predefined RSS feed source
type FeedSource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
