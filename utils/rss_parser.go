/*
Package utils provides utility functions for RSS feed parsing.

Key Types:
  - FeedParser: the feed-parsing capability used by the /parse_rss handler.
  - GofeedParser: the FeedParser backed by the `gofeed` library.

Key Functions:
  - ProjectFeed: reshapes a parsed feed into a types.FeedResult.

Usage:

	parser := NewGofeedParser(ParserOptions{UserAgent: "rss-feed-tools/1.0"})
	feed, err := parser.ParseURL(ctx, "https://example.com/rss")
	if err != nil {
	    return err
	}
	result := ProjectFeed(feed)
*/
package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-tools/types"
	"github.com/mmcdole/gofeed"
)

// ErrNilFeed is returned when the parser yields neither a feed nor an error
var ErrNilFeed = errors.New("parser returned no feed")

// FeedParser fetches and parses the feed at a URL
type FeedParser interface {
	ParseURL(ctx context.Context, feedURL string) (*gofeed.Feed, error)
}

// ParserOptions configures a GofeedParser
type ParserOptions struct {
	// Timeout bounds the whole fetch. Zero leaves net/http defaults in place.
	Timeout time.Duration
	// UserAgent overrides gofeed's default user agent when set.
	UserAgent string
	// BlockPrivateNetworks refuses loopback, private and internal hosts.
	BlockPrivateNetworks bool
}

// GofeedParser is a FeedParser backed by gofeed
type GofeedParser struct {
	parser       *gofeed.Parser
	blockPrivate bool
}

// NewGofeedParser creates a gofeed-backed parser
func NewGofeedParser(opts ParserOptions) *GofeedParser {
	fp := gofeed.NewParser()
	if opts.UserAgent != "" {
		fp.UserAgent = opts.UserAgent
	}

	client := &http.Client{Timeout: opts.Timeout}
	if opts.BlockPrivateNetworks {
		dialer := &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
			Control:   guardDialControl,
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DialContext = dialer.DialContext
		client.Transport = transport
	}
	fp.Client = client

	return &GofeedParser{
		parser:       fp,
		blockPrivate: opts.BlockPrivateNetworks,
	}
}

/*
ParseURL fetches and parses the feed at feedURL.

The URL is handed to gofeed unchanged. Any failure (network, upstream status,
undetectable feed type, malformed document) is returned as an error, which is
how callers learn that the input was malformed.
*/
func (p *GofeedParser) ParseURL(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	if p.blockPrivate {
		if err := CheckFeedURL(feedURL); err != nil {
			return nil, err
		}
	}

	feed, err := p.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %q: %w", feedURL, err)
	}
	if feed == nil {
		return nil, ErrNilFeed
	}
	return feed, nil
}

// CloseIdleConnections drops pooled upstream connections
func (p *GofeedParser) CloseIdleConnections() {
	if p.parser.Client != nil {
		p.parser.Client.CloseIdleConnections()
	}
}

// ProjectFeed reshapes a parsed feed into the /parse_rss response body.
// Entry order is preserved and absent fields become empty strings.
func ProjectFeed(feed *gofeed.Feed) types.FeedResult {
	result := types.FeedResult{
		Entries: []types.FeedEntry{},
	}
	if feed == nil {
		return result
	}

	result.Feed = types.FeedMeta{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
	}

	result.Entries = make([]types.FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		result.Entries = append(result.Entries, projectItem(item))
	}
	return result
}

func projectItem(item *gofeed.Item) types.FeedEntry {
	if item == nil {
		return types.FeedEntry{}
	}
	return types.FeedEntry{
		Title:     item.Title,
		Link:      item.Link,
		Published: item.Published,
		Summary:   item.Description,
	}
}
