package domain

import "time"

// FeedEntry is the unit the serializer consumes. One of three kinds:
// the per-feed metadata entry, a claim entry, or a synthesized
// inactivity notice.
type FeedEntry struct {
	GUID        string
	PermaLink   bool // whether GUID is itself a resolvable URL
	Title       string
	Author      string
	Link        string
	Body        string
	PublishedAt time.Time
}

// ChannelInfo is the feed-level metadata handed to the serializer.
type ChannelInfo struct {
	Title       string
	Description string
	Link        string
	SelfLink    string
	Language    string
	Generator   string
	BuildTime   time.Time
}

// Feed is a fully assembled, ordered feed ready for rendering.
type Feed struct {
	Channel ChannelInfo
	Entries []FeedEntry
}
