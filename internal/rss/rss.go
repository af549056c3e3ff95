// Package rss renders assembled feeds into RSS 2.0 documents. Output
// is deterministic given identical input: the only timestamp not taken
// from the entries themselves is the channel's lastBuildDate, which the
// assembler supplies. All text passes through the XML encoder, so
// upstream-controlled content (event descriptions, aliases) cannot
// break well-formedness.
package rss

import (
	"encoding/xml"
	"fmt"
	"time"

	"poap2rss/internal/domain"
)

type document struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	XmlnsDC string   `xml:"xmlns:dc,attr"`
	XmlnsAt string   `xml:"xmlns:atom,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string   `xml:"title"`
	Description   string   `xml:"description"`
	Link          string   `xml:"link"`
	Language      string   `xml:"language"`
	LastBuildDate string   `xml:"lastBuildDate"`
	Generator     string   `xml:"generator"`
	AtomLink      atomLink `xml:"atom:link"`
	Items         []item   `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type item struct {
	Title       string `xml:"title"`
	Author      string `xml:"author,omitempty"`
	Description string `xml:"description"`
	GUID        guid   `xml:"guid"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
}

type guid struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// pubDate formats a timestamp the way RSS readers expect (RFC 1123,
// GMT).
func pubDate(t time.Time) string {
	return t.UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT")
}

// Render serializes the feed. It fails only on encoder-level defects,
// which the boundary reports as internal errors.
func Render(feed *domain.Feed) ([]byte, error) {
	doc := document{
		Version: "2.0",
		XmlnsDC: "http://purl.org/dc/elements/1.1/",
		XmlnsAt: "http://www.w3.org/2005/Atom",
		Channel: channel{
			Title:         feed.Channel.Title,
			Description:   feed.Channel.Description,
			Link:          feed.Channel.Link,
			Language:      feed.Channel.Language,
			LastBuildDate: pubDate(feed.Channel.BuildTime),
			Generator:     feed.Channel.Generator,
			AtomLink: atomLink{
				Href: feed.Channel.SelfLink,
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: make([]item, 0, len(feed.Entries)),
		},
	}

	for _, entry := range feed.Entries {
		permaLink := "false"
		if entry.PermaLink {
			permaLink = "true"
		}
		doc.Channel.Items = append(doc.Channel.Items, item{
			Title:       entry.Title,
			Author:      entry.Author,
			Description: entry.Body,
			GUID:        guid{IsPermaLink: permaLink, Value: entry.GUID},
			Link:        entry.Link,
			PubDate:     pubDate(entry.PublishedAt),
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal rss: %w", err)
	}

	return append([]byte(xml.Header), append(body, '\n')...), nil
}
