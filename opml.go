package main

import (
	"encoding/xml"
	"os"
	"time"
)

type opmlDocument struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    opmlHead `xml:"head"`
	Body    opmlBody `xml:"body"`
}

type opmlHead struct {
	Title       string `xml:"title"`
	DateCreated string `xml:"dateCreated,omitempty"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Text     string        `xml:"text,attr"`
	Title    string        `xml:"title,attr,omitempty"`
	Type     string        `xml:"type,attr,omitempty"`
	XMLURL   string        `xml:"xmlUrl,attr,omitempty"`
	HTMLURL  string        `xml:"htmlUrl,attr,omitempty"`
	Children []opmlOutline `xml:"outline"`
}

var opmlMarshal = func(v any) ([]byte, error) {
	return xml.MarshalIndent(v, "", "  ")
}

var opmlNow = time.Now

// ExportOPML writes one outline per category with the category's feeds nested
// under it.
func ExportOPML(path string, groups []CategoryGroup) error {
	outlines := make([]opmlOutline, 0, len(groups))
	for _, group := range groups {
		category := opmlOutline{
			Text:  group.Category.Name,
			Title: group.Category.Name,
		}
		for _, feed := range group.Feeds {
			category.Children = append(category.Children, opmlOutline{
				Text:    feed.Name,
				Title:   feed.Name,
				Type:    "rss",
				XMLURL:  firstNonEmpty(feed.RSS, feed.URL),
				HTMLURL: feed.URL,
			})
		}
		outlines = append(outlines, category)
	}
	doc := opmlDocument{
		Version: "2.0",
		Head: opmlHead{
			Title:       "NewsTerminal feeds",
			DateCreated: opmlNow().UTC().Format(time.RFC1123Z),
		},
		Body: opmlBody{Outlines: outlines},
	}
	data, err := opmlMarshal(doc)
	if err != nil {
		return err
	}
	data = append([]byte(xml.Header), data...)
	return os.WriteFile(path, data, 0o644)
}
