// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import "strings"

// Atom feed structures for the arXiv API response. Only the fields the
// pipeline consumes are mapped.
type Feed struct {
	TotalResults int     `xml:"totalResults"`
	StartIndex   int     `xml:"startIndex"`
	Entries      []Entry `xml:"entry"`
}

type Entry struct {
	ID              string     `xml:"id"`
	Title           string     `xml:"title"`
	Summary         string     `xml:"summary"`
	Published       string     `xml:"published"`
	Updated         string     `xml:"updated"`
	Authors         []Author   `xml:"author"`
	Links           []Link     `xml:"link"`
	PrimaryCategory Category   `xml:"primary_category"`
	Categories      []Category `xml:"category"`
}

type Author struct {
	Name string `xml:"name"`
}

type Category struct {
	Term string `xml:"term,attr"`
}

type Link struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

// PDFLink returns the entry's PDF URL, or "" when the feed carries no
// PDF link. Recent API responses omit the ".pdf" suffix; it is restored
// so downloads land with the right extension.
func (e Entry) PDFLink() string {
	for _, l := range e.Links {
		if l.Title != "pdf" {
			continue
		}
		href := l.Href
		if !strings.HasSuffix(href, ".pdf") {
			href += ".pdf"
		}
		return href
	}
	return ""
}
