package sitemap

import (
	"bytes"
	"encoding/xml"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// XML namespaces of the sitemap protocol and its extensions.
const (
	NamespaceSitemap = "http://www.sitemaps.org/schemas/sitemap/0.9"
	NamespaceImage   = "http://www.google.com/schemas/sitemap-image/1.1"
	NamespaceXHTML   = "http://www.w3.org/1999/xhtml"
)

// Encoder serializes entries into a sitemap document.
type Encoder interface {
	Encode(base *url.URL, entries []Entry, beautify bool) ([]byte, error)
}

// XMLEncoder writes a sitemaps.org 0.9 urlset.
type XMLEncoder struct{}

type xmlURLSet struct {
	XMLName    xml.Name `xml:"urlset"`
	Xmlns      string   `xml:"xmlns,attr"`
	XmlnsImage string   `xml:"xmlns:image,attr,omitempty"`
	XmlnsXHTML string   `xml:"xmlns:xhtml,attr,omitempty"`
	URLs       []xmlURL `xml:"url"`
}

type xmlURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq string     `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
	Links      []xmlLink  `xml:"xhtml:link"`
	Images     []xmlImage `xml:"image:image"`
}

type xmlLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

type xmlImage struct {
	Loc     string `xml:"image:loc"`
	Caption string `xml:"image:caption,omitempty"`
	Title   string `xml:"image:title,omitempty"`
}

// Encode implements Encoder.
func (XMLEncoder) Encode(base *url.URL, entries []Entry, beautify bool) ([]byte, error) {
	set := xmlURLSet{Xmlns: NamespaceSitemap, URLs: make([]xmlURL, 0, len(entries))}

	for _, e := range entries {
		u := xmlURL{
			Loc:        e.location(base),
			LastMod:    w3cDate(e.LastMod),
			ChangeFreq: e.ChangeFreq,
		}
		if e.Priority != nil {
			u.Priority = strconv.FormatFloat(*e.Priority, 'f', -1, 64)
		}
		for _, l := range e.Links {
			u.Links = append(u.Links, xmlLink{Rel: "alternate", Hreflang: l.Lang, Href: resolve(base, l.URL)})
			set.XmlnsXHTML = NamespaceXHTML
		}
		for _, img := range e.Images {
			u.Images = append(u.Images, xmlImage{Loc: resolve(base, img.URL), Caption: img.Caption, Title: img.Title})
			set.XmlnsImage = NamespaceImage
		}
		set.URLs = append(set.URLs, u)
	}

	var (
		body []byte
		err  error
	)
	if beautify {
		body, err = xml.MarshalIndent(set, "", "  ")
	} else {
		body, err = xml.Marshal(set)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(body) + 1)
	buf.WriteString(xml.Header)
	buf.Write(body)
	if beautify {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// location resolves the entry URL against base.
func (e Entry) location(base *url.URL) string {
	if e.filePath {
		return resolvePath(base, e.URL)
	}
	return resolve(base, e.URL)
}

// w3cDate converts an entry's HTTP-date to the W3C datetime form the protocol requires.
func w3cDate(httpDate string) string {
	if httpDate == "" {
		return ""
	}
	t, err := http.ParseTime(httpDate)
	if err != nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
