package sitemap

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"

	"git.home.luguber.info/inful/sitemapper/internal/foundation/normalization"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

// Entry is one <url> of the generated document.
type Entry struct {
	// URL is the page address relative to the hostname; it may be empty (site root).
	URL string

	// ChangeFreq is empty when absent.
	ChangeFreq string

	// Priority is nil when absent. Zero is a valid priority.
	Priority *float64

	// LastMod is an HTTP-date (RFC 7231 IMF-fixdate), empty when absent.
	LastMod string

	Images []Image
	Links  []Link

	// Extra holds raw override keys the document format has no element for.
	Extra map[string]any

	// filePath marks a URL derived from the file path rather than supplied as a
	// reference; it is escaped as a path when resolved.
	filePath bool
}

// Image is an image sitemap extension entry.
type Image struct {
	URL     string
	Caption string
	Title   string
}

// Link is an alternate-language version of the page.
type Link struct {
	Lang string
	URL  string
}

// ChangeFreq values accepted by the sitemaps.org schema.
var changeFreqs = normalization.NewNormalizer("changefreq", map[string]string{
	"always":  "always",
	"hourly":  "hourly",
	"daily":   "daily",
	"weekly":  "weekly",
	"monthly": "monthly",
	"yearly":  "yearly",
	"never":   "never",
}, "")

// layer is one precedence level of crawl hints. Nil means "not set here".
type layer struct {
	changeFreq *string
	priority   *float64
	lastMod    *time.Time
}

// over returns l with unset fields taken from base.
func (l layer) over(base layer) layer {
	if l.changeFreq == nil {
		l.changeFreq = base.changeFreq
	}
	if l.priority == nil {
		l.priority = base.priority
	}
	if l.lastMod == nil {
		l.lastMod = base.lastMod
	}
	return l
}

func (l layer) entry(url string) Entry {
	e := Entry{URL: url}
	if l.changeFreq != nil {
		e.ChangeFreq = *l.changeFreq
	}
	if l.priority != nil {
		p := *l.priority
		e.Priority = &p
	}
	if l.lastMod != nil {
		e.LastMod = httpDate(*l.lastMod)
	}
	return e
}

func httpDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

func parseChangeFreq(v any) (string, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", err
	}
	return changeFreqs.NormalizeWithError(s)
}

func parsePriority(v any) (float64, error) {
	p, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if p < 0 || p > 1 {
		return 0, fmt.Errorf("priority %v outside [0, 1]", p)
	}
	return p, nil
}

func parseTime(v any) (time.Time, error) {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}, err
	}
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("zero date")
	}
	return t, nil
}

// applyFields merges a raw field map into e. Each listed key replaces the
// entry's value; a null value removes the field. Malformed values are logged
// and leave the field untouched.
func applyFields(e *Entry, fields map[string]any, source string, logger *slog.Logger) {
	warn := func(key string, value any, err error) {
		logger.Warn("Ignoring malformed sitemap field",
			slog.String("source", source),
			slog.String("field", key),
			slog.Any("value", value),
			logfields.Error(err))
	}

	for _, key := range fieldOrder(fields) {
		value := fields[key]
		switch strings.ToLower(key) {
		case "url", "loc":
			if value == nil {
				e.URL, e.filePath = "", false
				continue
			}
			s, err := cast.ToStringE(value)
			if err != nil {
				warn(key, value, err)
				continue
			}
			e.URL, e.filePath = s, false
		case "changefreq":
			if value == nil {
				e.ChangeFreq = ""
				continue
			}
			cf, err := parseChangeFreq(value)
			if err != nil {
				warn(key, value, err)
				continue
			}
			e.ChangeFreq = cf
		case "priority":
			if value == nil {
				e.Priority = nil
				continue
			}
			p, err := parsePriority(value)
			if err != nil {
				warn(key, value, err)
				continue
			}
			e.Priority = &p
		case "lastmod":
			if value == nil {
				e.LastMod = ""
				continue
			}
			t, err := parseTime(value)
			if err != nil {
				warn(key, value, err)
				continue
			}
			e.LastMod = httpDate(t)
		case "img", "image", "images":
			imgs, err := parseImages(value)
			if err != nil {
				warn(key, value, err)
				continue
			}
			e.Images = imgs
		case "links":
			links, err := parseLinks(value)
			if err != nil {
				warn(key, value, err)
				continue
			}
			e.Links = links
		default:
			if e.Extra == nil {
				e.Extra = make(map[string]any)
			}
			e.Extra[key] = value
		}
	}
}

// aliasRank orders alias spellings of one field; the highest rank is applied
// last and wins.
var aliasRank = map[string]int{
	"loc":    0,
	"url":    1,
	"images": 0,
	"image":  1,
	"img":    2,
}

// fieldOrder returns the keys of fields in a stable application order.
func fieldOrder(fields map[string]any) []string {
	keys := slices.Sorted(maps.Keys(fields))
	slices.SortStableFunc(keys, func(a, b string) int {
		return cmp.Compare(aliasRank[strings.ToLower(a)], aliasRank[strings.ToLower(b)])
	})
	return keys
}

func parseImages(v any) ([]Image, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		return []Image{{URL: s}}, nil
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, err
	}
	imgs := make([]Image, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			imgs = append(imgs, Image{URL: s})
			continue
		}
		m, err := cast.ToStringMapStringE(item)
		if err != nil {
			return nil, err
		}
		if m["url"] == "" {
			return nil, fmt.Errorf("image without url")
		}
		imgs = append(imgs, Image{URL: m["url"], Caption: m["caption"], Title: m["title"]})
	}
	return imgs, nil
}

func parseLinks(v any) ([]Link, error) {
	if v == nil {
		return nil, nil
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(items))
	for _, item := range items {
		m, err := cast.ToStringMapStringE(item)
		if err != nil {
			return nil, err
		}
		if m["lang"] == "" || m["url"] == "" {
			return nil, fmt.Errorf("link needs lang and url")
		}
		links = append(links, Link{Lang: m["lang"], URL: m["url"]})
	}
	return links, nil
}
