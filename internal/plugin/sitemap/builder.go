package sitemap

import (
	"log/slog"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cast"

	"git.home.luguber.info/inful/sitemapper/internal/fileset"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/metrics"
)

// Skip reasons reported to logs and metrics.
const (
	skipPattern     = "pattern"
	skipOmitPattern = "omit_pattern"
	skipPrivate     = "private"
)

// Entries derives one entry per indexable file, in file-set order.
// It never fails: malformed per-file values are logged and skipped.
func (p *Plugin) Entries(files *fileset.FileSet, logger *slog.Logger, recorder metrics.Recorder) []Entry {
	if logger == nil {
		logger = p.logger
	}
	recorder = metrics.OrNoop(recorder)

	entries := make([]Entry, 0, files.Len())
	for filePath, f := range files.All() {
		rel := toSlash(filePath)
		log := logger.With(logfields.Path(rel))

		if reason, skip := p.skipReason(rel, f); skip {
			log.Debug("Skipping file", logfields.Reason(reason))
			recorder.IncFileSkipped(Name, reason)
			continue
		}

		canonical := cast.ToString(f.Meta[p.props.Canonical])
		e := p.fileLayer(f, log).over(p.global).entry(
			entryURL(rel, canonical, p.omitIndex, p.omitExtension),
		)
		e.filePath = strings.TrimSpace(canonical) == ""

		if raw, ok := f.Meta[p.props.Sitemap]; ok && raw != nil {
			fields, err := cast.ToStringMapE(raw)
			if err != nil {
				log.Warn("Ignoring non-map sitemap frontmatter", logfields.Error(err))
			} else {
				applyFields(&e, fields, "frontmatter", log)
			}
		}
		if fields, ok := p.overrides[rel]; ok {
			applyFields(&e, fields, "override", log)
		}

		entries = append(entries, e)
	}
	return entries
}

func (p *Plugin) skipReason(rel string, f *fileset.File) (string, bool) {
	if !doublestar.MatchUnvalidated(p.pattern, rel) {
		return skipPattern, true
	}
	if p.omitPattern != "" && doublestar.MatchUnvalidated(p.omitPattern, rel) {
		return skipOmitPattern, true
	}
	if cast.ToBool(f.Meta[p.props.Private]) {
		return skipPrivate, true
	}
	return "", false
}

// fileLayer collects the crawl hints a file's metadata provides, with its
// page type's defaults standing in for the fields that type defines.
func (p *Plugin) fileLayer(f *fileset.File, log *slog.Logger) layer {
	var l layer
	meta := f.Meta

	if v, ok := meta[p.props.ChangeFreq]; ok && v != nil {
		if cf, err := parseChangeFreq(v); err != nil {
			log.Warn("Ignoring invalid changefreq", logfields.Error(err))
		} else {
			l.changeFreq = &cf
		}
	}
	if v, ok := meta[p.props.Priority]; ok && v != nil {
		if pr, err := parsePriority(v); err != nil {
			log.Warn("Ignoring invalid priority", slog.Any("value", v), logfields.Error(err))
		} else {
			l.priority = &pr
		}
	}

	if name := cast.ToString(meta[p.props.PageType]); name != "" {
		if defaults, ok := p.pageTypes[name]; ok {
			if defaults.changeFreq != nil {
				l.changeFreq = defaults.changeFreq
			}
			if defaults.priority != nil {
				l.priority = defaults.priority
			}
		} else {
			log.Debug("Unknown page type", slog.String("page_type", name))
		}
	}

	for _, key := range []string{p.props.LastMod, p.props.Date} {
		v, ok := meta[key]
		if !ok || v == nil {
			continue
		}
		t, err := parseTime(v)
		if err != nil {
			log.Warn("Ignoring unparseable date", slog.String("field", key), slog.Any("value", v), logfields.Error(err))
			continue
		}
		l.lastMod = &t
		break
	}
	if l.lastMod == nil && !f.ModTime.IsZero() {
		t := f.ModTime
		l.lastMod = &t
	}
	return l
}

// globalLayer resolves the configured fallbacks. An unusable priority becomes
// the default priority; other unusable values are dropped.
func globalLayer(changeFreq string, priority, lastMod any, defaultPriority float64, log *slog.Logger) layer {
	var l layer
	if changeFreq != "" {
		if cf, err := parseChangeFreq(changeFreq); err != nil {
			log.Warn("Ignoring invalid global changefreq", logfields.Error(err))
		} else {
			l.changeFreq = &cf
		}
	}

	pr := defaultPriority
	if priority != nil {
		if v, err := parsePriority(priority); err == nil {
			pr = v
		} else {
			log.Warn("Invalid global priority, using default",
				slog.Any("value", priority), slog.Float64("default", defaultPriority))
		}
	}
	l.priority = &pr

	if lastMod != nil {
		if t, err := parseTime(lastMod); err != nil {
			log.Warn("Ignoring unparseable global lastmod", slog.Any("value", lastMod), logfields.Error(err))
		} else {
			l.lastMod = &t
		}
	}
	return l
}
