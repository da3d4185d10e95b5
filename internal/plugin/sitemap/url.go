package sitemap

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

const indexFile = "index.html"

// toSlash normalizes platform separators to forward slashes.
func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// entryURL derives the entry URL for a file. Precedence: canonical, then the
// index-stripped path, then the extension-stripped path, then the path itself.
func entryURL(filePath, canonical string, omitIndex, omitExtension bool) string {
	if strings.TrimSpace(canonical) != "" {
		return canonical
	}
	p := toSlash(filePath)
	if omitIndex && path.Base(p) == indexFile {
		return strings.TrimSuffix(p, indexFile)
	}
	if omitExtension {
		return strings.TrimSuffix(p, path.Ext(p))
	}
	return p
}

// parseHostname validates and returns the base every loc is resolved against.
// The returned URL's path always ends in "/" so relative entries append to it.
func parseHostname(hostname string) (*url.URL, error) {
	if strings.TrimSpace(hostname) == "" {
		return nil, fmt.Errorf("hostname is required")
	}
	base, err := url.Parse(strings.TrimSpace(hostname))
	if err != nil {
		return nil, err
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("hostname %q must be an absolute URL", hostname)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base, nil
}

// resolvePath composes an absolute location from base and a file path,
// escaping characters that are reserved in a URL reference.
func resolvePath(base *url.URL, p string) string {
	return base.ResolveReference(&url.URL{Path: p}).String()
}

// resolve composes an absolute location from base and a relative or absolute reference.
func resolve(base *url.URL, ref string) string {
	r, err := url.Parse(ref)
	if err != nil {
		return base.String() + strings.TrimPrefix(ref, "/")
	}
	return base.ResolveReference(r).String()
}
