// Package urlutil resolves the page URLs calnav opens.
package urlutil

import (
	"net/url"
	"strings"

	"github.com/kuitang/screening-ui/internal/errs"
)

// BuildAbsolute builds an absolute URL from a base origin and a path.
// Absolute paths are returned unchanged.
func BuildAbsolute(base, path string) string {
	base = normalizeBaseURL(base)
	path = strings.TrimSpace(path)
	if path == "" {
		return base
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "file://") {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return base + path
	}
	return base + "/" + path
}

// Resolve is BuildAbsolute plus a check that the result can be opened.
func Resolve(base, path string) (string, error) {
	raw := BuildAbsolute(base, path)
	if raw == "" {
		return "", errs.New(errs.InvalidArgument, "a page URL is required (pass --url or set CALNAV_BASE_URL)")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errs.Wrap(errs.InvalidArgument, "invalid page URL", err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return "", errs.New(errs.InvalidArgument, "page URL "+raw+" has no host")
		}
	case "file":
	default:
		return "", errs.New(errs.InvalidArgument, "page URL "+raw+" must be http, https or file")
	}
	return raw, nil
}

func normalizeBaseURL(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/")
}
