package fetcher

import (
	"net/url"
	"path"
	"strings"
)

// Filename fallbacks.
const (
	fallbackFilename = "download.pdf"
	pdfExtension     = ".pdf"
)

// ResolveFilename decides the attachment name for a download. A non-empty
// desired name is used verbatim; otherwise the name is the URL's last path
// segment, and a missing or non-PDF segment falls back to a fixed default.
// The result always ends in ".pdf". The suffix match is case-sensitive, so
// "REPORT.PDF" gets ".pdf" appended.
func ResolveFilename(desired, rawURL string) string {
	name := desired
	if name == "" {
		name = lastPathSegment(rawURL)
		if name == "" || !strings.HasSuffix(name, pdfExtension) {
			name = fallbackFilename
		}
	}
	if !strings.HasSuffix(name, pdfExtension) {
		name += pdfExtension
	}
	return name
}

// lastPathSegment returns the final segment of the URL path, or "" when the
// path is empty or ends in a separator.
func lastPathSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return ""
	}
	seg := path.Base(u.Path)
	if seg == "." {
		return ""
	}
	return seg
}
