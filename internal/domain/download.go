// Package domain defines the request/result values and error kinds of the
// download relay.
package domain

// FetchRequest names a remote document to relay.
type FetchRequest struct {
	// URL is the absolute http(s) URL of the document.
	URL string
	// Filename is the caller's desired attachment name. Optional; when
	// empty the name is derived from the URL.
	Filename string
}

// FetchResult describes a completed transfer. Path points at temporary
// storage owned by the caller, which must trigger its removal.
type FetchResult struct {
	// Path is the temporary file holding the document bytes.
	Path string
	// Size is the number of bytes transferred.
	Size int64
	// Filename is the resolved attachment name, always ending in ".pdf".
	Filename string
}
