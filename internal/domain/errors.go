package domain

import "fmt"

// UpstreamStatusError reports a non-200 response from the remote server.
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}

// SizeLimitError reports a document larger than the configured ceiling.
// Declared is true when the limit was exceeded by the advertised
// Content-Length, false when the running byte count crossed it mid-stream.
type SizeLimitError struct {
	Bytes    int64
	Limit    int64
	Declared bool
}

func (e *SizeLimitError) Error() string {
	if e.Declared {
		return fmt.Sprintf("File size too large: %d bytes", e.Bytes)
	}
	return fmt.Sprintf("File size exceeded limit: %d bytes", e.Bytes)
}

// TransportError reports a network-level failure (DNS, connection reset,
// timeout) while talking to the upstream.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("download failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ResourceError reports a local storage failure. It is a server fault, not
// retryable within the request.
type ResourceError struct {
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("temporary storage: %v", e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}
