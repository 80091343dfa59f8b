package httpclient

import (
	"context"
	"io"
)

// HTTPRequest represents an HTTP request
type HTTPRequest struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    io.Reader
	Context context.Context
}

// HTTPResponse represents a fully read HTTP response
type HTTPResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	// Truncated is set when the body exceeded MaxContentSize
	Truncated bool
}

// ContentType returns the Content-Type header, if any
func (r *HTTPResponse) ContentType() string {
	return r.Headers["Content-Type"]
}
