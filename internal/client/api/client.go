// Package api implements the HTTP gateway to the Echo backend. Resource
// services depend on the Client interface only, so tests substitute fakes.
package api

import "context"

// TokenSource supplies the bearer credential attached to every request.
// An empty token means the call goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client is the request gateway: one method per HTTP verb, JSON in and out.
// The out argument receives the decoded 2xx response body and may be nil when
// the caller does not care about the payload. Any non-2xx response or
// transport failure is returned as *Error.
type Client interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// TokenSourceFunc adapts a plain function to a TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }
