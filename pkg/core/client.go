package core

import "context"

// RequestOptions carries the optional parts of an HTTP call an Action
// can make through an APIClient.
type RequestOptions struct {
	JSON    any
	Data    []byte
	Headers map[string]string
	Params  map[string]string
}

// RequestOption mutates a RequestOptions; see WithJSON, WithData,
// WithHeaders and WithParams.
type RequestOption func(*RequestOptions)

// WithJSON attaches a JSON-encodable request body.
func WithJSON(v any) RequestOption {
	return func(o *RequestOptions) { o.JSON = v }
}

// WithData attaches a raw request body, bypassing JSON encoding.
func WithData(data []byte) RequestOption {
	return func(o *RequestOptions) { o.Data = data }
}

// WithHeaders merges h into the request's headers.
func WithHeaders(h map[string]string) RequestOption {
	return func(o *RequestOptions) {
		if o.Headers == nil {
			o.Headers = map[string]string{}
		}
		for k, v := range h {
			o.Headers[k] = v
		}
	}
}

// WithParams merges p into the request's query parameters.
func WithParams(p map[string]string) RequestOption {
	return func(o *RequestOptions) {
		if o.Params == nil {
			o.Params = map[string]string{}
		}
		for k, v := range p {
			o.Params[k] = v
		}
	}
}

// ApplyRequestOptions folds a list of RequestOption into a single
// RequestOptions value. Client implementations call this so option
// handling stays in one place regardless of transport.
func ApplyRequestOptions(opts ...RequestOption) RequestOptions {
	var ro RequestOptions
	for _, opt := range opts {
		opt(&ro)
	}
	return ro
}

// APIClient is the capability set world.World exposes to actions as
// their first argument (spec §6.1). Transport failures are converted
// internally into a failed ActionResult — APIClient methods never
// return a Go error, so an action can never forget to handle one.
type APIClient interface {
	Get(ctx context.Context, path string, opts ...RequestOption) *ActionResult
	Post(ctx context.Context, path string, opts ...RequestOption) *ActionResult
	Put(ctx context.Context, path string, opts ...RequestOption) *ActionResult
	Patch(ctx context.Context, path string, opts ...RequestOption) *ActionResult
	Delete(ctx context.Context, path string, opts ...RequestOption) *ActionResult
}

// WorldView is the slice of world.World an Invariant's check function
// needs. It lives here, rather than Invariant taking a concrete
// *world.World, so pkg/core never imports pkg/world (which itself
// imports pkg/core for Action, Context and State).
type WorldView interface {
	Context() *Context
	Clients() map[string]any
	API() APIClient
	Observe() (*State, error)
}
