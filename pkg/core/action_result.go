package core

import "time"

// Request records the HTTP request an Action made, for display in a
// Violation's reproduction steps and for wire serialisation.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    any
}

func (r *Request) String() string {
	if r == nil {
		return ""
	}
	return r.Method + " " + r.URL
}

// Response records the HTTP response an Action received.
type Response struct {
	Status  int
	Headers map[string]string
	Body    any
}

// OK reports whether Status is in [200,400), the window spec.md §3
// calls a successful response.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 400
}

// ActionResult is the outcome of executing one Action.
type ActionResult struct {
	Success    bool
	Request    *Request
	Response   *Response
	Error      string
	DurationMS float64
	Timestamp  time.Time
}

// FromResponse builds a successful-or-not ActionResult from a
// completed HTTP exchange. Success is response.OK(), per spec §3.
func FromResponse(req *Request, resp *Response, durationMS float64) *ActionResult {
	return &ActionResult{
		Success:    resp.OK(),
		Request:    req,
		Response:   resp,
		DurationMS: durationMS,
		Timestamp:  time.Now(),
	}
}

// FromError builds a failed ActionResult from a transport-level
// failure — the request never produced a response to evaluate.
func FromError(req *Request, errMsg string) *ActionResult {
	return &ActionResult{
		Success:   false,
		Request:   req,
		Error:     errMsg,
		Timestamp: time.Now(),
	}
}

// JSON returns the response body. It raises ErrNoResponse — never a
// nil-pointer dereference — when the result never obtained a
// response (spec §3, §7 D4).
func (r *ActionResult) JSON() (any, error) {
	if r.Response == nil {
		return nil, &ErrNoResponse{Cause: r.Error}
	}
	return r.Response.Body, nil
}

// StatusCode returns the HTTP status of the response, or 0 if there
// is none.
func (r *ActionResult) StatusCode() int {
	if r.Response == nil {
		return 0
	}
	return r.Response.Status
}
