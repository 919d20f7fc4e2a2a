package core

import "fmt"

// ErrUnknownClient is raised by Context.GetClient when name was never
// registered via RegisterClient.
type ErrUnknownClient struct {
	Name  string
	Known []string
}

func (e *ErrUnknownClient) Error() string {
	return fmt.Sprintf("no client registered as %q (known: %v)", e.Name, e.Known)
}

// ErrNoResponse is raised by ActionResult.JSON when the result never
// obtained a response to decode.
type ErrNoResponse struct {
	Cause string
}

func (e *ErrNoResponse) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("cannot get JSON: request failed with no response: %s", e.Cause)
	}
	return "cannot get JSON: request failed with no response"
}
