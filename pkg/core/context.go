// Package core holds the data model shared by every other venomqa
// package: the mutable Context actions read and write, the
// content-addressed State a World observes, the Action/Invariant
// vocabulary the exploration agent evaluates, and the error kinds
// those evaluations can raise.
package core

import (
	"encoding/json"
	"fmt"
)

// actionsRanKey is the reserved Context key the precondition helper
// ActionRan consults. It lives inside the ordinary data map so it
// rolls back with everything else on Context.Restore.
const actionsRanKey = "__venomqa_actions_ran__"

// Context is the mutable key/value store shared by actions within a
// single exploration branch. The data portion is JSON-shaped (nil,
// bool, numbers, strings, []any, map[string]any) and is what
// Snapshot/Restore operate over. Named clients are a disjoint sidecar
// that survives rollback — see RegisterClient.
type Context struct {
	data    map[string]any
	clients map[string]any
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{
		data:    make(map[string]any),
		clients: make(map[string]any),
	}
}

// Get returns the value stored at key, or def if absent.
func (c *Context) Get(key string, def any) any {
	if v, ok := c.data[key]; ok {
		return v
	}
	return def
}

// Set stores v at key.
func (c *Context) Set(key string, v any) {
	c.data[key] = v
}

// Has reports whether key is present.
func (c *Context) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Delete removes key, if present.
func (c *Context) Delete(key string) {
	delete(c.data, key)
}

// Clear empties the data portion. Named clients are untouched.
func (c *Context) Clear() {
	c.data = make(map[string]any)
}

// Snapshot returns an opaque handle that Restore can later consume to
// put the data portion back exactly as it was. The handle is produced
// via a JSON round-trip: cheap, deterministic, and avoids hand-rolled
// deep-copy bugs over an untyped map[string]any (see DESIGN.md).
func (c *Context) Snapshot() (any, error) {
	raw, err := json.Marshal(c.data)
	if err != nil {
		return nil, fmt.Errorf("context: snapshot: %w", err)
	}
	return raw, nil
}

// Restore replaces the data portion wholesale from a handle produced
// by Snapshot. Named clients are never touched.
func (c *Context) Restore(handle any) error {
	raw, ok := handle.([]byte)
	if !ok {
		return fmt.Errorf("context: restore: invalid snapshot handle %T", handle)
	}
	data := make(map[string]any)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("context: restore: %w", err)
		}
	}
	c.data = data
	return nil
}

// RegisterClient attaches a long-lived named client handle (e.g. an
// authenticated HTTP client for a given role). Named clients are not
// part of the snapshot/restore cycle.
func (c *Context) RegisterClient(name string, client any) {
	c.clients[name] = client
}

// GetClient returns the client registered as name, or ErrUnknownClient
// listing every registered name.
func (c *Context) GetClient(name string) (any, error) {
	v, ok := c.clients[name]
	if !ok {
		return nil, &ErrUnknownClient{Name: name, Known: c.clientNames()}
	}
	return v, nil
}

// Clients returns the full set of registered named clients.
func (c *Context) Clients() map[string]any {
	return c.clients
}

func (c *Context) clientNames() []string {
	names := make([]string, 0, len(c.clients))
	for n := range c.clients {
		names = append(names, n)
	}
	return names
}

// MarkActionRan records that an action with this name has executed at
// least once along the current branch. It is part of the ordinary
// data portion, so it rolls back along with everything else.
func (c *Context) MarkActionRan(name string) {
	ran := c.ranSet()
	ran[name] = true
	c.data[actionsRanKey] = ran
}

// ActionRan reports whether MarkActionRan(name) has been called along
// the currently restored branch.
func (c *Context) ActionRan(name string) bool {
	return c.ranSet()[name]
}

// ranSet normalizes the stored ledger. Restore() round-trips it
// through JSON, which turns the map[string]bool into map[string]any,
// so this also handles decoding that shape back.
func (c *Context) ranSet() map[string]bool {
	raw, ok := c.data[actionsRanKey]
	if !ok {
		return map[string]bool{}
	}
	switch v := raw.(type) {
	case map[string]bool:
		return v
	case map[string]any:
		out := make(map[string]bool, len(v))
		for k, val := range v {
			if b, ok := val.(bool); ok && b {
				out[k] = true
			}
		}
		return out
	default:
		return map[string]bool{}
	}
}
