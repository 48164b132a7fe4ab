// Package reconciler is the client-side companion to the design API.
// It keeps an in-progress design canvas alive across page reloads and
// network failures by reconciling three possible sources on open: a
// locally cached draft, the cloud draft stored by the server, or a
// fresh empty canvas.
package reconciler

import "encoding/json"

// ElementList is an ordered list of opaque drawable elements. The
// reconciler never inspects an element's internals; it only guarantees
// the container is a JSON array, mirroring the server-side contract.
type ElementList []json.RawMessage

// ParseElements decodes raw into an ElementList. Any payload that is
// not a JSON array is an error; that is the signal used to discard a
// corrupt local cache entry.
func ParseElements(raw string) (ElementList, error) {
	var elements ElementList
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		return nil, err
	}
	return elements, nil
}

// Encode serializes the list back to its wire form. A nil or empty
// list encodes as "[]" so the server-side array validation always
// passes.
func (l ElementList) Encode() string {
	if len(l) == 0 {
		return "[]"
	}
	b, err := json.Marshal(l)
	if err != nil {
		// Elements are raw JSON that came from a successful parse, so
		// re-marshaling cannot fail in practice.
		return "[]"
	}
	return string(b)
}
