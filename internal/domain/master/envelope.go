package master

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelopeKeys are the wrappers the backend uses around payloads, in the
// order they are probed.
var envelopeKeys = []string{"data", "result"}

// NormalizeList decodes a list response. The backend answers with a bare
// array, {"data": [...]} or {"result": [...]} depending on the entity; a
// single wrapped object becomes a one-element list. Unknown shapes yield an
// empty list rather than an error.
func NormalizeList[T any](raw []byte) ([]T, error) {
	items, err := unwrapList(raw, 0)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("decoding list item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// NormalizeOne decodes a single-record response, unwrapping "data" or
// "result" and taking the first element of an array.
func NormalizeOne[T any](raw []byte) (T, error) {
	var out T
	item, err := unwrapOne(raw)
	if err != nil || item == nil {
		return out, err
	}
	if err := json.Unmarshal(item, &out); err != nil {
		return out, fmt.Errorf("decoding record: %w", err)
	}
	return out, nil
}

const maxEnvelopeDepth = 2

func unwrapList(raw []byte, depth int) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decoding list: %w", err)
		}
		return items, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decoding envelope: %w", err)
		}
		for _, key := range envelopeKeys {
			inner, ok := obj[key]
			if !ok {
				continue
			}
			inner = bytes.TrimSpace(inner)
			if len(inner) > 0 && inner[0] == '{' {
				if depth < maxEnvelopeDepth && hasEnvelope(inner) {
					return unwrapList(inner, depth+1)
				}
				return []json.RawMessage{inner}, nil
			}
			return unwrapList(inner, depth+1)
		}
		return nil, nil
	default:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decoding list: %w", err)
		}
		return nil, nil
	}
}

func unwrapOne(raw []byte) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '{' && hasEnvelope(raw) {
		items, err := unwrapList(raw, 0)
		if err != nil || len(items) == 0 {
			return nil, err
		}
		return items[0], nil
	}
	if raw[0] == '[' {
		items, err := unwrapList(raw, 0)
		if err != nil || len(items) == 0 {
			return nil, err
		}
		return items[0], nil
	}
	return raw, nil
}

// hasEnvelope reports whether obj carries a data/result wrapper. An object
// with its own id is a record whose data/result is a plain property, unless
// it also carries the success or message of a response envelope.
func hasEnvelope(obj []byte) bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(obj, &m); err != nil {
		return false
	}
	wrapped := false
	for _, key := range envelopeKeys {
		if _, ok := m[key]; ok {
			wrapped = true
			break
		}
	}
	if !wrapped {
		return false
	}
	if _, ok := m["id"]; !ok {
		return true
	}
	_, success := m["success"]
	_, message := m["message"]
	return success || message
}
