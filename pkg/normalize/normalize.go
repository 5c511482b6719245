// Package normalize extracts renderable content from arbitrarily wrapped
// tool result payloads.
//
// Response bodies arrive from many heterogeneous upstream API shapes and
// third-party host wrappers. Normalize applies a fixed precedence of known
// wrapper shapes so that every distinct input resolves to exactly one
// unwrapping outcome: prefer the most specific nested wrapper, then
// structural heuristics, then pass through unchanged.
package normalize

// listKeys are checked in order for rules 4 and 5.
var listKeys = [...]string{"results", "items", "records"}

// Normalize unwraps a decoded JSON payload to the value that represents the
// actual content. It is total: any input produces some output without
// panicking, worst case the input itself.
//
// Precedence, first match wins:
//
//  1. falsy payload -> nil
//  2. message.template_data
//  3. message.response_content
//  4. data.results / data.items / data.records
//  5. results / items / records
//  6. rows is an object carrying both columns and rows -> un-nest it
//  7. has columns, or rows is an array -> payload unchanged
//  8. bare array -> {rows: payload}
//  9. payload unchanged
func Normalize(payload any) any {
	if isFalsy(payload) {
		return nil
	}

	if obj, ok := payload.(map[string]any); ok {
		if msg, ok := obj["message"].(map[string]any); ok {
			if v, ok := msg["template_data"]; ok {
				return v
			}
			if v, ok := msg["response_content"]; ok {
				return v
			}
		}

		if data, ok := obj["data"].(map[string]any); ok {
			for _, key := range listKeys {
				if v, ok := data[key]; ok {
					return v
				}
			}
		}

		for _, key := range listKeys {
			if v, ok := obj[key]; ok {
				return v
			}
		}

		// Un-nest one level of accidental double wrapping of a table.
		if nested, ok := obj["rows"].(map[string]any); ok {
			_, hasColumns := nested["columns"]
			_, hasRows := nested["rows"]
			if hasColumns && hasRows {
				return nested
			}
		}

		if _, ok := obj["columns"]; ok {
			return obj
		}
		if _, ok := obj["rows"].([]any); ok {
			return obj
		}

		return obj
	}

	if arr, ok := payload.([]any); ok {
		return map[string]any{"rows": arr}
	}

	return payload
}

// isFalsy mirrors JavaScript truthiness for decoded JSON values: nil,
// false, zero numbers, and empty strings are falsy.
func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case float64:
		return val == 0
	case int:
		return val == 0
	case int64:
		return val == 0
	default:
		return false
	}
}
