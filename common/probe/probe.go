// Package probe resolves fields out of loosely-shaped JSON documents.
//
// The payment gateway and its webhook deliver the same logical fields under
// different names and nesting levels depending on the provider iteration, so
// every consumer declares an ordered list of candidate key paths and takes
// the first non-empty match instead of hardcoding one shape.
package probe

import (
	"strconv"
	"strings"
)

// FirstString walks the candidate dot-separated paths in order and returns
// the first non-empty string value found in doc.
func FirstString(doc map[string]any, paths ...string) string {
	for _, path := range paths {
		if s := asString(lookup(doc, path)); s != "" {
			return s
		}
	}

	return ""
}

// FirstMap returns the first candidate path that resolves to a non-empty
// JSON object. Falls back to doc itself when no path matches, mirroring
// providers that deliver the transaction at the top level.
func FirstMap(doc map[string]any, paths ...string) map[string]any {
	for _, path := range paths {
		if m, ok := lookup(doc, path).(map[string]any); ok && len(m) > 0 {
			return m
		}
	}

	return doc
}

func lookup(doc map[string]any, path string) any {
	var cur any = doc
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}

	return cur
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
