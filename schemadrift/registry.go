// Package schemadrift implements the declarative, path-walking schema-drift
// detector (spec.md §4.9, C9): for each registered (path, expected-keys)
// entry, walk the raw payload along the path (wildcard segments fan out
// over lists) and log any key present in the payload but absent from the
// expected set, the first time that key is seen, without rejecting the
// payload.
package schemadrift

import "encoding/json"

// Entry names one schema-drift check: the path to walk (wildcard segments
// are "*"), and the set of keys expected at every node resolved by that
// path. OptionalPath means a failure to resolve path is not itself a
// drift signal (the path may legitimately be absent).
type Entry struct {
	Path         []string
	ExpectedKeys map[string]bool
	OptionalPath bool
}

// Registry is a named set of drift-detection entries, e.g. one per
// top-level row table a parser produces.
type Registry map[string]Entry

// Issue is one detected drift: an unresolvable path segment, a node that
// wasn't an object where one was expected, or an unexpected key.
type Issue struct {
	SchemaKey string
	Path      string
	ErrorType string
	Message   string
}

// resolvedNode pairs a node's dotted/indexed path with its decoded value.
type resolvedNode struct {
	path string
	node any
}

func resolvePath(raw any, path []string) ([]resolvedNode, *Issue) {
	nodes := []resolvedNode{{path: "$", node: raw}}

	for _, token := range path {
		var next []resolvedNode
		for _, n := range nodes {
			if token == "*" {
				list, ok := n.node.([]any)
				if !ok {
					return nil, &Issue{
						Path:      n.path,
						ErrorType: "expected_list_for_wildcard",
						Message:   "expected list at '" + n.path + "' for wildcard '*'",
					}
				}
				for i, item := range list {
					next = append(next, resolvedNode{path: indexPath(n.path, i), node: item})
				}
				continue
			}

			obj, ok := n.node.(map[string]any)
			if !ok {
				return nil, &Issue{
					Path:      n.path,
					ErrorType: "expected_object_for_field",
					Message:   "expected object at '" + n.path + "' before reading field '" + token + "'",
				}
			}
			child, present := obj[token]
			if !present {
				return nil, &Issue{
					Path:      n.path,
					ErrorType: "missing_path_segment",
					Message:   "missing expected field '" + token + "'",
				}
			}
			next = append(next, resolvedNode{path: childPath(n.path, token), node: child})
		}
		nodes = next
	}
	return nodes, nil
}

func childPath(parent, token string) string {
	if parent == "" {
		return token
	}
	return parent + "." + token
}

func indexPath(parent string, idx int) string {
	return parent + "[" + itoa(idx) + "]"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Scan walks raw (already decoded to generic map[string]any/[]any/scalar
// form — use Decode to get there from a json.RawMessage) against every
// entry in r, returning the first-seen-only drift issues per schema key.
func Scan(r Registry, raw any) map[string][]Issue {
	out := make(map[string][]Issue)

	for schemaKey, entry := range r {
		nodes, pathIssue := resolvePath(raw, entry.Path)
		if pathIssue != nil {
			if entry.OptionalPath {
				continue
			}
			pathIssue.SchemaKey = schemaKey
			out[schemaKey] = []Issue{*pathIssue}
			continue
		}

		seen := make(map[string]bool)
		var issues []Issue
		for _, n := range nodes {
			obj, ok := n.node.(map[string]any)
			if !ok {
				if !seen["__node_not_object__"] {
					seen["__node_not_object__"] = true
					issues = append(issues, Issue{
						SchemaKey: schemaKey,
						Path:      n.path,
						ErrorType: "node_not_object",
						Message:   "resolved node at '" + n.path + "' is not an object",
					})
				}
				continue
			}
			for key := range obj {
				if entry.ExpectedKeys[key] || seen[key] {
					continue
				}
				seen[key] = true
				issues = append(issues, Issue{
					SchemaKey: schemaKey,
					Path:      n.path + "." + key,
					ErrorType: "unexpected_key",
					Message:   "unexpected key '" + key + "' at '" + n.path + "'",
				})
			}
		}
		if len(issues) > 0 {
			out[schemaKey] = issues
		}
	}
	return out
}

// Decode converts raw JSON into the generic map/slice/scalar form Scan
// expects.
func Decode(raw json.RawMessage) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
