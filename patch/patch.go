// Package patch applies a bounded subset of RFC 6902 JSON Patch to a
// decoded JSON document.
//
// Only the add, replace, and remove operations are supported; move, copy,
// and test are rejected. Documents are treated as immutable: every
// container along the modified path is shallow-cloned, so a successful
// Apply always returns a new top-level value while untouched siblings
// keep their identity.
package patch

import (
	"fmt"
	"strconv"
	"strings"
)

// Operation is a single JSON Patch operation. Path is a JSON Pointer
// (RFC 6901): "~1" escapes "/" and "~0" escapes "~".
type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// Apply runs the operations in order against doc and returns the new
// document. It is all-or-nothing: on error the returned document is nil
// and doc is unchanged. doc itself is never mutated.
func Apply(doc any, ops []Operation) (any, error) {
	result := doc
	for i, op := range ops {
		next, err := applyOne(result, op)
		if err != nil {
			return nil, fmt.Errorf("op %d (%s %s): %w", i, op.Op, op.Path, err)
		}
		result = next
	}
	return result, nil
}

func applyOne(doc any, op Operation) (any, error) {
	switch op.Op {
	case "add", "replace", "remove":
	case "move", "copy", "test":
		return nil, fmt.Errorf("unsupported operation %q", op.Op)
	default:
		return nil, fmt.Errorf("unknown operation %q", op.Op)
	}

	segs, err := parsePointer(op.Path)
	if err != nil {
		return nil, err
	}
	return descend(doc, segs, op.Op, op.Value)
}

// descend walks the pointer segments, cloning each container it passes
// through, and performs the operation at the final segment.
func descend(node any, segs []string, op string, value any) (any, error) {
	if len(segs) == 0 {
		if op == "remove" {
			return nil, fmt.Errorf("cannot remove the document root")
		}
		// add/replace with an empty path replaces the whole document
		return value, nil
	}

	// Missing intermediate containers are created as objects for add.
	if node == nil && op == "add" {
		node = map[string]any{}
	}

	seg := segs[0]
	switch n := node.(type) {
	case map[string]any:
		clone := make(map[string]any, len(n)+1)
		for k, v := range n {
			clone[k] = v
		}
		if len(segs) == 1 {
			switch op {
			case "add":
				clone[seg] = value
			case "replace":
				if _, ok := clone[seg]; !ok {
					return nil, fmt.Errorf("key %q not found", seg)
				}
				clone[seg] = value
			case "remove":
				if _, ok := clone[seg]; !ok {
					return nil, fmt.Errorf("key %q not found", seg)
				}
				delete(clone, seg)
			}
			return clone, nil
		}
		child, ok := clone[seg]
		if !ok && op != "add" {
			return nil, fmt.Errorf("key %q not found", seg)
		}
		next, err := descend(child, segs[1:], op, value)
		if err != nil {
			return nil, err
		}
		clone[seg] = next
		return clone, nil

	case []any:
		if len(segs) == 1 {
			return editArray(n, seg, op, value)
		}
		i, err := arrayIndex(seg, len(n))
		if err != nil {
			return nil, err
		}
		clone := make([]any, len(n))
		copy(clone, n)
		next, err := descend(clone[i], segs[1:], op, value)
		if err != nil {
			return nil, err
		}
		clone[i] = next
		return clone, nil

	default:
		return nil, fmt.Errorf("cannot descend into %T at %q", node, seg)
	}
}

func editArray(arr []any, seg, op string, value any) (any, error) {
	switch op {
	case "add":
		if seg == "-" {
			clone := make([]any, len(arr), len(arr)+1)
			copy(clone, arr)
			return append(clone, value), nil
		}
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i > len(arr) {
			return nil, fmt.Errorf("invalid array index %q", seg)
		}
		clone := make([]any, 0, len(arr)+1)
		clone = append(clone, arr[:i]...)
		clone = append(clone, value)
		clone = append(clone, arr[i:]...)
		return clone, nil

	case "replace":
		i, err := arrayIndex(seg, len(arr))
		if err != nil {
			return nil, err
		}
		clone := make([]any, len(arr))
		copy(clone, arr)
		clone[i] = value
		return clone, nil

	case "remove":
		i, err := arrayIndex(seg, len(arr))
		if err != nil {
			return nil, err
		}
		clone := make([]any, 0, len(arr)-1)
		clone = append(clone, arr[:i]...)
		clone = append(clone, arr[i+1:]...)
		return clone, nil
	}
	return nil, fmt.Errorf("unknown operation %q", op)
}

func arrayIndex(seg string, length int) (int, error) {
	i, err := strconv.Atoi(seg)
	if err != nil || i < 0 || i >= length {
		return 0, fmt.Errorf("invalid array index %q", seg)
	}
	return i, nil
}

// parsePointer splits a JSON Pointer into unescaped segments. An empty
// pointer addresses the document root.
func parsePointer(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("invalid pointer %q", path)
	}
	parts := strings.Split(path[1:], "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		p = strings.ReplaceAll(p, "~0", "~")
		parts[i] = p
	}
	return parts, nil
}
