package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		doc  any
		ops  []Operation
		want any
	}{
		{
			name: "add object key",
			doc:  map[string]any{"a": 1.0},
			ops:  []Operation{{Op: "add", Path: "/b", Value: 2.0}},
			want: map[string]any{"a": 1.0, "b": 2.0},
		},
		{
			name: "replace object key",
			doc:  map[string]any{"a": 1.0},
			ops:  []Operation{{Op: "replace", Path: "/a", Value: "x"}},
			want: map[string]any{"a": "x"},
		},
		{
			name: "remove object key",
			doc:  map[string]any{"a": 1.0, "b": 2.0},
			ops:  []Operation{{Op: "remove", Path: "/b"}},
			want: map[string]any{"a": 1.0},
		},
		{
			name: "replace whole document with empty path",
			doc:  map[string]any{"a": 1.0},
			ops:  []Operation{{Op: "replace", Path: "", Value: map[string]any{"c": 3.0}}},
			want: map[string]any{"c": 3.0},
		},
		{
			name: "add creates missing intermediates",
			doc:  map[string]any{},
			ops:  []Operation{{Op: "add", Path: "/a/b/c", Value: 1.0}},
			want: map[string]any{"a": map[string]any{"b": map[string]any{"c": 1.0}}},
		},
		{
			name: "add appends with dash",
			doc:  map[string]any{"xs": []any{1.0, 2.0}},
			ops:  []Operation{{Op: "add", Path: "/xs/-", Value: 3.0}},
			want: map[string]any{"xs": []any{1.0, 2.0, 3.0}},
		},
		{
			name: "add inserts at array index",
			doc:  map[string]any{"xs": []any{"a", "c"}},
			ops:  []Operation{{Op: "add", Path: "/xs/1", Value: "b"}},
			want: map[string]any{"xs": []any{"a", "b", "c"}},
		},
		{
			name: "replace array index",
			doc:  map[string]any{"xs": []any{"a", "b"}},
			ops:  []Operation{{Op: "replace", Path: "/xs/1", Value: "z"}},
			want: map[string]any{"xs": []any{"a", "z"}},
		},
		{
			name: "remove array index",
			doc:  map[string]any{"xs": []any{"a", "b", "c"}},
			ops:  []Operation{{Op: "remove", Path: "/xs/1"}},
			want: map[string]any{"xs": []any{"a", "c"}},
		},
		{
			name: "escaped pointer segments",
			doc:  map[string]any{"a/b": 1.0, "m~n": 2.0},
			ops: []Operation{
				{Op: "replace", Path: "/a~1b", Value: 10.0},
				{Op: "replace", Path: "/m~0n", Value: 20.0},
			},
			want: map[string]any{"a/b": 10.0, "m~n": 20.0},
		},
		{
			name: "nested descent",
			doc:  map[string]any{"a": map[string]any{"b": []any{map[string]any{"c": 1.0}}}},
			ops:  []Operation{{Op: "replace", Path: "/a/b/0/c", Value: 2.0}},
			want: map[string]any{"a": map[string]any{"b": []any{map[string]any{"c": 2.0}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.doc, tt.ops)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  any
		op   Operation
	}{
		{"replace missing key", map[string]any{}, Operation{Op: "replace", Path: "/a", Value: 1.0}},
		{"remove missing key", map[string]any{}, Operation{Op: "remove", Path: "/a"}},
		{"remove document root", map[string]any{"a": 1.0}, Operation{Op: "remove", Path: ""}},
		{"move unsupported", map[string]any{"a": 1.0}, Operation{Op: "move", Path: "/a"}},
		{"copy unsupported", map[string]any{"a": 1.0}, Operation{Op: "copy", Path: "/a"}},
		{"test unsupported", map[string]any{"a": 1.0}, Operation{Op: "test", Path: "/a"}},
		{"unknown op", map[string]any{"a": 1.0}, Operation{Op: "merge", Path: "/a"}},
		{"pointer without leading slash", map[string]any{"a": 1.0}, Operation{Op: "replace", Path: "a", Value: 1.0}},
		{"array index out of range", map[string]any{"xs": []any{1.0}}, Operation{Op: "replace", Path: "/xs/5", Value: 1.0}},
		{"descend into scalar", map[string]any{"a": 1.0}, Operation{Op: "replace", Path: "/a/b", Value: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.doc, []Operation{tt.op})
			assert.Error(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestApplyIsImmutable(t *testing.T) {
	inner := map[string]any{"c": 1.0}
	doc := map[string]any{"a": inner, "b": []any{"x"}}

	got, err := Apply(doc, []Operation{{Op: "replace", Path: "/a/c", Value: 2.0}})
	require.NoError(t, err)

	// Original untouched, result has the new value.
	assert.Equal(t, 1.0, doc["a"].(map[string]any)["c"])
	assert.Equal(t, 2.0, got.(map[string]any)["a"].(map[string]any)["c"])

	// Untouched siblings keep identity.
	origB := doc["b"].([]any)
	gotB := got.(map[string]any)["b"].([]any)
	assert.Same(t, &origB[0], &gotB[0])
}

func TestReplaceRoundTrip(t *testing.T) {
	doc := map[string]any{"x": "old", "y": 1.0}

	stepped, err := Apply(doc, []Operation{{Op: "replace", Path: "/x", Value: "new"}})
	require.NoError(t, err)

	back, err := Apply(stepped, []Operation{{Op: "replace", Path: "/x", Value: "old"}})
	require.NoError(t, err)

	assert.Equal(t, doc, back)
}

func TestApplyAllOrNothing(t *testing.T) {
	doc := map[string]any{"a": 1.0}

	got, err := Apply(doc, []Operation{
		{Op: "replace", Path: "/a", Value: 2.0},
		{Op: "replace", Path: "/missing", Value: 3.0},
	})
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1.0, doc["a"])
}
