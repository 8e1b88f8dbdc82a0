package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinforge/thing-engine-go/things/model"
)

func Test_NewPointer_NormalizesEquivalentForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain_path", input: "/a/b", want: "/a/b"},
		{name: "trailing_slash_stripped", input: "/a/b/", want: "/a/b"},
		{name: "multiple_trailing_slashes_stripped", input: "/a/b///", want: "/a/b"},
		{name: "missing_leading_slash_added", input: "a/b", want: "/a/b"},
		{name: "root_as_empty", input: "", want: ""},
		{name: "root_as_single_slash", input: "/", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ptr, err := model.NewPointer(tc.input)

			require.NoError(t, err)
			assert.Equal(t, tc.want, ptr.String())
		})
	}
}

func Test_Pointer_Get_ResolvesNestedValues(t *testing.T) {
	// arrange
	tree := map[string]any{
		"location": map[string]any{
			"floor": 4.0,
			"rooms": []any{"kitchen", "lab"},
		},
	}

	// act + assert
	value, ok := model.MustPointer("/location/floor").Get(tree)
	require.True(t, ok)
	assert.Equal(t, 4.0, value)

	value, ok = model.MustPointer("/location/rooms/1").Get(tree)
	require.True(t, ok)
	assert.Equal(t, "lab", value)

	_, ok = model.MustPointer("/location/rooms/2").Get(tree)
	assert.False(t, ok)

	_, ok = model.MustPointer("/location/missing").Get(tree)
	assert.False(t, ok)
}

func Test_Pointer_Get_RootResolvesWholeTree(t *testing.T) {
	tree := map[string]any{"a": 1.0}

	value, ok := model.MustPointer("/").Get(tree)

	require.True(t, ok)
	assert.Equal(t, tree, value)
}

func Test_Pointer_Set_MaterializesIntermediateObjects(t *testing.T) {
	// act - set into an empty tree
	updated := model.MustPointer("/a/b/c").Set(map[string]any{}, 42)

	// assert
	value, ok := model.MustPointer("/a/b/c").Get(updated)
	require.True(t, ok)
	assert.Equal(t, 42, value)
}

func Test_Pointer_Set_DoesNotMutateInputTree(t *testing.T) {
	// arrange
	original := map[string]any{
		"a": map[string]any{"b": "old"},
	}

	// act
	updated := model.MustPointer("/a/b").Set(original, "new")

	// assert - the original tree is untouched
	assert.Equal(t, "old", original["a"].(map[string]any)["b"])

	value, ok := model.MustPointer("/a/b").Get(updated)
	require.True(t, ok)
	assert.Equal(t, "new", value)
}

func Test_Pointer_Set_ReplacesScalarWithObjectOnDeepSet(t *testing.T) {
	original := map[string]any{"a": "scalar"}

	updated := model.MustPointer("/a/b").Set(original, 1)

	value, ok := model.MustPointer("/a/b").Get(updated)
	require.True(t, ok)
	assert.Equal(t, 1, value)
}

func Test_Pointer_Delete_RemovesValueAndReportsPresence(t *testing.T) {
	// arrange
	tree := map[string]any{
		"a": map[string]any{"b": 1.0, "c": 2.0},
	}

	// act
	updated, removed := model.MustPointer("/a/b").Delete(tree)

	// assert
	require.True(t, removed)
	assert.False(t, model.MustPointer("/a/b").Has(updated))
	assert.True(t, model.MustPointer("/a/c").Has(updated))

	// the original tree is untouched
	assert.True(t, model.MustPointer("/a/b").Has(tree))
}

func Test_Pointer_Delete_MissingValueReportsFalse(t *testing.T) {
	tree := map[string]any{"a": 1.0}

	updated, removed := model.MustPointer("/b").Delete(tree)

	assert.False(t, removed)
	assert.Equal(t, tree, updated)
}

func Test_Pointer_Delete_ArrayElementShiftsRemainder(t *testing.T) {
	tree := map[string]any{"list": []any{"a", "b", "c"}}

	updated, removed := model.MustPointer("/list/1").Delete(tree)

	require.True(t, removed)
	value, ok := model.MustPointer("/list").Get(updated)
	require.True(t, ok)
	assert.Equal(t, []any{"a", "c"}, value)
}

func Test_Pointer_EscapedTokensAddressLiteralNames(t *testing.T) {
	// "~1" decodes to "/" and "~0" to "~" per RFC 6901
	tree := map[string]any{
		"a/b": 1.0,
		"m~n": 2.0,
	}

	value, ok := model.MustPointer("/a~1b").Get(tree)
	require.True(t, ok)
	assert.Equal(t, 1.0, value)

	value, ok = model.MustPointer("/m~0n").Get(tree)
	require.True(t, ok)
	assert.Equal(t, 2.0, value)
}
