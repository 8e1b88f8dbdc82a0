package etag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinforge/thing-engine-go/things/etag"
	"github.com/twinforge/thing-engine-go/things/model"
)

func Test_FromValue_IsStableForEqualContent(t *testing.T) {
	// arrange - same content, different construction order
	a := map[string]any{"color": "red", "dim": 0.5}
	b := map[string]any{"dim": 0.5, "color": "red"}

	// act
	tagA, okA := etag.FromValue(a)
	tagB, okB := etag.FromValue(b)

	// assert
	require.True(t, okA)
	require.True(t, okB)
	assert.True(t, tagA.Equal(tagB))
}

func Test_FromValue_ChangesWhenContentChanges(t *testing.T) {
	tagA, _ := etag.FromValue(map[string]any{"color": "red"})
	tagB, _ := etag.FromValue(map[string]any{"color": "blue"})

	assert.False(t, tagA.Equal(tagB))
}

func Test_FromValue_AbsentValuesHaveNoTag(t *testing.T) {
	_, ok := etag.FromValue(nil)
	assert.False(t, ok)

	var thing *model.Thing
	_, ok = etag.FromValue(thing)
	assert.False(t, ok, "nil typed pointer counts as absent")
}

func Test_FromValue_UsesTokenPrefixAndFixedLength(t *testing.T) {
	tag, ok := etag.FromValue("some value")

	require.True(t, ok)
	assert.True(t, strings.HasPrefix(tag.String(), "hash:"))
	assert.Len(t, tag.String(), len("hash:")+16)
}

func Test_FromValue_ThingTagIgnoresRevision(t *testing.T) {
	// arrange - identical content at different revisions
	thing := model.NewThing(model.MustThingID("org.example:lamp-1")).
		SetAttributes(map[string]any{"location": "lab"})

	// act
	tagA, okA := etag.FromValue(thing.WithRevision(1))
	tagB, okB := etag.FromValue(thing.WithRevision(2))

	// assert
	require.True(t, okA)
	require.True(t, okB)
	assert.True(t, tagA.Equal(tagB), "content-derived tags must not depend on the revision")
}

func Test_Tag_Equal_AbsentTagsNeverMatch(t *testing.T) {
	var zero etag.Tag

	assert.False(t, zero.Equal(zero))
	assert.False(t, zero.Equal("hash:0011223344556677"))
}

func Test_Tag_HeaderValue_IsQuoted(t *testing.T) {
	tag := etag.Tag("hash:0011223344556677")

	assert.Equal(t, `"hash:0011223344556677"`, tag.HeaderValue())
}

func Test_ParseMatcher_Matches(t *testing.T) {
	current := etag.Tag("hash:0011223344556677")
	other := etag.Tag("hash:8899aabbccddeeff")

	tests := []struct {
		name    string
		header  string
		tag     etag.Tag
		present bool
		want    bool
	}{
		{name: "star_matches_present_value", header: "*", tag: current, present: true, want: true},
		{name: "star_never_matches_absent_value", header: "*", tag: "", present: false, want: false},
		{name: "exact_tag_matches", header: current.HeaderValue(), tag: current, present: true, want: true},
		{name: "different_tag_does_not_match", header: other.HeaderValue(), tag: current, present: true, want: false},
		{name: "unquoted_tag_matches", header: current.String(), tag: current, present: true, want: true},
		{name: "weak_prefix_is_ignored", header: "W/" + current.HeaderValue(), tag: current, present: true, want: true},
		{
			name:    "list_matches_when_any_entry_matches",
			header:  other.HeaderValue() + ", " + current.HeaderValue(),
			tag:     current,
			present: true,
			want:    true,
		},
		{name: "empty_header_matches_nothing", header: "", tag: current, present: true, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			matcher := etag.ParseMatcher(tc.header)

			assert.Equal(t, tc.want, matcher.Matches(tc.tag, tc.present))
		})
	}
}

func Test_ParseMatcher_ZeroMatcherForEmptyInput(t *testing.T) {
	assert.True(t, etag.ParseMatcher("").IsZero())
	assert.True(t, etag.ParseMatcher("   ").IsZero())
	assert.False(t, etag.ParseMatcher("*").IsZero())
}
