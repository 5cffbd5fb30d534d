package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueries(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []RangeQuery
	}{
		{
			name:  "range token",
			input: "100192 1-10",
			want:  []RangeQuery{{Identifier: "100192", Start: 1, End: 10}},
		},
		{
			name:  "single token",
			input: "100192 7",
			want:  []RangeQuery{{Identifier: "100192", Start: 7, End: 7}},
		},
		{
			name:  "comma separated",
			input: "A 1-5, B 10",
			want:  []RangeQuery{{"A", 1, 5}, {"B", 10, 10}},
		},
		{
			name:  "newline separated",
			input: "A 1-5\nB 10",
			want:  []RangeQuery{{"A", 1, 5}, {"B", 10, 10}},
		},
		{
			name:  "windows line endings",
			input: "A 1-5\r\nB 10\r\n",
			want:  []RangeQuery{{"A", 1, 5}, {"B", 10, 10}},
		},
		{
			name:  "extra whitespace between parts",
			input: "  X   3-4  ,\t Y\t2 ",
			want:  []RangeQuery{{"X", 3, 4}, {"Y", 2, 2}},
		},
		{
			name:  "malformed tokens skipped",
			input: "hello, A 1-5, 7, B x-y, C 1-2-3, D 4",
			want:  []RangeQuery{{"A", 1, 5}, {"D", 4, 4}},
		},
		{
			name:  "order preserved",
			input: "Z 9, A 1, M 5-6",
			want:  []RangeQuery{{"Z", 9, 9}, {"A", 1, 1}, {"M", 5, 6}},
		},
		{
			name:  "shape match without bound checks",
			input: "X 0-5, X 5-3",
			want:  []RangeQuery{{"X", 0, 5}, {"X", 5, 3}},
		},
		{
			name:  "overflowing number skipped",
			input: "X 99999999999999999999999, Y 1",
			want:  []RangeQuery{{"Y", 1, 1}},
		},
		{
			name:  "empty input",
			input: "  , \n ,",
			want:  []RangeQuery{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQueries(tt.input))
		})
	}
}

func TestParseQueries_RangeRoundTrip(t *testing.T) {
	ids := []string{"100192", "X", "port-A_7", "QR#12"}
	bounds := [][2]int{{1, 1}, {1, 20}, {5, 10}, {42, 1000}}

	for _, id := range ids {
		for _, b := range bounds {
			got := ParseQueries(fmt.Sprintf("%s %d-%d", id, b[0], b[1]))
			require.Len(t, got, 1)
			assert.Equal(t, RangeQuery{Identifier: id, Start: b[0], End: b[1]}, got[0])
		}
	}
}

func TestParseQueries_ShorthandEquivalence(t *testing.T) {
	for _, n := range []int{1, 2, 17, 999} {
		short := ParseQueries(fmt.Sprintf("X %d", n))
		long := ParseQueries(fmt.Sprintf("X %d-%d", n, n))
		assert.Equal(t, long, short)
	}
}

func TestParseQueries_SeparatorIndependence(t *testing.T) {
	comma := ParseQueries("A 1-5, B 10")
	newline := ParseQueries("A 1-5\nB 10")

	assert.Len(t, comma, 2)
	assert.Equal(t, comma, newline)
}

func TestParseTokens(t *testing.T) {
	got := ParseTokens([]string{" A 1-2 ", "", "junk", "B 3"})
	assert.Equal(t, []RangeQuery{{"A", 1, 2}, {"B", 3, 3}}, got)
}

func TestSplitTokens(t *testing.T) {
	assert.Equal(t, []string{"A 1-5", "B 10", "C 2"}, SplitTokens("A 1-5,, B 10\n\n C 2 ,"))
	assert.Empty(t, SplitTokens(""))
}

func TestRangeQueryString(t *testing.T) {
	assert.Equal(t, "999999 7-7", RangeQuery{Identifier: "999999", Start: 7, End: 7}.String())
	assert.Equal(t, "X 1-20", RangeQuery{Identifier: "X", Start: 1, End: 20}.String())
}
