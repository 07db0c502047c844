package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		perPage string
		def     int
		want    Page
	}{
		{name: "defaults", def: 5, want: Page{Number: 1, PerPage: 5}},
		{name: "explicit", page: "3", perPage: "10", def: 5, want: Page{Number: 3, PerPage: 10}},
		{name: "garbage falls back", page: "abc", perPage: "-2", def: 4, want: Page{Number: 1, PerPage: 4}},
		{name: "zero page", page: "0", perPage: "2", def: 4, want: Page{Number: 1, PerPage: 2}},
		{name: "clamped", page: "2", perPage: "5000", def: 4, want: Page{Number: 2, PerPage: MaxPerPage}},
		{name: "huge page", page: "4611686018427387904", perPage: "4", def: 5, want: Page{Number: MaxPage, PerPage: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Parse(tt.page, tt.perPage, tt.def))
		})
	}
}

func TestOffset(t *testing.T) {
	require.Equal(t, 0, Page{Number: 1, PerPage: 4}.Offset())
	require.Equal(t, 8, Page{Number: 3, PerPage: 4}.Offset())
}

func TestOffsetNeverOverflows(t *testing.T) {
	for _, raw := range []string{"4611686018427387904", "9223372036854775807", "99999999999999999999"} {
		p := Parse(raw, "100", 5)
		require.GreaterOrEqual(t, p.Offset(), 0, raw)
	}
}

func TestPages(t *testing.T) {
	require.EqualValues(t, 0, Pages(0, 5))
	require.EqualValues(t, 1, Pages(5, 5))
	require.EqualValues(t, 2, Pages(6, 5))
	require.EqualValues(t, 3, Pages(7, 3))
}

func TestPagesCoverEveryItem(t *testing.T) {
	const total = 23
	items := make([]int, total)
	for i := range items {
		items[i] = i
	}

	perPage := 4
	var seen []int
	for n := int64(1); n <= Pages(total, perPage); n++ {
		p := Page{Number: int(n), PerPage: perPage}
		end := min(p.Offset()+p.Limit(), total)
		seen = append(seen, items[p.Offset():end]...)
	}
	require.Equal(t, items, seen)
}
