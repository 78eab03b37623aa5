package utils

import "testing"

func TestCompletionPercentage(t *testing.T) {
	cases := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"empty set", 0, 0, 0},
		{"none done", 0, 8, 0},
		{"six of eight", 6, 8, 75},
		{"five of eight rounds up", 5, 8, 63},
		{"one of three rounds down", 1, 3, 33},
		{"two of three rounds up", 2, 3, 67},
		{"all done", 8, 8, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CompletionPercentage(tc.completed, tc.total); got != tc.want {
				t.Fatalf("CompletionPercentage(%d, %d) = %d, want %d", tc.completed, tc.total, got, tc.want)
			}
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	p := PaginationQuery{Page: 3, Limit: 20}
	if got := p.Offset(); got != 40 {
		t.Fatalf("expected offset 40, got %d", got)
	}
}
