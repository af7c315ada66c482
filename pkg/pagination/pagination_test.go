package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{in: 0, want: DefaultLimit},
		{in: -5, want: DefaultLimit},
		{in: 10, want: 10},
		{in: MaxLimit, want: MaxLimit},
		{in: MaxLimit + 1, want: MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeOffset(t *testing.T) {
	if got := NormalizeOffset(-1); got != 0 {
		t.Errorf("expected negative offset clamped to 0, got %d", got)
	}
	if got := NormalizeOffset(42); got != 42 {
		t.Errorf("expected offset passed through, got %d", got)
	}
	if got := NormalizeOffset(MaxOffset + 1); got != MaxOffset {
		t.Errorf("expected offset capped at %d, got %d", MaxOffset, got)
	}
}
