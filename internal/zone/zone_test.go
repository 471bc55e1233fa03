package zone

import "testing"

func TestOf_Boundaries(t *testing.T) {
	cases := []struct {
		frame int
		want  Zone
	}{
		{-1, None},
		{0, None},
		{1, Tap},
		{7, Tap},
		{8, Small},
		{13, Small},
		{14, Mid},
		{24, Mid},
		{25, Large},
		{35, Large},
		{36, Full},
		{1000, Full},
	}
	for _, tc := range cases {
		if got := Of(tc.frame); got != tc.want {
			t.Errorf("Of(%d) = %v, want %v", tc.frame, got, tc.want)
		}
	}
}

func TestOf_MonotonicAndTotal(t *testing.T) {
	prev := Of(0)
	for f := 0; f <= 200; f++ {
		z := Of(f)
		if z < None || z > Full {
			t.Fatalf("Of(%d) = %d, out of range", f, z)
		}
		if z < prev {
			t.Fatalf("Of(%d) = %v decreased from %v", f, z, prev)
		}
		if Of(f) != z {
			t.Fatalf("Of(%d) not stable", f)
		}
		prev = z
	}
}

func TestParse(t *testing.T) {
	for z := None; z <= Full; z++ {
		got, ok := Parse(z.String())
		if !ok || got != z {
			t.Errorf("Parse(%q) = (%v, %v), want %v", z.String(), got, ok, z)
		}
	}
	if _, ok := Parse("huge"); ok {
		t.Errorf("Parse(huge) succeeded")
	}
}
