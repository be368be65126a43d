package effort

import "testing"

func TestPoints_DoublesWithEachRank(t *testing.T) {
	t.Parallel()

	expected := map[Size]int{
		SizeNone: 0,
		SizeXS:   1,
		SizeS:    2,
		SizeM:    4,
		SizeL:    8,
		SizeXL:   16,
		SizeXXL:  32,
		SizeXXXL: 64,
	}

	for size, want := range expected {
		if got := Points(size); got != want {
			t.Errorf("Points(%s) = %d, want %d", size, got, want)
		}
	}
}

func TestPoints_StrictlyIncreasing(t *testing.T) {
	t.Parallel()

	sizes := Sizes()
	for i := 1; i < len(sizes); i++ {
		smaller := Points(sizes[i-1])
		larger := Points(sizes[i])
		if larger <= smaller {
			t.Errorf("Points(%s) = %d is not greater than Points(%s) = %d", sizes[i], larger, sizes[i-1], smaller)
		}
	}
}

func TestPoints_UnknownSizeYieldsZero(t *testing.T) {
	t.Parallel()

	if got := Points(Size("gigantic")); got != 0 {
		t.Fatalf("Points(gigantic) = %d, want 0", got)
	}
	if Known(Size("gigantic")) {
		t.Fatal("Known(gigantic) = true, want false")
	}
}

func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Size
		wantErr bool
	}{
		{input: "m", want: SizeM},
		{input: "XL", want: SizeXL},
		{input: " s ", want: SizeS},
		{input: "none", want: SizeNone},
		{input: "huge", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSize(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSize(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
