package frame

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-frames/common"
)

func TestStripeClassAlternatesEveryEighth(t *testing.T) {
	tests := []struct {
		nx, ny, time float32
	}{
		{0, 0.01, 0},
		{0.1, 0.3, 0},
		{0.25, 0.7, 0},
		{0.7, 0.1, 0},
		{0.05, 0.5, 2.5},
		{1.3, 0.95, 10.2},
	}
	for _, tt := range tests {
		a := StripeClass(tt.nx, tt.ny, tt.time)
		b := StripeClass(tt.nx, tt.ny+1.0/8, tt.time)
		c := StripeClass(tt.nx, tt.ny+2.0/8, tt.time)
		if a == b {
			t.Errorf("nx=%v ny=%v time=%v: class did not flip after 1/8 (%d)", tt.nx, tt.ny, tt.time, a)
		}
		if a != c {
			t.Errorf("nx=%v ny=%v time=%v: class not periodic over 2/8 (%d vs %d)", tt.nx, tt.ny, tt.time, a, c)
		}
	}
}

func TestStripeClassNegativeBands(t *testing.T) {
	// y = 0.1 - 0.7 = -0.6, band floor(-4.8) = -5
	if got := StripeClass(0.7, 0.1, 0); got != StripeOdd {
		t.Fatalf("expected odd band, got %d", got)
	}
	// y = 0.1 - 0.4 = -0.3, band floor(-2.4) = -3
	if got := StripeClass(0.4, 0.1, 0); got != StripeOdd {
		t.Fatalf("expected odd band, got %d", got)
	}
	// y = 0.1 - 0.3 = -0.2, band floor(-1.6) = -2
	if got := StripeClass(0.3, 0.1, 0); got != StripeEven {
		t.Fatalf("expected even band, got %d", got)
	}
}

func TestStripeClassScrollsWithTime(t *testing.T) {
	// one second of time scrolls the pattern by exactly one band
	if StripeClass(0.2, 0.4, 3) == StripeClass(0.2, 0.4, 4) {
		t.Fatal("a one second step should flip the band")
	}
}

func TestStripeClassOrigin(t *testing.T) {
	if got := StripeClass(0, 0, 0); got != StripeEven {
		t.Fatalf("origin at time 0 should be even, got %d", got)
	}
}

func TestBackgroundColor(t *testing.T) {
	gray := common.Color{R: 0.25, G: 0.25, B: 0.25, A: 1}
	if got := BackgroundColor(0.5, 0.5, 234, 0); got != gray {
		t.Fatalf("top-left pixel = %+v, want %+v", got, gray)
	}
	// pixel row 40 at x=0: ny = 40.5/234 ~ 0.173, band 1
	if got := BackgroundColor(0.5, 40.5, 234, 0); got != (common.Color{}) {
		t.Fatalf("pixel in odd band = %+v, want transparent", got)
	}
	if got := BackgroundColor(0.5, 0.5, 0, 0); got != (common.Color{}) {
		t.Fatalf("zero height should yield transparent, got %+v", got)
	}
}
