package stattest

import (
	"math"
	"testing"
)

func TestDistributions_KnownQuantiles(t *testing.T) {
	// Standard textbook critical values.
	if p := dist.normalTwoSidedP(1.959964); math.Abs(p-0.05) > 1e-4 {
		t.Errorf("normal two-sided p at 1.96: got %v, want ~0.05", p)
	}
	if p := dist.chiSquareUpperTailP(3.841459, 1); math.Abs(p-0.05) > 1e-4 {
		t.Errorf("chi-squared upper-tail p at 3.84 df=1: got %v, want ~0.05", p)
	}
	if p := dist.tTwoSidedP(2.085963, 20); math.Abs(p-0.05) > 1e-4 {
		t.Errorf("t two-sided p at 2.086 df=20: got %v, want ~0.05", p)
	}
	if p := dist.fUpperTailP(4.351244, 2, 20); math.Abs(p-0.0268) > 1e-3 {
		t.Errorf("F upper-tail p at 4.35 (2,20): got %v", p)
	}
}

func TestDistributions_DegenerateDegreesOfFreedom(t *testing.T) {
	if p := dist.tTwoSidedP(5, 0); p != 1 {
		t.Errorf("t with df=0 should return 1, got %v", p)
	}
	if p := dist.chiSquareUpperTailP(5, 0); p != 1 {
		t.Errorf("chi-squared with df=0 should return 1, got %v", p)
	}
	if p := dist.fUpperTailP(5, 0, 10); p != 1 {
		t.Errorf("F with df1=0 should return 1, got %v", p)
	}
}
