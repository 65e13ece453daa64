package fixang

import (
	"math"
	"testing"
)

func TestSinCosIdentities(t *testing.T) {
	cases := []Angle{0, Angle90, Angle180, Angle270, FromDegrees(45), FromDegrees(123.25)}
	for _, a := range cases {
		s, c := Sin(a), Cos(a)
		if math.Abs(s*s+c*c-1.0) > 1e-3 {
			t.Errorf("angle %v: sin^2+cos^2 = %f, want ~1", a, s*s+c*c)
		}
	}
}

func TestSin90(t *testing.T) {
	if got := Sin(Angle90); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("Sin(90deg) = %f, want 1.0", got)
	}
}

func TestATan2RoundTrip(t *testing.T) {
	a := ATan2(1, 1) // 45 degrees
	deg := a.ToDegrees()
	if math.Abs(deg-45.0) > 0.1 {
		t.Errorf("ATan2(1,1).ToDegrees() = %f, want ~45", deg)
	}
}

func TestFixed16RoundTrip(t *testing.T) {
	f := FromFloat(3.25)
	if got := f.ToFloat(); math.Abs(got-3.25) > 1e-9 {
		t.Errorf("round trip = %f, want 3.25", got)
	}
	if f.Int() != 3 {
		t.Errorf("Int() = %d, want 3", f.Int())
	}
}

func TestAngleWrap(t *testing.T) {
	a := Angle270
	a += Angle180 // wraps past 360
	if a != Angle90 {
		t.Errorf("270+180 wrapped = %v, want Angle90 (%v)", a, Angle90)
	}
}
