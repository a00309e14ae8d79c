package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestLengthToPX 覆盖常见单位到像素的换算（96 dpi）。
func TestLengthToPX(t *testing.T) {
	cases := []struct {
		in   Length
		want float64
	}{
		{Length{Value: 12, Unit: UnitPX}, 12},
		{Length{Value: 12, Unit: UnitNone}, 12},
		{Length{Value: 72, Unit: UnitPT}, 96},
		{Length{Value: 1, Unit: UnitIN}, 96},
		{Length{Value: 25.4, Unit: UnitMM}, 96},
		{Length{Value: 2.54, Unit: UnitCM}, 96},
	}
	for _, c := range cases {
		if got := c.in.ToPX(); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%g%s 转 px 期望 %g，实际 %g", c.in.Value, UnitToString(c.in.Unit), c.want, got)
		}
	}
}

func TestLengthToPT(t *testing.T) {
	if got := (Length{Value: 16, Unit: UnitPX}).ToPT(); math.Abs(got-12) > 1e-9 {
		t.Fatalf("16px 转 pt 期望 12，实际 %g", got)
	}
	if got := (Length{Value: 18, Unit: UnitNone}).ToPT(); got != 18 {
		t.Fatalf("无单位字号应按 pt 处理，实际 %g", got)
	}
}

func TestParseLength(t *testing.T) {
	l, ok := ParseLength(" 24PT ")
	if !ok || l.Unit != UnitPT || l.Value != 24 {
		t.Fatalf("解析 24pt 失败: %#v ok=%v", l, ok)
	}
	l, ok = ParseLength("5")
	if !ok || l.Unit != UnitNone || l.Value != 5 {
		t.Fatalf("解析 5 失败: %#v ok=%v", l, ok)
	}
	if _, ok := ParseLength("portrait"); ok {
		t.Fatalf("非数值不应解析成功")
	}
	if _, ok := ParseLength(""); ok {
		t.Fatalf("空字符串不应解析成功")
	}
	for _, v := range []string{"inf", "-Infinity", "NaN", "infpx", "nanpt"} {
		if _, ok := ParseLength(v); ok {
			t.Fatalf("非有限值 %q 不应解析成功", v)
		}
	}
}

func TestLengthString(t *testing.T) {
	cases := map[string]Length{
		"12pt":  {Value: 12, Unit: UnitPT},
		"2.5mm": {Value: 2.5, Unit: UnitMM},
		"-4":    {Value: -4, Unit: UnitNone},
		"10px":  {Value: 10, Unit: UnitPX},
	}
	for want, l := range cases {
		if got := l.String(); got != want {
			t.Fatalf("Length%+v.String() = %q, want %q", l, got, want)
		}
	}
}
