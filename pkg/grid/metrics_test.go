package grid

import (
	"math"
	"testing"
)

func TestComputeMetrics(t *testing.T) {
	tests := []struct {
		name      string
		w, h      float64
		tiles     int
		wantCols  int
		wantRows  int
		wantRowPx float64
		mobile    bool
	}{
		{"full hd", 1920, 1080, 4, 7, 6, 180, false},
		{"hd", 1280, 720, 4, 4, 4, 180, false},
		{"wide strip", 1600, 540, 6, 6, 3, 180, false},
		{"breakpoint is desktop", 768, 180, 0, 2, 1, 180, false},
		{"rows raised for capacity", 800, 200, 10, 2, 5, 40, false},
		{"phone", 700, 900, 5, 1, 5, 425.75, true},
		{"collapsed", 0, 0, 0, 1, 1, 32, true},
		{"negative", -10, -10, 2, 1, 2, 32, true},
		{"nan", math.NaN(), math.NaN(), 3, 1, 3, 32, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeMetrics(tt.w, tt.h, tt.tiles)
			if m.Cols != tt.wantCols || m.Rows != tt.wantRows {
				t.Errorf("ComputeMetrics(%v, %v, %d) = %dx%d, want %dx%d",
					tt.w, tt.h, tt.tiles, m.Cols, m.Rows, tt.wantCols, tt.wantRows)
			}
			if m.IsMobile != tt.mobile {
				t.Errorf("IsMobile = %v, want %v", m.IsMobile, tt.mobile)
			}
			if math.Abs(m.RowHeight-tt.wantRowPx) > 1e-9 {
				t.Errorf("RowHeight = %v, want %v", m.RowHeight, tt.wantRowPx)
			}
		})
	}
}

func TestComputeMetricsAlwaysPositive(t *testing.T) {
	sizes := []float64{-1e9, -1, 0, 0.5, 1, 100, 767.9, 768, 5000, 1e12, math.NaN(), math.Inf(-1)}
	for _, w := range sizes {
		for _, h := range sizes {
			for _, n := range []int{-3, 0, 1, 7, 50} {
				m := ComputeMetrics(w, h, n)
				if m.Cols < 1 || m.Rows < 1 {
					t.Fatalf("ComputeMetrics(%v, %v, %d) = %dx%d, want at least 1x1", w, h, n, m.Cols, m.Rows)
				}
				if m.Capacity() < n {
					t.Errorf("ComputeMetrics(%v, %v, %d) capacity %d below tile count", w, h, n, m.Capacity())
				}
			}
		}
	}
}

func TestParamsModeFor(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		width float64
		want  Mode
	}{
		{0, ModeMobile},
		{767, ModeMobile},
		{768, ModeDesktop},
		{2560, ModeDesktop},
		{math.NaN(), ModeMobile},
	}
	for _, tt := range tests {
		if got := p.ModeFor(tt.width); got != tt.want {
			t.Errorf("ModeFor(%v) = %q, want %q", tt.width, got, tt.want)
		}
	}
}

func TestParamsOverride(t *testing.T) {
	p := DefaultParams()
	p.Breakpoint = 1000
	p.TargetRowPx = 240

	m := p.Compute(900, 720, 2)
	if !m.IsMobile {
		t.Errorf("Compute(900, ...) with breakpoint 1000: IsMobile = false, want true")
	}

	m = p.Compute(1920, 720, 2)
	if m.Rows != 3 {
		t.Errorf("Compute(1920, 720, 2) rows = %d, want 3", m.Rows)
	}
}

func TestParamsZeroValueFallsBackToDefaults(t *testing.T) {
	got := Params{}.Compute(1920, 1080, 4)
	want := ComputeMetrics(1920, 1080, 4)
	if got != want {
		t.Errorf("Params{}.Compute() = %+v, want %+v", got, want)
	}
}

func TestMetricsMode(t *testing.T) {
	if got := (Metrics{IsMobile: true}).Mode(); got != ModeMobile {
		t.Errorf("Mode() = %q, want %q", got, ModeMobile)
	}
	if got := (Metrics{}).Mode(); got != ModeDesktop {
		t.Errorf("Mode() = %q, want %q", got, ModeDesktop)
	}
	if !ModeDesktop.Valid() || Mode("tablet").Valid() {
		t.Error("Mode.Valid() mismatch")
	}
}
