package telemetry

import (
	"math"
	"testing"
)

func TestComputeSampleStatsEmpty(t *testing.T) {
	s := ComputeSampleStats(nil)
	if s.Mean != 0 || s.Std != 0 || s.P50 != 0 {
		t.Errorf("empty sample produced %+v, want zeros", s)
	}
}

func TestComputeSampleStatsSingle(t *testing.T) {
	s := ComputeSampleStats([]float64{42})
	if s.Mean != 42 || s.P10 != 42 || s.P50 != 42 || s.P90 != 42 {
		t.Errorf("single sample produced %+v", s)
	}
}

func TestComputeSampleStatsMean(t *testing.T) {
	s := ComputeSampleStats([]float64{10, 20, 30, 40})
	if s.Mean != 25 {
		t.Errorf("mean = %f, want 25", s.Mean)
	}
	if s.P50 < 20 || s.P50 > 30 {
		t.Errorf("median = %f, outside [20, 30]", s.P50)
	}
	want := math.Sqrt((225 + 25 + 25 + 225) / 3.0)
	if math.Abs(s.Std-want) > 1e-9 {
		t.Errorf("std = %f, want %f", s.Std, want)
	}
}

func TestComputeSampleStatsDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeSampleStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Error("input slice reordered")
	}
}

func TestComputeSampleStatsQuantileOrder(t *testing.T) {
	s := ComputeSampleStats([]float64{5, 1, 9, 3, 7, 2, 8, 4, 6, 10})
	if !(s.P10 <= s.P50 && s.P50 <= s.P90) {
		t.Errorf("quantiles out of order: p10=%f p50=%f p90=%f", s.P10, s.P50, s.P90)
	}
	if s.P10 > 3 || s.P90 < 8 {
		t.Errorf("quantile tails unreasonable: p10=%f p90=%f", s.P10, s.P90)
	}
}
