package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	CatCount   int `csv:"cats"`
	HumanCount int `csv:"humans"`

	// Events during window
	TasksCompleted  int `csv:"tasks_completed"`
	CatDeaths       int `csv:"cat_deaths"`
	Knockouts       int `csv:"knockouts"`
	CaptureReleases int `csv:"capture_releases"`
	Attacks         int `csv:"attacks"`
	FoodEaten       int `csv:"food_eaten"`
	OxygenWarnings  int `csv:"oxygen_warnings"`
	PowerChanges    int `csv:"power_changes"`

	// Hunger distribution across living cats (sampled at window end)
	HungerMean float64 `csv:"hunger_mean"`
	HungerStd  float64 `csv:"hunger_std"`
	HungerP10  float64 `csv:"hunger_p10"`
	HungerP50  float64 `csv:"hunger_p50"`
	HungerP90  float64 `csv:"hunger_p90"`

	// Oxygen field summary
	OxygenMean  float64 `csv:"oxygen_mean"`
	OxygenTotal float64 `csv:"oxygen_total"`

	// Task board state at window end
	TasksAvailable int `csv:"tasks_available"`
	TasksAssigned  int `csv:"tasks_assigned"`
}

// SampleStats summarizes a sample with mean, stddev and quantiles.
type SampleStats struct {
	Mean, Std, P10, P50, P90 float64
}

// ComputeSampleStats calculates summary statistics for a sample.
func ComputeSampleStats(values []float64) SampleStats {
	if len(values) == 0 {
		return SampleStats{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return SampleStats{
		Mean: stat.Mean(sorted, nil),
		Std:  stat.StdDev(sorted, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"cats", s.CatCount,
		"humans", s.HumanCount,
		"tasks_completed", s.TasksCompleted,
		"cat_deaths", s.CatDeaths,
		"knockouts", s.Knockouts,
		"capture_releases", s.CaptureReleases,
		"attacks", s.Attacks,
		"food_eaten", s.FoodEaten,
		"oxygen_warnings", s.OxygenWarnings,
		"power_changes", s.PowerChanges,
		"hunger_mean", s.HungerMean,
		"hunger_p10", s.HungerP10,
		"hunger_p50", s.HungerP50,
		"hunger_p90", s.HungerP90,
		"oxygen_mean", s.OxygenMean,
		"oxygen_total", s.OxygenTotal,
		"tasks_available", s.TasksAvailable,
		"tasks_assigned", s.TasksAssigned,
	)
}
