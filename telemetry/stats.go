package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Census counts the live population by trophic type at a window boundary.
type Census struct {
	Plants      int
	Herbivores  int
	Carnivores  int
	Omnivores   int
	Decomposers int
	Microbes    int
}

// Total returns the whole population.
func (c Census) Total() int {
	return c.Plants + c.Herbivores + c.Carnivores + c.Omnivores + c.Decomposers + c.Microbes
}

// WindowStats holds aggregated statistics for one tick window.
type WindowStats struct {
	WindowStart int `csv:"-"`
	WindowEnd   int `csv:"window_end"`

	// Population at window end
	Population  int `csv:"population"`
	Plants      int `csv:"plants"`
	Herbivores  int `csv:"herbivores"`
	Carnivores  int `csv:"carnivores"`
	Omnivores   int `csv:"omnivores"`
	Decomposers int `csv:"decomposers"`
	Microbes    int `csv:"microbes"`

	// Events during the window
	Births     int `csv:"births"`
	Deaths     int `csv:"deaths"`
	Predations int `csv:"predations"`
	Grazes     int `csv:"grazes"`
	Socials    int `csv:"social_contacts"`

	// Vitals distribution, sampled at window end
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`
	AgeMean    float64 `csv:"age_mean"`
	AgeP50     float64 `csv:"age_p50"`
	AgeMax     float64 `csv:"age_max"`
}

// Summarize computes mean, standard deviation, and the 10/50/90 percentiles
// of a sample. Empty input yields zeros; a single value has zero deviation.
func Summarize(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	if n > 1 {
		std = stat.StdDev(sorted, nil)
	}
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEnd,
		"population", s.Population,
		"plants", s.Plants,
		"herbivores", s.Herbivores,
		"carnivores", s.Carnivores,
		"omnivores", s.Omnivores,
		"decomposers", s.Decomposers,
		"microbes", s.Microbes,
		"births", s.Births,
		"deaths", s.Deaths,
		"predations", s.Predations,
		"grazes", s.Grazes,
		"social_contacts", s.Socials,
		"energy_mean", s.EnergyMean,
		"energy_p50", s.EnergyP50,
		"age_mean", s.AgeMean,
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStart),
		slog.Int("window_end", s.WindowEnd),
		slog.Int("population", s.Population),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("predations", s.Predations),
		slog.Int("grazes", s.Grazes),
		slog.Int("social_contacts", s.Socials),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("age_p50", s.AgeP50),
		slog.Float64("age_max", s.AgeMax),
	)
}
