package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/cellarium/sim"
)

// WindowStats holds aggregated statistics for one tick window.
type WindowStats struct {
	WindowStart int `csv:"-"`
	WindowEnd   int `csv:"window_end"`

	// Population counts at window end
	Alive int `csv:"alive"`
	Dead  int `csv:"dead"`
	Empty int `csv:"empty"`

	// Events during the window
	Births         int     `csv:"births"`
	Deaths         int     `csv:"deaths"`
	Moves          int     `csv:"moves"`
	Attacks        int     `csv:"attacks"`
	EnergyStolen   float64 `csv:"energy_stolen"`
	Recycles       int     `csv:"recycles"`
	EnergyRecycled float64 `csv:"energy_recycled"`

	// Energy distribution over alive bots (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Age distribution over alive bots
	AgeMean float64 `csv:"age_mean"`
	AgeMax  float64 `csv:"age_max"`

	// Total energy held by occupied cells, corpses included
	TotalEnergy float64 `csv:"total_energy"`
}

// sampleGrid walks the whole grid once and fills the population and
// distribution fields.
func sampleGrid(grid *sim.Grid) WindowStats {
	var stats WindowStats
	var energies, ages []float64

	for x := 0; x < grid.Width(); x++ {
		for y := 0; y < grid.Height(); y++ {
			bot, ok := grid.Get(x, y)
			if !ok {
				continue
			}
			switch {
			case bot.Alive:
				stats.Alive++
				energies = append(energies, float64(bot.Energy))
				ages = append(ages, float64(bot.Age))
				stats.TotalEnergy += float64(bot.Energy)
			case bot.Empty:
				stats.Empty++
			default:
				stats.Dead++
				stats.TotalEnergy += float64(bot.Energy)
			}
		}
	}

	stats.EnergyMean, stats.EnergyStd, stats.EnergyP10, stats.EnergyP50, stats.EnergyP90 = distribution(energies)
	if len(ages) > 0 {
		stats.AgeMean = stat.Mean(ages, nil)
		stats.AgeMax = ages[0]
		for _, a := range ages {
			if a > stats.AgeMax {
				stats.AgeMax = a
			}
		}
	}

	return stats
}

// distribution computes mean, standard deviation and the 10/50/90
// percentiles of a sample. Empty samples yield zeros.
func distribution(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// LogStats emits the window through slog.
func (s WindowStats) LogStats() {
	slog.Info("window stats",
		"window_end", s.WindowEnd,
		"alive", s.Alive,
		"dead", s.Dead,
		"births", s.Births,
		"deaths", s.Deaths,
		"attacks", s.Attacks,
		"energy_mean", s.EnergyMean,
		"energy_p50", s.EnergyP50,
		"age_mean", s.AgeMean,
		"total_energy", s.TotalEnergy,
	)
}
