// Package telemetry collects per-window population statistics from the tick
// engine and writes them to CSV for offline analysis.
package telemetry

import "github.com/pthm-cable/cellarium/sim"

// Collector accumulates engine events within tick windows and produces
// WindowStats. It implements sim.Hooks.
type Collector struct {
	windowTicks int
	windowStart int

	births         int
	deaths         int
	moves          int
	attacks        int
	energyStolen   float64
	recycles       int
	energyRecycled float64
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordBirth counts a successful reproduction.
func (c *Collector) RecordBirth() { c.births++ }

// RecordDeath counts a bot dying of age or starvation.
func (c *Collector) RecordDeath() { c.deaths++ }

// RecordMove counts a completed forward move.
func (c *Collector) RecordMove() { c.moves++ }

// RecordAttack counts a landed attack and the energy taken by it.
func (c *Collector) RecordAttack(taken float32) {
	c.attacks++
	c.energyStolen += float64(taken)
}

// RecordRecycle counts a recycled corpse and the energy absorbed from it.
func (c *Collector) RecordRecycle(absorbed float32) {
	c.recycles++
	c.energyRecycled += float64(absorbed)
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush(tick int) bool {
	return tick-c.windowStart >= c.windowTicks
}

// Flush closes the current window: it samples the grid, combines the sample
// with the window's event counters, resets them and starts the next window.
func (c *Collector) Flush(tick int, grid *sim.Grid) WindowStats {
	stats := sampleGrid(grid)
	stats.WindowStart = c.windowStart
	stats.WindowEnd = tick

	stats.Births = c.births
	stats.Deaths = c.deaths
	stats.Moves = c.moves
	stats.Attacks = c.attacks
	stats.EnergyStolen = c.energyStolen
	stats.Recycles = c.recycles
	stats.EnergyRecycled = c.energyRecycled

	c.births = 0
	c.deaths = 0
	c.moves = 0
	c.attacks = 0
	c.energyStolen = 0
	c.recycles = 0
	c.energyRecycled = 0
	c.windowStart = tick

	return stats
}
