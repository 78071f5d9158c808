package sim

import (
	"fmt"
	"math/rand"
)

// aliveSpawnChance is the probability that a freshly generated cell starts
// alive rather than empty.
const aliveSpawnChance = 1.0 / 5.0

// Simulation is the tick engine: the grid, the iteration counter and the
// externally-visible selection snapshot. It is strictly single-threaded; a
// full tick always runs to completion and any host-side parallelism lives in
// the runner package, never inside a tick.
type Simulation struct {
	params Params
	grid   *Grid
	rng    *rand.Rand
	hooks  Hooks

	iterations int

	// Selection is tracked by coordinate and mirrored into a snapshot copy
	// of the bot so the host can display it even after the cell changes.
	hasSelection bool
	selectedX    int
	selectedY    int
	selectedBot  Bot
	hasSelected  bool
}

// NewSimulation creates a simulation with a freshly generated map.
func NewSimulation(p Params, seed int64) *Simulation {
	s := &Simulation{
		params: p,
		grid:   NewGrid(p.Width, p.Height),
		rng:    rand.New(rand.NewSource(seed)),
	}
	s.GenerateMap()
	return s
}

// SetHooks installs an event sink for the tick engine. Pass nil to disable.
func (s *Simulation) SetHooks(h Hooks) { s.hooks = h }

// Params returns a copy of the current parameters.
func (s *Simulation) Params() Params { return s.params }

// SetParams replaces the parameter record wholesale. A dimension change
// invalidates every coordinate, so the map is regenerated in that case.
func (s *Simulation) SetParams(p Params) {
	resize := p.Width != s.params.Width || p.Height != s.params.Height
	s.params = p
	if resize {
		s.grid = NewGrid(p.Width, p.Height)
		s.Reset()
	}
}

// Grid exposes the live grid for iteration by the presentation layer.
// Callers must not hold references across a tick.
func (s *Simulation) Grid() *Grid { return s.grid }

// Iterations returns the number of completed full-grid scans.
func (s *Simulation) Iterations() int { return s.iterations }

// GenerateMap repopulates every cell independently: alive with a random
// genome with probability 1/5, empty otherwise.
func (s *Simulation) GenerateMap() {
	for y := 0; y < s.params.Height; y++ {
		for x := 0; x < s.params.Width; x++ {
			if s.rng.Float64() < aliveSpawnChance {
				s.grid.Set(x, y, NewRandomBot(x, y, &s.params, s.rng))
			} else {
				s.grid.Set(x, y, NewEmptyBot(x, y))
			}
		}
	}
}

// Reset zeroes the iteration counter and regenerates the map.
func (s *Simulation) Reset() {
	s.iterations = 0
	s.GenerateMap()
}

// SelectCell marks (x, y) as the selected coordinate and returns a snapshot
// copy of whatever occupies it. The selection follows the bot if it moves.
func (s *Simulation) SelectCell(x, y int) (Bot, bool) {
	bot, ok := s.grid.Get(x, y)
	if !ok {
		return Bot{}, false
	}
	s.hasSelection = true
	s.selectedX, s.selectedY = x, y
	s.selectedBot = bot
	s.hasSelected = true
	return bot, true
}

// SelectedBot returns the snapshot copy of the selected bot, if any.
func (s *Simulation) SelectedBot() (Bot, bool) {
	return s.selectedBot, s.hasSelected
}

// ClearSelection drops the selection.
func (s *Simulation) ClearSelection() {
	s.hasSelection = false
	s.hasSelected = false
}

// InjectBot overwrites the cell at the bot's own coordinates with the given
// value, for manual editing through the host boundary. Coordinates outside
// the grid are refused with an error rather than wrapped.
func (s *Simulation) InjectBot(b Bot) error {
	if b.X < 0 || b.X >= s.params.Width || b.Y < 0 || b.Y >= s.params.Height {
		return fmt.Errorf("sim: inject at (%d,%d) outside %dx%d grid", b.X, b.Y, s.params.Width, s.params.Height)
	}
	b.IP %= GenomeLength
	s.grid.Set(b.X, b.Y, b)
	return nil
}

// Step advances the whole population by one tick: a single in-place forward
// scan over the grid, outer loop over x, inner over y. The order is fixed
// and deliberately order-dependent: a bot early in the scan can already
// reflect next-tick state (moved, attacked, spawned a child) when a later
// bot inspects it as a neighbor within the same tick. There is no
// read-then-commit double buffering.
func (s *Simulation) Step() {
	for x := 0; x < s.params.Width; x++ {
		for y := 0; y < s.params.Height; y++ {
			// Work on a value copy; neighbor mutations go straight to the
			// grid, the copy is written back below.
			bot := *s.grid.MustGetPtr(x, y)
			origX, origY := bot.X, bot.Y

			bot.Update(s.grid, &s.params, s.rng, s.hooks)

			// A moved bot vacates its original cell.
			if bot.X != origX || bot.Y != origY {
				s.grid.Set(origX, origY, NewEmptyBot(origX, origY))
			}

			if s.hasSelection && s.selectedX == origX && s.selectedY == origY {
				s.selectedX, s.selectedY = bot.X, bot.Y
				s.selectedBot = bot
				s.hasSelected = true
			}

			s.grid.Set(bot.X, bot.Y, bot)
		}
	}

	s.iterations++
}
