// Package runner drives the simulation on a background goroutine and
// exchanges snapshots and commands with the foreground through channels.
//
// A full tick is an atomic unit: commands land strictly between ticks and a
// reader never observes the grid mid-scan. The snapshot channel has capacity
// one and is fed with non-blocking sends, so a new snapshot is only built
// after the consumer has taken the previous one; ownership of each snapshot
// transfers to the receiver.
package runner

import (
	"time"

	"github.com/pthm-cable/cellarium/sim"
)

// Snapshot is the immutable state handed to the foreground after a
// completed tick. The grid is a deep copy; the runner never touches it
// again once sent.
type Snapshot struct {
	Iterations int
	TPS        int
	TargetTPS  int
	Paused     bool
	Grid       *sim.Grid
	Selected   *sim.Bot
	Params     sim.Params
}

type commandKind int

const (
	cmdTogglePause commandKind = iota
	cmdReset
	cmdSelectCell
	cmdClearSelection
	cmdInject
	cmdSetTargetTPS
	cmdSetParams
	cmdStop
)

type command struct {
	kind   commandKind
	x, y   int
	bot    sim.Bot
	tps    int
	params sim.Params
}

// Options configures a runner at start.
type Options struct {
	// StartPaused makes the runner idle until a toggle-pause command.
	StartPaused bool
	// TargetTPS caps the tick rate; 0 runs unthrottled.
	TargetTPS int
	// AfterTick runs on the runner goroutine after every completed tick,
	// before the snapshot is rebuilt. Used to flush telemetry.
	AfterTick func(*sim.Simulation)
}

// Runner owns the simulation for its whole lifetime; it is created by Start
// and lives on its own goroutine.
type Runner struct {
	sim       *sim.Simulation
	commands  chan command
	snapshots chan *Snapshot

	paused    bool
	targetTPS int
	afterTick func(*sim.Simulation)

	// TPS is measured by diffing the iteration counter once per second.
	tps            int
	prevIterations int
	prevTPSCheck   time.Time
	lastTick       time.Time

	next *Snapshot
}

// Handle is the foreground's view of a running simulation. All methods are
// safe to call from a single foreground goroutine.
type Handle struct {
	commands  chan<- command
	snapshots <-chan *Snapshot
	latest    *Snapshot
}

// Start transfers the simulation to a background goroutine and returns the
// handle for it.
func Start(s *sim.Simulation, opts Options) *Handle {
	r := &Runner{
		sim:          s,
		commands:     make(chan command, 16),
		snapshots:    make(chan *Snapshot, 1),
		paused:       opts.StartPaused,
		targetTPS:    opts.TargetTPS,
		afterTick:    opts.AfterTick,
		prevTPSCheck: time.Now(),
	}
	r.buildSnapshot()

	h := &Handle{
		commands:  r.commands,
		snapshots: r.snapshots,
		latest:    r.next,
	}

	go r.run()
	return h
}

func (r *Runner) run() {
	for {
		if !r.handleCommands() {
			return
		}

		if !r.paused {
			r.throttle()
			r.sim.Step()
			if r.afterTick != nil {
				r.afterTick(r.sim)
			}
			r.measureTPS()
		} else {
			// Don't burn a core while paused.
			time.Sleep(10 * time.Millisecond)
		}

		r.publish()
	}
}

// handleCommands drains pending commands between ticks. Returns false when
// the runner should shut down.
func (r *Runner) handleCommands() bool {
	for {
		select {
		case cmd := <-r.commands:
			switch cmd.kind {
			case cmdTogglePause:
				r.paused = !r.paused
			case cmdReset:
				r.sim.Reset()
			case cmdSelectCell:
				r.sim.SelectCell(cmd.x, cmd.y)
			case cmdClearSelection:
				r.sim.ClearSelection()
			case cmdInject:
				// An out-of-range inject is silently dropped here; the
				// coordinate was validated when the bot was decoded.
				_ = r.sim.InjectBot(cmd.bot)
			case cmdSetTargetTPS:
				r.targetTPS = cmd.tps
			case cmdSetParams:
				r.sim.SetParams(cmd.params)
			case cmdStop:
				return false
			}
		default:
			return true
		}
	}
}

func (r *Runner) throttle() {
	if r.targetTPS <= 0 {
		return
	}
	interval := time.Second / time.Duration(r.targetTPS)
	if elapsed := time.Since(r.lastTick); elapsed < interval {
		time.Sleep(interval - elapsed)
	}
	r.lastTick = time.Now()
}

func (r *Runner) measureTPS() {
	if time.Since(r.prevTPSCheck) > time.Second {
		r.tps = r.sim.Iterations() - r.prevIterations
		r.prevIterations = r.sim.Iterations()
		r.prevTPSCheck = time.Now()
	}
}

// publish hands the prepared snapshot over if the consumer took the last
// one; only then is the next snapshot built.
func (r *Runner) publish() {
	select {
	case r.snapshots <- r.next:
		r.buildSnapshot()
	default:
	}
}

func (r *Runner) buildSnapshot() {
	snap := &Snapshot{
		Iterations: r.sim.Iterations(),
		TPS:        r.tps,
		TargetTPS:  r.targetTPS,
		Paused:     r.paused,
		Grid:       r.sim.Grid().Clone(),
		Params:     r.sim.Params(),
	}
	if bot, ok := r.sim.SelectedBot(); ok {
		snap.Selected = &bot
	}
	r.next = snap
}

// Poll takes the newest snapshot if one is ready and returns the latest
// known state either way.
func (h *Handle) Poll() *Snapshot {
	select {
	case snap := <-h.snapshots:
		h.latest = snap
	default:
	}
	return h.latest
}

// Latest returns the last snapshot received without polling.
func (h *Handle) Latest() *Snapshot {
	return h.latest
}

// TogglePause flips the paused state at the next tick boundary.
func (h *Handle) TogglePause() {
	h.commands <- command{kind: cmdTogglePause}
}

// Reset regenerates the map and zeroes the iteration counter.
func (h *Handle) Reset() {
	h.commands <- command{kind: cmdReset}
}

// SelectCell selects the cell at (x, y) for snapshot tracking.
func (h *Handle) SelectCell(x, y int) {
	h.commands <- command{kind: cmdSelectCell, x: x, y: y}
}

// ClearSelection drops the selection.
func (h *Handle) ClearSelection() {
	h.commands <- command{kind: cmdClearSelection}
}

// Inject overwrites the cell at the bot's coordinates with the given value.
func (h *Handle) Inject(b sim.Bot) {
	h.commands <- command{kind: cmdInject, bot: b}
}

// SetTargetTPS caps the tick rate; 0 removes the throttle.
func (h *Handle) SetTargetTPS(tps int) {
	h.commands <- command{kind: cmdSetTargetTPS, tps: tps}
}

// SetParams replaces the parameter record wholesale at the next boundary.
func (h *Handle) SetParams(p sim.Params) {
	h.commands <- command{kind: cmdSetParams, params: p}
}

// Stop shuts the runner down after the current tick.
func (h *Handle) Stop() {
	h.commands <- command{kind: cmdStop}
}
