package runner

import (
	"testing"
	"time"

	"github.com/pthm-cable/cellarium/sim"
)

func testParams() sim.Params {
	return sim.Params{
		Width:                8,
		Height:               8,
		MutationPercent:      25,
		StartEnergy:          5,
		ReproductionEnergy:   16,
		MaxAge:               2048,
		PhotosynthesisEnergy: 1,
		AttackEnergy:         5,
		MovementCost:         1,
		NoopCost:             0.1,
	}
}

// waitFor polls the handle until cond holds or the deadline passes.
func waitFor(t *testing.T, h *Handle, what string, cond func(*Snapshot) bool) *Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if snap := h.Poll(); snap != nil && cond(snap) {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
	return nil
}

func TestRunnerAdvancesSimulation(t *testing.T) {
	h := Start(sim.NewSimulation(testParams(), 1), Options{})
	defer h.Stop()

	snap := waitFor(t, h, "iterations to advance", func(s *Snapshot) bool {
		return s.Iterations > 0
	})
	if snap.Paused {
		t.Error("runner should be running, not paused")
	}
	if snap.Grid.Width() != 8 || snap.Grid.Height() != 8 {
		t.Errorf("snapshot grid is %dx%d, want 8x8", snap.Grid.Width(), snap.Grid.Height())
	}
}

func TestRunnerStartsPausedAndUnpauses(t *testing.T) {
	h := Start(sim.NewSimulation(testParams(), 1), Options{StartPaused: true})
	defer h.Stop()

	snap := waitFor(t, h, "initial snapshot", func(s *Snapshot) bool { return true })
	if !snap.Paused {
		t.Fatal("runner should start paused")
	}
	if snap.Iterations != 0 {
		t.Fatalf("paused runner advanced to iteration %d", snap.Iterations)
	}

	h.TogglePause()
	waitFor(t, h, "unpaused progress", func(s *Snapshot) bool {
		return !s.Paused && s.Iterations > 0
	})
}

func TestRunnerResetZeroesIterations(t *testing.T) {
	// Throttled so the counter cannot race past the threshold between the
	// reset landing and the next snapshot being observed.
	h := Start(sim.NewSimulation(testParams(), 1), Options{TargetTPS: 200})
	defer h.Stop()

	waitFor(t, h, "some progress", func(s *Snapshot) bool { return s.Iterations > 20 })
	h.Reset()
	waitFor(t, h, "reset to take effect", func(s *Snapshot) bool { return s.Iterations < 20 })
}

func TestRunnerInjectAppearsInSnapshot(t *testing.T) {
	p := testParams()
	p.MutationPercent = 0
	h := Start(sim.NewSimulation(p, 1), Options{StartPaused: true})
	defer h.Stop()

	var genome sim.Genome
	bot := sim.Bot{Alive: true, X: 3, Y: 4, Energy: 42, Genome: genome}
	h.Inject(bot)
	h.SelectCell(3, 4)

	waitFor(t, h, "injected bot to appear", func(s *Snapshot) bool {
		got, ok := s.Grid.Get(3, 4)
		return ok && got.Alive && got.Energy == 42 &&
			s.Selected != nil && s.Selected.Energy == 42
	})
}

func TestRunnerSnapshotIsDetachedCopy(t *testing.T) {
	h := Start(sim.NewSimulation(testParams(), 1), Options{})
	defer h.Stop()

	snap := waitFor(t, h, "a snapshot", func(s *Snapshot) bool { return s.Iterations > 0 })

	// Corrupting the received grid must not leak back into the engine:
	// later snapshots are built from the live grid, not from this copy.
	for x := 0; x < snap.Grid.Width(); x++ {
		for y := 0; y < snap.Grid.Height(); y++ {
			snap.Grid.Set(x, y, sim.Bot{X: x, Y: y, Empty: true})
		}
	}

	later := waitFor(t, h, "a later snapshot", func(s *Snapshot) bool {
		return s.Iterations > snap.Iterations
	})
	occupied := 0
	for x := 0; x < later.Grid.Width(); x++ {
		for y := 0; y < later.Grid.Height(); y++ {
			if got, _ := later.Grid.Get(x, y); !got.Empty {
				occupied++
			}
		}
	}
	if occupied == 0 {
		t.Error("later snapshot shows a wiped grid; snapshots must be detached copies")
	}
}

func TestRunnerStopHaltsProgress(t *testing.T) {
	h := Start(sim.NewSimulation(testParams(), 1), Options{})

	waitFor(t, h, "progress before stop", func(s *Snapshot) bool { return s.Iterations > 0 })
	h.Stop()

	// Give the goroutine time to wind down, then verify the counter froze.
	time.Sleep(50 * time.Millisecond)
	a := h.Poll().Iterations
	time.Sleep(100 * time.Millisecond)
	b := h.Poll().Iterations
	if b > a+1 {
		t.Errorf("iterations advanced from %d to %d after stop", a, b)
	}
}

func TestRunnerSetParamsApplies(t *testing.T) {
	h := Start(sim.NewSimulation(testParams(), 1), Options{})
	defer h.Stop()

	p := testParams()
	p.Width, p.Height = 12, 10
	h.SetParams(p)

	waitFor(t, h, "resized grid", func(s *Snapshot) bool {
		return s.Grid.Width() == 12 && s.Grid.Height() == 10
	})
}
