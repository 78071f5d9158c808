package sim

import (
	"testing"
)

// placeOnly clears the map and installs the given bots.
func placeOnly(s *Simulation, bots ...Bot) {
	for x := 0; x < s.params.Width; x++ {
		for y := 0; y < s.params.Height; y++ {
			s.grid.Set(x, y, NewEmptyBot(x, y))
		}
	}
	for _, b := range bots {
		s.grid.Set(b.X, b.Y, b)
	}
}

func TestGenerateMapDensity(t *testing.T) {
	p := testParams()
	p.Width, p.Height = 100, 100
	s := NewSimulation(p, 42)

	alive := 0
	for x := 0; x < p.Width; x++ {
		for y := 0; y < p.Height; y++ {
			bot, ok := s.Grid().Get(x, y)
			if !ok {
				t.Fatalf("missing cell (%d,%d)", x, y)
			}
			if bot.Alive {
				alive++
			}
			if bot.X != x || bot.Y != y {
				t.Fatalf("cell (%d,%d) carries coordinates (%d,%d)", x, y, bot.X, bot.Y)
			}
		}
	}

	// 1/5 spawn chance over 10k cells; allow a generous band.
	if alive < 1700 || alive > 2300 {
		t.Errorf("alive count %d, want roughly 2000 of 10000", alive)
	}
}

func TestStepPhotosynthesisScenario(t *testing.T) {
	// The canonical 3x3 scenario: a lone photosynthesizing bot in the
	// center gains the configured energy minus the upkeep, and nothing
	// else about it changes.
	p := testParams()
	s := NewSimulation(p, 1)

	bot := aliveBot(1, 1, p.StartEnergy, DirRight, genomeOf(OpPhotosynthesis))
	placeOnly(s, bot)

	s.Step()

	got, _ := s.Grid().Get(1, 1)
	approx(t, got.Energy, p.StartEnergy+p.PhotosynthesisEnergy-p.NoopCost, "center energy")
	if got.X != 1 || got.Y != 1 || got.Dir != DirRight {
		t.Error("position and facing must be unchanged")
	}
	if got.Age != 1 {
		t.Errorf("age = %d, want 1", got.Age)
	}
	if s.Iterations() != 1 {
		t.Errorf("iterations = %d, want 1", s.Iterations())
	}
}

func TestStepAttackScenario(t *testing.T) {
	p := testParams()
	p.AttackEnergy = 4
	s := NewSimulation(p, 1)

	attacker := aliveBot(0, 1, 5, DirRight, genomeOf(OpAttackCell))
	victim := aliveBot(1, 1, 10, DirLeft, genomeOf(OpNoop))
	placeOnly(s, attacker, victim)

	s.Step()

	left, _ := s.Grid().Get(0, 1)
	right, _ := s.Grid().Get(1, 1)
	approx(t, left.Energy, 5-2+4-p.NoopCost, "attacker energy")
	// The victim also executed its own (noop) instruction this tick.
	approx(t, right.Energy, 10-4-p.NoopCost, "victim energy")
}

func TestStepVacatesCellBehindMovingBot(t *testing.T) {
	p := testParams()
	s := NewSimulation(p, 1)

	// Moving up goes against the scan order, so the bot executes exactly
	// once this tick.
	bot := aliveBot(1, 1, 5, DirUp, genomeOf(OpMoveForwards))
	placeOnly(s, bot)

	s.Step()

	old, _ := s.Grid().Get(1, 1)
	if !old.Empty {
		t.Error("vacated cell must be empty")
	}
	moved, _ := s.Grid().Get(1, 0)
	if !moved.Alive || moved.X != 1 || moved.Y != 0 {
		t.Errorf("bot not found at destination, got %+v", moved)
	}
	if moved.Age != 1 {
		t.Errorf("age = %d, want 1", moved.Age)
	}
}

func TestStepOrderIsSequentialInPlace(t *testing.T) {
	// The scan runs outer x, inner y, mutating in place. The giver at x=0
	// executes before the checker at x=1, so the checker's energy test
	// already sees the transferred energy within the same tick. A
	// read-then-commit automaton would branch the other way.
	p := testParams()
	s := NewSimulation(p, 1)

	giverGenome := genomeOf(OpNoop)
	giverGenome[0] = Gene{Instruction: OpGiveEnergy, Energy: 3}
	giver := aliveBot(0, 1, 10, DirRight, giverGenome)

	checkerGenome := genomeOf(OpNoop)
	checkerGenome[0] = Gene{Instruction: OpCheckEnergy, Energy: 5, Branch: 5, BranchAlt: 9}
	checker := aliveBot(1, 1, 4, DirLeft, checkerGenome)

	placeOnly(s, giver, checker)

	s.Step()

	got, _ := s.Grid().Get(1, 1)
	if got.IP != 5 {
		t.Errorf("checker pointer = %d, want 5: it must see the energy given earlier in the same tick", got.IP)
	}
	approx(t, got.Energy, 4+3-p.NoopCost, "checker energy")
}

func TestStepReexecutesBotMovingWithScanOrder(t *testing.T) {
	// A quirk of the in-place scan: a bot that moves in the scan
	// direction is reached again at its new coordinate and executes a
	// second time within the same tick.
	p := testParams()
	s := NewSimulation(p, 1)

	blockedBelow := genomeOf(OpMoveForwards)
	bot := aliveBot(1, 0, 5, DirDown, blockedBelow)
	wall := aliveBot(1, 2, 1, DirUp, genomeOf(OpNoop))
	placeOnly(s, bot, wall)

	s.Step()

	moved, _ := s.Grid().Get(1, 1)
	if !moved.Alive {
		t.Fatal("bot not found at (1,1)")
	}
	if moved.Age != 2 {
		t.Errorf("age = %d, want 2: the bot executes twice when moving with the scan", moved.Age)
	}
}

func TestSelectionTracksMovingBot(t *testing.T) {
	p := testParams()
	s := NewSimulation(p, 1)

	// Left is against the scan order; one execution per tick.
	bot := aliveBot(1, 1, 5, DirLeft, genomeOf(OpMoveForwards))
	placeOnly(s, bot)

	if _, ok := s.SelectCell(1, 1); !ok {
		t.Fatal("selecting an in-range cell must succeed")
	}

	s.Step()

	selected, ok := s.SelectedBot()
	if !ok {
		t.Fatal("selection lost after step")
	}
	if selected.X != 0 || selected.Y != 1 {
		t.Errorf("selected snapshot at (%d,%d), want (0,1)", selected.X, selected.Y)
	}
}

func TestSelectCellOutOfRange(t *testing.T) {
	p := testParams()
	s := NewSimulation(p, 1)

	if _, ok := s.SelectCell(99, 0); ok {
		t.Error("selecting outside the grid must fail")
	}
}

func TestResetClearsIterations(t *testing.T) {
	p := testParams()
	s := NewSimulation(p, 1)

	s.Step()
	s.Step()
	s.Reset()

	if s.Iterations() != 0 {
		t.Errorf("iterations = %d after reset, want 0", s.Iterations())
	}
}

func TestInjectBot(t *testing.T) {
	p := testParams()
	s := NewSimulation(p, 1)
	placeOnly(s)

	bot := aliveBot(2, 2, 9, DirUp, genomeOf(OpPhotosynthesis))
	if err := s.InjectBot(bot); err != nil {
		t.Fatalf("inject: %v", err)
	}
	got, _ := s.Grid().Get(2, 2)
	if !got.Alive || got.Energy != 9 {
		t.Errorf("injected bot not present, got %+v", got)
	}

	bad := aliveBot(5, 5, 1, DirUp, genomeOf(OpNoop))
	if err := s.InjectBot(bad); err == nil {
		t.Error("injecting outside the grid must be refused")
	}
}

func TestSetParamsResizeRegeneratesGrid(t *testing.T) {
	p := testParams()
	s := NewSimulation(p, 1)
	s.Step()

	p2 := p
	p2.Width, p2.Height = 8, 6
	s.SetParams(p2)

	if s.Grid().Width() != 8 || s.Grid().Height() != 6 {
		t.Fatalf("grid is %dx%d, want 8x6", s.Grid().Width(), s.Grid().Height())
	}
	if s.Iterations() != 0 {
		t.Error("resize must reset the iteration counter")
	}
}

func TestDeterministicWithSameSeed(t *testing.T) {
	p := testParams()
	p.Width, p.Height = 16, 16
	p.MutationPercent = 25

	a := NewSimulation(p, 1234)
	b := NewSimulation(p, 1234)
	for i := 0; i < 50; i++ {
		a.Step()
		b.Step()
	}

	for x := 0; x < p.Width; x++ {
		for y := 0; y < p.Height; y++ {
			ba, _ := a.Grid().Get(x, y)
			bb, _ := b.Grid().Get(x, y)
			if ba != bb {
				t.Fatalf("grids diverged at (%d,%d) despite identical seeds", x, y)
			}
		}
	}
}
