package sim

import (
	"math"
	"testing"
)

// testParams returns a small deterministic parameter set shared by the
// engine tests. Mutation is disabled so reproduction is exact unless a test
// opts back in.
func testParams() Params {
	return Params{
		Width:                3,
		Height:               3,
		MutationPercent:      0,
		StartEnergy:          5,
		ReproductionEnergy:   16,
		MaxAge:               2048,
		PhotosynthesisEnergy: 1,
		AttackEnergy:         5,
		MovementCost:         1,
		NoopCost:             0.1,
	}
}

// genomeOf fills every slot with the given opcode and zeroed operands.
func genomeOf(op Instruction) Genome {
	var genome Genome
	for i := range genome {
		genome[i].Instruction = op
	}
	return genome
}

// aliveBot builds a deterministic alive bot without touching the RNG.
func aliveBot(x, y int, energy float32, dir Direction, genome Genome) Bot {
	return Bot{
		Alive:  true,
		X:      x,
		Y:      y,
		Energy: energy,
		Dir:    dir,
		Genome: genome,
	}
}

func approx(t *testing.T, got, want float32, what string) {
	t.Helper()
	if math.Abs(float64(got-want)) > 1e-4 {
		t.Errorf("%s = %f, want %f", what, got, want)
	}
}
