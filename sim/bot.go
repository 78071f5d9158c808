package sim

import (
	"fmt"
	"math/rand"
)

// Bot is one grid slot. It is always in exactly one of three states:
//
//   - empty: Empty=true, Alive=false, no energy, default genome
//   - alive: Alive=true, Empty=false, executing its genome
//   - dead-but-occupied: Alive=false, Empty=false, a corpse still holding
//     residual energy until recycled or overwritten
type Bot struct {
	Alive bool `json:"alive"`
	Empty bool `json:"empty"`

	X      int       `json:"x"`
	Y      int       `json:"y"`
	Energy float32   `json:"energy"`
	Dir    Direction `json:"direction"`
	Color  Color     `json:"color"`
	Age    uint32    `json:"age"`

	Genome Genome `json:"genome"`
	// IP is the instruction pointer, always < GenomeLength.
	IP uint8 `json:"instruction_pointer"`
}

// NewEmptyBot returns the vacant cell value for (x, y).
func NewEmptyBot(x, y int) Bot {
	return Bot{Empty: true, X: x, Y: y}
}

// NewRandomBot generates an alive bot with a random genome, facing and color.
func NewRandomBot(x, y int, p *Params, rng *rand.Rand) Bot {
	return Bot{
		Alive:  true,
		X:      x,
		Y:      y,
		Energy: p.StartEnergy,
		Dir:    RandomDirection(rng),
		Color:  RandomColor(rng),
		Genome: RandomGenome(p, rng),
	}
}

// IsDead reports whether the bot is a corpse: not alive but still occupying
// its slot.
func (b *Bot) IsDead() bool {
	return !b.Alive && !b.Empty
}

// CurrentGene returns the gene at the instruction pointer.
func (b *Bot) CurrentGene() *Gene {
	return &b.Genome[b.IP]
}

// Update executes exactly one instruction against the live grid, then
// applies the universal per-tick upkeep and evaluates death. The bot value
// itself is a working copy held by the tick engine; the faced neighbor is
// mutated in place through the grid, which is safe because a cell can never
// face itself on a grid of at least 2x2.
//
// Unless an instruction says otherwise the pointer advances by one; branch
// instructions pick one of the gene's two targets instead. Either way the
// resulting pointer is wrapped modulo GenomeLength, never clamped.
func (b *Bot) Update(g *Grid, p *Params, rng *rand.Rand, hooks Hooks) {
	if !b.Alive {
		return
	}

	next := b.IP + 1
	facedX, facedY := b.Dir.Apply(b.X, b.Y, p.Width, p.Height)
	faced := g.MustGetPtr(facedX, facedY)
	if faced == g.MustGetPtr(b.X, b.Y) {
		panic(fmt.Sprintf("sim: bot at (%d,%d) faces its own cell; grid must be at least 2x2", b.X, b.Y))
	}

	gene := b.CurrentGene()
	switch gene.Instruction {
	case OpNoop:
		// Only the flat upkeep below.

	case OpTurnLeft:
		b.Dir = b.Dir.Left()
		b.Energy -= p.TurnCost()
	case OpTurnRight:
		b.Dir = b.Dir.Right()
		b.Energy -= p.TurnCost()
	case OpMoveForwards:
		// Blocked moves are free no-ops.
		if faced.Empty {
			b.X, b.Y = facedX, facedY
			b.Energy -= p.MovementCost
			if hooks != nil {
				hooks.RecordMove()
			}
		}

	case OpPhotosynthesis:
		gain := p.PhotosynthesisEnergy
		if p.SunlightGradient {
			gain *= float32(b.Y) / float32(p.Height)
		}
		b.Energy += gain
	case OpGiveEnergy:
		if faced.Alive {
			given := clampEnergy(gene.Energy, 0, b.Energy)
			faced.Energy += given
			b.Energy -= given
		}

	case OpAttackCell:
		if b.Energy >= p.AttackEntryCost() && faced.Alive {
			b.Energy -= p.AttackEntryCost()

			taken := min(faced.Energy, p.AttackEnergy)
			faced.Energy -= taken
			b.Energy += taken
			if hooks != nil {
				hooks.RecordAttack(taken)
			}
		}
	case OpRecycleDeadCell:
		if faced.IsDead() {
			absorbed := faced.Energy
			b.Energy += absorbed
			faced.Energy = 0
			faced.Empty = true
			if hooks != nil {
				hooks.RecordRecycle(absorbed)
			}
		}

	case OpCheckEnergy:
		next = gene.pick(b.Energy > gene.Energy)

	case OpCheckIfDirectedLeft:
		next = gene.pick(b.Dir == DirLeft)
	case OpCheckIfDirectedRight:
		next = gene.pick(b.Dir == DirRight)
	case OpCheckIfDirectedUp:
		next = gene.pick(b.Dir == DirUp)
	case OpCheckIfDirectedDown:
		next = gene.pick(b.Dir == DirDown)

	case OpCheckIfFacingAliveCell:
		next = gene.pick(faced.Alive)
	case OpCheckIfFacingDeadCell:
		next = gene.pick(faced.IsDead())
	case OpCheckIfFacingVoid:
		next = gene.pick(faced.Empty)
	case OpCheckIfFacingRelative:
		next = gene.pick(b.isRelative(faced))

	case OpMakeChild:
		// Refused only when the bot is both short on energy and facing an
		// occupied cell; a refused attempt deducts nothing. Reproduction
		// into an empty cell is always attempted, even below the
		// threshold, and the deduction may push the parent negative.
		if b.Energy < p.ReproductionEnergy && !faced.Empty {
			next = gene.BranchAlt
			break
		}

		child := *b
		child.X, child.Y = facedX, facedY
		child.Age = 0
		child.Energy = p.StartEnergy
		child.IP = 0

		if rng.Float64() < p.MutationPercent/100 {
			child.Genome[rng.Intn(GenomeLength)].Mutate(p, rng)
			// Drift the child's color so mutated lineages are visible.
			child.Color.Mutate(rng, colorMutationAmount)
		}

		// Whatever occupied the faced cell, corpse included, is fully
		// overwritten; the child's energy stays fixed at start energy.
		g.Set(facedX, facedY, child)
		b.Energy -= p.ReproductionEnergy
		next = gene.Branch
		if hooks != nil {
			hooks.RecordBirth()
		}
	}

	b.IP = next % GenomeLength

	b.Energy -= p.NoopCost
	b.Age++
	if b.Age > p.MaxAge || b.Energy < 0 {
		b.Alive = false
		if hooks != nil {
			hooks.RecordDeath()
		}
	}
}

// isRelative reports whether the faced cell is an alive bot whose genome
// opcodes all match ours positionally. Option, energy and branch fields do
// not count.
func (b *Bot) isRelative(faced *Bot) bool {
	if !faced.Alive {
		return false
	}
	for i := range b.Genome {
		if b.Genome[i].Instruction != faced.Genome[i].Instruction {
			return false
		}
	}
	return true
}

// pick selects the gene's branch target for a condition outcome.
func (g *Gene) pick(cond bool) uint8 {
	if cond {
		return g.Branch
	}
	return g.BranchAlt
}

func clampEnergy(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
