package sim

import (
	"fmt"
	"math/rand"
)

// GenomeLength is the fixed number of genes in every genome. Branch targets
// are taken modulo this length, so it participates in the instruction
// pointer arithmetic and must stay a compile-time constant.
const GenomeLength = 32

// Instruction is the opcode of a single gene.
type Instruction uint8

const (
	// OpNoop does nothing. Speaks for itself.
	OpNoop Instruction = iota

	// OpTurnLeft and OpTurnRight rotate the bot's facing, paying the turn
	// cost. Position is unchanged.
	OpTurnLeft
	OpTurnRight
	// OpMoveForwards moves one cell in the facing direction if that cell is
	// empty, paying the movement cost. Blocked moves cost nothing.
	OpMoveForwards

	// OpPhotosynthesis gains the configured photosynthesis energy.
	OpPhotosynthesis
	// OpGiveEnergy transfers up to Gene.Energy to an alive faced cell.
	OpGiveEnergy

	// OpAttackCell bites the faced cell: pays the attack entry cost and
	// takes up to the configured attack energy from an alive victim.
	OpAttackCell
	// OpRecycleDeadCell absorbs all residual energy from a dead faced cell
	// and frees its slot.
	OpRecycleDeadCell

	// OpCheckEnergy jumps to Branch if energy exceeds Gene.Energy,
	// otherwise to BranchAlt.
	OpCheckEnergy

	// OpCheckIfDirected* jump to Branch if the bot faces the named
	// direction, otherwise to BranchAlt.
	OpCheckIfDirectedLeft
	OpCheckIfDirectedRight
	OpCheckIfDirectedUp
	OpCheckIfDirectedDown

	// OpCheckIfFacing* test the state of the faced cell: alive, dead but
	// still occupied, or empty.
	OpCheckIfFacingAliveCell
	OpCheckIfFacingDeadCell
	OpCheckIfFacingVoid
	// OpCheckIfFacingRelative jumps to Branch only when the faced cell is
	// alive and every one of its genome opcodes matches ours positionally.
	// Option, energy and branch fields are ignored by the comparison.
	OpCheckIfFacingRelative

	// OpMakeChild reproduces into the faced cell, jumping to Branch on
	// success and BranchAlt on refusal.
	OpMakeChild

	numInstructions // keep last
)

var instructionNames = [...]string{
	OpNoop:                   "noop",
	OpTurnLeft:               "turn_left",
	OpTurnRight:              "turn_right",
	OpMoveForwards:           "move_forwards",
	OpPhotosynthesis:         "photosynthesis",
	OpGiveEnergy:             "give_energy",
	OpAttackCell:             "attack_cell",
	OpRecycleDeadCell:        "recycle_dead_cell",
	OpCheckEnergy:            "check_energy",
	OpCheckIfDirectedLeft:    "check_if_directed_left",
	OpCheckIfDirectedRight:   "check_if_directed_right",
	OpCheckIfDirectedUp:      "check_if_directed_up",
	OpCheckIfDirectedDown:    "check_if_directed_down",
	OpCheckIfFacingAliveCell: "check_if_facing_alive_cell",
	OpCheckIfFacingDeadCell:  "check_if_facing_dead_cell",
	OpCheckIfFacingVoid:      "check_if_facing_void",
	OpCheckIfFacingRelative:  "check_if_facing_relative",
	OpMakeChild:              "make_child",
}

// RandomInstruction picks an opcode uniformly over the full instruction set.
func RandomInstruction(rng *rand.Rand) Instruction {
	return Instruction(rng.Intn(int(numInstructions)))
}

func (i Instruction) String() string {
	if i < numInstructions {
		return instructionNames[i]
	}
	return fmt.Sprintf("instruction(%d)", i)
}

// MarshalText encodes the opcode as its snake_case name.
func (i Instruction) MarshalText() ([]byte, error) {
	if i >= numInstructions {
		return nil, fmt.Errorf("sim: invalid instruction %d", i)
	}
	return []byte(instructionNames[i]), nil
}

// UnmarshalText decodes an opcode from its snake_case name.
func (i *Instruction) UnmarshalText(text []byte) error {
	op, err := ParseInstruction(string(text))
	if err != nil {
		return err
	}
	*i = op
	return nil
}

// ParseInstruction resolves an opcode name to its Instruction value.
func ParseInstruction(name string) (Instruction, error) {
	for op, n := range instructionNames {
		if n == name {
			return Instruction(op), nil
		}
	}
	return 0, fmt.Errorf("sim: unknown instruction %q", name)
}

// Gene is one programmable instruction slot of a genome.
type Gene struct {
	Instruction Instruction `json:"instruction"`

	// Option flips the behavior of some instructions. Kept in the genome
	// and mutated like any other field even where the current instruction
	// set ignores it, so it can drift neutrally.
	Option bool `json:"option"`

	// Energy is the amount checked, given or otherwise consumed by
	// instructions that take an energy operand.
	Energy float32 `json:"energy"`

	// Branch and BranchAlt are instruction pointers used by the
	// conditional instructions, taken modulo GenomeLength on use.
	Branch    uint8 `json:"branch"`
	BranchAlt uint8 `json:"branch_alt"`
}

// Genome is the fixed-length program of a bot.
type Genome [GenomeLength]Gene

// RandomGene generates a gene from the genesis distribution: uniform opcode,
// fair-coin option, energy uniform over [0, 2*reproduction threshold), and
// uniform branch targets.
func RandomGene(p *Params, rng *rand.Rand) Gene {
	return Gene{
		Instruction: RandomInstruction(rng),
		Option:      rng.Intn(2) == 0,
		Energy:      rng.Float32() * p.ReproductionEnergy * 2,
		Branch:      uint8(rng.Intn(GenomeLength)),
		BranchAlt:   uint8(rng.Intn(GenomeLength)),
	}
}

// RandomGenome fills every slot from the genesis distribution.
func RandomGenome(p *Params, rng *rand.Rand) Genome {
	var genome Genome
	for i := range genome {
		genome[i] = RandomGene(p, rng)
	}
	return genome
}

// Mutate resamples one of the five gene fields, chosen uniformly, from the
// same distribution used at genesis.
func (g *Gene) Mutate(p *Params, rng *rand.Rand) {
	switch rng.Intn(5) {
	case 0:
		g.Instruction = RandomInstruction(rng)
	case 1:
		g.Option = rng.Intn(2) == 0
	case 2:
		g.Energy = rng.Float32() * p.ReproductionEnergy * 2
	case 3:
		g.Branch = uint8(rng.Intn(GenomeLength))
	case 4:
		g.BranchAlt = uint8(rng.Intn(GenomeLength))
	}
}
