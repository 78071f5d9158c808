// Package genlang parses the textual genome format used for authoring bots
// by hand. Grammar is defined as Go structs with tags.
//
// One line programs one slot:
//
//	# harvester loop
//	0: photosynthesis
//	1: check_energy 20 -> 2, 0
//	2: make_child opt -> 0, 1
//
// Slots not named in the source stay noops. A branch line may give one or
// two targets; a missing second target falls through to the slot after the
// current one.
package genlang

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/pthm-cable/cellarium/sim"
)

// Program is the top-level AST node.
type Program struct {
	Lines []*Line `parser:"@@*"`
}

// Line programs a single genome slot.
type Line struct {
	Slot   int       `parser:"@Number ':'"`
	Op     string    `parser:"@Ident"`
	Option bool      `parser:"@'opt'?"`
	Energy *float64  `parser:"@Number?"`
	Jump   *Branches `parser:"('->' @@)?"`
}

// Branches holds the branch targets of a conditional line.
type Branches struct {
	Branch    int  `parser:"@Number"`
	BranchAlt *int `parser:"(',' @Number)?"`
}

var genomeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "Comment", Pattern: `#[^\n]*`},

	{Name: "Arrow", Pattern: `->`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Punct", Pattern: `[:,]`},

	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})

// Parser is the genome source parser.
var Parser = participle.MustBuild[Program](
	participle.Lexer(genomeLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Parse parses genome source into its AST.
func Parse(source string) (*Program, error) {
	return Parser.ParseString("", source)
}

// Compile parses genome source and lowers it to a genome. Unprogrammed
// slots are zeroed (noop). Errors name the offending slot.
func Compile(source string) (sim.Genome, error) {
	var genome sim.Genome

	program, err := Parse(source)
	if err != nil {
		return genome, fmt.Errorf("genlang: %w", err)
	}

	seen := make(map[int]bool, len(program.Lines))
	for _, line := range program.Lines {
		if line.Slot < 0 || line.Slot >= sim.GenomeLength {
			return genome, fmt.Errorf("genlang: slot %d outside genome [0,%d)", line.Slot, sim.GenomeLength)
		}
		if seen[line.Slot] {
			return genome, fmt.Errorf("genlang: slot %d programmed twice", line.Slot)
		}
		seen[line.Slot] = true

		op, err := sim.ParseInstruction(line.Op)
		if err != nil {
			return genome, fmt.Errorf("genlang: slot %d: %w", line.Slot, err)
		}

		gene := sim.Gene{Instruction: op, Option: line.Option}

		if line.Energy != nil {
			if *line.Energy < 0 {
				return genome, fmt.Errorf("genlang: slot %d: negative energy operand", line.Slot)
			}
			gene.Energy = float32(*line.Energy)
		}

		if line.Jump != nil {
			branch := line.Jump.Branch
			// Fall through to the next slot when only one target is given.
			alt := (line.Slot + 1) % sim.GenomeLength
			if line.Jump.BranchAlt != nil {
				alt = *line.Jump.BranchAlt
			}
			if branch < 0 || branch >= sim.GenomeLength || alt < 0 || alt >= sim.GenomeLength {
				return genome, fmt.Errorf("genlang: slot %d: branch target outside genome [0,%d)", line.Slot, sim.GenomeLength)
			}
			gene.Branch = uint8(branch)
			gene.BranchAlt = uint8(alt)
		}

		genome[line.Slot] = gene
	}

	return genome, nil
}
