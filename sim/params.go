package sim

// Params holds every tunable constant of the simulation. It is plain input
// data: each operation that needs a parameter receives a *Params explicitly,
// nothing in this package reads global state.
type Params struct {
	// Width and height of the simulation field, in cells.
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`

	// Chance, in percent, that a child has one gene mutated at birth.
	MutationPercent float64 `yaml:"mutation_percent" json:"mutation_percent"`

	// Energy a bot spawns with, whether seeded or born.
	StartEnergy float32 `yaml:"start_energy" json:"start_energy"`

	// Energy required to reproduce; the full amount is deducted on success.
	ReproductionEnergy float32 `yaml:"reproduction_energy" json:"reproduction_energy"`

	// Age at which a bot dies of old age.
	MaxAge uint32 `yaml:"max_age" json:"max_age"`

	// Energy gained from one photosynthesis instruction.
	PhotosynthesisEnergy float32 `yaml:"photosynthesis_energy" json:"photosynthesis_energy"`

	// Maximum energy taken from the victim by one attack.
	AttackEnergy float32 `yaml:"attack_energy" json:"attack_energy"`

	// Cost of moving one cell forward.
	MovementCost float32 `yaml:"movement_cost" json:"movement_cost"`

	// Flat upkeep paid by every bot on every executed instruction.
	NoopCost float32 `yaml:"noop_cost" json:"noop_cost"`

	// When set, photosynthesis gain scales with the cell's y coordinate
	// (y/height), so the bottom rows are the sunny ones.
	SunlightGradient bool `yaml:"sunlight_gradient" json:"sunlight_gradient"`
}

// TurnCost is the cost of turning left or right, always half the movement cost.
func (p *Params) TurnCost() float32 {
	return p.MovementCost / 2
}

// AttackEntryCost is the energy a bot must pay up front to bite another cell,
// always twice the movement cost.
func (p *Params) AttackEntryCost() float32 {
	return p.MovementCost * 2
}
