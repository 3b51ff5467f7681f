package sim

import "fmt"

// ParameterSet holds the rule constants of the game, fixed for the
// lifetime of a simulation.
type ParameterSet struct {
	ErrorRate         float64 // 0-1, chance a cooperative role fails to cooperate
	CooperationCost   float64 // payoff cost of one act of cooperation
	PunishmentPenalty float64 // payoff drained from a defector, split over the leaf's defectors
	PunisherCost      float64 // cost a punisher pays per defector, split the same way
	MigrationChance   float64 // 0-1, chance a learner samples a sibling group instead of its own
	CompetitionChance float64 // 0-1, chance a group enters a contest each turn
	MutationChance    float64 // 0-1, per-individual chance of a role flip each turn
	ResetPayoffs      bool    // restore every payoff to 1.0 at turn start
	DisablePunishers  bool    // exclude the punisher role from play entirely
}

// DefaultParameters returns the canonical rule constants.
func DefaultParameters() ParameterSet {
	return ParameterSet{
		ErrorRate:         0.05,
		CooperationCost:   0.2,
		PunishmentPenalty: 0.8,
		PunisherCost:      0.2,
		MigrationChance:   0.01,
		CompetitionChance: 0.1,
		MutationChance:    0.05,
	}
}

// Validate checks that probabilities lie in [0,1] and costs are not
// negative.
func (p ParameterSet) Validate() error {
	probs := []struct {
		name  string
		value float64
	}{
		{"errorRate", p.ErrorRate},
		{"migrationChance", p.MigrationChance},
		{"competitionChance", p.CompetitionChance},
		{"mutationChance", p.MutationChance},
	}
	for _, pr := range probs {
		if pr.value < 0 || pr.value > 1 {
			return &ConfigError{Field: pr.name, Reason: fmt.Sprintf("must be in [0,1], got %v", pr.value)}
		}
	}
	costs := []struct {
		name  string
		value float64
	}{
		{"cooperationCost", p.CooperationCost},
		{"punishmentPenalty", p.PunishmentPenalty},
		{"punisherCost", p.PunisherCost},
	}
	for _, c := range costs {
		if c.value < 0 {
			return &ConfigError{Field: c.name, Reason: fmt.Sprintf("must not be negative, got %v", c.value)}
		}
	}
	return nil
}

// RoleDistribution sets the initial role ratios. Defectors fill the
// remainder.
type RoleDistribution struct {
	Cooperator float64 // 0-1
	Punisher   float64 // 0-1
}

func (d RoleDistribution) Validate() error {
	if d.Cooperator < 0 || d.Cooperator > 1 {
		return &ConfigError{Field: "roles.cooperator", Reason: fmt.Sprintf("must be in [0,1], got %v", d.Cooperator)}
	}
	if d.Punisher < 0 || d.Punisher > 1 {
		return &ConfigError{Field: "roles.punisher", Reason: fmt.Sprintf("must be in [0,1], got %v", d.Punisher)}
	}
	if d.Cooperator+d.Punisher > 1 {
		return &ConfigError{Field: "roles", Reason: fmt.Sprintf("cooperator+punisher must not exceed 1, got %v", d.Cooperator+d.Punisher)}
	}
	return nil
}

// Config describes a population to build.
type Config struct {
	// Levels is the depth of the hierarchy; 1 means a single leaf
	// group and no group competition or migration.
	Levels int
	// GroupSizes is innermost-first: GroupSizes[0] is individuals per
	// leaf, GroupSizes[i] is children per order-(i+1) group. Its
	// length must equal Levels.
	GroupSizes []int
	Roles      RoleDistribution
	Params     ParameterSet
	Seed       int64
}

func (c Config) Validate() error {
	if c.Levels < 1 {
		return &ConfigError{Field: "levels", Reason: fmt.Sprintf("must be at least 1, got %d", c.Levels)}
	}
	if len(c.GroupSizes) != c.Levels {
		return &ConfigError{Field: "groupSizes", Reason: fmt.Sprintf("need one size per level, got %d sizes for %d levels", len(c.GroupSizes), c.Levels)}
	}
	for i, size := range c.GroupSizes {
		if size < 1 {
			return &ConfigError{Field: "groupSizes", Reason: fmt.Sprintf("size at level %d must be at least 1, got %d", i+1, size)}
		}
	}
	if err := c.Roles.Validate(); err != nil {
		return err
	}
	if c.Params.DisablePunishers && c.Roles.Punisher > 0 {
		return &ConfigError{Field: "roles.punisher", Reason: "punishers are disabled but the punisher ratio is positive"}
	}
	return c.Params.Validate()
}
