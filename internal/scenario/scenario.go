// Package scenario provides named simulation setups. A scenario bundles
// the population shape, the initial role mix and the rule parameters,
// and can be loaded from a built-in preset or a YAML file.
package scenario

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/pohlkotter/multiselect/internal/sim"
)

// Scenario describes one complete simulation setup.
type Scenario struct {
	Name string `yaml:"name"`

	// Levels is the hierarchy depth; GroupSizes is innermost-first and
	// must carry one size per level.
	Levels     int   `yaml:"levels"`
	GroupSizes []int `yaml:"group_sizes"`

	// Initial role ratios. Defectors fill the remainder.
	Cooperators float64 `yaml:"cooperators"`
	Punishers   float64 `yaml:"punishers"`

	ErrorRate         float64 `yaml:"error_rate"`
	CooperationCost   float64 `yaml:"cooperation_cost"`
	PunishmentPenalty float64 `yaml:"punishment_penalty"`
	PunisherCost      float64 `yaml:"punisher_cost"`
	MigrationChance   float64 `yaml:"migration_chance"`
	CompetitionChance float64 `yaml:"competition_chance"`
	MutationChance    float64 `yaml:"mutation_chance"`
	ResetPayoffs      bool    `yaml:"reset_payoffs"`
	DisablePunishers  bool    `yaml:"disable_punishers"`
}

// Default returns the default scenario: a small three-level hierarchy
// with all roles in play and the canonical parameters.
func Default() *Scenario {
	s := &Scenario{
		Name:        "default",
		Levels:      3,
		GroupSizes:  []int{4, 3, 3},
		Cooperators: 0.4,
		Punishers:   0.2,
	}
	s.applyParams(sim.DefaultParameters())
	return s
}

func (s *Scenario) applyParams(p sim.ParameterSet) {
	s.ErrorRate = p.ErrorRate
	s.CooperationCost = p.CooperationCost
	s.PunishmentPenalty = p.PunishmentPenalty
	s.PunisherCost = p.PunisherCost
	s.MigrationChance = p.MigrationChance
	s.CompetitionChance = p.CompetitionChance
	s.MutationChance = p.MutationChance
	s.ResetPayoffs = p.ResetPayoffs
	s.DisablePunishers = p.DisablePunishers
}

// Params assembles the rule parameters of the scenario.
func (s *Scenario) Params() sim.ParameterSet {
	return sim.ParameterSet{
		ErrorRate:         s.ErrorRate,
		CooperationCost:   s.CooperationCost,
		PunishmentPenalty: s.PunishmentPenalty,
		PunisherCost:      s.PunisherCost,
		MigrationChance:   s.MigrationChance,
		CompetitionChance: s.CompetitionChance,
		MutationChance:    s.MutationChance,
		ResetPayoffs:      s.ResetPayoffs,
		DisablePunishers:  s.DisablePunishers,
	}
}

// Config turns the scenario into a simulation config for one seed.
func (s *Scenario) Config(seed int64) sim.Config {
	return sim.Config{
		Levels:     s.Levels,
		GroupSizes: append([]int(nil), s.GroupSizes...),
		Roles:      sim.RoleDistribution{Cooperator: s.Cooperators, Punisher: s.Punishers},
		Params:     s.Params(),
		Seed:       seed,
	}
}

// Validate checks the scenario the same way the engine would.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if err := s.Config(0).Validate(); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return nil
}

// builtins mirror the presets of the original study setups: lone
// groups and group hierarchies, with and without punishers.
func builtins() map[string]*Scenario {
	m := map[string]*Scenario{}
	add := func(s *Scenario) { m[s.Name] = s }

	add(Default())

	s := Default()
	s.Name = "single-group-no-punishers"
	s.GroupSizes = []int{6, 1, 1}
	s.Cooperators = 0.5
	s.Punishers = 0
	s.DisablePunishers = true
	add(s)

	s = Default()
	s.Name = "multi-group-no-punishers"
	s.GroupSizes = []int{50, 1, 6}
	s.Cooperators = 0.5
	s.Punishers = 0
	s.DisablePunishers = true
	add(s)

	s = Default()
	s.Name = "single-group-few-punishers"
	s.GroupSizes = []int{50, 1, 1}
	s.Cooperators = 0.4
	s.Punishers = 0.1
	add(s)

	s = Default()
	s.Name = "single-group-many-punishers"
	s.GroupSizes = []int{50, 1, 1}
	s.Cooperators = 0.4
	s.Punishers = 0.4
	add(s)

	s = Default()
	s.Name = "multi-group-many-punishers"
	s.GroupSizes = []int{20, 3, 3}
	s.Cooperators = 0.4
	s.Punishers = 0.4
	add(s)

	return m
}

// Names lists the built-in scenario names, sorted.
func Names() []string {
	m := builtins()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load resolves nameOrPath as a built-in scenario first and as a YAML
// file path second. File values overlay the default scenario, so a
// file only needs the fields it changes.
func Load(nameOrPath string) (*Scenario, error) {
	if nameOrPath == "" {
		return Default(), nil
	}
	if s, ok := builtins()[nameOrPath]; ok {
		return s, nil
	}
	return LoadFile(nameOrPath)
}

// LoadFile reads a scenario from a YAML file, overlaying the defaults.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
