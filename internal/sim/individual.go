package sim

import "fmt"

// Role is the heritable strategy of an individual.
type Role int

const (
	RoleCooperator Role = iota
	RolePunisher
	RoleDefector
)

func (r Role) String() string {
	switch r {
	case RoleCooperator:
		return "cooperator"
	case RolePunisher:
		return "punisher"
	case RoleDefector:
		return "defector"
	}
	return "unknown"
}

// Letter returns the single-letter tag used in logs and reports.
func (r Role) Letter() string {
	switch r {
	case RoleCooperator:
		return "C"
	case RolePunisher:
		return "P"
	case RoleDefector:
		return "D"
	}
	return "?"
}

// IsCooperative reports whether the role intends to cooperate.
// Punishers cooperate like cooperators and additionally punish.
func (r Role) IsCooperative() bool {
	return r == RoleCooperator || r == RolePunisher
}

// Roles lists all roles in canonical order.
func Roles() []Role {
	return []Role{RoleCooperator, RolePunisher, RoleDefector}
}

// Decision is an individual's cooperation choice for the current turn.
// Distinct from Role: cooperative roles can fail to cooperate through
// the error rate, and the choice is redrawn every turn.
type Decision int

const (
	DecisionPending Decision = iota
	DecisionCooperate
	DecisionDefect
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionCooperate:
		return "cooperate"
	case DecisionDefect:
		return "defect"
	}
	return "unknown"
}

// Cooperated reports whether the decision was an actual act of
// cooperation. Pending counts as no.
func (d Decision) Cooperated() bool {
	return d == DecisionCooperate
}

// Individual is a single agent. Payoff stays in [0,1]; every write
// clamps. An individual belongs to exactly one leaf group.
type Individual struct {
	role     Role
	payoff   float64 // 0-1, accumulated game payoff
	decision Decision
}

// NewIndividual creates an individual with the baseline payoff of 1.0
// and no cooperation decision yet.
func NewIndividual(role Role) *Individual {
	return &Individual{role: role, payoff: 1.0, decision: DecisionPending}
}

func (in *Individual) Role() Role         { return in.role }
func (in *Individual) Payoff() float64    { return in.payoff }
func (in *Individual) Decision() Decision { return in.decision }

// clone returns a fresh individual carrying the same state. Competition
// replacement uses clones so winner and loser never share instances.
func (in *Individual) clone() *Individual {
	c := *in
	return &c
}

func (in *Individual) String() string {
	return fmt.Sprintf("%s payoff=%.3f %s", in.role.Letter(), in.payoff, in.decision)
}
