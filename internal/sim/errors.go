package sim

import "fmt"

// ConfigError reports invalid construction input. Construction either
// succeeds completely or fails with one of these; there is no
// partially built simulation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// ScopeError reports a stage applied at the wrong scope, such as
// learning or competition invoked on a leaf group. It signals a caller
// bug, not a population state.
type ScopeError struct {
	Stage Stage
	Order int
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("%s requires a composite group, got order %d", e.Stage, e.Order)
}
