package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pohlkotter/multiselect/internal/sim"
)

func TestDefaultScenario(t *testing.T) {
	s := Default()
	if s.Name != "default" {
		t.Errorf("name = %q, want default", s.Name)
	}
	if s.Levels != 3 || !reflect.DeepEqual(s.GroupSizes, []int{4, 3, 3}) {
		t.Errorf("shape = %d levels %v, want 3 levels [4 3 3]", s.Levels, s.GroupSizes)
	}
	if s.Cooperators != 0.4 || s.Punishers != 0.2 {
		t.Errorf("roles = c=%v p=%v, want c=0.4 p=0.2", s.Cooperators, s.Punishers)
	}
	if s.Params() != sim.DefaultParameters() {
		t.Errorf("params = %+v, want the canonical defaults", s.Params())
	}
}

func TestBuiltinScenariosBuild(t *testing.T) {
	names := Names()
	if len(names) != 6 {
		t.Fatalf("builtin names = %v, want 6 presets", names)
	}
	for _, name := range names {
		s, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if s.Name != name {
			t.Errorf("Load(%q) returned scenario named %q", name, s.Name)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("builtin %q does not validate: %v", name, err)
		}
		if _, err := sim.New(s.Config(7)); err != nil {
			t.Errorf("builtin %q does not build: %v", name, err)
		}
	}
}

func TestBuiltinNoPunisherPresetsDisablePunishers(t *testing.T) {
	for _, name := range []string{"single-group-no-punishers", "multi-group-no-punishers"} {
		s, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if !s.DisablePunishers {
			t.Errorf("%q should disable punishers", name)
		}
		if s.Punishers != 0 {
			t.Errorf("%q has punisher ratio %v, want 0", name, s.Punishers)
		}
	}
}

func TestLoadBuiltinByName(t *testing.T) {
	s, err := Load("multi-group-many-punishers")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(s.GroupSizes, []int{20, 3, 3}) {
		t.Errorf("group sizes = %v, want [20 3 3]", s.GroupSizes)
	}
	if s.Punishers != 0.4 {
		t.Errorf("punisher ratio = %v, want 0.4", s.Punishers)
	}
}

func TestLoadEmptyNameGivesDefault(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "default" {
		t.Errorf("empty name loaded %q, want the default scenario", s.Name)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	content := `
name: custom
group_sizes: [8, 2, 2]
mutation_chance: 0.2
reset_payoffs: true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing scenario file: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "custom" {
		t.Errorf("name = %q, want custom", s.Name)
	}
	if !reflect.DeepEqual(s.GroupSizes, []int{8, 2, 2}) {
		t.Errorf("group sizes = %v, want [8 2 2]", s.GroupSizes)
	}
	if s.MutationChance != 0.2 {
		t.Errorf("mutation chance = %v, want 0.2", s.MutationChance)
	}
	if !s.ResetPayoffs {
		t.Errorf("reset_payoffs should be true")
	}
	// Untouched fields keep their defaults.
	if s.Levels != 3 {
		t.Errorf("levels = %d, want the default 3", s.Levels)
	}
	if s.ErrorRate != sim.DefaultParameters().ErrorRate {
		t.Errorf("error rate = %v, want the default", s.ErrorRate)
	}
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("group_sizes: [1, 2"), 0600); err != nil {
		t.Fatalf("writing scenario file: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Errorf("Load on broken YAML = %v, want a parsing error", err)
	}
}

func TestLoadFileRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	content := `
name: bad
levels: 2
group_sizes: [4, 3, 3]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing scenario file: %v", err)
	}
	_, err := Load(path)
	var cfgErr *sim.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Load on a level mismatch = %v, want a ConfigError", err)
	}
	if cfgErr.Field != "groupSizes" {
		t.Errorf("ConfigError field = %q, want groupSizes", cfgErr.Field)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("Load on a missing file should fail")
	}
}

func TestConfigDetachesGroupSizes(t *testing.T) {
	s := Default()
	cfg := s.Config(1)
	cfg.GroupSizes[0] = 99
	if s.GroupSizes[0] == 99 {
		t.Errorf("mutating the config's group sizes reached the scenario")
	}
}

func TestValidateRequiresName(t *testing.T) {
	s := Default()
	s.Name = ""
	if err := s.Validate(); err == nil {
		t.Errorf("nameless scenario should not validate")
	}
}
