package sim

import (
	"math"
	"testing"
)

// scriptSource replays a fixed sequence of draws so a test can pin
// every stochastic decision of a stage. Consuming more draws than
// scripted fails the test, so the script length doubles as an
// assertion on how much randomness a stage uses.
type scriptSource struct {
	t      *testing.T
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptSource) Float64() float64 {
	s.t.Helper()
	if s.fi >= len(s.floats) {
		s.t.Fatalf("float draw %d requested, only %d scripted", s.fi+1, len(s.floats))
	}
	v := s.floats[s.fi]
	s.fi++
	return v
}

func (s *scriptSource) Intn(n int) int {
	s.t.Helper()
	if s.ii >= len(s.ints) {
		s.t.Fatalf("int draw %d requested, only %d scripted", s.ii+1, len(s.ints))
	}
	v := s.ints[s.ii]
	s.ii++
	if v < 0 || v >= n {
		s.t.Fatalf("scripted int %d out of range for Intn(%d)", v, n)
	}
	return v
}

// drained asserts the script was fully consumed.
func (s *scriptSource) drained() {
	s.t.Helper()
	if s.fi != len(s.floats) || s.ii != len(s.ints) {
		s.t.Errorf("script not fully consumed: %d/%d floats, %d/%d ints",
			s.fi, len(s.floats), s.ii, len(s.ints))
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
