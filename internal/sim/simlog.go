package sim

import (
	"fmt"
	"strings"
)

// SimLogEntry is one structured telemetry record. Value is the
// human-readable form; NumVal carries the numeric value where one
// applies.
type SimLogEntry struct {
	Turn     int
	Stage    string
	Subject  string
	Category string
	Key      string
	Value    string
	NumVal   float64
}

func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-11s %-8s %-20s %s", e.Turn, e.Stage, e.Category, e.Key, e.Value)
}

// SimLog records engine telemetry turn by turn. The orchestrator
// writes a count line per stage and aggregate lines per turn; verbose
// mode adds per-individual state lines. The log grows unbounded.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

func NewSimLog() *SimLog { return &SimLog{} }

// SetVerbose enables AddVerbose entries.
func (l *SimLog) SetVerbose(v bool) { l.verbose = v }

func (l *SimLog) Verbose() bool { return l.verbose }

// Add appends one entry.
func (l *SimLog) Add(turn int, stage, subject, category, key, value string, numVal float64) {
	l.entries = append(l.entries, SimLogEntry{
		Turn: turn, Stage: stage, Subject: subject,
		Category: category, Key: key, Value: value, NumVal: numVal,
	})
}

// AddVerbose appends one entry only when verbose logging is on.
func (l *SimLog) AddVerbose(turn int, stage, subject, category, key, value string, numVal float64) {
	if !l.verbose {
		return
	}
	l.Add(turn, stage, subject, category, key, value, numVal)
}

// Entries returns the full log in write order.
func (l *SimLog) Entries() []SimLogEntry { return l.entries }

func (l *SimLog) Len() int { return len(l.entries) }

// Filter returns the entries of one category.
func (l *SimLog) Filter(category string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range l.entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// FilterSubject returns the entries about one subject.
func (l *SimLog) FilterSubject(subject string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range l.entries {
		if e.Subject == subject {
			out = append(out, e)
		}
	}
	return out
}

// FilterTurnRange returns the entries with from <= turn <= to.
func (l *SimLog) FilterTurnRange(from, to int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range l.entries {
		if e.Turn >= from && e.Turn <= to {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory counts the entries of one category.
func (l *SimLog) CountCategory(category string) int {
	n := 0
	for _, e := range l.entries {
		if e.Category == category {
			n++
		}
	}
	return n
}

// LastOf returns the most recent entry for a subject and key.
func (l *SimLog) LastOf(subject, key string) (SimLogEntry, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Subject == subject && l.entries[i].Key == key {
			return l.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry reports whether any entry matches subject and category and
// contains valueSubstr in its value.
func (l *SimLog) HasEntry(subject, category, valueSubstr string) bool {
	for _, e := range l.entries {
		if e.Subject == subject && e.Category == category && strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Format renders the whole log, one line per entry.
func (l *SimLog) Format() string {
	var b strings.Builder
	for _, e := range l.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
