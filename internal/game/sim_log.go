package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded match event.
type SimLogEntry struct {
	Tick     int
	Unit     string  // label e.g. "A3", "E7", or "--" for match-wide events
	Side     string  // "ally", "enemy", or "--"
	Category string  // spawn, death, despawn, target, base, match
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] A3   base      siege            lane=0
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Unit, e.Category, e.Key, e.Value)
}

// SimLog collects structured match events. It is unbounded and machine-readable;
// on-screen hosts keep their own ring buffers.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick target entries are
// also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, unit, side, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Unit:     unit,
		Side:     side,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, unit, side, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, unit, side, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Len returns the number of recorded entries.
func (sl *SimLog) Len() int {
	return len(sl.entries)
}

// Since returns the entries recorded after the first n.
func (sl *SimLog) Since(n int) []SimLogEntry {
	if n >= len(sl.entries) {
		return nil
	}
	return sl.entries[max(0, n):]
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterUnit returns entries for a specific unit label.
func (sl *SimLog) FilterUnit(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Unit == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// CountSide returns how many entries of a category belong to one side.
func (sl *SimLog) CountSide(category string, side Side) int {
	n := 0
	for _, e := range sl.entries {
		if e.Category == category && e.Side == side.String() {
			n++
		}
	}
	return n
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of a match state.
func (sl *SimLog) Summary(tick int, s MatchState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d (%.1fs/%.0fs) ---\n", tick, s.TimeSec, s.MaxSec)
	fmt.Fprintf(&sb, "Bases: ally=%.1f  enemy=%.1f\n", s.BaseAlly, s.BaseEnemy)
	fmt.Fprintf(&sb, "Score: ally=%.0f  enemy=%.0f\n", s.ScoreAlly, s.ScoreEnemy)

	for lane := 0; lane < s.Lanes(); lane++ {
		ally, enemy, sieging := 0, 0, 0
		for _, u := range s.Units {
			if u.Lane != lane {
				continue
			}
			if u.Side == SideAlly {
				ally++
			} else {
				enemy++
			}
			if u.AttackingBase {
				sieging++
			}
		}
		fmt.Fprintf(&sb, "Lane %d: ally=%d  enemy=%d  sieging=%d\n", lane, ally, enemy, sieging)
	}

	fmt.Fprintf(&sb, "Spawned: ally=%d  enemy=%d  Killed: ally=%d  enemy=%d\n",
		sl.CountSide("spawn", SideAlly), sl.CountSide("spawn", SideEnemy),
		sl.CountSide("death", SideAlly), sl.CountSide("death", SideEnemy))
	if s.Ended {
		fmt.Fprintf(&sb, "Ended: winner=%s\n", s.Winner)
	}
	return sb.String()
}
